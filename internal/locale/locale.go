// Package locale picks the display language for user-facing notices.
package locale

import (
	"golang.org/x/text/language"
)

const (
	KeyScanSuccess       = "scan.success"
	KeyScanNotFound      = "scan.not_found"
	KeyScanDuplicate     = "scan.duplicate"
	KeyOrderNotFound     = "error.order_not_found"
	KeyValidationFailed  = "error.validation"
	KeyCapabilityMissing = "error.capability_unavailable"
	KeyConflict          = "error.conflict"
	KeyInternal          = "error.internal"
	KeyImportDone        = "import.done"
	KeyOrdersCleared     = "orders.cleared"
	KeyCommentSaved      = "comment.saved"
	KeyGestureSuppressed = "gesture.suppressed"
)

var supported = []language.Tag{
	language.English,
	language.French,
	language.Arabic,
}

var matcher = language.NewMatcher(supported)

var tables = map[language.Tag]map[string]string{
	language.English: {
		KeyScanSuccess:       "Order found and marked as scanned",
		KeyScanNotFound:      "No order matches this code",
		KeyScanDuplicate:     "This order was already scanned",
		KeyOrderNotFound:     "Order not found",
		KeyValidationFailed:  "Please check the highlighted fields",
		KeyCapabilityMissing: "This feature is not available right now",
		KeyConflict:          "This action is not possible at the moment",
		KeyInternal:          "Something went wrong",
		KeyImportDone:        "Orders imported",
		KeyOrdersCleared:     "All orders were removed",
		KeyCommentSaved:      "Comment saved",
		KeyGestureSuppressed: "Finish editing before zooming or moving the table",
	},
	language.French: {
		KeyScanSuccess:       "Commande trouvée et marquée comme scannée",
		KeyScanNotFound:      "Aucune commande ne correspond à ce code",
		KeyScanDuplicate:     "Cette commande a déjà été scannée",
		KeyOrderNotFound:     "Commande introuvable",
		KeyValidationFailed:  "Veuillez vérifier les champs signalés",
		KeyCapabilityMissing: "Cette fonction n'est pas disponible pour le moment",
		KeyConflict:          "Cette action n'est pas possible pour le moment",
		KeyInternal:          "Une erreur est survenue",
		KeyImportDone:        "Commandes importées",
		KeyOrdersCleared:     "Toutes les commandes ont été supprimées",
		KeyCommentSaved:      "Commentaire enregistré",
		KeyGestureSuppressed: "Terminez la saisie avant de zoomer ou de déplacer le tableau",
	},
	language.Arabic: {
		KeyScanSuccess:       "تم العثور على الطلب وتعليمه كممسوح",
		KeyScanNotFound:      "لا يوجد طلب يطابق هذا الرمز",
		KeyScanDuplicate:     "تم مسح هذا الطلب من قبل",
		KeyOrderNotFound:     "الطلب غير موجود",
		KeyValidationFailed:  "يرجى التحقق من الحقول المحددة",
		KeyCapabilityMissing: "هذه الميزة غير متوفرة حاليا",
		KeyConflict:          "لا يمكن تنفيذ هذا الإجراء حاليا",
		KeyInternal:          "حدث خطأ ما",
		KeyImportDone:        "تم استيراد الطلبات",
		KeyOrdersCleared:     "تم حذف جميع الطلبات",
		KeyCommentSaved:      "تم حفظ التعليق",
		KeyGestureSuppressed: "أنهِ التحرير قبل التكبير أو تحريك الجدول",
	},
}

type Translator struct {
	tag   language.Tag
	table map[string]string
}

// Negotiate picks the best supported language. An explicit lang value wins
// over the Accept-Language header; English is the fallback.
func Negotiate(lang, acceptLanguage string) *Translator {
	var wanted []language.Tag
	if lang != "" {
		if t, err := language.Parse(lang); err == nil {
			wanted = append(wanted, t)
		}
	}
	if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil {
		wanted = append(wanted, tags...)
	}

	_, idx, conf := matcher.Match(wanted...)
	tag := supported[0]
	if conf != language.No {
		tag = supported[idx]
	}
	return &Translator{tag: tag, table: tables[tag]}
}

func (t *Translator) Language() string {
	return t.tag.String()
}

// Translate falls back to English, then to the key itself.
func (t *Translator) Translate(key string) string {
	if s, ok := t.table[key]; ok {
		return s
	}
	if s, ok := tables[language.English][key]; ok {
		return s
	}
	return key
}

func (t *Translator) IsRightToLeft() bool {
	return t.tag == language.Arabic
}
