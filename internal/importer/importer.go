// Package importer reads orders from an uploaded spreadsheet.
package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"ordertrack/internal/domain"
	apperrors "ordertrack/internal/errors"
	"ordertrack/internal/priority"
)

const (
	colCode     = "code"
	colClient   = "client"
	colPhone    = "phone"
	colPrice    = "price"
	colStatus   = "status"
	colComment  = "comment"
	colPriority = "priority"
)

var headerAliases = map[string]string{
	"code":      colCode,
	"reference": colCode,
	"client":    colClient,
	"customer":  colClient,
	"name":      colClient,
	"phone":     colPhone,
	"telephone": colPhone,
	"price":     colPrice,
	"amount":    colPrice,
	"status":    colStatus,
	"comment":   colComment,
	"note":      colComment,
	"priority":  colPriority,
}

// Parse reads the first sheet. The first row names the columns, matched
// without regard to case; blank rows are skipped. A priority column, as
// written by the export, is folded back into the comment.
func Parse(r io.Reader) ([]domain.NewOrderInput, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewCapabilityUnavailableError("import", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewValidationError("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewCapabilityUnavailableError("import", err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewValidationError("spreadsheet is empty")
	}

	columns := mapHeader(rows[0])
	if _, ok := columns[colCode]; !ok {
		return nil, apperrors.NewValidationError("missing column", apperrors.ValidationDetail{
			Field:   colCode,
			Message: "header row has no code column",
		})
	}

	var (
		inputs  []domain.NewOrderInput
		details []apperrors.ValidationDetail
	)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		line := i + 2
		in, rowDetails := parseRow(row, columns, line)
		details = append(details, rowDetails...)
		inputs = append(inputs, in)
	}

	if len(details) > 0 {
		return nil, apperrors.NewValidationError("import validation failed", details...)
	}
	return inputs, nil
}

func mapHeader(header []string) map[string]int {
	columns := make(map[string]int)
	for i, name := range header {
		key, ok := headerAliases[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			continue
		}
		if _, seen := columns[key]; !seen {
			columns[key] = i
		}
	}
	return columns
}

func parseRow(row []string, columns map[string]int, line int) (domain.NewOrderInput, []apperrors.ValidationDetail) {
	cell := func(key string) string {
		i, ok := columns[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	field := func(key string) string {
		return fmt.Sprintf("row %d.%s", line, key)
	}

	var details []apperrors.ValidationDetail
	in := domain.NewOrderInput{
		Code:    cell(colCode),
		Client:  cell(colClient),
		Phone:   cell(colPhone),
		Comment: cell(colComment),
	}

	if raw := cell(colPrice); raw != "" {
		price, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
		if err != nil {
			details = append(details, apperrors.ValidationDetail{Field: field(colPrice), Message: "price is not a number"})
		} else {
			in.Price = &price
		}
	}

	if raw := cell(colStatus); raw != "" {
		status, ok := domain.ParseStatus(raw)
		if !ok {
			details = append(details, apperrors.ValidationDetail{Field: field(colStatus), Message: "unknown status " + raw})
		} else {
			in.Status = status
		}
	}

	if raw := cell(colPriority); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || !priority.Valid(p) {
			details = append(details, apperrors.ValidationDetail{Field: field(colPriority), Message: "priority must be between 1 and 7"})
		} else {
			in.Comment = priority.Encode(p, in.Comment)
		}
	}

	return in, details
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
