package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	commentctrl "ordertrack/internal/comment/controller"
	"ordertrack/internal/order"
	reorderctrl "ordertrack/internal/reorder/controller"
	"ordertrack/internal/session"
	settingsctrl "ordertrack/internal/settings/controller"
	viewportctrl "ordertrack/internal/viewport/controller"
)

type RouterConfig struct {
	AllowedOrigins []string
}

func NewRouter(
	sess *session.Session,
	orders *order.Controllers,
	commission settingsctrl.CommissionStore,
	cfg RouterConfig,
	logger *zap.Logger,
) http.Handler {
	comments := commentctrl.NewCommentController(sess, logger)
	viewports := viewportctrl.NewViewportController(sess, logger)
	rows := reorderctrl.NewRowController(sess, logger)
	settings := settingsctrl.NewSettingsController(sess, commission, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Accept-Language"},
	}).Handler)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orders.Orders.Create)
			r.Get("/", orders.Orders.List)
			r.Delete("/", orders.Orders.Clear)
			r.Post("/import", orders.Documents.Import)
			r.Get("/export", orders.Documents.Export)
			r.Get("/invoice", orders.Documents.Invoice)
			r.Get("/{id}", orders.Orders.Get)
			r.Patch("/{id}", orders.Orders.Update)
			r.Put("/{id}/status", orders.Statuses.Apply)
		})

		r.Get("/statuses", orders.Statuses.Statuses)
		r.Get("/statuses/{status}/transitions", orders.Statuses.Transitions)
		r.Get("/summary", orders.Orders.Summary)
		r.Post("/scan", orders.Scan.Scan)

		r.Get("/settings/commission", settings.GetCommission)
		r.Put("/settings/commission", settings.PutCommission)

		r.Route("/comments", func(r chi.Router) {
			r.Get("/editor", comments.State)
			r.Put("/editor/buffer", comments.Buffer)
			r.Post("/editor/priority", comments.TogglePriority)
			r.Post("/editor/save", comments.Save)
			r.Post("/editor/blur", comments.Blur)
			r.Post("/editor/cancel", comments.Cancel)
			r.Post("/{id}/edit", comments.Begin)
			r.Post("/{id}/priority", comments.SetPriority)
		})

		r.Route("/viewports/{name}", func(r chi.Router) {
			r.Get("/", viewports.State)
			r.Post("/zoom", viewports.Zoom)
			r.Post("/wheel", viewports.Wheel)
			r.Post("/pinch/start", viewports.PinchStart)
			r.Post("/pinch/move", viewports.PinchMove)
			r.Post("/pinch/end", viewports.PinchEnd)
			r.Post("/pan/start", viewports.PanStart)
			r.Post("/pan/move", viewports.PanMove)
			r.Post("/pan/end", viewports.PanEnd)
			r.Post("/reset", viewports.Reset)
			r.Post("/fit", viewports.Fit)
		})
		r.Put("/grid/resize", viewports.Resize)

		r.Route("/rows", func(r chi.Router) {
			r.Get("/drag", rows.Drag)
			r.Post("/pointer/down", rows.PointerDown)
			r.Post("/pointer/move", rows.PointerMove)
			r.Post("/pointer/up", rows.PointerUp)
			r.Post("/pointer/cancel", rows.PointerCancel)
		})
	})

	return r
}
