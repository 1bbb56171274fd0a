package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/OrderTrack/internal/logging"
	"github.com/JonMunkholm/OrderTrack/internal/web/templates"
)

// handleDashboard renders the order list for the session's criteria, or for
// the criteria in the query string when there is one.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	view := s.service.View(s.sessionCriteria(r, sess))

	checked := make(map[string]bool)
	for _, id := range sess.Checked() {
		checked[id] = true
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := templates.Dashboard(templates.DashboardPage{
		View:     view,
		Defaults: s.service.DefaultCriteria(),
		Role:     sess.Role(),
		Checked:  checked,
		Location: s.service.Location(),
		Layout:   s.service.Layout(),
	}).Render(r.Context(), w)
	if err != nil {
		logging.FromContext(r.Context()).Error("render dashboard", "error", err)
	}
}

// handleOrderDetail renders one order's detail page.
func (s *Server) handleOrderDetail(w http.ResponseWriter, r *http.Request) {
	order, err := s.service.Order(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = templates.OrderDetail(templates.DetailPage{
		Order:    order,
		Tab:      templates.ParseTab(r.URL.Query().Get("tab")),
		Location: s.service.Location(),
		Layout:   s.service.Layout(),
	}).Render(r.Context(), w)
	if err != nil {
		logging.FromContext(r.Context()).Error("render order detail", "error", err)
	}
}
