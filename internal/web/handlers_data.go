package web

// This file contains the read-only JSON API.

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/OrderTrack/internal/core"
)

// orderJSON is an order with its derived progress and timeline.
type orderJSON struct {
	core.Order
	Progress int                  `json:"progress"`
	Timeline []core.TimelineEntry `json:"timeline,omitempty"`
}

func toOrderJSON(o core.Order, withTimeline bool) orderJSON {
	out := orderJSON{Order: o, Progress: o.Progress()}
	if withTimeline {
		out.Timeline = o.Timeline()
	}
	return out
}

// ordersResponse is one page of the engine output.
type ordersResponse struct {
	Orders     []orderJSON `json:"orders"`
	Total      int         `json:"total"`
	TotalPages int         `json:"totalPages"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	KPIs       core.KPIs   `json:"kpis"`
	Share      string      `json:"share"`
	Checked    []string    `json:"checked"`
}

// handleListOrders returns a page of orders plus KPIs. Criteria come from
// the query string, or from the session when there is none.
func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	c, ok := s.requestCriteria(r)
	if !ok {
		c = sess.Criteria()
	}

	view := s.service.View(c)
	rows := make([]orderJSON, len(view.Result.Rows))
	for i, o := range view.Result.Rows {
		rows[i] = toOrderJSON(o, false)
	}

	writeJSON(w, http.StatusOK, ordersResponse{
		Orders:     rows,
		Total:      view.Result.Total,
		TotalPages: view.Result.TotalPages,
		Page:       view.Result.Page,
		PageSize:   view.Result.PageSize,
		KPIs:       view.KPIs,
		Share:      s.service.ShareQuery(c),
		Checked:    sess.Checked(),
	})
}

// handleGetOrder returns one order with its timeline.
func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.service.Order(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderJSON(order, true))
}

// handleWarehouses lists the distinct warehouses.
func (s *Server) handleWarehouses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"warehouses": s.service.Warehouses()})
}

// handleShare returns the shareable link for the query's criteria, or the
// session's when there is no query.
func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	c, ok := s.requestCriteria(r)
	if !ok {
		c = sessionFrom(r.Context()).Criteria()
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"url":   s.service.ShareURL(c),
		"query": s.service.ShareQuery(c),
	})
}

// handleDownloadFile is the document download stub. Only metadata is kept,
// so a known document answers 501.
func (s *Server) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	order, err := s.service.Order(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	name := chi.URLParam(r, "name")
	for _, f := range order.Files {
		if f.Name == name {
			respondErrorJSON(w, core.UserMessage{
				Message: "Document downloads are not available yet",
				Action:  "Ask the warehouse team for " + name,
				Code:    "FILE004",
			}, http.StatusNotImplemented)
			return
		}
	}
	respondErrorJSON(w, core.UserMessage{
		Message: "Document not found",
		Action:  "Check the order's documents tab",
		Code:    "FILE005",
	}, http.StatusNotFound)
}
