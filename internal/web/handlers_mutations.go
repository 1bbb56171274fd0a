package web

// This file contains the handlers that change session state or orders.

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/OrderTrack/internal/core"
	"github.com/JonMunkholm/OrderTrack/internal/logging"
)

// checkedRequest is the JSON form of a checked-set change.
type checkedRequest struct {
	Op  string   `json:"op"`
	IDs []string `json:"ids"`
}

// parseCheckedRequest reads op and ids from a JSON body or form values.
func parseCheckedRequest(r *http.Request) (checkedRequest, error) {
	var req checkedRequest
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, fmt.Errorf("decode checked request: %w", err)
		}
		return req, nil
	}

	if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return req, fmt.Errorf("parse checked form: %w", err)
	}
	req.Op = r.FormValue("op")
	req.IDs = formValues(r, "id")
	return req, nil
}

// handleChecked toggles, sets, unsets or clears ids in the session's
// checked set and returns the resulting set.
func (s *Server) handleChecked(w http.ResponseWriter, r *http.Request) {
	req, err := parseCheckedRequest(r)
	if err != nil {
		s.respondErrorStatus(w, r, err, http.StatusBadRequest)
		return
	}

	var apply func(core.CheckedSet)
	switch req.Op {
	case "toggle", "":
		apply = func(c core.CheckedSet) {
			for _, id := range req.IDs {
				c.Toggle(id)
			}
		}
	case "set":
		apply = func(c core.CheckedSet) { c.Set(req.IDs, true) }
	case "unset":
		apply = func(c core.CheckedSet) { c.Set(req.IDs, false) }
	case "clear":
		apply = func(c core.CheckedSet) { c.Clear() }
	default:
		s.respondErrorStatus(w, r, fmt.Errorf("unknown checked op %q", req.Op), http.StatusBadRequest)
		return
	}

	ids := sessionFrom(r.Context()).UpdateChecked(apply)
	writeJSON(w, http.StatusOK, map[string]any{"checked": ids})
}

// handleRole switches the session between viewer and admin.
func (s *Server) handleRole(w http.ResponseWriter, r *http.Request) {
	role := core.ParseRole(r.FormValue("role"))
	sessionFrom(r.Context()).SetRole(role)
	writeJSON(w, http.StatusOK, map[string]string{"role": string(role)})
}

// handleBulkShip marks the checked orders as shipped.
func (s *Server) handleBulkShip(w http.ResponseWriter, r *http.Request) {
	n, err := s.service.MarkShipped(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	logging.FromContext(r.Context()).Info("orders marked shipped", "count", n)
	writeJSON(w, http.StatusOK, map[string]int{"shipped": n})
}

// handleBulkDelete deletes the checked orders. Without confirm=true nothing
// changes and the answer is 409.
func (s *Server) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	confirm := core.Declined
	if r.FormValue("confirm") == "true" {
		confirm = core.Confirmed
	}

	n, err := s.service.DeleteChecked(r.Context(), sessionFrom(r.Context()), confirm)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	logging.FromContext(r.Context()).Info("orders deleted", "count", n)
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

// handleReset restores the sample orders.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ResetToSeed(r.Context()); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"orders": len(s.service.Orders())})
}
