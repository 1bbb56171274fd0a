package web

// This file contains the request parsing shared across handlers.

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/OrderTrack/internal/core"
	"github.com/JonMunkholm/OrderTrack/internal/logging"
)

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// criteriaValues normalizes form-style queries for the link codec: repeated
// status parameters (one per ticked checkbox) are joined into one list.
func criteriaValues(q url.Values) url.Values {
	if statuses := q["status"]; len(statuses) > 1 {
		q = cloneValues(q)
		q.Set("status", strings.Join(statuses, ","))
	}
	return q
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

// requestCriteria decodes criteria and page from the query string. ok is
// false when the request has no query at all, meaning the caller should use
// the session's stored criteria. Malformed parameters are logged and left
// at their defaults.
func (s *Server) requestCriteria(r *http.Request) (core.Criteria, bool) {
	q := r.URL.Query()
	if len(q) == 0 {
		return core.Criteria{}, false
	}

	c, err := s.service.DecodeCriteria(criteriaValues(q))
	if err != nil {
		logging.FromContext(r.Context()).Debug("ignoring malformed criteria", "error", err)
	}
	c.Page = parseIntParam(r, "page", 1)
	return c, true
}

// sessionCriteria resolves the criteria for a dashboard-style request. A
// query string (a shared link, a filter form or a pager link) replaces the
// session criteria; a bare request reuses them.
func (s *Server) sessionCriteria(r *http.Request, sess *core.Session) core.Criteria {
	c, ok := s.requestCriteria(r)
	if !ok {
		return sess.Criteria()
	}
	return sess.UpdateCriteria(func(cs *core.CriteriaState) { cs.Replace(c) })
}

// formValues returns every value of key in the parsed form, splitting
// comma-separated entries.
func formValues(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.Form[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
