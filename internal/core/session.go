package core

import (
	"sort"
	"sync"
)

// Role only decides which controls a dashboard shows. It is never enforced.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleAdmin  Role = "admin"
)

// ParseRole returns the role named by s, defaulting to viewer.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleViewer
}

// CanMutate reports whether bulk and status controls should be shown.
func (r Role) CanMutate() bool {
	return r == RoleAdmin
}

// CheckedSet is the set of order ids marked for a bulk action.
type CheckedSet map[string]bool

// Toggle flips the mark on id.
func (c CheckedSet) Toggle(id string) {
	if c[id] {
		delete(c, id)
		return
	}
	c[id] = true
}

// Set marks or unmarks every id.
func (c CheckedSet) Set(ids []string, on bool) {
	for _, id := range ids {
		if on {
			c[id] = true
		} else {
			delete(c, id)
		}
	}
}

// Clear unmarks everything.
func (c CheckedSet) Clear() {
	for id := range c {
		delete(c, id)
	}
}

// IDs returns the marked ids, sorted.
func (c CheckedSet) IDs() []string {
	ids := make([]string, 0, len(c))
	for id, on := range c {
		if on {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Session is one user's dashboard state: criteria, checked set and role.
// Its methods are safe for concurrent use.
type Session struct {
	ID string

	mu       sync.Mutex
	criteria *CriteriaState
	checked  CheckedSet
	role     Role
}

// NewSession starts a viewer session with default criteria.
func NewSession(id string) *Session {
	return &Session{
		ID:       id,
		criteria: NewCriteriaState(),
		checked:  make(CheckedSet),
		role:     RoleViewer,
	}
}

// Criteria returns a copy of the session criteria.
func (s *Session) Criteria() Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria.Current()
}

// UpdateCriteria runs fn against the criteria state under the session lock.
func (s *Session) UpdateCriteria(fn func(*CriteriaState)) Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.criteria)
	return s.criteria.Current()
}

// Role returns the session role.
func (s *Session) Role() Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role
}

// SetRole switches the session role.
func (s *Session) SetRole(r Role) {
	s.mu.Lock()
	s.role = r
	s.mu.Unlock()
}

// Checked returns the marked ids, sorted.
func (s *Session) Checked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checked.IDs()
}

// UpdateChecked runs fn against the checked set under the session lock.
func (s *Session) UpdateChecked(fn func(CheckedSet)) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.checked)
	return s.checked.IDs()
}

// checkedSnapshot returns the marked ids as a lookup set.
func (s *Session) checkedSnapshot() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(s.checked))
	for id, on := range s.checked {
		if on {
			out[id] = true
		}
	}
	return out
}

func (s *Session) clearChecked() {
	s.mu.Lock()
	s.checked.Clear()
	s.mu.Unlock()
}
