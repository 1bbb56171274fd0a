package core

import "testing"

func TestCriteriaState_FilterChangesResetPage(t *testing.T) {
	changes := map[string]func(*CriteriaState){
		"query":     func(s *CriteriaState) { s.SetQuery("x") },
		"status":    func(s *CriteriaState) { s.ToggleStatus(StatusPacked) },
		"warehouse": func(s *CriteriaState) { s.SetWarehouse("ALA-DC1") },
		"dates":     func(s *CriteriaState) { s.SetDateRange("2025-08-01", "") },
		"sort":      func(s *CriteriaState) { s.SetSort(SortETADesc) },
		"page size": func(s *CriteriaState) { s.SetPageSize(20) },
	}

	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			s := NewCriteriaState()
			s.SetPage(4)
			change(s)
			if got := s.Current().Page; got != 1 {
				t.Errorf("Page after %s change = %d, want 1", name, got)
			}
		})
	}
}

func TestCriteriaState_ToggleColumnKeepsPage(t *testing.T) {
	s := NewCriteriaState()
	s.SetPage(3)
	s.ToggleColumn(ColETA)

	c := s.Current()
	if c.Page != 3 {
		t.Errorf("Page = %d, want 3", c.Page)
	}
	if c.Columns.Visible(ColETA) {
		t.Error("ETA still visible after toggle")
	}
	s.ToggleColumn(ColETA)
	if !s.Current().Columns.Visible(ColETA) {
		t.Error("ETA hidden after second toggle")
	}
}

func TestCriteriaState_ToggleStatus(t *testing.T) {
	s := NewCriteriaState()
	s.ToggleStatus(StatusPacked)
	s.ToggleStatus(StatusShipped)
	s.ToggleStatus(StatusPacked)

	got := s.Current().Statuses
	if len(got) != 1 || got[0] != StatusShipped {
		t.Errorf("Statuses = %v, want [Shipped]", got)
	}
}

func TestCriteriaState_Setters(t *testing.T) {
	s := NewCriteriaState()

	s.SetWarehouse("")
	if got := s.Current().Warehouse; got != AllWarehouses {
		t.Errorf("SetWarehouse(\"\") = %q, want %q", got, AllWarehouses)
	}

	s.SetPage(-5)
	if got := s.Current().Page; got != 1 {
		t.Errorf("SetPage(-5) = %d, want 1", got)
	}

	s.SetPageSize(0)
	if got := s.Current().PageSize; got != DefaultPageSize {
		t.Errorf("SetPageSize(0) changed size to %d", got)
	}
}

func TestCriteriaState_CurrentIsACopy(t *testing.T) {
	s := NewCriteriaState()
	s.ToggleStatus(StatusPacked)

	c := s.Current()
	c.Statuses[0] = StatusDelivered
	c.Columns[ColID] = false

	again := s.Current()
	if again.Statuses[0] != StatusPacked {
		t.Errorf("Statuses[0] = %q, want Packed", again.Statuses[0])
	}
	if !again.Columns.Visible(ColID) {
		t.Error("ID column hidden through a copy")
	}
}

func TestCriteriaState_Reset(t *testing.T) {
	s := NewCriteriaState()
	s.SetQuery("x")
	s.ToggleColumn(ColItems)
	s.Reset()

	c := s.Current()
	if c.Query != "" || !c.Columns.Visible(ColItems) || c.Page != 1 {
		t.Errorf("after Reset = %+v, want defaults", c)
	}
}

func TestColumns_VisibleOrdered(t *testing.T) {
	cols := Columns{ColStatus: true, ColID: false}
	got := cols.VisibleOrdered()
	want := []Column{ColClient, ColWarehouse, ColCreatedAt, ColETA, ColItems, ColStatus, ColProgress}
	if len(got) != len(want) {
		t.Fatalf("VisibleOrdered() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("VisibleOrdered()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestOrder_ProgressAndTimeline(t *testing.T) {
	tests := []struct {
		id   string
		want int
	}{
		{"ORD-001234", 60},
		{"ORD-001235", 80},
		{"ORD-001236", 100},
		{"ORD-001237", 20},
	}
	byID := make(map[string]Order)
	for _, o := range SeedOrders() {
		byID[o.ID] = o
	}
	for _, tt := range tests {
		if got := byID[tt.id].Progress(); got != tt.want {
			t.Errorf("%s Progress() = %d, want %d", tt.id, got, tt.want)
		}
	}

	tl := byID["ORD-001234"].Timeline()
	if len(tl) != 5 {
		t.Fatalf("len(Timeline()) = %d, want 5", len(tl))
	}
	for i, e := range tl {
		wantReached := i < 3
		if e.Reached != wantReached {
			t.Errorf("Timeline()[%d].Reached = %v, want %v", i, e.Reached, wantReached)
		}
		if e.Current != (e.Key == StatusPacked) {
			t.Errorf("Timeline()[%d].Current = %v for %s", i, e.Current, e.Key)
		}
	}
}

func TestSession_Checked(t *testing.T) {
	sess := NewSession("s1")
	sess.UpdateChecked(func(c CheckedSet) {
		c.Toggle("B")
		c.Set([]string{"A", "C"}, true)
		c.Toggle("C")
	})
	if got := sess.Checked(); !equalStrings(got, []string{"A", "B"}) {
		t.Errorf("Checked() = %v, want [A B]", got)
	}

	sess.UpdateChecked(func(c CheckedSet) { c.Clear() })
	if got := sess.Checked(); len(got) != 0 {
		t.Errorf("Checked() after Clear = %v, want empty", got)
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{"viewer", RoleViewer},
		{"", RoleViewer},
		{"root", RoleViewer},
	}
	for _, tt := range tests {
		if got := ParseRole(tt.in); got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if RoleViewer.CanMutate() || !RoleAdmin.CanMutate() {
		t.Error("only admin should see mutating controls")
	}
}
