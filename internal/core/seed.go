package core

import "time"

// SeedOrders returns the sample orders loaded into an empty store.
func SeedOrders() []Order {
	ts := func(s string) *time.Time {
		t := mustTime(s)
		return &t
	}
	ms := func(stamps ...string) []Milestone {
		out := make([]Milestone, len(StatusSequence))
		for i, st := range StatusSequence {
			out[i] = Milestone{Key: st}
			if i < len(stamps) && stamps[i] != "" {
				out[i].TS = ts(stamps[i])
			}
		}
		return out
	}

	return []Order{
		{
			ID:        "ORD-001234",
			Client:    "Kusto Logistics",
			CreatedAt: mustTime("2025-08-05T09:20:00Z"),
			ETA:       mustTime("2025-08-21T15:00:00Z"),
			Items:     18,
			Status:    StatusPacked,
			Warehouse: "ALA-DC1",
			Milestones: ms(
				"2025-08-05T09:21:00Z",
				"2025-08-06T14:00:00Z",
				"2025-08-06T18:30:00Z",
			),
			Files: []File{{Name: "invoice_001234.pdf", Size: "124 KB"}},
		},
		{
			ID:        "ORD-001235",
			Client:    "Altai Foods",
			CreatedAt: mustTime("2025-08-10T10:10:00Z"),
			ETA:       mustTime("2025-08-20T12:00:00Z"),
			Items:     6,
			Status:    StatusShipped,
			Warehouse: "ALA-DC1",
			Milestones: ms(
				"2025-08-10T10:15:00Z",
				"2025-08-11T08:40:00Z",
				"2025-08-11T11:05:00Z",
				"2025-08-12T16:45:00Z",
			),
			Files: []File{},
		},
		{
			ID:        "ORD-001236",
			Client:    "Nomad Wear",
			CreatedAt: mustTime("2025-08-12T13:00:00Z"),
			ETA:       mustTime("2025-08-19T18:00:00Z"),
			Items:     42,
			Status:    StatusDelivered,
			Warehouse: "ALA-DC2",
			Milestones: ms(
				"2025-08-12T13:10:00Z",
				"2025-08-13T07:40:00Z",
				"2025-08-13T12:20:00Z",
				"2025-08-14T09:15:00Z",
				"2025-08-17T17:35:00Z",
			),
			Files: []File{{Name: "packing_list_001236.pdf", Size: "98 KB"}},
		},
		{
			ID:         "ORD-001237",
			Client:     "Eurasia Pharma",
			CreatedAt:  mustTime("2025-08-16T08:30:00Z"),
			ETA:        mustTime("2025-08-23T10:00:00Z"),
			Items:      9,
			Status:     StatusReceived,
			Warehouse:  "ALA-DC1",
			Milestones: ms("2025-08-16T08:35:00Z"),
			Files:      []File{},
		},
	}
}

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}
