package core

import "time"

// KPIs are the aggregate figures shown above the order table.
type KPIs struct {
	Total        int `json:"total"`
	InProgress   int `json:"inProgress"`
	ShippedToday int `json:"shippedToday"`
	SLA          int `json:"sla"` // percent of delivered orders on or before ETA
}

// Aggregate computes KPIs over the filtered (not paginated) list.
//
// "Today" is the calendar date of now in loc.
func Aggregate(orders []Order, now time.Time, loc *time.Location) KPIs {
	if loc == nil {
		loc = time.Local
	}
	ty, tm, td := now.In(loc).Date()

	k := KPIs{Total: len(orders)}
	delivered, onTime := 0, 0

	for _, o := range orders {
		if o.Status.InProgress() {
			k.InProgress++
		}

		if ts, ok := o.Milestone(StatusShipped); ok {
			y, m, d := ts.In(loc).Date()
			if y == ty && m == tm && d == td {
				k.ShippedToday++
			}
		}

		if o.Status == StatusDelivered {
			delivered++
			if deliveredOnTime(o) {
				onTime++
			}
		}
	}

	if delivered > 0 {
		k.SLA = roundHalfUp(float64(onTime) * 100 / float64(delivered))
	}
	return k
}

// deliveredOnTime reports whether o was delivered on or before its ETA.
// A missing Delivered timestamp stands in for the Unix epoch compared the
// other way round: on time only when the ETA itself is at or before the
// epoch, so in practice such an order misses the SLA.
func deliveredOnTime(o Order) bool {
	ts, ok := o.Milestone(StatusDelivered)
	if !ok {
		return o.ETA.UnixMilli() <= 0
	}
	return ts.UnixMilli() <= o.ETA.UnixMilli()
}
