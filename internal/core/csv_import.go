package core

import (
	"strings"
	"time"
)

// Defaults applied to imported rows that lack a value.
const (
	DefaultImportClient    = "Unknown"
	DefaultImportWarehouse = "DC"
	DefaultETAOffset       = 72 * time.Hour
)

// ImportOptions supplies the clock, id source and location for an import.
type ImportOptions struct {
	Now      time.Time
	NewID    IDFunc
	Location *time.Location
}

// HeaderIndex maps a lower-cased header name to its position in a row.
type HeaderIndex map[string]int

// MakeHeaderIndex builds a case-insensitive header lookup.
// The first occurrence of a duplicated header wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(CleanCell(h))
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

// position finds a column by its key ("createdAt") or its export label ("Created").
func (h HeaderIndex) position(c Column) (int, bool) {
	if i, ok := h[strings.ToLower(string(c))]; ok {
		return i, true
	}
	i, ok := h[strings.ToLower(c.Label())]
	return i, ok
}

// value returns the trimmed cell for c, or "" when absent.
func (h HeaderIndex) value(row []string, c Column) string {
	i, ok := h.position(c)
	if !ok || i >= len(row) {
		return ""
	}
	return CleanCell(row[i])
}

// ImportCSV turns CSV text into new orders, one per non-empty data line.
//
// Missing or unparseable cells fall back to defaults; no line is ever
// dropped. Milestone data is never read from the file: each order starts
// with only Received stamped at opts.Now.
func ImportCSV(text string, opts ImportOptions) []Order {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.NewID == nil {
		opts.NewID = NewOrderID
	}

	lines := nonEmptyLines(strings.TrimPrefix(text, utf8BOM))
	if len(lines) == 0 {
		return nil
	}

	header := MakeHeaderIndex(SplitCSVLine(lines[0]))
	orders := make([]Order, 0, len(lines)-1)

	for _, line := range lines[1:] {
		row := SplitCSVLine(line)
		orders = append(orders, buildImportedOrder(row, header, opts))
	}
	return orders
}

// buildImportedOrder applies the defaulting rules to one parsed row.
func buildImportedOrder(row []string, h HeaderIndex, opts ImportOptions) Order {
	o := Order{
		ID:         h.value(row, ColID),
		Client:     h.value(row, ColClient),
		Warehouse:  h.value(row, ColWarehouse),
		Status:     Status(h.value(row, ColStatus)),
		Milestones: NewMilestones(opts.Now),
		Files:      []File{},
	}

	if o.ID == "" {
		o.ID = opts.NewID()
	}
	if o.Client == "" {
		o.Client = DefaultImportClient
	}
	if o.Warehouse == "" {
		o.Warehouse = DefaultImportWarehouse
	}
	if o.Status == "" {
		o.Status = StatusReceived
	}
	if n, ok := ParseItems(h.value(row, ColItems)); ok {
		o.Items = n
	}

	if t, ok := ParseTimestamp(h.value(row, ColCreatedAt), opts.Location); ok {
		o.CreatedAt = t
	} else {
		o.CreatedAt = opts.Now
	}
	if t, ok := ParseTimestamp(h.value(row, ColETA), opts.Location); ok {
		o.ETA = t
	} else {
		o.ETA = opts.Now.Add(DefaultETAOffset)
	}

	return o
}

// nonEmptyLines splits text on newlines, dropping CRs and blank lines.
func nonEmptyLines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}
