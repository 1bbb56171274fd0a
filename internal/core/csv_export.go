package core

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"
)

// ExportFileName is the name offered for CSV downloads.
const ExportFileName = "orders.csv"

// utf8BOM lets spreadsheet tools detect the encoding.
const utf8BOM = "\uFEFF"

// ExportOptions controls how timestamps are rendered in an export.
type ExportOptions struct {
	Location *time.Location
	Layout   string
}

func (o ExportOptions) formatTime(t time.Time) string {
	loc := o.Location
	if loc == nil {
		loc = time.Local
	}
	layout := o.Layout
	if layout == "" {
		layout = DefaultDateTimeLayout
	}
	return t.In(loc).Format(layout)
}

// ExportCSV writes orders as CSV restricted to the visible columns, in
// canonical column order. Every cell is quoted, the output starts with a
// UTF-8 BOM and rows are joined by "\n".
func ExportCSV(w io.Writer, orders []Order, cols Columns, opts ExportOptions) error {
	visible := cols.VisibleOrdered()
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(utf8BOM); err != nil {
		return err
	}

	header := make([]string, len(visible))
	for i, c := range visible {
		header[i] = quoteCSVCell(c.Label())
	}
	if _, err := bw.WriteString(strings.Join(header, ",")); err != nil {
		return err
	}

	cells := make([]string, len(visible))
	for _, o := range orders {
		for i, c := range visible {
			cells[i] = quoteCSVCell(exportCell(o, c, opts))
		}
		if _, err := bw.WriteString("\n" + strings.Join(cells, ",")); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// exportCell renders a single column of an order.
func exportCell(o Order, c Column, opts ExportOptions) string {
	switch c {
	case ColID:
		return o.ID
	case ColClient:
		return o.Client
	case ColWarehouse:
		return o.Warehouse
	case ColCreatedAt:
		return opts.formatTime(o.CreatedAt)
	case ColETA:
		return opts.formatTime(o.ETA)
	case ColItems:
		return strconv.Itoa(o.Items)
	case ColStatus:
		return string(o.Status)
	case ColProgress:
		return strconv.Itoa(o.Progress()) + "%"
	default:
		return ""
	}
}
