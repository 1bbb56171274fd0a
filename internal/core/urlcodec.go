package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Query-string keys used by shareable links.
const (
	paramQuery     = "q"
	paramStatus    = "status"
	paramWarehouse = "wh"
	paramSort      = "sort"
	paramDateFrom  = "df"
	paramDateTo    = "dt"
	paramPageSize  = "ps"
	paramColumns   = "cols"
)

// EncodeCriteria serializes the non-default parts of c as query values.
// Page is never encoded; a shared link always opens on page 1.
func EncodeCriteria(c Criteria) url.Values {
	return EncodeCriteriaFrom(c, DefaultCriteria())
}

// EncodeCriteriaFrom is EncodeCriteria measured against def instead of the
// built-in defaults. Links only round-trip when they are decoded with
// DecodeCriteriaFrom and the same def.
func EncodeCriteriaFrom(c, def Criteria) url.Values {
	v := url.Values{}

	if c.Query != "" {
		v.Set(paramQuery, c.Query)
	}
	if len(c.Statuses) > 0 {
		parts := make([]string, len(c.Statuses))
		for i, s := range c.Statuses {
			parts[i] = string(s)
		}
		v.Set(paramStatus, strings.Join(parts, ","))
	}
	if c.Warehouse != "" && c.Warehouse != def.Warehouse {
		v.Set(paramWarehouse, c.Warehouse)
	}
	if c.SortBy != "" && c.SortBy != def.SortBy {
		v.Set(paramSort, string(c.SortBy))
	}
	if c.DateFrom != "" {
		v.Set(paramDateFrom, c.DateFrom)
	}
	if c.DateTo != "" {
		v.Set(paramDateTo, c.DateTo)
	}
	if c.PageSize > 0 && c.PageSize != def.PageSize {
		v.Set(paramPageSize, strconv.Itoa(c.PageSize))
	}

	if diff := columnDiff(c.Columns, def.Columns); len(diff) > 0 {
		// map keys marshal in sorted order, so the output is stable
		if b, err := json.Marshal(diff); err == nil {
			v.Set(paramColumns, string(b))
		}
	}

	return v
}

// columnDiff returns the columns whose visibility differs from def.
func columnDiff(cols, def Columns) map[Column]bool {
	diff := make(map[Column]bool)
	for c, visible := range cols {
		if def.Visible(c) != visible {
			diff[c] = visible
		}
	}
	return diff
}

// ShareQuery returns the encoded query string for c ("" for defaults).
func ShareQuery(c Criteria) string {
	return EncodeCriteria(c).Encode()
}

// ShareURL appends the encoded criteria to base.
func ShareURL(base string, c Criteria) string {
	return ShareURLFrom(base, c, DefaultCriteria())
}

// ShareURLFrom is ShareURL measured against def.
func ShareURLFrom(base string, c, def Criteria) string {
	qs := EncodeCriteriaFrom(c, def).Encode()
	if qs == "" {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + qs
}

// DecodeCriteria reads criteria from query values on top of the defaults.
//
// Decoding never fails: the returned Criteria is always usable. The error
// lists the parameters that were malformed and therefore left at their
// defaults; callers may log it and otherwise ignore it.
func DecodeCriteria(v url.Values) (Criteria, error) {
	return DecodeCriteriaFrom(v, DefaultCriteria())
}

// DecodeCriteriaFrom is DecodeCriteria on top of def. Absent parameters
// keep def's values.
func DecodeCriteriaFrom(v url.Values, def Criteria) (Criteria, error) {
	c := def.Clone()
	c.Page = 1
	if c.Columns == nil {
		c.Columns = DefaultColumns()
	}
	var errs []error

	if q := v.Get(paramQuery); q != "" {
		c.Query = q
	}
	if s := v.Get(paramStatus); s != "" {
		for _, part := range strings.Split(s, ",") {
			if part != "" {
				c.Statuses = append(c.Statuses, Status(part))
			}
		}
	}
	if wh := v.Get(paramWarehouse); wh != "" {
		c.Warehouse = wh
	}
	if s := v.Get(paramSort); s != "" {
		c.SortBy = SortKey(s)
	}
	if df := v.Get(paramDateFrom); df != "" {
		c.DateFrom = df
	}
	if dt := v.Get(paramDateTo); dt != "" {
		c.DateTo = dt
	}
	if ps := v.Get(paramPageSize); ps != "" {
		n, err := strconv.Atoi(ps)
		if err != nil || n < 1 {
			errs = append(errs, fmt.Errorf("%s=%q: invalid page size", paramPageSize, ps))
		} else {
			c.PageSize = n
		}
	}
	if raw := v.Get(paramColumns); raw != "" {
		var diff map[Column]bool
		if err := json.Unmarshal([]byte(raw), &diff); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", paramColumns, err))
		} else {
			for col, visible := range diff {
				c.Columns[col] = visible
			}
		}
	}

	return c, errors.Join(errs...)
}

// DecodeCriteriaQuery parses a raw query string and decodes it.
func DecodeCriteriaQuery(rawQuery string) (Criteria, error) {
	return DecodeCriteriaQueryFrom(rawQuery, DefaultCriteria())
}

// DecodeCriteriaQueryFrom parses a raw query string and decodes it on top
// of def.
func DecodeCriteriaQueryFrom(rawQuery string, def Criteria) (Criteria, error) {
	v, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	c, decodeErr := DecodeCriteriaFrom(v, def)
	return c, errors.Join(err, decodeErr)
}
