package core

import "strings"

// tokenizer states
const (
	stFieldStart = iota
	stUnquoted
	stQuoted
	stQuoteInQuoted
)

// SplitCSVLine splits one CSV line into fields.
//
// A field is either a quoted run, where "" stands for a literal quote, or an
// unquoted run of non-comma characters. Text after a closing quote is kept as
// part of the field. An unterminated quote runs to the end of the line.
func SplitCSVLine(line string) []string {
	var (
		fields []string
		cur    strings.Builder
		state  = stFieldStart
	)

	emit := func() {
		fields = append(fields, cur.String())
		cur.Reset()
	}

	for _, r := range line {
		switch state {
		case stFieldStart:
			switch r {
			case '"':
				state = stQuoted
			case ',':
				emit()
			default:
				cur.WriteRune(r)
				state = stUnquoted
			}

		case stUnquoted:
			if r == ',' {
				emit()
				state = stFieldStart
			} else {
				cur.WriteRune(r)
			}

		case stQuoted:
			if r == '"' {
				state = stQuoteInQuoted
			} else {
				cur.WriteRune(r)
			}

		case stQuoteInQuoted:
			switch r {
			case '"':
				cur.WriteRune('"')
				state = stQuoted
			case ',':
				emit()
				state = stFieldStart
			default:
				cur.WriteRune(r)
				state = stUnquoted
			}
		}
	}
	emit()
	return fields
}

// quoteCSVCell wraps v in quotes, doubling embedded quotes.
func quoteCSVCell(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
