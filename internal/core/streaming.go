package core

// streaming.go prepares an uploaded file for CSV import:
//
//   - the byte-order mark written by Windows tools (and by ExportCSV) is dropped
//   - input beyond the configured size limit fails with ErrFileTooLarge
//   - invalid UTF-8 sequences are replaced with U+FFFD rather than rejected

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

var bomBytes = []byte{0xEF, 0xBB, 0xBF}

// BOMSkippingReader wraps r and drops a leading UTF-8 BOM, if present.
func BOMSkippingReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(bomBytes)); err == nil && bytes.Equal(head, bomBytes) {
		_, _ = br.Discard(len(bomBytes))
	}
	return br
}

// ReadImportText reads the whole upload as UTF-8 text. maxBytes <= 0
// disables the size check.
func ReadImportText(r io.Reader, maxBytes int64) (string, error) {
	src := BOMSkippingReader(r)
	if maxBytes > 0 {
		src = io.LimitReader(src, maxBytes+1)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", ErrFileTooLarge
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return "", ErrEmptyFile
	}

	return strings.ToValidUTF8(string(data), "\uFFFD"), nil
}
