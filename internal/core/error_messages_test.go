package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"order not found", ErrOrderNotFound, "ORD001"},
		{"wrapped order not found", fmt.Errorf("%w: ORD-1", ErrOrderNotFound), "ORD001"},
		{"confirmation required", ErrConfirmationRequired, "BULK001"},
		{"nothing selected", ErrNothingSelected, "BULK002"},
		{"too many imports", ErrTooManyImports, "IMP001"},
		{"file too large", ErrFileTooLarge, "FILE001"},
		{"empty file", ErrEmptyFile, "FILE002"},
		{"no file", ErrNoFile, "FILE003"},
		{"cancelled", context.Canceled, "REQ001"},
		{"deadline", fmt.Errorf("import: %w", context.DeadlineExceeded), "REQ001"},
		{"slot save", errors.New("save slot orders: disk full"), "STORE001"},
		{"slot load", errors.New("load slot orders: permission denied"), "STORE001"},
		{"connection refused", errors.New("dial tcp 127.0.0.1:5432: connection refused"), "STORE001"},
		{"rate limit", errors.New("Rate Limit exceeded"), "RATE001"},
		{"body too large", errors.New("http: request body too large"), "FILE001"},
		{"unknown", errors.New("something odd"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
			if tt.err != nil && (got.Message == "" || got.Action == "") {
				t.Errorf("MapError(%v) = %+v, want message and action", tt.err, got)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrOrderNotFound)
	want := "Order not found (Code: ORD001). It may have been deleted; refresh the list"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("something odd"), false},
		{ErrEmptyFile, true},
		{errors.New("save slot x: boom"), true},
	}
	for _, tt := range tests {
		if got := IsUserFacing(tt.err); got != tt.want {
			t.Errorf("IsUserFacing(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
