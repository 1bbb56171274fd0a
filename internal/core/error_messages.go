package core

// error_messages.go maps technical errors to user-facing messages with a
// support code.
//
// Codes by group:
//
//	ORD001  - Order not found
//	BULK001 - Bulk delete needs confirmation
//	BULK002 - Nothing selected
//	IMP001  - Too many imports running
//	FILE001 - File too large
//	FILE002 - Empty file
//	FILE003 - No file provided
//	STORE001 - Order data could not be saved or loaded
//	RATE001 - Rate limited
//	REQ001  - Request cancelled or timed out
//	ERR000  - Anything else; check the server log for the technical error
//
// Sentinel errors are matched with errors.Is first. Errors coming from
// drivers and the network are then matched by case-insensitive substring,
// first match wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOrderNotFound is returned when no order has the requested id.
	ErrOrderNotFound = errors.New("order not found")

	// ErrConfirmationRequired is returned when a destructive bulk action
	// was not acknowledged.
	ErrConfirmationRequired = errors.New("confirmation required")

	// ErrNothingSelected marks a bulk action over an empty checked set.
	// Bulk actions treat it as a no-op; it is only surfaced by the API.
	ErrNothingSelected = errors.New("nothing selected")

	// ErrFileTooLarge is returned when an import exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrEmptyFile is returned when an import contains no text.
	ErrEmptyFile = errors.New("empty file")

	// ErrNoFile is returned when an import request carries no file.
	ErrNoFile = errors.New("no file provided")
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type sentinelMessage struct {
	err error
	msg UserMessage
}

var sentinelMessages = []sentinelMessage{
	{ErrOrderNotFound, UserMessage{"Order not found", "It may have been deleted; refresh the list", "ORD001"}},
	{ErrConfirmationRequired, UserMessage{"Deleting orders needs confirmation", "Confirm the deletion to continue", "BULK001"}},
	{ErrNothingSelected, UserMessage{"No orders are selected", "Tick at least one order first", "BULK002"}},
	{ErrTooManyImports, UserMessage{"Too many imports are running", "Please wait a moment and try again", "IMP001"}},
	{ErrFileTooLarge, UserMessage{"File exceeds the maximum size", "Split the file into smaller parts", "FILE001"}},
	{ErrEmptyFile, UserMessage{"The uploaded file is empty", "Upload a CSV file with a header and data rows", "FILE002"}},
	{ErrNoFile, UserMessage{"No file was selected", "Choose a CSV file to import", "FILE003"}},
	{context.Canceled, UserMessage{"Request was cancelled", "Please try again", "REQ001"}},
	{context.DeadlineExceeded, UserMessage{"Request timed out", "Please try again", "REQ001"}},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var storeMessage = UserMessage{
	Message: "Order data could not be saved or loaded",
	Action:  "Your change is kept in memory; check the storage backend",
	Code:    "STORE001",
}

var errorPatterns = []errorPattern{
	{"save slot", storeMessage},
	{"load slot", storeMessage},
	{"connection refused", storeMessage},
	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "RATE001"}},
	{"request body too large", UserMessage{"File exceeds the maximum size", "Split the file into smaller parts", "FILE001"}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// A nil error maps to the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
