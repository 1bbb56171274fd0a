package core

import "github.com/google/uuid"

// orderIDAlphabet is the character set of generated order id suffixes.
const orderIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// IDFunc produces identifiers for orders created without one.
type IDFunc func() string

// NewOrderID returns "ORD-" followed by six random uppercase alphanumerics.
func NewOrderID() string {
	u := uuid.New()
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = orderIDAlphabet[int(u[i])%len(orderIDAlphabet)]
	}
	return "ORD-" + string(suffix)
}
