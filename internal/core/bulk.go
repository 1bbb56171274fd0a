package core

import (
	"context"
	"errors"
	"time"
)

// Confirmer acknowledges a destructive action over count orders.
type Confirmer interface {
	Confirm(count int) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(count int) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(count int) bool { return f(count) }

// Confirmed is a Confirmer that always agrees.
var Confirmed Confirmer = ConfirmFunc(func(int) bool { return true })

// Declined is a Confirmer that always refuses.
var Declined Confirmer = ConfirmFunc(func(int) bool { return false })

// BulkProcessor applies status changes and deletions to checked orders.
type BulkProcessor struct {
	store *Store
	now   func() time.Time
}

// NewBulkProcessor returns a processor over store. A nil clock means time.Now.
func NewBulkProcessor(store *Store, now func() time.Time) *BulkProcessor {
	if now == nil {
		now = time.Now
	}
	return &BulkProcessor{store: store, now: now}
}

// MarkShipped sets every checked order to Shipped and stamps its Shipped
// milestone with the current time. Other milestones are left alone and no
// transition check is made, so a Delivered order can move back to Shipped.
// An empty checked set is a no-op.
func (b *BulkProcessor) MarkShipped(ctx context.Context, checked map[string]bool) (int, error) {
	if len(checked) == 0 {
		return 0, nil
	}
	now := b.now()
	return b.store.UpdateWhere(ctx, checked, func(o *Order) {
		o.Status = StatusShipped
		for i := range o.Milestones {
			if o.Milestones[i].Key == StatusShipped {
				ts := now
				o.Milestones[i].TS = &ts
			}
		}
	})
}

// Delete removes every checked order once confirm agrees. A refusal, or a
// nil confirmer, returns ErrConfirmationRequired and changes nothing. An
// empty checked set is a no-op and asks for no confirmation.
func (b *BulkProcessor) Delete(ctx context.Context, checked map[string]bool, confirm Confirmer) (int, error) {
	if len(checked) == 0 {
		return 0, nil
	}
	if confirm == nil || !confirm.Confirm(len(checked)) {
		return 0, ErrConfirmationRequired
	}
	return b.store.Remove(ctx, checked)
}

// MarkShippedChecked runs MarkShipped over the session's checked set and
// clears it afterwards.
func (b *BulkProcessor) MarkShippedChecked(ctx context.Context, sess *Session) (int, error) {
	checked := sess.checkedSnapshot()
	if len(checked) == 0 {
		return 0, nil
	}
	n, err := b.MarkShipped(ctx, checked)
	sess.clearChecked()
	return n, err
}

// DeleteChecked runs Delete over the session's checked set. The set is
// cleared only when the deletion went ahead.
func (b *BulkProcessor) DeleteChecked(ctx context.Context, sess *Session, confirm Confirmer) (int, error) {
	checked := sess.checkedSnapshot()
	if len(checked) == 0 {
		return 0, nil
	}
	n, err := b.Delete(ctx, checked, confirm)
	if errors.Is(err, ErrConfirmationRequired) {
		return 0, err
	}
	sess.clearChecked()
	return n, err
}
