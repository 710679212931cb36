// Package mutate is the write pipeline: validate client-side, confirm
// destructive operations, perform exactly one network call, then
// trigger exactly one refresh on the owning list cache. There is no
// optimistic local patch; the view always reflects server-confirmed
// state, including server-derived fields.
package mutate

import (
	"context"
	"errors"

	"bookshop/internal/ui"
	"bookshop/internal/validate"
)

// ErrCancelled is returned when the user declines a confirmation.
var ErrCancelled = errors.New("cancelled")

// Op describes one mutation.
type Op struct {
	// Validate runs before any network call; a field error aborts.
	Validate func() *validate.FieldError

	// ConfirmPrompts mark the operation destructive. Each prompt is
	// asked in order before the call; any decline aborts. Soft warnings
	// (a category that still has books) add a second prompt.
	ConfirmPrompts []string

	// Call performs the write.
	Call func(ctx context.Context) error

	// Refresh re-fetches the owning cache after a successful call.
	Refresh func(ctx context.Context) error

	// SuccessMessage is surfaced after the refresh completes.
	SuccessMessage string
}

// Coordinator holds no state of its own; it is shared across entities.
type Coordinator struct {
	notify  ui.Notifier
	confirm ui.Confirm
}

func New(notify ui.Notifier, confirm ui.Confirm) *Coordinator {
	if notify == nil {
		notify = ui.LogNotifier{}
	}
	return &Coordinator{notify: notify, confirm: confirm}
}

// Do runs the pipeline. On validation failure or a declined
// confirmation no network call is issued; on call failure no cache is
// touched.
func (m *Coordinator) Do(ctx context.Context, op Op) error {
	if op.Validate != nil {
		if fieldErr := op.Validate(); fieldErr != nil {
			m.notify.Errorf("%s", fieldErr.Message)
			return fieldErr
		}
	}

	if m.confirm != nil {
		for _, prompt := range op.ConfirmPrompts {
			if !m.confirm(prompt) {
				return ErrCancelled
			}
		}
	}

	if err := op.Call(ctx); err != nil {
		m.notify.Errorf("%v", err)
		return err
	}

	if op.Refresh != nil {
		if err := op.Refresh(ctx); err != nil {
			// the write succeeded; the view is stale until the next
			// refresh and the cache already notified
			return err
		}
	}

	if op.SuccessMessage != "" {
		m.notify.Successf("%s", op.SuccessMessage)
	}
	return nil
}
