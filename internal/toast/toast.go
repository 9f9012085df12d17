// Package toast carries short user-facing notifications from the admin
// client components to whatever displays them.
package toast

import (
	"context"
	"errors"

	"github.com/simp-lee/folio/internal/domain"
)

// Notifier shows a message to the user.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, message string)

func (f Func) Notify(ctx context.Context, message string) { f(ctx, message) }

// Send notifies n when it is set.
func Send(ctx context.Context, n Notifier, message string) {
	if n != nil {
		n.Notify(ctx, message)
	}
}

// Message turns err into text fit for a notification. Internal errors and
// anything that is not an AppError get a generic retry hint.
func Message(err error) string {
	var appErr *domain.AppError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "the request was cancelled, please try again"
	case errors.As(err, &appErr) && appErr.Code != domain.CodeInternal:
		return appErr.Message
	default:
		return "something went wrong, please try again"
	}
}
