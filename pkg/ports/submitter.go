package ports

import (
	"context"

	"github.com/aretw0/folio/pkg/domain"
)

// Submitter delivers a submission to a backend. It either succeeds or returns
// an error; the controller treats any error as a failed submission.
type Submitter interface {
	Submit(ctx context.Context, sub domain.Submission) error
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, sub domain.Submission) error

// Submit calls f(ctx, sub).
func (f SubmitterFunc) Submit(ctx context.Context, sub domain.Submission) error {
	return f(ctx, sub)
}
