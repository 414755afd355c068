package form_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/form"
	"github.com/aretw0/folio/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every transition the controller performs must appear in the published table.
func TestTransitions_CoverControllerMoves(t *testing.T) {
	allowed := make(map[[2]domain.SubmissionState]bool)
	for _, tr := range form.Transitions() {
		allowed[[2]domain.SubmissionState{tr.From, tr.To}] = true
	}

	seen := make(map[[2]domain.SubmissionState]bool)
	hooks := domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			seen[[2]domain.SubmissionState{e.From, e.To}] = true
		},
	}

	ok := ports.SubmitterFunc(func(context.Context, domain.Submission) error { return nil })
	bad := ports.SubmitterFunc(func(context.Context, domain.Submission) error { return errors.New("x") })
	ctx := context.Background()

	for _, s := range []ports.Submitter{ok, bad} {
		c := form.NewController(s, form.WithLifecycleHooks(hooks))
		_, err := c.Submit(ctx, validForm(t))
		require.NoError(t, err)
		_, err = c.Submit(ctx, domain.NewForm("empty"))
		require.NoError(t, err)
	}

	for edge := range seen {
		assert.True(t, allowed[edge], "unlisted transition %s -> %s", edge[0], edge[1])
	}
	assert.Len(t, seen, len(form.Transitions()), "every listed transition is reachable")
}
