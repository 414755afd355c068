package delivery_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/folio/internal/logging"
	"github.com/aretw0/folio/pkg/adapters/memory"
	"github.com/aretw0/folio/pkg/delivery"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain_Order(t *testing.T) {
	var trace []string
	mark := func(name string) delivery.Middleware {
		return func(next ports.Submitter) ports.Submitter {
			return ports.SubmitterFunc(func(ctx context.Context, sub domain.Submission) error {
				trace = append(trace, name)
				return next.Submit(ctx, sub)
			})
		}
	}
	base := ports.SubmitterFunc(func(ctx context.Context, sub domain.Submission) error {
		trace = append(trace, "backend")
		return nil
	})

	s := delivery.Chain(base, mark("outer"), mark("inner"))
	require.NoError(t, s.Submit(context.Background(), domain.Submission{}))
	assert.Equal(t, []string{"outer", "inner", "backend"}, trace)
}

func TestTimeout(t *testing.T) {
	slow := ports.SubmitterFunc(func(ctx context.Context, sub domain.Submission) error {
		<-ctx.Done()
		return ctx.Err()
	})

	s := delivery.Chain(slow, delivery.Timeout(20*time.Millisecond))
	assert.ErrorIs(t, s.Submit(context.Background(), domain.Submission{}), context.DeadlineExceeded)
}

func TestLogging_PassesSubmissionThrough(t *testing.T) {
	box := memory.NewOutbox()
	s := delivery.Chain(box, delivery.Logging(logging.NewNop(), "log"))

	sub := domain.Submission{Name: "<b>Jane</b>", Message: "compare a<b and c>d please"}
	require.NoError(t, s.Submit(context.Background(), sub))
	msgs := box.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, sub.Name, msgs[0].Name)
	assert.Equal(t, sub.Message, msgs[0].Message)
}

func TestFanout(t *testing.T) {
	a, b := memory.NewOutbox(), memory.NewOutbox()
	failing := ports.SubmitterFunc(func(ctx context.Context, sub domain.Submission) error {
		return errors.New("webhook down")
	})

	require.NoError(t, delivery.Fanout(a, b).Submit(context.Background(), domain.Submission{Name: "Jane"}))
	assert.Len(t, a.Messages(), 1)
	assert.Len(t, b.Messages(), 1)

	err := delivery.Fanout(a, failing).Submit(context.Background(), domain.Submission{Name: "John"})
	assert.ErrorContains(t, err, "webhook down")
	assert.Len(t, a.Messages(), 2, "healthy backends still receive the message")

	assert.Same(t, a, delivery.Fanout(a))
}
