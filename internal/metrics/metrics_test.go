package metrics_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/folio/internal/metrics"
	"github.com/aretw0/folio/pkg/adapters/memory"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/form"
	"github.com/aretw0/folio/pkg/ports"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() *domain.Form {
	f := domain.NewForm("m")
	f.Fields[0].Value = "Jane"
	f.Fields[1].Value = "jane@x.com"
	f.Fields[2].Value = "Hi"
	f.Fields[3].Value = "1234567890"
	return f
}

func TestHooks_RecordControllerActivity(t *testing.T) {
	m := metrics.New()
	ctx := context.Background()

	ok := form.NewController(memory.NewOutbox(), form.WithLifecycleHooks(m.Hooks()))
	_, err := ok.Submit(ctx, validForm())
	require.NoError(t, err)

	failing := form.NewController(ports.SubmitterFunc(func(context.Context, domain.Submission) error {
		return errors.New("down")
	}), form.WithLifecycleHooks(m.Hooks()))
	_, err = failing.Submit(ctx, validForm())
	require.NoError(t, err)

	_, err = ok.Blur(ctx, domain.NewForm("m"), domain.FieldEmail)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues(metrics.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues(metrics.OutcomeFailure)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions.WithLabelValues("idle", "validating")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("submitting", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("email", "blur")))

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	var samples uint64
	for _, mf := range families {
		if mf.GetName() == "folio_submission_duration_seconds" {
			samples = mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	assert.Equal(t, uint64(2), samples)
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := metrics.New()
	m.SocialClick("github")
	m.Hooks().OnSubmitReturn(context.Background(), &domain.SubmitEvent{Duration: 20 * time.Millisecond})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `folio_social_clicks_total{platform="github"} 1`)
	assert.Contains(t, body, `folio_submissions_total{outcome="success"} 1`)
	assert.True(t, strings.Contains(body, "go_goroutines"))
}

func TestWatchSessions(t *testing.T) {
	m := metrics.New()
	store := memory.NewStore()
	m.WatchSessions(func(ctx context.Context) (map[string]domain.SubmissionState, error) {
		return ports.ListStates(ctx, store)
	})

	ctx := context.Background()
	busy := domain.NewForm("b")
	busy.State = domain.StateSubmitting
	require.NoError(t, store.Save(ctx, "a", domain.NewForm("a")))
	require.NoError(t, store.Save(ctx, "b", busy))
	require.NoError(t, store.Save(ctx, "c", domain.NewForm("c")))

	expected := `
# HELP folio_sessions Stored form sessions by submission state.
# TYPE folio_sessions gauge
folio_sessions{state="idle"} 2
folio_sessions{state="submitting"} 1
folio_sessions{state="success"} 0
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "folio_sessions"))
}

func TestWatchSessions_SourceError(t *testing.T) {
	m := metrics.New()
	m.WatchSessions(func(context.Context) (map[string]domain.SubmissionState, error) {
		return nil, errors.New("redis down")
	})

	_, err := m.Registry().Gather()
	assert.ErrorContains(t, err, "redis down")
}
