package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/folio/internal/presentation/graph"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/form"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(form.Transitions(), nil)

	assert.True(t, strings.HasPrefix(out, "stateDiagram-v2\n"))
	for _, want := range []string{
		"[*] --> Idle",
		"Idle --> Validating : submit",
		"Validating --> Idle : invalid",
		"Submitting --> Failed : error",
		"Success --> Idle : done",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "classDef")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	out := graph.GenerateMermaid(form.Transitions(), &graph.Overlay{
		Current: domain.StateSubmitting,
		Visited: []domain.SubmissionState{domain.StateIdle, domain.StateValidating, domain.StateIdle, domain.StateSubmitting},
	})

	assert.Contains(t, out, "class Submitting current")
	assert.Equal(t, 1, strings.Count(out, "class Idle visited"), "visited states are deduplicated")
	assert.Contains(t, out, "class Validating visited")
	assert.NotContains(t, out, "class Submitting visited")
}
