// Package graph renders the contact form state machine as a Mermaid diagram.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/form"
)

// Overlay highlights the state of one live form on the diagram.
type Overlay struct {
	Current domain.SubmissionState
	// Visited are states the form went through, e.g. from a transition log.
	Visited []domain.SubmissionState
}

// GenerateMermaid produces a Mermaid stateDiagram-v2 for the given transitions.
// Idle is the entry state.
func GenerateMermaid(transitions []form.Transition, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")
	sb.WriteString(fmt.Sprintf("    [*] --> %s\n", mermaidID(domain.StateIdle)))

	for _, t := range transitions {
		line := fmt.Sprintf("    %s --> %s", mermaidID(t.From), mermaidID(t.To))
		if t.On != "" {
			line += " : " + strings.ReplaceAll(t.On, ":", " ")
		}
		sb.WriteString(line + "\n")
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000\n")

		seen := make(map[domain.SubmissionState]bool)
		for _, s := range overlay.Visited {
			if s == "" || s == overlay.Current || seen[s] {
				continue
			}
			seen[s] = true
			sb.WriteString(fmt.Sprintf("    class %s visited\n", mermaidID(s)))
		}
		if overlay.Current != "" {
			sb.WriteString(fmt.Sprintf("    class %s current\n", mermaidID(overlay.Current)))
		}
	}
	return sb.String()
}

func mermaidID(s domain.SubmissionState) string {
	id := string(s)
	if id == "" {
		return "unknown"
	}
	return strings.ToUpper(id[:1]) + id[1:]
}
