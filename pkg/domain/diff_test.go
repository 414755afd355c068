package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	idle := StateIdle
	submitting := StateSubmitting

	pristine := NewForm("sess-1")

	typed := pristine.Snapshot()
	typed.Fields[0].Value = "Jane"

	inFlight := typed.Snapshot()
	inFlight.State = StateSubmitting

	tests := []struct {
		name     string
		old      *Form
		new      *Form
		wantDiff *FormDiff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new:  pristine,
			wantDiff: &FormDiff{
				SessionID: "sess-1",
				State:     &idle,
				Message:   &FormMessage{},
				Control:   &SubmitControl{},
				Fields:    ContactFields(),
			},
		},
		{
			name:     "No Changes",
			old:      pristine,
			new:      pristine.Snapshot(),
			wantDiff: nil,
		},
		{
			name: "Single Field Changed",
			old:  pristine,
			new:  typed,
			wantDiff: &FormDiff{
				SessionID: "sess-1",
				Fields:    []Field{{ID: FieldName, Value: "Jane", Required: true, Kind: KindText}},
			},
		},
		{
			name: "State And Control",
			old:  typed,
			new:  inFlight,
			wantDiff: &FormDiff{
				SessionID: "sess-1",
				State:     &submitting,
				Control:   &SubmitControl{Disabled: true, Loading: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if d := cmp.Diff(tt.wantDiff, got); d != "" {
				t.Errorf("Diff() mismatch (-want +got):\n%s", d)
			}
		})
	}
}

func TestDiff_JSONOmitsUnchanged(t *testing.T) {
	old := NewForm("sess-2")
	next := old.Snapshot()
	next.Message = FormMessage{Visible: true, Kind: MessageError, Text: MsgSubmitFailure}

	diff := Diff(old, next)
	require.NotNil(t, diff)

	raw, err := json.Marshal(diff)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "sess-2", decoded["session_id"])
	assert.Contains(t, decoded, "message")
	assert.NotContains(t, decoded, "state")
	assert.NotContains(t, decoded, "fields")
	assert.NotContains(t, decoded, "control")
}
