package domain

// FormDiff represents the changes between two form snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type FormDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	State   *SubmissionState `json:"state,omitempty"`
	Message *FormMessage     `json:"message,omitempty"`
	Control *SubmitControl   `json:"control,omitempty"`

	// Fields contains only the fields whose value or error state changed.
	Fields []Field `json:"fields,omitempty"`
}

// Diff calculates the difference between oldForm and newForm.
// If oldForm is nil, it returns a diff representing the entire newForm (initial load).
// It returns nil when nothing changed.
func Diff(oldForm, newForm *Form) *FormDiff {
	if newForm == nil {
		return nil
	}

	diff := &FormDiff{SessionID: newForm.SessionID}

	if oldForm == nil || oldForm.State != newForm.State {
		s := newForm.State
		diff.State = &s
	}
	if oldForm == nil || oldForm.Message != newForm.Message {
		m := newForm.Message
		diff.Message = &m
	}
	newControl := newForm.Control()
	if oldForm == nil || oldForm.Control() != newControl {
		diff.Control = &newControl
	}

	diff.Fields = diffFields(oldForm, newForm)

	if diff.State == nil && diff.Message == nil && diff.Control == nil && len(diff.Fields) == 0 {
		return nil
	}
	return diff
}

func diffFields(oldForm, newForm *Form) []Field {
	if oldForm == nil {
		out := make([]Field, len(newForm.Fields))
		copy(out, newForm.Fields)
		return out
	}

	previous := make(map[FieldID]Field, len(oldForm.Fields))
	for _, f := range oldForm.Fields {
		previous[f.ID] = f
	}

	var changed []Field
	for _, f := range newForm.Fields {
		if old, ok := previous[f.ID]; !ok || old != f {
			changed = append(changed, f)
		}
	}
	return changed
}
