package form

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/validation"
)

// FieldErrors maps every failing field to its message.
type FieldErrors map[domain.FieldID]string

func (e FieldErrors) Error() string {
	ids := make([]string, 0, len(e))
	for id := range e {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%s: %s", id, e[domain.FieldID(id)])
	}
	return "invalid submission: " + strings.Join(parts, "; ")
}

// Send validates a complete message outside of any form session and delivers
// it. It is the path for API and tool callers that have all values at once.
// Validation failures are returned as FieldErrors; anything else is a
// delivery error.
func (c *Controller) Send(ctx context.Context, origin string, values map[domain.FieldID]string) (domain.Submission, error) {
	fields := domain.ContactFields()
	errs := make(FieldErrors)
	for i := range fields {
		clean, err := validation.SanitizeInputLimit(values[fields[i].ID], c.maxInput)
		if err != nil {
			errs[fields[i].ID] = err.Error()
			continue
		}
		fields[i].Value = clean
	}
	if len(errs) > 0 {
		return domain.Submission{}, errs
	}

	if ok, results := validation.ValidateAll(fields); !ok {
		for id, res := range results {
			if !res.Valid {
				errs[id] = res.Message
			}
		}
		return domain.Submission{}, errs
	}

	snapshot := &domain.Form{SessionID: origin, Fields: fields}
	sub := snapshot.Collect(c.now())
	if err := c.Deliver(ctx, origin, sub); err != nil {
		return sub, err
	}
	return sub, nil
}
