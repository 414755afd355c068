package folio_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/folio"
	"github.com/aretw0/folio/pkg/adapters/memory"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/form"
	"github.com/aretw0/folio/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_RepromptsInvalidValues(t *testing.T) {
	box := memory.NewOutbox()
	var out bytes.Buffer
	r := &folio.Runner{
		Input:  strings.NewReader("Jane\nnot-an-email\njane@x.com\nHi\nshort\nlong enough now\n"),
		Output: &out,
	}

	f, err := r.Run(context.Background(), form.NewController(box), "cli")
	require.NoError(t, err)
	assert.Equal(t, domain.MessageSuccess, f.Message.Kind)
	assert.Contains(t, out.String(), "--- Contact ---")
	assert.Contains(t, out.String(), "✗ "+domain.MsgInvalidEmail)
	assert.Contains(t, out.String(), "✗ "+domain.MsgMessageShort)
	require.Len(t, box.Messages(), 1)
	assert.Equal(t, "long enough now", box.Messages()[0].Message)
}

func TestRunner_HeadlessFailsFast(t *testing.T) {
	box := memory.NewOutbox()
	r := &folio.Runner{
		Input:    strings.NewReader("\n"),
		Output:   &bytes.Buffer{},
		Headless: true,
	}

	_, err := r.Run(context.Background(), form.NewController(box), "cli")
	assert.ErrorContains(t, err, "name: "+domain.MsgRequired)
	assert.Empty(t, box.Messages())
}

func TestRunner_EOF(t *testing.T) {
	r := &folio.Runner{Input: strings.NewReader("Jane\n"), Output: &bytes.Buffer{}}
	_, err := r.Run(context.Background(), form.NewController(memory.NewOutbox()), "cli")
	assert.ErrorContains(t, err, "reading email")
}

func TestRunner_BackendFailure(t *testing.T) {
	backend := ports.SubmitterFunc(func(ctx context.Context, sub domain.Submission) error {
		return errors.New("down")
	})
	var out bytes.Buffer
	r := &folio.Runner{
		Input:  strings.NewReader("Jane\njane@x.com\nHi\nlong enough text\n"),
		Output: &out,
	}

	f, err := r.Run(context.Background(), form.NewController(backend), "cli")
	require.Error(t, err)
	assert.Equal(t, "Jane", f.Value(domain.FieldName))
	assert.Contains(t, out.String(), domain.MsgSubmitFailure)
}

func TestRunner_CustomPrompt(t *testing.T) {
	answers := map[string]string{"Name": "Jane", "Email": "jane@x.com", "Subject": "Hi", "Message": "long enough text"}
	var validated []string
	r := &folio.Runner{
		Output:   &bytes.Buffer{},
		Headless: true,
		Prompt: func(label string, validate func(string) error) (string, error) {
			v := answers[label]
			if err := validate(v); err != nil {
				return "", err
			}
			validated = append(validated, label)
			return v, nil
		},
	}

	_, err := r.Run(context.Background(), form.NewController(memory.NewOutbox()), "cli")
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Email", "Subject", "Message"}, validated)
}

func TestFieldValidator(t *testing.T) {
	v := folio.FieldValidator(domain.FieldEmail)
	assert.EqualError(t, v("x"), domain.MsgInvalidEmail)
	assert.NoError(t, v("a@b.c"))
	assert.Equal(t, "Message", folio.FieldLabel(domain.FieldMessage))
}
