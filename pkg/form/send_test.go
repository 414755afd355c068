package form_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_Delivers(t *testing.T) {
	rec := &recordingSubmitter{}
	c := form.NewController(rec)

	sub, err := c.Send(context.Background(), "api", map[domain.FieldID]string{
		domain.FieldName:    "Jane",
		domain.FieldEmail:   "jane@x.com",
		domain.FieldSubject: "Hello",
		domain.FieldMessage: "<b>Let's</b> talk soon",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane", sub.Name)
	require.Equal(t, 1, rec.count())
	assert.Equal(t, "<b>Let's</b> talk soon", rec.calls[0].Message)
}

func TestSend_DeliversValidatedValuesVerbatim(t *testing.T) {
	rec := &recordingSubmitter{}
	c := form.NewController(rec)

	_, err := c.Send(context.Background(), "api", map[domain.FieldID]string{
		domain.FieldName:    "<b></b>",
		domain.FieldEmail:   "jane@x.com",
		domain.FieldSubject: "Hello",
		domain.FieldMessage: "compare a<b and c>d please",
	})
	require.NoError(t, err)
	require.Equal(t, 1, rec.count())
	assert.Equal(t, "<b></b>", rec.calls[0].Name)
	assert.Equal(t, "compare a<b and c>d please", rec.calls[0].Message)
}

func TestSend_MaxInputSizeOption(t *testing.T) {
	c := form.NewController(&recordingSubmitter{}, form.WithMaxInputSize(16))

	_, err := c.Send(context.Background(), "api", map[domain.FieldID]string{
		domain.FieldName:    "Jane",
		domain.FieldEmail:   "jane@x.com",
		domain.FieldSubject: "Hello",
		domain.FieldMessage: "a message longer than sixteen bytes",
	})
	var fe form.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe[domain.FieldMessage], "maximum")
}

func TestSend_FieldErrors(t *testing.T) {
	rec := &recordingSubmitter{}
	c := form.NewController(rec)

	_, err := c.Send(context.Background(), "api", map[domain.FieldID]string{
		domain.FieldEmail:   "jane",
		domain.FieldSubject: "Hello",
		domain.FieldMessage: "short",
	})
	var fe form.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, form.FieldErrors{
		domain.FieldName:    domain.MsgRequired,
		domain.FieldEmail:   domain.MsgInvalidEmail,
		domain.FieldMessage: domain.MsgMessageShort,
	}, fe)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid submission: email:"))
	assert.Zero(t, rec.count())
}

func TestSend_RejectsOversizedInput(t *testing.T) {
	c := form.NewController(&recordingSubmitter{})

	_, err := c.Send(context.Background(), "api", map[domain.FieldID]string{
		domain.FieldName:    "Jane",
		domain.FieldEmail:   "jane@x.com",
		domain.FieldSubject: "Hello",
		domain.FieldMessage: strings.Repeat("a", 10000),
	})
	var fe form.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe[domain.FieldMessage], "maximum")
}

func TestSend_BackendError(t *testing.T) {
	rec := &recordingSubmitter{err: errors.New("down")}
	c := form.NewController(rec)

	_, err := c.Send(context.Background(), "api", map[domain.FieldID]string{
		domain.FieldName:    "Jane",
		domain.FieldEmail:   "jane@x.com",
		domain.FieldSubject: "Hello",
		domain.FieldMessage: "long enough message",
	})
	require.Error(t, err)
	var fe form.FieldErrors
	assert.False(t, errors.As(err, &fe))
}
