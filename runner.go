package folio

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/form"
	"github.com/aretw0/folio/pkg/validation"
)

// Prompt asks for one value. validate returns the inline error of a candidate
// value, or nil when it passes.
type Prompt func(label string, validate func(string) error) (string, error)

// Runner fills and submits the contact form in a terminal, one field at a time.
// Each value goes through the same input and blur events as on the page.
type Runner struct {
	Input  io.Reader
	Output io.Writer
	// Headless fails on the first invalid value instead of asking again.
	Headless bool
	// Prompt replaces line reading from Input (e.g. an interactive prompt).
	Prompt Prompt
}

// FieldLabel is the prompt label of a field.
func FieldLabel(id domain.FieldID) string {
	s := string(id)
	return strings.ToUpper(s[:1]) + s[1:]
}

// FieldValidator returns the validate func of a field for interactive prompts.
func FieldValidator(id domain.FieldID) func(string) error {
	var field domain.Field
	for _, f := range domain.ContactFields() {
		if f.ID == id {
			field = f
		}
	}
	return func(v string) error {
		field.Value = v
		if res := validation.Validate(field); !res.Valid {
			return errors.New(res.Message)
		}
		return nil
	}
}

// Run collects every field, submits the form and prints the banner.
// It returns the final form.
func (r *Runner) Run(ctx context.Context, ctrl *form.Controller, sessionID string) (*domain.Form, error) {
	if r.Output == nil {
		return nil, fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	prompt := r.Prompt
	if prompt == nil {
		if r.Input == nil {
			return nil, fmt.Errorf("input reader must be set (use os.Stdin)")
		}
		prompt = r.linePrompt(bufio.NewReader(r.Input))
	}

	if !r.Headless {
		fmt.Fprintln(r.Output, "--- Contact ---")
	}

	f := domain.NewForm(sessionID)
	for _, field := range domain.ContactFields() {
		var err error
		for {
			var value string
			value, err = prompt(FieldLabel(field.ID), FieldValidator(field.ID))
			if err != nil {
				return f, fmt.Errorf("reading %s: %w", field.ID, err)
			}
			if f, err = ctrl.Input(ctx, f, field.ID, value); err != nil {
				return f, err
			}
			if f, err = ctrl.Blur(ctx, f, field.ID); err != nil {
				return f, err
			}
			current, _ := f.Field(field.ID)
			if !current.Invalid {
				break
			}
			fmt.Fprintf(r.Output, "  ✗ %s\n", current.Error)
			if r.Headless {
				return f, fmt.Errorf("%s: %s", field.ID, current.Error)
			}
		}
	}

	f, err := ctrl.Submit(ctx, f)
	if err != nil {
		return f, err
	}
	if f.Message.Visible {
		fmt.Fprintln(r.Output, f.Message.Text)
	}
	if f.Message.Kind == domain.MessageError {
		return f, errors.New("submission failed")
	}
	return f, nil
}

func (r *Runner) linePrompt(in *bufio.Reader) Prompt {
	return func(label string, _ func(string) error) (string, error) {
		fmt.Fprintf(r.Output, "%s: ", label)
		text, err := in.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && text != "" {
				return strings.TrimRight(text, "\r\n"), nil
			}
			if errors.Is(err, io.EOF) {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}
		return strings.TrimRight(text, "\r\n"), nil
	}
}
