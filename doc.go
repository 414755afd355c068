/*
Package folio is the behavior layer of a personal portfolio site: the contact
form state machine, the page bindings around it, and the server that renders
the page and drives one form per visitor.

# Concept

The contact form is a small state machine (Idle, Validating, Submitting,
Success, Failed). Fields are validated on blur, re-validated on input while
they show an error, and all together on submit. A valid form is handed to a
submission backend; the outcome is reported in a single banner and the form
always returns to Idle with its submit control enabled.

# Usage

Build an App from the configuration and serve it, or drive the controller
directly:

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal(err)
	}
	app, err := folio.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer app.Close()

	ctx := context.Background()
	f, _ := app.Dispatcher().Dispatch(ctx, "visitor-1", domain.Event{
		Type: domain.EventInput, Field: domain.FieldEmail, Value: "jane@example.com",
	})
	fmt.Println(f.State)

The terminal Runner fills and submits the form from any io.Reader, which is
what `folio submit` uses.
*/
package folio
