/*
Package form implements the contact form Submission Controller.

The Controller is a deterministic state machine over domain.SubmissionState:

	Idle --submit--> Validating --invalid--> Idle
	                 Validating --valid----> Submitting --ok----> Success --> Idle
	                                         Submitting --error-> Failed  --> Idle

It never touches a UI: every operation takes a *domain.Form snapshot and
returns the next snapshot, leaving the input untouched. Adapters (HTTP, DOM,
MCP) feed it events through Dispatch and render whatever comes back.

The backend call is the only suspension point. Callers that persist the form
between events use the split API (BeginSubmit, Deliver, CompleteSubmit) so they
do not hold a session lock across the network call.
*/
package form
