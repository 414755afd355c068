/*
Package domain contains the core domain models of the folio contact form.

It defines the fields of the form, the result of validating one of them, the
submission state machine states and the banner shown after a submission. The
package is kept pure and free of I/O, persistence and UI concerns so that the
controller built on top of it can be driven by any adapter (HTTP, DOM, MCP).

# Key Entities

  - Field: one named input of the contact form with its presentation error state.
  - ValidationResult: the outcome of validating a single field.
  - SubmissionState: Idle, Validating, Submitting, Success or Failed.
  - Form: the complete snapshot of one visitor's form.
  - Submission: the data handed to a submission backend.
*/
package domain
