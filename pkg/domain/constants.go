package domain

// User facing texts. They are part of the page contract and are compared
// verbatim by clients, so keep them stable.
const (
	MsgRequired     = "This field is required"
	MsgInvalidEmail = "Please enter a valid email address"
	MsgMessageShort = "Message should be at least 10 characters"

	MsgSubmitSuccess = "Thank you! Your message has been sent successfully. I'll get back to you soon."
	MsgSubmitFailure = "Oops! Something went wrong. Please try again later."
)

// MessageMinLength is the minimum trimmed length of the message field.
const MessageMinLength = 10
