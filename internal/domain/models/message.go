package models

// Severity classifies a user-facing status message.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// StatusMessage is the inline feedback surfaced after an operation. Failures
// at the API boundary become messages, not escaping exceptions; only session
// expiry is escalated past this.
type StatusMessage struct {
	Severity Severity `json:"severity"`
	Text     string   `json:"text"`
}

// Success builds a success-severity message.
func Success(text string) StatusMessage {
	return StatusMessage{Severity: SeveritySuccess, Text: text}
}

// Warning builds a warning-severity message for failed local validation.
func Warning(text string) StatusMessage {
	return StatusMessage{Severity: SeverityWarning, Text: text}
}

// Error builds an error-severity message for transport or server failures.
func Error(text string) StatusMessage {
	return StatusMessage{Severity: SeverityError, Text: text}
}
