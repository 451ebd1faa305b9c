package models

// GoomActionValidateQuote is the only action sent to the Goom gateway.
const GoomActionValidateQuote = "validate_quote"

// GoomRequest is the body posted to the Goom project webhook.
type GoomRequest struct {
	Email  string `json:"email"`
	Action string `json:"action"`
}

// ForwardResult is the outcome of one call to the Goom gateway.
// Success only reflects transport: any HTTP response counts as sent, and the
// upstream verdict is left to Status and Data.
type ForwardResult struct {
	Success bool   `json:"success"`
	Status  *int   `json:"status,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ForwardSent builds the result for a call that received an HTTP response.
func ForwardSent(status int, data any) ForwardResult {
	return ForwardResult{Success: true, Status: &status, Data: data}
}

// ForwardFailed builds the result for a call that never got a usable response.
func ForwardFailed(message string) ForwardResult {
	return ForwardResult{Success: false, Error: message}
}
