package models

// WebhookProcessedMessage is the message returned for every handled notification.
const WebhookProcessedMessage = "Webhook traité avec succès"

// DirectEmailResponse answers a scripted {"email": "..."} notification.
type DirectEmailResponse struct {
	Message    string        `json:"message"`
	Email      string        `json:"email"`
	GoomResult ForwardResult `json:"goomResult"`
}

// RecordResult is the per-record entry of a RecordBatchResponse: either
// {recordId, email, goomResult} or {recordId, error}.
type RecordResult struct {
	RecordID   string         `json:"recordId,omitempty"`
	Email      string         `json:"email,omitempty"`
	GoomResult *ForwardResult `json:"goomResult,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// RecordBatchResponse answers a native Airtable webhook with changedRecords.
type RecordBatchResponse struct {
	Message          string         `json:"message"`
	ProcessedRecords int            `json:"processedRecords"`
	Results          []RecordResult `json:"results"`
}

// WebhookOutcome carries the response for whichever payload shape was processed.
type WebhookOutcome struct {
	Kind   PayloadKind
	Direct *DirectEmailResponse
	Batch  *RecordBatchResponse
}

// Body returns the JSON body to send back to Airtable.
func (o *WebhookOutcome) Body() any {
	if o.Kind == PayloadDirectEmail {
		return o.Direct
	}
	return o.Batch
}

// HealthResponse is served by GET /health.
type HealthResponse struct {
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
	GoomConfigured bool   `json:"goomConfigured"`
}

// TestForwardRequest is the body of POST /test/goom.
type TestForwardRequest struct {
	Email string `json:"email" binding:"required"`
}
