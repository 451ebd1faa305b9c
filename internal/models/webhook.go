package models

// ContractSignedField is the Airtable column whose change marks a signed subscription contract.
const ContractSignedField = "Contrat abonnement signe"

// EmailField is the Airtable column holding the customer e-mail.
const EmailField = "Email"

// MissingEmailError is reported for a signed record without an e-mail.
const MissingEmailError = "Email manquant"

// InboundNotification is the raw JSON object posted by Airtable, either a
// scripted {"email": "..."} payload or a native webhook carrying changedRecords.
type InboundNotification map[string]any

// PayloadKind classifies an InboundNotification.
type PayloadKind string

const (
	PayloadDirectEmail     PayloadKind = "direct_email"
	PayloadRecordChangeSet PayloadKind = "record_change_set"
)

// ExtractedTarget is one unit of work derived from a notification.
// Exactly one of Email and Error is set for record targets.
type ExtractedTarget struct {
	RecordID string
	Email    string
	Error    string
}

// HasEmail reports whether the target can be forwarded.
func (t ExtractedTarget) HasEmail() bool {
	return t.Error == "" && t.Email != ""
}

// NormalizedPayload is the classification of a notification.
type NormalizedPayload struct {
	Kind    PayloadKind
	Targets []ExtractedTarget
	Skipped int // changed records ignored because the contract field was empty
}
