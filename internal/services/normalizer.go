package services

import (
	"fmt"
	"math"

	"github.com/voltalia/goom-relay/internal/models"
)

// NormalizePayload classifies an Airtable notification and extracts the
// e-mails to forward. A non-empty string "email" field wins outright;
// otherwise every entry of changedRecords whose contract field is set yields
// a target, in input order. Malformed input never errors, it is skipped.
func NormalizePayload(notification models.InboundNotification) models.NormalizedPayload {
	if email, ok := notification["email"].(string); ok && email != "" {
		return models.NormalizedPayload{
			Kind:    models.PayloadDirectEmail,
			Targets: []models.ExtractedTarget{{Email: email}},
		}
	}

	normalized := models.NormalizedPayload{
		Kind:    models.PayloadRecordChangeSet,
		Targets: []models.ExtractedTarget{},
	}

	records, _ := notification["changedRecords"].([]any)
	for _, raw := range records {
		record, ok := raw.(map[string]any)
		if !ok {
			normalized.Skipped++
			continue
		}

		changedFields, _ := record["changedFields"].(map[string]any)
		if !isContractSigned(changedFields) {
			normalized.Skipped++
			continue
		}

		target := models.ExtractedTarget{RecordID: stringify(record["id"])}
		if email := currentField(record, models.EmailField); truthy(email) {
			target.Email = stringify(email)
		} else {
			target.Error = models.MissingEmailError
		}
		normalized.Targets = append(normalized.Targets, target)
	}

	return normalized
}

// isContractSigned is true when the contract field is present, not null and not "".
func isContractSigned(changedFields map[string]any) bool {
	value, present := changedFields[models.ContractSignedField]
	if !present || value == nil {
		return false
	}
	if s, ok := value.(string); ok && s == "" {
		return false
	}
	return true
}

func currentField(record map[string]any, name string) any {
	current, _ := record["current"].(map[string]any)
	fields, _ := current["fields"].(map[string]any)
	return fields[name]
}

// truthy follows JSON-value truthiness: null, false, 0, NaN and "" are falsy.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0 && !math.IsNaN(v)
	default:
		return true
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
