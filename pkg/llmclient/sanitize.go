package llmclient

import "strings"

// allowedPatientFields is the mandatory allow-list spec.md §4.2 requires
// before any patient data is embedded in an outbound prompt.
var allowedPatientFields = map[string]bool{
	"age": true, "sex": true, "gender": true, "conditions": true,
	"medications": true, "medical_history": true, "lab_values": true,
	"allergies": true, "smoking": true, "alcohol_use": true,
	"performance_status": true,
}

var prohibitedFields = map[string]bool{
	"name": true, "first_name": true, "last_name": true, "ssn": true,
	"mrn": true, "email": true, "phone": true, "address": true,
	"date_of_birth": true, "dob": true, "insurance": true,
	"emergency_contact": true, "patient_id": true,
}

// SanitizePatientData is the single choke point through which patient
// fields must pass before reaching an outbound LLM prompt. Any key not
// on the allow-list is dropped; location is reduced to city/state/country.
func SanitizePatientData(raw map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		lower := strings.ToLower(k)
		if prohibitedFields[lower] {
			continue
		}
		if lower == "location" {
			out["location"] = sanitizeLocation(v)
			continue
		}
		if allowedPatientFields[lower] {
			out[k] = v
		}
	}
	return out
}

func sanitizeLocation(v interface{}) map[string]interface{} {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	out := map[string]interface{}{}
	for _, key := range []string{"city", "state", "country"} {
		if val, exists := m[key]; exists {
			out[key] = val
		}
	}
	return out
}
