package llmclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizePatientDataDropsProhibitedFields(t *testing.T) {
	raw := map[string]interface{}{
		"age":           52,
		"name":          "Jane Doe",
		"ssn":           "123-45-6789",
		"email":         "jane@example.com",
		"conditions":    []string{"breast cancer"},
		"date_of_birth": "1974-01-01",
	}

	out := SanitizePatientData(raw)

	assert.Equal(t, 52, out["age"])
	assert.Equal(t, []string{"breast cancer"}, out["conditions"])
	for _, prohibited := range []string{"name", "ssn", "email", "date_of_birth"} {
		_, exists := out[prohibited]
		assert.False(t, exists, "prohibited field %q leaked into sanitized output", prohibited)
	}
}

func TestSanitizePatientDataReducesLocationToCityStateCountry(t *testing.T) {
	raw := map[string]interface{}{
		"location": map[string]interface{}{
			"city":    "Boston",
			"state":   "MA",
			"country": "US",
			"street":  "123 Main St",
		},
	}

	out := SanitizePatientData(raw)

	loc, ok := out["location"].(map[string]interface{})
	if !ok {
		t.Fatal("expected location to sanitize to a map")
	}
	assert.Equal(t, "Boston", loc["city"])
	_, hasStreet := loc["street"]
	assert.False(t, hasStreet)
}

func TestSanitizePatientDataDropsUnknownFields(t *testing.T) {
	out := SanitizePatientData(map[string]interface{}{"favorite_color": "blue"})
	_, exists := out["favorite_color"]
	assert.False(t, exists, "fields outside the allow-list must be dropped, not just prohibited ones")
}
