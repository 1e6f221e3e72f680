package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsUnknownLevelToInfo(t *testing.T) {
	l := New(Config{Level: "not-a-level", Format: "json"})
	assert.Equal(t, "info", l.GetLevel().String())
}

func TestWithRequestIDGeneratesOnce(t *testing.T) {
	ctx := context.Background()
	ctx, id := WithRequestID(ctx)
	require.NotEmpty(t, id)

	_, id2 := WithRequestID(ctx)
	assert.Equal(t, id, id2, "existing request id should be reused, not regenerated")
}

func TestPatientFieldRedactsWhenHIPAASafe(t *testing.T) {
	l := New(Config{Level: "info", Format: "text", HIPAASafeLogging: true})

	got := l.PatientField("medical_query", "patient has stage 3 lung cancer")
	assert.Equal(t, "[REDACTED]", got)

	got = l.PatientField("nct_id", "NCT04444444")
	assert.Equal(t, "NCT04444444", got, "non-sensitive key should pass through")
}

func TestPatientFieldPassesThroughWhenDisabled(t *testing.T) {
	l := New(Config{Level: "info", Format: "text", HIPAASafeLogging: false})

	got := l.PatientField("patient_id", "abc123")
	assert.Equal(t, "abc123", got)
}

func TestPatientFieldTruncatesLongValues(t *testing.T) {
	l := New(Config{Level: "info", Format: "text", HIPAASafeLogging: true})

	long := make([]byte, 600)
	for i := range long {
		long[i] = 'a'
	}
	got := l.PatientField("summary", string(long))
	s, ok := got.(string)
	require.True(t, ok)
	assert.True(t, len(s) < 600)
	assert.Contains(t, s, "[TRUNCATED]")
}
