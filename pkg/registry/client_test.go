package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medmatch/matching-core/internal/telemetry"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	c := New(Config{
		BaseURL:    srv.URL,
		RateLimit:  100,
		Timeout:    5 * time.Second,
		MaxRetries: 2,
	}, telemetry.New(telemetry.Config{Level: "error", Format: "text"}))
	return c, srv
}

func TestGetByNCTIDRejectsInvalidFormat(t *testing.T) {
	c, srv := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach the network for an invalid id")
	})
	defer srv.Close()

	_, err := c.GetByNCTID(context.Background(), "not-an-id")
	require.Error(t, err)
}

func TestGetByNCTIDSuccess(t *testing.T) {
	body := `{"protocolSection":{"identificationModule":{"nctId":"NCT04444444","briefTitle":"Test Trial"},"statusModule":{"overallStatus":"RECRUITING"},"eligibilityModule":{"minimumAge":"18 Years","maximumAge":"N/A"}}}`

	c, srv := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	})
	defer srv.Close()

	trial, err := c.GetByNCTID(context.Background(), "NCT04444444")
	require.NoError(t, err)
	assert.Equal(t, "Test Trial", trial.Title)
}

func TestSearchRetriesOn429ThenSucceeds(t *testing.T) {
	calls := 0
	c, srv := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"studies":[],"totalCount":0}`))
	})
	defer srv.Close()

	res, err := c.Search(context.Background(), SearchParams{Keywords: []string{"cancer"}})
	require.NoError(t, err)
	assert.Equal(t, 0, res.TotalCount)
	assert.Equal(t, 2, calls)
}

func TestSearchFailsFastOnBadRequest(t *testing.T) {
	calls := 0
	c, srv := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad query"))
	})
	defer srv.Close()

	_, err := c.Search(context.Background(), SearchParams{})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "4xx other than 429 should fail fast, not retry")
}
