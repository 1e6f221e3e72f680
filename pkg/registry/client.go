// Package registry implements C1, the clinical-trials registry client:
// rate-limited, retrying HTTPS fetches normalized into domain.Trial.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/medmatch/matching-core/internal/domain"
	"github.com/medmatch/matching-core/internal/ratelimit"
	"github.com/medmatch/matching-core/internal/retryutil"
	"github.com/medmatch/matching-core/internal/telemetry"
)

// Client fetches and normalizes trial records from the external registry.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *ratelimit.SlidingWindow
	breaker    *gobreaker.CircuitBreaker
	policy     retryutil.Policy
	logger     *telemetry.Logger
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	RateLimit  int // requests per 60s window
	Timeout    time.Duration
	MaxRetries int
}

// New builds a Client from cfg, wiring a sliding-window limiter and a
// circuit breaker tripping after a sustained majority-failure ratio.
func New(cfg Config, logger *telemetry.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "clinicaltrials-registry",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithContext(context.Background()).WithFields(logger.Fields(map[string]interface{}{
				"breaker": name, "from": from.String(), "to": to.String(),
			})).Warn("registry circuit breaker state change")
		},
	})

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    ratelimit.NewSlidingWindow(cfg.RateLimit, time.Minute),
		breaker:    breaker,
		policy:     retryutil.Policy{MaxRetries: cfg.MaxRetries, BaseDelay: time.Second, MaxDelay: 30 * time.Second},
		logger:     logger,
	}
}

// SearchParams captures the filters accepted by Search.
type SearchParams struct {
	Conditions    []string
	Keywords      []string
	StatusFilter  []domain.TrialStatus
	LocationFilter string
	AgeRange      domain.AgeRequirements
	PageSize      int
	PageToken     string
}

// SearchResult is Search's return value.
type SearchResult struct {
	Trials        []domain.Trial
	TotalCount    int
	NextPageToken string
}

// registryResponse models the subset of the v2 JSON payload this client
// consumes; unrecognized fields are ignored by encoding/json by default.
type registryResponse struct {
	Studies []registryStudy `json:"studies"`
	TotalCount int          `json:"totalCount"`
	NextPageToken string     `json:"nextPageToken"`
}

type registryStudy struct {
	ProtocolSection struct {
		IdentificationModule struct {
			NCTId string `json:"nctId"`
			BriefTitle string `json:"briefTitle"`
		} `json:"identificationModule"`
		StatusModule struct {
			OverallStatus string `json:"overallStatus"`
		} `json:"statusModule"`
		DescriptionModule struct {
			BriefSummary string `json:"briefSummary"`
			DetailedDescription string `json:"detailedDescription"`
		} `json:"descriptionModule"`
		DesignModule struct {
			StudyType string `json:"studyType"`
			Phases []string `json:"phases"`
			EnrollmentInfo struct {
				Count int `json:"count"`
			} `json:"enrollmentInfo"`
		} `json:"designModule"`
		ConditionsModule struct {
			Conditions []string `json:"conditions"`
		} `json:"conditionsModule"`
		ArmsInterventionsModule struct {
			Interventions []struct {
				Name string `json:"name"`
			} `json:"interventions"`
		} `json:"armsInterventionsModule"`
		EligibilityModule struct {
			EligibilityCriteria string `json:"eligibilityCriteria"`
			MinimumAge string `json:"minimumAge"`
			MaximumAge string `json:"maximumAge"`
			Sex        string `json:"sex"`
		} `json:"eligibilityModule"`
		ContactsLocationsModule struct {
			Locations []struct {
				Facility string `json:"facility"`
				City     string `json:"city"`
				State    string `json:"state"`
				Country  string `json:"country"`
			} `json:"locations"`
		} `json:"contactsLocationsModule"`
	} `json:"protocolSection"`
}

// Search issues a filtered, paginated query against the registry.
func (c *Client) Search(ctx context.Context, p SearchParams) (*SearchResult, error) {
	params := url.Values{}
	if len(p.Conditions) > 0 || len(p.Keywords) > 0 {
		params.Set("query.term", joinTerms(p.Conditions, p.Keywords))
	}
	if len(p.StatusFilter) > 0 {
		params.Set("filter.overallStatus", joinStatuses(p.StatusFilter))
	}
	if p.LocationFilter != "" {
		params.Set("filter.geo", p.LocationFilter)
	}
	pageSize := p.PageSize
	if pageSize <= 0 || pageSize > 1000 {
		pageSize = 50
	}
	params.Set("pageSize", strconv.Itoa(pageSize))
	if p.PageToken != "" {
		params.Set("pageToken", p.PageToken)
	}

	raw, err := c.getWithResilience(ctx, "/studies", params)
	if err != nil {
		return nil, err
	}

	var resp registryResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, domain.NewOtherError(0, snippetOf(raw), fmt.Errorf("decode registry response: %w", err))
	}

	trials := make([]domain.Trial, 0, len(resp.Studies))
	for _, s := range resp.Studies {
		t := normalizeStudy(s)
		if t.Validate() != nil {
			continue
		}
		if !t.Eligibility.AgeRequirements.OverlapsWith(p.AgeRange) {
			continue
		}
		trials = append(trials, t)
	}

	return &SearchResult{Trials: trials, TotalCount: resp.TotalCount, NextPageToken: resp.NextPageToken}, nil
}

// GetByNCTID fetches a single trial record by its NCT id.
func (c *Client) GetByNCTID(ctx context.Context, nctID string) (*domain.Trial, error) {
	if !domain.IsValidNCTID(nctID) {
		return nil, domain.NewValidationError("nct_id", fmt.Sprintf("%q does not match NCT\\d{8}", nctID))
	}

	raw, err := c.getWithResilience(ctx, "/studies/"+nctID, url.Values{})
	if err != nil {
		return nil, err
	}

	var study registryStudy
	if err := json.Unmarshal(raw, &study); err != nil {
		return nil, domain.NewOtherError(0, snippetOf(raw), fmt.Errorf("decode study: %w", err))
	}

	trial := normalizeStudy(study)
	if err := trial.Validate(); err != nil {
		return nil, err
	}
	return &trial, nil
}

// SearchForPatient builds registry filters from a free-text excerpt and
// pages through results until maxResults trials are collected.
func (c *Client) SearchForPatient(ctx context.Context, patientExcerpt string, maxResults int) ([]domain.Trial, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	keywords := extractKeywords(patientExcerpt)
	var out []domain.Trial
	pageToken := ""

	for len(out) < maxResults {
		res, err := c.Search(ctx, SearchParams{
			Keywords:     keywords,
			StatusFilter: domain.DefaultRegistryStatusFilter(),
			PageSize:     maxResults,
			PageToken:    pageToken,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, res.Trials...)
		if res.NextPageToken == "" || len(res.Trials) == 0 {
			break
		}
		pageToken = res.NextPageToken
	}

	if len(out) > maxResults {
		out = out[:maxResults]
	}
	return out, nil
}

func (c *Client) getWithResilience(ctx context.Context, path string, params url.Values) ([]byte, error) {
	var body []byte

	err := retryutil.Do(ctx, c.policy, func(attempt int) error {
		if !c.limiter.Allow() {
			wait := c.limiter.RetryAfter() + 100*time.Millisecond
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		result, breakerErr := c.breaker.Execute(func() (interface{}, error) {
			return c.doGet(ctx, path, params)
		})
		if breakerErr != nil {
			if breakerErr == gobreaker.ErrOpenState {
				return &domain.ClientError{Kind: domain.ErrKindNetwork, Message: "registry circuit breaker open"}
			}
			return breakerErr
		}
		body = result.([]byte)
		return nil
	}, func(err error) (bool, time.Duration) {
		if err == context.Canceled || err == context.DeadlineExceeded {
			return false, 0
		}
		return retryutil.ClassifyClientError(err)
	})

	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) doGet(ctx context.Context, path string, params url.Values) ([]byte, error) {
	full := c.baseURL + path
	if len(params) > 0 {
		full += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return nil, &domain.ClientError{Kind: domain.ErrKindOther, Message: "build request", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &domain.ClientError{Kind: domain.ErrKindTimeout, Message: "request timed out", Err: err}
		}
		return nil, &domain.ClientError{Kind: domain.ErrKindNetwork, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		if ce := retryutil.ClassifyHTTPStatus(resp, snippetOf(body)); ce != nil {
			return nil, ce
		}
	}

	return body, nil
}

func snippetOf(body []byte) string {
	s := string(body)
	if len(s) > 200 {
		return s[:200]
	}
	return s
}

func joinTerms(conditions, keywords []string) string {
	terms := append(append([]string{}, conditions...), keywords...)
	out := ""
	for i, t := range terms {
		if i > 0 {
			out += " OR "
		}
		out += t
	}
	return out
}

func joinStatuses(statuses []domain.TrialStatus) string {
	out := ""
	for i, s := range statuses {
		if i > 0 {
			out += ","
		}
		out += string(s)
	}
	return out
}

func extractKeywords(text string) []string {
	// Deliberately minimal: the orchestrator already runs the full C3
	// extractor before reaching C1; this is only the narrower fallback
	// mentioned in spec.md §4.1's convenience operation.
	words := make([]string, 0, 4)
	cur := ""
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			cur += string(r)
			continue
		}
		if len(cur) > 3 {
			words = append(words, cur)
		}
		cur = ""
		if len(words) >= 5 {
			break
		}
	}
	if len(cur) > 3 && len(words) < 5 {
		words = append(words, cur)
	}
	return words
}
