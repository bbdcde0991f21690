package cvss

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gabrieldeoliveira72/MVPMoral/internal/models"
	"github.com/gabrieldeoliveira72/MVPMoral/pkg/logger"
)

// DefaultNVDBaseURL is the NVD CVE API 2.0 endpoint.
const DefaultNVDBaseURL = "https://services.nvd.nist.gov/rest/json/cves/2.0"

// DefaultLookupTimeout bounds a single lookup request.
const DefaultLookupTimeout = 10 * time.Second

// NVDClient queries the NVD CVE API for CVSS scores.
type NVDClient struct {
	httpClient *http.Client
	logger     logger.Logger
	baseURL    string
	apiKey     string
}

// NVDOption configures an NVDClient.
type NVDOption func(*NVDClient)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(u string) NVDOption {
	return func(c *NVDClient) {
		c.baseURL = u
	}
}

// WithAPIKey sets the NVD API key header.
func WithAPIKey(key string) NVDOption {
	return func(c *NVDClient) {
		c.apiKey = key
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) NVDOption {
	return func(c *NVDClient) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) NVDOption {
	return func(c *NVDClient) {
		c.httpClient = hc
	}
}

// NewNVDClient creates a client for the NVD CVE API.
func NewNVDClient(opts ...NVDOption) *NVDClient {
	return NewNVDClientWithLogger(logger.GetGlobalLogger(), opts...)
}

// NewNVDClientWithLogger creates a client with a custom logger.
func NewNVDClientWithLogger(log logger.Logger, opts ...NVDOption) *NVDClient {
	c := &NVDClient{
		baseURL:    DefaultNVDBaseURL,
		httpClient: &http.Client{Timeout: DefaultLookupTimeout},
		logger:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// nvdResponse mirrors the slice of the NVD API 2.0 response we consume.
type nvdResponse struct {
	Vulnerabilities []struct {
		CVE struct {
			ID      string `json:"id"`
			Metrics struct {
				CVSSMetricV31 []nvdMetricV3 `json:"cvssMetricV31"`
				CVSSMetricV30 []nvdMetricV3 `json:"cvssMetricV30"`
				CVSSMetricV2  []nvdMetricV2 `json:"cvssMetricV2"`
			} `json:"metrics"`
		} `json:"cve"`
	} `json:"vulnerabilities"`
}

type nvdMetricV3 struct {
	CVSSData struct {
		Version               string  `json:"version"`
		VectorString          string  `json:"vectorString"`
		AttackVector          string  `json:"attackVector"`
		AttackComplexity      string  `json:"attackComplexity"`
		PrivilegesRequired    string  `json:"privilegesRequired"`
		UserInteraction       string  `json:"userInteraction"`
		Scope                 string  `json:"scope"`
		ConfidentialityImpact string  `json:"confidentialityImpact"`
		IntegrityImpact       string  `json:"integrityImpact"`
		AvailabilityImpact    string  `json:"availabilityImpact"`
		BaseScore             float64 `json:"baseScore"`
		BaseSeverity          string  `json:"baseSeverity"`
	} `json:"cvssData"`
	ExploitabilityScore float64 `json:"exploitabilityScore"`
	ImpactScore         float64 `json:"impactScore"`
}

type nvdMetricV2 struct {
	CVSSData struct {
		Version      string  `json:"version"`
		VectorString string  `json:"vectorString"`
		AccessVector string  `json:"accessVector"`
		BaseScore    float64 `json:"baseScore"`
	} `json:"cvssData"`
	BaseSeverity        string  `json:"baseSeverity"`
	ExploitabilityScore float64 `json:"exploitabilityScore"`
	ImpactScore         float64 `json:"impactScore"`
}

// FetchScore queries the NVD API for a CVE and normalizes the response,
// preferring CVSS v3.1, then v3.0, then v2.0.
func (c *NVDClient) FetchScore(ctx context.Context, cveID string) (*models.CVSSScore, error) {
	reqURL := fmt.Sprintf("%s?cveId=%s", c.baseURL, url.QueryEscape(cveID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building nvd request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apiKey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying nvd: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nvd returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("reading nvd response: %w", err)
	}

	var parsed nvdResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing nvd response: %w", err)
	}

	if len(parsed.Vulnerabilities) == 0 {
		return nil, ErrNotFound
	}

	score, err := normalizeMetrics(&parsed)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Fetched CVSS score", "cve", cveID, "version", score.Version, "base_score", score.BaseScore)
	return score, nil
}

// normalizeMetrics picks the latest CVSS version present on the record.
func normalizeMetrics(resp *nvdResponse) (*models.CVSSScore, error) {
	metrics := resp.Vulnerabilities[0].CVE.Metrics

	if m := firstV3(metrics.CVSSMetricV31); m != nil {
		return scoreFromV3(m, models.CVSSVersion31), nil
	}
	if m := firstV3(metrics.CVSSMetricV30); m != nil {
		return scoreFromV3(m, models.CVSSVersion30), nil
	}
	if len(metrics.CVSSMetricV2) > 0 {
		m := &metrics.CVSSMetricV2[0]
		return &models.CVSSScore{
			BaseScore:           m.CVSSData.BaseScore,
			Severity:            models.NormalizeCVSSSeverity(m.BaseSeverity),
			Vector:              m.CVSSData.VectorString,
			Version:             models.CVSSVersion20,
			ExploitabilityScore: m.ExploitabilityScore,
			ImpactScore:         m.ImpactScore,
			AttackVector:        m.CVSSData.AccessVector,
		}, nil
	}

	return nil, ErrNoMetrics
}

func firstV3(metrics []nvdMetricV3) *nvdMetricV3 {
	if len(metrics) == 0 {
		return nil
	}
	return &metrics[0]
}

func scoreFromV3(m *nvdMetricV3, version string) *models.CVSSScore {
	return &models.CVSSScore{
		BaseScore:             m.CVSSData.BaseScore,
		Severity:              models.NormalizeCVSSSeverity(m.CVSSData.BaseSeverity),
		Vector:                m.CVSSData.VectorString,
		Version:               version,
		ExploitabilityScore:   m.ExploitabilityScore,
		ImpactScore:           m.ImpactScore,
		AttackVector:          m.CVSSData.AttackVector,
		AttackComplexity:      m.CVSSData.AttackComplexity,
		PrivilegesRequired:    m.CVSSData.PrivilegesRequired,
		UserInteraction:       m.CVSSData.UserInteraction,
		Scope:                 m.CVSSData.Scope,
		ConfidentialityImpact: m.CVSSData.ConfidentialityImpact,
		IntegrityImpact:       m.CVSSData.IntegrityImpact,
		AvailabilityImpact:    m.CVSSData.AvailabilityImpact,
	}
}
