// Package openfda is a thin client for the openFDA food enforcement API,
// which carries FSIS-regulated meat and poultry recalls (the FSIS site
// itself blocks automated access).
package openfda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// MaxLimit is the largest page the API accepts.
	MaxLimit = 100

	defaultTimeout = 30 * time.Second
)

// ErrNotFound marks an empty result set (openFDA answers 404 when a search
// matches nothing). Callers treat it as "no results", not a failure.
var ErrNotFound = errors.New("openfda: no matching records")

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// Enforcement is one food-enforcement record. Only the fields the
// normalizer reads are declared.
type Enforcement struct {
	RecallingFirm        string `json:"recalling_firm"`
	City                 string `json:"city"`
	State                string `json:"state"`
	Classification       string `json:"classification"`
	ReasonForRecall      string `json:"reason_for_recall"`
	ProductDescription   string `json:"product_description"`
	ProductQuantity      string `json:"product_quantity"`
	RecallNumber         string `json:"recall_number"`
	RecallInitiationDate string `json:"recall_initiation_date"`
	DistributionPattern  string `json:"distribution_pattern"`
	VoluntaryMandated    string `json:"voluntary_mandated"`
}

type searchResponse struct {
	Results []Enforcement `json:"results"`
}

// Search fetches one page of enforcement records. limit is clamped to
// MaxLimit; skip is the result offset.
func (c *Client) Search(ctx context.Context, query string, limit, skip int) ([]Enforcement, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	params := url.Values{}
	params.Set("search", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("skip", strconv.Itoa(skip))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build openfda request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openfda request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openfda request: status %d", resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode openfda response: %w", err)
	}
	return decoded.Results, nil
}
