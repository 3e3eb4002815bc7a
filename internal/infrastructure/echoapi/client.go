// Package echoapi is a thin client for the EPA ECHO Clean Water Act REST
// services (facility search + query-id paging).
//
// ECHO computes large queries server-side: both endpoints can answer with a
// "Working" message instead of data, and callers are expected to re-issue
// the same request until the result set is materialized. All scalar fields
// arrive as JSON strings.
package echoapi

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
	// StatusWorking is the Results.Message value while the server is still
	// computing a query or page.
	StatusWorking = "Working"

	PageSize = 100

	defaultTimeout = 60 * time.Second
)

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

type envelope struct {
	Results Results `json:"Results"`
}

// Results is the common ECHO response envelope for both endpoints.
type Results struct {
	Message    string     `json:"Message"`
	QueryID    string     `json:"QueryID"`
	QueryRows  string     `json:"QueryRows"`
	Facilities []Facility `json:"Facilities"`
}

// Working reports whether the server is still materializing the result set.
func (r Results) Working() bool {
	return r.Message == StatusWorking
}

// Rows parses QueryRows, zero on absence or malformed input.
func (r Results) Rows() int {
	n, err := strconv.Atoi(strings.TrimSpace(r.QueryRows))
	if err != nil {
		return 0
	}
	return n
}

// Facility is one CWA facility row as returned by ECHO.
type Facility struct {
	CWPName               string `json:"CWPName"`
	SourceID              string `json:"SourceID"`
	CWPStreet             string `json:"CWPStreet"`
	CWPCity               string `json:"CWPCity"`
	CWPState              string `json:"CWPState"`
	CWPCounty             string `json:"CWPCounty"`
	FacLat                string `json:"FacLat"`
	FacLong               string `json:"FacLong"`
	CWPComplianceStatus   string `json:"CWPComplianceStatus"`
	CWPSNCStatus          string `json:"CWPSNCStatus"`
	CWPQtrsWithNC         string `json:"CWPQtrsWithNC"`
	CWPPermitStatusDesc   string `json:"CWPPermitStatusDesc"`
	CWPDateLastInspection string `json:"CWPDateLastInspection"`
	CWPDateLastPenalty    string `json:"CWPDateLastPenalty"`
	CWPTotalPenalties     string `json:"CWPTotalPenalties"`
	CWPFormalEaCount      string `json:"CWPFormalEaCount"`
}

// GetFacilities issues the initiating CWA facility query for one SIC code.
// p_qiv=V restricts results to facilities with violations.
func (c *Client) GetFacilities(ctx context.Context, sicCode string) (Results, error) {
	params := url.Values{}
	params.Set("output", "JSON")
	params.Set("p_sic", sicCode)
	params.Set("p_qiv", "V")
	params.Set("responseset", "0")

	return c.get(ctx, "/cwa_rest_services.get_facilities", params)
}

// GetQueryPage fetches one page of a previously submitted query by job id.
func (c *Client) GetQueryPage(ctx context.Context, queryID string, page, pageSize int) (Results, error) {
	params := url.Values{}
	params.Set("output", "JSON")
	params.Set("qid", queryID)
	params.Set("responseset", strconv.Itoa(page))
	params.Set("pagesize", strconv.Itoa(pageSize))

	return c.get(ctx, "/cwa_rest_services.get_qid", params)
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (Results, error) {
	if ctx == nil {
		return Results{}, errors.New("context is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return Results{}, fmt.Errorf("build echo request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Results{}, fmt.Errorf("echo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Results{}, fmt.Errorf("echo request %s: status %d", path, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return Results{}, fmt.Errorf("decode echo response: %w", err)
	}
	return env.Results, nil
}
