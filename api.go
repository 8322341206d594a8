package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
)

// The three ways a fetch can fail. Callers branch with errors.Is when
// they care; the dashboard treats all three the same (log and keep the
// previous data).
var (
	ErrTransport     = errors.New("api transport failure")
	ErrDecode        = errors.New("api response not decodable")
	ErrNotSuccessful = errors.New("api request not successful")
)

// APIClient talks to the tracker backend. Every endpoint is a GET
// returning a {success, data} JSON envelope; failures are reported
// inside the envelope, not on the status line.
type APIClient struct {
	BaseURL string

	contactsDays    int
	contactsLimit   int
	activitiesDays  int
	activitiesLimit int
}

func NewAPIClient(cfg Config) *APIClient {
	return &APIClient{
		BaseURL:         cfg.APIBaseURL,
		contactsDays:    cfg.ContactsDays,
		contactsLimit:   cfg.ContactsLimit,
		activitiesDays:  cfg.ActivitiesDays,
		activitiesLimit: cfg.ActivitiesLimit,
	}
}

// get issues the request and decodes the body into out. The body is
// decoded regardless of status code: the backend signals failure via
// the envelope, so a non-2xx with a parsable body is not special.
func (c *APIClient) get(path string, query url.Values, out any) error {
	apiURL := c.BaseURL + path
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}
	log.Printf("api fetch url=%s", apiURL)

	resp, err := externalHTTPClient.Get(apiURL)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrTransport, path, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrTransport, path, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: parsing %s: %v", ErrDecode, path, err)
	}
	return nil
}

// ListProjects returns the projects the backend can analyze.
func (c *APIClient) ListProjects() ([]Project, error) {
	var envelope struct {
		Success bool      `json:"success"`
		Data    []Project `json:"data"`
	}
	if err := c.get("/projects/list", nil, &envelope); err != nil {
		return nil, err
	}
	if !envelope.Success {
		return nil, fmt.Errorf("%w: /projects/list", ErrNotSuccessful)
	}
	return envelope.Data, nil
}

// AnalyzeProject runs the backend's commit-vs-ticket analysis for one
// project. Only active tickets are analyzed; that matches the backend
// batch analyzer's own default.
func (c *APIClient) AnalyzeProject(key string) (*ProjectAnalysis, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty project key", ErrNotSuccessful)
	}
	var envelope struct {
		Success bool             `json:"success"`
		Data    *ProjectAnalysis `json:"data"`
	}
	path := "/projects/" + url.PathEscape(key) + "/analyze"
	query := url.Values{"status_filter": {"active"}}
	if err := c.get(path, query, &envelope); err != nil {
		return nil, err
	}
	if !envelope.Success || envelope.Data == nil {
		return nil, fmt.Errorf("%w: analyze %s", ErrNotSuccessful, key)
	}
	return envelope.Data, nil
}

// RecentContacts fetches the CRM's recent-contacts snapshot. Unlike
// the other endpoints, this envelope carries period and data as
// siblings of success.
func (c *APIClient) RecentContacts() (*ContactsSnapshot, error) {
	var envelope struct {
		Success bool         `json:"success"`
		Period  Period       `json:"period"`
		Data    ContactsData `json:"data"`
	}
	query := url.Values{
		"days":  {fmt.Sprint(c.contactsDays)},
		"limit": {fmt.Sprint(c.contactsLimit)},
	}
	if err := c.get("/hubspot/contacts/recent", query, &envelope); err != nil {
		return nil, err
	}
	if !envelope.Success {
		return nil, fmt.Errorf("%w: /hubspot/contacts/recent", ErrNotSuccessful)
	}
	return &ContactsSnapshot{Period: envelope.Period, Data: envelope.Data}, nil
}

// RecentActivities fetches the CRM's recent-activities snapshot. A
// HubSpot-side failure arrives as data.error with success still true;
// that is passed through for the view to show, not turned into an error.
func (c *APIClient) RecentActivities() (*ActivitiesSnapshot, error) {
	var envelope struct {
		Success bool           `json:"success"`
		Data    ActivitiesData `json:"data"`
	}
	query := url.Values{
		"days":  {fmt.Sprint(c.activitiesDays)},
		"limit": {fmt.Sprint(c.activitiesLimit)},
	}
	if err := c.get("/hubspot/activities/recent", query, &envelope); err != nil {
		return nil, err
	}
	if !envelope.Success {
		return nil, fmt.Errorf("%w: /hubspot/activities/recent", ErrNotSuccessful)
	}
	return &ActivitiesSnapshot{Data: envelope.Data}, nil
}
