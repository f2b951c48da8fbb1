package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"tableflip.dev/cycle/pkg/period"
)

const (
	periodsEndpoint     = "periods"
	predictionsEndpoint = "predictions"
	statusEndpoint      = "cycle/status"

	apiKeyHeader          = "X-API-Key"
	cacheControlHeaderKey = "Cache-Control"
	noCacheValue          = "no-cache"
)

// HTTPClient is the part of *http.Client the remote store uses.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type RemoteConfig struct {
	BaseURL string
	APIKey  string
}

// Remote is a Store served over HTTP.
type Remote struct {
	Log    *logrus.Entry
	Config RemoteConfig
	HTTP   HTTPClient
}

var _ Store = (*Remote)(nil)

// NewRemote creates a Remote using the configured URL, key and timeout.
func NewRemote(cfg Config, log *logrus.Entry) *Remote {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Remote{
		Log: log.WithField("component", "remote-store"),
		Config: RemoteConfig{
			BaseURL: cfg.RemoteURL(),
			APIKey:  cfg.RemoteAPIKey(),
		},
		HTTP: &http.Client{Timeout: cfg.RemoteTimeout()},
	}
}

func (client *Remote) FetchPeriodHistory(ctx context.Context) ([]period.Record, error) {
	recs := make([]period.Record, 0)
	if err := client.do(ctx, http.MethodGet, periodsEndpoint, nil, nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (client *Remote) FetchPredictions(ctx context.Context, monthsAhead int) ([]period.PredictionRecord, error) {
	q := url.Values{}
	q.Set("monthsAhead", strconv.Itoa(monthsAhead))
	recs := make([]period.PredictionRecord, 0)
	if err := client.do(ctx, http.MethodGet, predictionsEndpoint, q, nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (client *Remote) FetchCycleStatus(ctx context.Context) (period.CycleStatus, error) {
	status := period.CycleStatus{}
	if err := client.do(ctx, http.MethodGet, statusEndpoint, nil, nil, &status); err != nil {
		return period.CycleStatus{}, err
	}
	return status, nil
}

func (client *Remote) CreatePeriodEntry(ctx context.Context, c period.Candidate) error {
	body, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("error marshalling candidate %w", err)
	}
	return client.do(ctx, http.MethodPost, periodsEndpoint, nil, body, nil)
}

func (client *Remote) DeletePeriodEntry(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrNotFound)
	}
	return client.do(ctx, http.MethodDelete, periodsEndpoint+"/"+url.PathEscape(id), nil, nil, nil)
}

func (client *Remote) do(ctx context.Context, method, endpoint string, query url.Values, body []byte, out interface{}) error {
	apiEndpoint := fmt.Sprintf("%s/%s", strings.TrimRight(client.Config.BaseURL, "/"), endpoint)
	if len(query) > 0 {
		apiEndpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, apiEndpoint, reader)
	if err != nil {
		return fmt.Errorf("error creating http request %w", err)
	}

	req.Header.Add(cacheControlHeaderKey, noCacheValue)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if client.Config.APIKey != "" {
		req.Header.Add(apiKeyHeader, client.Config.APIKey)
	}

	resp, err := client.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("error performing http request %w", err)
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}

	switch {
	case resp.StatusCode == http.StatusNotFound && method == http.MethodDelete:
		return fmt.Errorf("%w: %s", ErrNotFound, endpoint)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s %s", ErrConflict, method, endpoint)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("error %s %s: status code %d", method, endpoint, resp.StatusCode)
	}

	if out == nil || resp.Body == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("error unmarshalling http response body %w", err)
	}
	client.Log.WithFields(logrus.Fields{"method": method, "endpoint": endpoint}).Debug("remote store call")
	return nil
}
