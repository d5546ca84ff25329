package idp

// Package idp talks to the managed identity provider's admin API. Only the
// account-deletion path uses it; the provider remains the system of record
// for session issuance.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DirectoryConfig holds configuration for the provider admin client.
type DirectoryConfig struct {
	// BaseURL is the admin API root, e.g. "https://idp.example.com/admin/v1".
	BaseURL string
	// APIToken authenticates admin calls.
	APIToken string
	// HTTPClient is optional; defaults to a 15s-timeout client.
	HTTPClient *http.Client
}

// Directory deletes identity records at the external provider.
type Directory struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// NewDirectory constructs a Directory from DirectoryConfig.
func NewDirectory(cfg DirectoryConfig) (*Directory, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("idp directory: BaseURL is required")
	}
	if cfg.APIToken == "" {
		return nil, errors.New("idp directory: APIToken is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Directory{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiToken:   cfg.APIToken,
		httpClient: httpClient,
	}, nil
}

// DeleteIdentity removes the subject's identity record at the provider.
// A 404 is treated as already deleted.
func (d *Directory) DeleteIdentity(ctx context.Context, subjectID string) error {
	if subjectID == "" {
		return errors.New("subject ID is required")
	}

	endpoint := d.baseURL + "/users/" + url.PathEscape(subjectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+d.apiToken)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete identity %s: %w", subjectID, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	default:
		return fmt.Errorf("delete identity %s: provider returned %s", subjectID, resp.Status)
	}
}
