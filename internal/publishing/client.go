// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package publishing is the HTTP client for the downstream content publishing
// service. Topics and guides are pushed there as drafts, have their link set
// patched, and are finally published under an update type.
//
// # Failure model
//
// Responses with an error status are decoded into APIError, which carries the
// upstream status code and its human-readable message. Callers branch on
// APIError to distinguish an upstream rejection from a transport fault.
package publishing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/taibuivan/guidepost/internal/platform/constants"
)

// APIError is a structured rejection from the publishing service.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("publishing: upstream returned %d: %s", e.StatusCode, e.Message)
}

// ContentPayload is the draft representation sent on upsert.
type ContentPayload struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	BasePath    string `json:"base_path"`
	SchemaName  string `json:"schema_name"`
	Details     any    `json:"details,omitempty"`
}

// LinksPayload associates a content item with related content ids, keyed by
// link type (for example "topics" or "parent").
type LinksPayload struct {
	Links map[string][]string `json:"links"`
}

// Client talks to the publishing service over HTTP with bearer auth.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a Client for the service at baseURL.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: constants.PublishingAPITimeout},
	}
}

/*
PutContent upserts the draft content item identified by contentID.

Parameters:
  - ctx: request context.
  - contentID: stable identifier shared with the publishing service.
  - payload: the draft representation.

Returns:
  - error: *APIError on upstream rejection, other errors on transport failure.
*/
func (c *Client) PutContent(ctx context.Context, contentID string, payload ContentPayload) error {
	return c.send(ctx, http.MethodPut, "/v2/content/"+contentID, payload)
}

/*
PatchLinks replaces the link set of the content item identified by contentID.

Parameters:
  - ctx: request context.
  - contentID: stable identifier shared with the publishing service.
  - payload: the full replacement link set.

Returns:
  - error: *APIError on upstream rejection, other errors on transport failure.
*/
func (c *Client) PatchLinks(ctx context.Context, contentID string, payload LinksPayload) error {
	return c.send(ctx, http.MethodPatch, "/v2/links/"+contentID, payload)
}

/*
Publish promotes the current draft of contentID to the live content store.

Parameters:
  - ctx: request context.
  - contentID: stable identifier shared with the publishing service.
  - updateType: "major" or "minor", controls downstream change notifications.

Returns:
  - error: *APIError on upstream rejection, other errors on transport failure.
*/
func (c *Client) Publish(ctx context.Context, contentID, updateType string) error {
	body := struct {
		UpdateType string `json:"update_type"`
	}{UpdateType: updateType}
	return c.send(ctx, http.MethodPost, "/v2/content/"+contentID+"/publish", body)
}

// send marshals body, issues the request and maps error statuses to APIError.
func (c *Client) send(ctx context.Context, method, path string, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("publishing: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("publishing: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("publishing: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return nil
}

// decodeAPIError reads the upstream error body. The service responds with
// {"error": {"message": "..."}}; anything else falls back to the status text.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil && json.Unmarshal(raw, &envelope) == nil && envelope.Error.Message != "" {
		apiErr.Message = envelope.Error.Message
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// AsAPIError unwraps err into an *APIError when the failure originated as a
// structured upstream rejection.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
