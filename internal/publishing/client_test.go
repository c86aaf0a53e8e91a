// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package publishing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutContentSendsPayloadAndAuth(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody ContentPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret-token")
	err := client.PutContent(context.Background(), "abc-123", ContentPayload{
		Title:      "Agile delivery",
		BasePath:   "/service-manual/agile-delivery",
		SchemaName: "service_manual_topic",
	})

	require.NoError(t, err)
	assert.Equal(t, "PUT /v2/content/abc-123", gotPath)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "Agile delivery", gotBody.Title)
}

func TestPatchLinksPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "t")
	err := client.PatchLinks(context.Background(), "abc-123", LinksPayload{
		Links: map[string][]string{"linked_items": {"id-1", "id-2"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "PATCH /v2/links/abc-123", gotPath)
}

func TestPublishSendsUpdateType(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "t")
	require.NoError(t, client.Publish(context.Background(), "abc-123", "major"))
	assert.Equal(t, "major", gotBody["update_type"])
}

func TestErrorResponseDecodesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"message":"base path is already reserved"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "t")
	err := client.PutContent(context.Background(), "abc-123", ContentPayload{Title: "x"})

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "base path is already reserved", apiErr.Message)
}

func TestErrorResponseWithoutBodyFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "t")
	err := client.Publish(context.Background(), "abc-123", "minor")

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestTransportErrorIsNotAPIError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "t")
	err := client.Publish(context.Background(), "abc-123", "minor")

	require.Error(t, err)
	_, ok := AsAPIError(err)
	assert.False(t, ok)
}
