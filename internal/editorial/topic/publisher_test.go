// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package topic

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taibuivan/guidepost/internal/publishing"
)

// # Fakes

// fakeTopicRepo mimics the transactional store: the upsert is only committed
// when the in-transaction work succeeds.
type fakeTopicRepo struct {
	committed map[string]*Topic
	linked    []string
}

func newFakeTopicRepo() *fakeTopicRepo {
	return &fakeTopicRepo{committed: make(map[string]*Topic)}
}

func (f *fakeTopicRepo) List(_ context.Context) ([]*Topic, error) { return nil, nil }

func (f *fakeTopicRepo) FindByID(_ context.Context, id string) (*Topic, error) {
	return f.committed[id], nil
}

func (f *fakeTopicRepo) SaveWithin(ctx context.Context, topic *Topic, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err // Rolled back; nothing committed.
	}
	saved := *topic
	f.committed[topic.ID] = &saved
	return nil
}

func (f *fakeTopicRepo) CreateSection(_ context.Context, _ *TopicSection) error { return nil }

func (f *fakeTopicRepo) LinkedGuideContentIDs(_ context.Context, _ string) ([]string, error) {
	return f.linked, nil
}

// fakePublishing records calls and fails where instructed.
type fakePublishing struct {
	putErr   error
	patchErr error
	pubErr   error

	putCalls   int
	patchCalls int
	pubCalls   int

	lastContent publishing.ContentPayload
	lastLinks   publishing.LinksPayload
}

func (f *fakePublishing) PutContent(_ context.Context, _ string, payload publishing.ContentPayload) error {
	f.putCalls++
	f.lastContent = payload
	return f.putErr
}

func (f *fakePublishing) PatchLinks(_ context.Context, _ string, payload publishing.LinksPayload) error {
	f.patchCalls++
	f.lastLinks = payload
	return f.patchErr
}

func (f *fakePublishing) Publish(_ context.Context, _ string, _ string) error {
	f.pubCalls++
	return f.pubErr
}

func validTopic() *Topic {
	return &Topic{
		ID:         "t1",
		ContentID:  "content-t1",
		Path:       "/service-manual/agile-delivery",
		Title:      "Agile delivery",
		UpdateType: "minor",
	}
}

func apiError(message string) *publishing.APIError {
	return &publishing.APIError{StatusCode: http.StatusUnprocessableEntity, Message: message}
}

// # Save Draft

func TestSaveDraftSuccess(t *testing.T) {
	repo := newFakeTopicRepo()
	repo.linked = []string{"guide-a", "guide-b"}
	client := &fakePublishing{}
	publisher := NewPublisher(repo, client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	result, err := publisher.SaveDraft(context.Background(), validTopic())
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Empty(t, result.Err)

	// Local row committed, both external calls made.
	assert.NotNil(t, repo.committed["t1"])
	assert.Equal(t, 1, client.putCalls)
	assert.Equal(t, 1, client.patchCalls)

	assert.Equal(t, "Agile delivery", client.lastContent.Title)
	assert.Equal(t, "/service-manual/agile-delivery", client.lastContent.BasePath)
	assert.Equal(t, []string{"guide-a", "guide-b"}, client.lastLinks.Links["linked_items"])
}

func TestSaveDraftRollsBackOnPatchLinksRejection(t *testing.T) {
	repo := newFakeTopicRepo()
	client := &fakePublishing{patchErr: apiError("x")}
	publisher := NewPublisher(repo, client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	result, err := publisher.SaveDraft(context.Background(), validTopic())
	require.NoError(t, err)

	assert.False(t, result.OK)
	assert.Equal(t, "x", result.Err)

	// The local upsert did not survive the rejection.
	assert.Nil(t, repo.committed["t1"])
}

func TestSaveDraftRollsBackOnPutContentRejection(t *testing.T) {
	repo := newFakeTopicRepo()
	client := &fakePublishing{putErr: apiError("base path is already reserved")}
	publisher := NewPublisher(repo, client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	result, err := publisher.SaveDraft(context.Background(), validTopic())
	require.NoError(t, err)

	assert.False(t, result.OK)
	assert.Equal(t, "base path is already reserved", result.Err)
	assert.Nil(t, repo.committed["t1"])
	assert.Equal(t, 0, client.patchCalls)
}

func TestSaveDraftInvalidTopicNeverCallsUpstream(t *testing.T) {
	repo := newFakeTopicRepo()
	client := &fakePublishing{}
	publisher := NewPublisher(repo, client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	invalid := validTopic()
	invalid.Title = ""

	result, err := publisher.SaveDraft(context.Background(), invalid)
	require.NoError(t, err)

	assert.False(t, result.OK)
	assert.Empty(t, result.Err)
	assert.Equal(t, 0, client.putCalls)
	assert.Equal(t, 0, client.patchCalls)
	assert.Nil(t, repo.committed["t1"])
}

func TestSaveDraftTransportFaultPropagates(t *testing.T) {
	repo := newFakeTopicRepo()
	client := &fakePublishing{putErr: errors.New("connection refused")}
	publisher := NewPublisher(repo, client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := publisher.SaveDraft(context.Background(), validTopic())
	require.Error(t, err)
	assert.Nil(t, repo.committed["t1"])
}

// # Publish

func TestPublishSuccess(t *testing.T) {
	repo := newFakeTopicRepo()
	client := &fakePublishing{}
	publisher := NewPublisher(repo, client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	result, err := publisher.Publish(context.Background(), validTopic())
	require.NoError(t, err)

	assert.True(t, result.OK)
	assert.Equal(t, 1, client.pubCalls)
	assert.NotNil(t, repo.committed["t1"])
}

func TestPublishRollsBackOnRejection(t *testing.T) {
	repo := newFakeTopicRepo()
	client := &fakePublishing{pubErr: apiError("downstream draft is missing")}
	publisher := NewPublisher(repo, client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	result, err := publisher.Publish(context.Background(), validTopic())
	require.NoError(t, err)

	assert.False(t, result.OK)
	assert.Equal(t, "downstream draft is missing", result.Err)
	assert.Nil(t, repo.committed["t1"])
}
