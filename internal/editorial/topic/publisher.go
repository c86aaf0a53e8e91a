// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package topic

import (
	"context"
	"log/slog"

	"github.com/taibuivan/guidepost/internal/publishing"
)

// # Publish Coordination

// ContentPublisher is the slice of the publishing client the coordinator
// needs. Structured upstream rejections are surfaced as *publishing.APIError.
type ContentPublisher interface {
	PutContent(ctx context.Context, contentID string, payload publishing.ContentPayload) error
	PatchLinks(ctx context.Context, contentID string, payload publishing.LinksPayload) error
	Publish(ctx context.Context, contentID, updateType string) error
}

// Result is the uniform outcome of a coordinated operation. A failed upstream
// call yields OK false with the upstream's human-readable message; a failed
// local validation yields OK false with no message.
type Result struct {
	OK  bool   `json:"ok"`
	Err string `json:"error,omitempty"`
}

// topicSchemaName identifies the document shape on the publishing side.
const topicSchemaName = "service_manual_topic"

// Publisher coordinates the local topic row with the downstream publishing
// service.
//
// # Atomicity
//
// The outbound calls run inside the local transaction: when the publishing
// service rejects an operation, the local upsert is rolled back, so the local
// row is never left committed against a known-failed external state. The
// trade-off is an open transaction across a network call, accepted for the
// low write rate of topics.
type Publisher struct {
	topicRepo TopicRepository
	client    ContentPublisher
	logger    *slog.Logger
}

// NewPublisher constructs a [Publisher] with its collaborators.
func NewPublisher(topicRepo TopicRepository, client ContentPublisher, logger *slog.Logger) *Publisher {
	return &Publisher{
		topicRepo: topicRepo,
		client:    client,
		logger:    logger,
	}
}

/*
SaveDraft persists the topic locally and pushes the draft representation
downstream: content upsert, then link patch, all in one atomic unit.

Description: A topic that fails validation yields a failure result without
touching the store or the network. An upstream rejection rolls the local
upsert back and surfaces the upstream message in the result. Transport-level
faults are returned as errors, not results.

Parameters:
  - ctx: context.Context
  - topic: *Topic (The row to save; Sections are not written here)

Returns:
  - Result: Success, or failure with the upstream message
  - error: Unexpected storage or transport failures
*/
func (publisher *Publisher) SaveDraft(ctx context.Context, topic *Topic) (Result, error) {
	if err := topic.Validate(); err != nil {
		return Result{OK: false}, nil
	}

	err := publisher.topicRepo.SaveWithin(ctx, topic, func(ctx context.Context) error {
		linked, err := publisher.topicRepo.LinkedGuideContentIDs(ctx, topic.ID)
		if err != nil {
			return err
		}

		if err := publisher.client.PutContent(ctx, topic.ContentID, publisher.contentPayload(topic)); err != nil {
			return err
		}
		return publisher.client.PatchLinks(ctx, topic.ContentID, publishing.LinksPayload{
			Links: map[string][]string{"linked_items": linked},
		})
	})
	if err != nil {
		return publisher.failure(ctx, topic, "topic_draft_failed", err)
	}

	publisher.logger.Info("topic_draft_saved",
		slog.String("topic_id", topic.ID),
		slog.String("path", topic.Path),
	)
	return Result{OK: true}, nil
}

/*
Publish persists the topic locally and promotes its draft downstream,
forwarding the topic's update type.

Parameters:
  - ctx: context.Context
  - topic: *Topic

Returns:
  - Result: Success, or failure with the upstream message
  - error: Unexpected storage or transport failures
*/
func (publisher *Publisher) Publish(ctx context.Context, topic *Topic) (Result, error) {
	if err := topic.Validate(); err != nil {
		return Result{OK: false}, nil
	}

	err := publisher.topicRepo.SaveWithin(ctx, topic, func(ctx context.Context) error {
		return publisher.client.Publish(ctx, topic.ContentID, topic.UpdateType)
	})
	if err != nil {
		return publisher.failure(ctx, topic, "topic_publish_failed", err)
	}

	publisher.logger.Info("topic_published",
		slog.String("topic_id", topic.ID),
		slog.String("path", topic.Path),
		slog.String("update_type", topic.UpdateType),
	)
	return Result{OK: true}, nil
}

// failure converts a structured upstream rejection into a failure result;
// anything else propagates as an error.
func (publisher *Publisher) failure(_ context.Context, topic *Topic, event string, err error) (Result, error) {
	apiErr, ok := publishing.AsAPIError(err)
	if !ok {
		return Result{}, err
	}

	publisher.logger.Warn(event,
		slog.String("topic_id", topic.ID),
		slog.Int("status", apiErr.StatusCode),
		slog.String("message", apiErr.Message),
	)
	return Result{OK: false, Err: apiErr.Message}, nil
}

// contentPayload builds the draft representation sent on upsert.
func (publisher *Publisher) contentPayload(topic *Topic) publishing.ContentPayload {
	return publishing.ContentPayload{
		Title:       topic.Title,
		Description: topic.Description,
		BasePath:    topic.Path,
		SchemaName:  topicSchemaName,
	}
}
