// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package topic

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taibuivan/guidepost/pkg/slug"
	"github.com/taibuivan/guidepost/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates topic reads and writes. All writes flow through the
// [Publisher] so the local row and the downstream publishing service stay
// consistent.
type Service struct {
	topicRepo TopicRepository
	publisher *Publisher
	logger    *slog.Logger
}

// NewService constructs a new [Service].
func NewService(topicRepo TopicRepository, publisher *Publisher, logger *slog.Logger) *Service {
	return &Service{
		topicRepo: topicRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// TopicInput carries the editable fields of a topic.
type TopicInput struct {
	Path        string
	Title       string
	Description string
	UpdateType  string
}

// SectionInput carries the editable fields of a topic section.
type SectionInput struct {
	Title       string
	Description string
	Position    int
}

// # Topic Operations

/*
ListTopics returns all topics ordered by title.

Parameters:
  - context: context.Context

Returns:
  - []*Topic: All topics, sections not hydrated
  - error: Storage failures
*/
func (service *Service) ListTopics(context context.Context) ([]*Topic, error) {
	return service.topicRepo.List(context)
}

/*
GetTopic returns a topic with its ordered sections.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Topic: The hydrated topic
  - error: apperr.NotFound if missing
*/
func (service *Service) GetTopic(context context.Context, id string) (*Topic, error) {
	return service.topicRepo.FindByID(context, id)
}

/*
CreateTopic creates a topic and pushes its draft downstream in one atomic
unit.

Description: The content identifier shared with the publishing service is
assigned here, exactly once. When no path is supplied, one is derived from
the title.

Parameters:
  - context: context.Context
  - input: TopicInput

Returns:
  - *Topic: The created topic
  - Result: The coordinated outcome; OK false carries the upstream message
  - error: Validation errors, unexpected storage or transport failures
*/
func (service *Service) CreateTopic(context context.Context, input TopicInput) (*Topic, Result, error) {
	path := input.Path
	if path == "" {
		path = "/service-manual/" + slug.From(input.Title)
	}

	newTopic := &Topic{
		ID:          uuidv7.New(),
		ContentID:   uuid.NewString(),
		Path:        path,
		Title:       input.Title,
		Description: input.Description,
		UpdateType:  normalizeUpdateType(input.UpdateType),
	}

	// Validation errors surface with field details here; the coordinator's
	// own check then cannot fail on them.
	if err := newTopic.Validate(); err != nil {
		return nil, Result{}, err
	}

	result, err := service.publisher.SaveDraft(context, newTopic)
	if err != nil {
		return nil, Result{}, err
	}
	return newTopic, result, nil
}

/*
UpdateTopic saves changes to a topic and refreshes its downstream draft.

Parameters:
  - context: context.Context
  - id: string (UUID)
  - input: TopicInput

Returns:
  - *Topic: The updated topic
  - Result: The coordinated outcome
  - error: apperr.NotFound, validation errors, unexpected failures
*/
func (service *Service) UpdateTopic(context context.Context, id string, input TopicInput) (*Topic, Result, error) {
	persisted, err := service.topicRepo.FindByID(context, id)
	if err != nil {
		return nil, Result{}, err
	}

	persisted.Path = input.Path
	persisted.Title = input.Title
	persisted.Description = input.Description
	persisted.UpdateType = normalizeUpdateType(input.UpdateType)

	if err := persisted.Validate(); err != nil {
		return nil, Result{}, err
	}

	result, err := service.publisher.SaveDraft(context, persisted)
	if err != nil {
		return nil, Result{}, err
	}
	return persisted, result, nil
}

/*
PublishTopic promotes the topic's downstream draft to live.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - Result: The coordinated outcome
  - error: apperr.NotFound, unexpected failures
*/
func (service *Service) PublishTopic(context context.Context, id string) (Result, error) {
	persisted, err := service.topicRepo.FindByID(context, id)
	if err != nil {
		return Result{}, err
	}

	return service.publisher.Publish(context, persisted)
}

// # Section Operations

/*
CreateSection adds a section to a topic.

Parameters:
  - context: context.Context
  - topicID: string (UUID)
  - input: SectionInput

Returns:
  - *TopicSection: The created section
  - error: apperr.NotFound if the topic is missing, storage failures
*/
func (service *Service) CreateSection(context context.Context, topicID string, input SectionInput) (*TopicSection, error) {
	if _, err := service.topicRepo.FindByID(context, topicID); err != nil {
		return nil, err
	}

	section := &TopicSection{
		ID:          uuidv7.New(),
		TopicID:     topicID,
		Title:       input.Title,
		Description: input.Description,
		Position:    input.Position,
	}
	if err := service.topicRepo.CreateSection(context, section); err != nil {
		return nil, err
	}

	service.logger.Info("topic_section_created",
		slog.String("topic_id", topicID),
		slog.String("section_id", section.ID),
	)
	return section, nil
}

func normalizeUpdateType(updateType string) string {
	if updateType == "" {
		return "minor"
	}
	return updateType
}
