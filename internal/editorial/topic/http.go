// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package topic provides the HTTP interface for topic management.

Topics have their own draft/publish cycle against the downstream publishing
service, independent of guide publication. Every write endpoint reports the
coordinated outcome: an upstream rejection surfaces as an unprocessable
response carrying the upstream's message.

# Routing Strategy

  - Reads require an authenticated editor.
  - Writes and publication require the admin role.
*/
package topic

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/guidepost/internal/platform/apperr"
	"github.com/taibuivan/guidepost/internal/platform/constants"
	"github.com/taibuivan/guidepost/internal/platform/middleware"
	requestutil "github.com/taibuivan/guidepost/internal/platform/request"
	"github.com/taibuivan/guidepost/internal/platform/respond"
	"github.com/taibuivan/guidepost/internal/platform/sec"
)

// # Handler Implementation

// Handler implements the HTTP layer for topic management.
type Handler struct {
	service *Service
}

// NewHandler constructs a new topic [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches topic endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Group(func(editor chi.Router) {
		editor.Use(middleware.RequireAuth)

		editor.Get("/topics", handler.ListTopics)
		editor.Get("/topics/{id}", handler.GetTopic)

		editor.Group(func(admin chi.Router) {
			admin.Use(middleware.RequireRole(sec.RoleAdmin))
			admin.Post("/topics", handler.CreateTopic)
			admin.Put("/topics/{id}", handler.UpdateTopic)
			admin.Post("/topics/{id}/publish", handler.PublishTopic)
			admin.Post("/topics/{id}/sections", handler.CreateSection)
		})
	})
}

// # Topic Retrieval

/*
GET /api/v1/topics.

Response:
  - 200: []Topic: All topics ordered by title
*/
func (handler *Handler) ListTopics(writer http.ResponseWriter, request *http.Request) {
	topics, err := handler.service.ListTopics(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{constants.FieldItems: topics})
}

/*
GET /api/v1/topics/{id}.

Response:
  - 200: Topic: The topic with its ordered sections
  - 404: 404: ErrNotFound: Topic not found
*/
func (handler *Handler) GetTopic(writer http.ResponseWriter, request *http.Request) {
	topic, err := handler.service.GetTopic(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, topic)
}

// # Topic Writes

// topicRequest defines the inbound JSON schema for topic saves.
type topicRequest struct {
	Path        string `json:"path"`
	Title       string `json:"title"`
	Description string `json:"description"`
	UpdateType  string `json:"update_type"`
}

func (r topicRequest) toInput() TopicInput {
	return TopicInput{
		Path:        r.Path,
		Title:       r.Title,
		Description: r.Description,
		UpdateType:  r.UpdateType,
	}
}

/*
POST /api/v1/topics.

Description: Creates a topic and pushes its draft to the publishing service
in one atomic unit.

Request:
  - body: topicRequest

Response:
  - 201: Topic: The created topic
  - 400: 400: Validation: Invalid payload
  - 422: 422: ErrUnprocessable: The publishing service rejected the draft
*/
func (handler *Handler) CreateTopic(writer http.ResponseWriter, request *http.Request) {
	var input topicRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	topic, result, err := handler.service.CreateTopic(request.Context(), input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !result.OK {
		respond.Error(writer, request, apperr.Unprocessable(result.Err))
		return
	}

	respond.Created(writer, topic)
}

/*
PUT /api/v1/topics/{id}.

Description: Saves changes to a topic and refreshes its downstream draft.

Request:
  - id: string (UUID)
  - body: topicRequest

Response:
  - 200: Topic: The updated topic
  - 404: 404: ErrNotFound: Topic not found
  - 422: 422: ErrUnprocessable: The publishing service rejected the draft
*/
func (handler *Handler) UpdateTopic(writer http.ResponseWriter, request *http.Request) {
	var input topicRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	topic, result, err := handler.service.UpdateTopic(request.Context(), requestutil.ID(request, "id"), input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !result.OK {
		respond.Error(writer, request, apperr.Unprocessable(result.Err))
		return
	}

	respond.OK(writer, topic)
}

/*
POST /api/v1/topics/{id}/publish.

Description: Promotes the topic's downstream draft to live under the topic's
update type.

Response:
  - 200: Result: The coordinated outcome
  - 404: 404: ErrNotFound: Topic not found
  - 422: 422: ErrUnprocessable: The publishing service rejected the publish
*/
func (handler *Handler) PublishTopic(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.PublishTopic(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !result.OK {
		respond.Error(writer, request, apperr.Unprocessable(result.Err))
		return
	}

	respond.OK(writer, result)
}

// # Sections

// sectionRequest defines the inbound JSON schema for sections.
type sectionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

/*
POST /api/v1/topics/{id}/sections.

Request:
  - id: string (Topic UUID)
  - body: sectionRequest

Response:
  - 201: TopicSection: The created section
  - 404: 404: ErrNotFound: Topic not found
*/
func (handler *Handler) CreateSection(writer http.ResponseWriter, request *http.Request) {
	var input sectionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	section, err := handler.service.CreateSection(request.Context(), requestutil.ID(request, "id"), SectionInput{
		Title:       input.Title,
		Description: input.Description,
		Position:    input.Position,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, section)
}
