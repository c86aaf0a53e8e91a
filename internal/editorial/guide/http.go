// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package guide provides the HTTP interface for the editorial workflow.

It exposes endpoints for listing and editing guides, driving editions through
review and publication, and reading lineage history and the review thread.

# Routing Strategy

  - All endpoints require an authenticated editor; publishing and
    unpublishing additionally require the admin role.

The handler translates between the web/JSON layer and the internal domain
[Service].
*/
package guide

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/guidepost/internal/platform/constants"
	"github.com/taibuivan/guidepost/internal/platform/middleware"
	requestutil "github.com/taibuivan/guidepost/internal/platform/request"
	"github.com/taibuivan/guidepost/internal/platform/respond"
	"github.com/taibuivan/guidepost/internal/platform/sec"
	"github.com/taibuivan/guidepost/internal/platform/validate"
	"github.com/taibuivan/guidepost/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for guide management.
type Handler struct {
	service *Service
}

// NewHandler constructs a new guide [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches guide endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Group(func(editor chi.Router) {
		editor.Use(middleware.RequireAuth)

		editor.Get("/guides", handler.ListGuides)
		editor.Post("/guides", handler.CreateGuide)
		editor.Get("/guides/{id}", handler.GetGuide)
		editor.Put("/guides/{id}", handler.UpdateGuide)

		editor.Post("/guides/{id}/new-draft", handler.NewDraft)
		editor.Post("/guides/{id}/request-review", handler.RequestReview)
		editor.Post("/guides/{id}/approve", handler.Approve)
		editor.Post("/guides/{id}/unpublish", handler.Unpublish)

		editor.Get("/guides/{id}/editions", handler.EditionHistory)
		editor.Get("/guides/{id}/thread", handler.EditionThread)
		editor.Post("/guides/{id}/comments", handler.CreateComment)

		// Going live and deleting are restricted to administrators.
		editor.Group(func(admin chi.Router) {
			admin.Use(middleware.RequireRole(sec.RoleAdmin))
			admin.Post("/guides/{id}/publish", handler.Publish)
			admin.Delete("/guides/{id}", handler.DeleteGuide)
		})
	})
}

// # Guide Retrieval

/*
GET /api/v1/guides.

Description: Returns a paginated listing of guides, each with the edition the
workflow currently gates on.

Request:
  - state: string (Filter by gating edition state)
  - author: string (Filter by gating edition author UUID)
  - owner: string (Filter by content owner UUID)
  - kind: string (guide, community)
  - q: string (Title or slug substring)
  - live: bool (Only guides currently published)
  - not_unpublished: bool (Exclude withdrawn guides)
  - limit: int
  - page: int

Response:
  - 200: []GuideWithEdition: Paginated list
*/
func (handler *Handler) ListGuides(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := GuideFilter{
		State:          State(request.URL.Query().Get("state")),
		AuthorID:       request.URL.Query().Get("author"),
		ContentOwnerID: request.URL.Query().Get("owner"),
		Kind:           Kind(request.URL.Query().Get("kind")),
		Query:          request.URL.Query().Get("q"),
		Live:           request.URL.Query().Get("live") == "true",
		NotUnpublished: request.URL.Query().Get("not_unpublished") == "true",
	}

	guides, total, err := handler.service.ListGuides(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		constants.FieldItems: guides,
		constants.FieldTotal: total,
	})
}

/*
GET /api/v1/guides/{id}.

Description: Returns the guide with its resolved latest and live editions.

Request:
  - id: string (UUID)

Response:
  - 200: GuideDetail: The guide read model
  - 404: 404: ErrNotFound: Guide not found
*/
func (handler *Handler) GetGuide(writer http.ResponseWriter, request *http.Request) {
	detail, err := handler.service.GetGuide(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail)
}

// # Guide Creation & Editing

// editionRequest defines the inbound JSON schema for edition content.
type editionRequest struct {
	Title          string `json:"title"`
	Body           string `json:"body"`
	ChangeNote     string `json:"change_note"`
	UpdateType     string `json:"update_type"`
	ContentOwnerID string `json:"content_owner_id"`
}

// guideRequest defines the inbound JSON schema for guide saves.
type guideRequest struct {
	Slug           string         `json:"slug"`
	Kind           string         `json:"kind"`
	TopicSectionID string         `json:"topic_section_id"`
	Edition        editionRequest `json:"edition"`
}

func (r guideRequest) toInput() GuideInput {
	return GuideInput{
		Slug:           r.Slug,
		Kind:           Kind(r.Kind),
		TopicSectionID: r.TopicSectionID,
		Edition: EditionInput{
			Title:          r.Edition.Title,
			Body:           r.Edition.Body,
			ChangeNote:     r.Edition.ChangeNote,
			UpdateType:     UpdateType(r.Edition.UpdateType),
			ContentOwnerID: r.Edition.ContentOwnerID,
		},
	}
}

/*
POST /api/v1/guides.

Description: Creates a guide with the first draft edition of its first
lineage.

Request:
  - body: guideRequest

Response:
  - 201: GuideDetail: Created guide with its draft edition
  - 400: 400: ErrInvalidJSON/Validation: Invalid payload
  - 409: 409: ErrConflict: Slug already taken
*/
func (handler *Handler) CreateGuide(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input guideRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.CreateGuide(request.Context(), input.toInput(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, detail)
}

/*
PUT /api/v1/guides/{id}.

Description: Saves new content for a guide, appending an edition to the open
lineage or opening a fresh one when the current lineage is terminal.

Request:
  - id: string (UUID)
  - body: guideRequest

Response:
  - 200: GuideDetail: The guide with the appended edition
  - 400: 400: Validation: Invalid payload or illegal slug/topic change
  - 404: 404: ErrNotFound: Guide not found
*/
func (handler *Handler) UpdateGuide(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input guideRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.UpdateGuide(request.Context(), requestutil.ID(request, "id"), input.toInput(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail)
}

/*
POST /api/v1/guides/{id}/new-draft.

Description: Opens a fresh lineage by copying the latest edition of a guide
whose current lineage is terminal.

Response:
  - 201: Edition: The opening draft of the new lineage
  - 422: 422: ErrUnprocessable: A draft is already in progress
*/
func (handler *Handler) NewDraft(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	edition, err := handler.service.NewDraft(request.Context(), requestutil.ID(request, "id"), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, edition)
}

/*
DELETE /api/v1/guides/{id}.

Description: Removes a never-published guide together with its edition
history and comments.

Response:
  - 204: No Content: Guide removed
  - 403: 403: ErrForbidden: Admin role required
  - 422: 422: ErrUnprocessable: The guide has been published
*/
func (handler *Handler) DeleteGuide(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteGuide(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Workflow Transitions

/*
POST /api/v1/guides/{id}/request-review.

Response:
  - 200: Edition: The review_requested edition
  - 422: 422: ErrUnprocessable: Transition not available
*/
func (handler *Handler) RequestReview(writer http.ResponseWriter, request *http.Request) {
	handler.runTransition(writer, request, handler.service.RequestReview)
}

/*
POST /api/v1/guides/{id}/approve.

Response:
  - 200: Edition: The approved edition
  - 422: 422: ErrUnprocessable: Transition not available (e.g. self-approval)
*/
func (handler *Handler) Approve(writer http.ResponseWriter, request *http.Request) {
	handler.runTransition(writer, request, handler.service.Approve)
}

/*
POST /api/v1/guides/{id}/publish.

Response:
  - 200: Edition: The published edition
  - 400: 400: Validation: Broken links in the body
  - 403: 403: ErrForbidden: Admin role required
  - 422: 422: ErrUnprocessable: Transition not available
*/
func (handler *Handler) Publish(writer http.ResponseWriter, request *http.Request) {
	handler.runTransition(writer, request, handler.service.Publish)
}

/*
POST /api/v1/guides/{id}/unpublish.

Response:
  - 200: Edition: The unpublished edition
  - 422: 422: ErrUnprocessable: Gating edition is not published
*/
func (handler *Handler) Unpublish(writer http.ResponseWriter, request *http.Request) {
	handler.runTransition(writer, request, handler.service.Unpublish)
}

// runTransition factors the shared request plumbing of the four transitions.
func (handler *Handler) runTransition(writer http.ResponseWriter, request *http.Request, op func(ctx context.Context, guideID, userID string) (*Edition, error)) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	edition, err := op(request.Context(), requestutil.ID(request, "id"), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, edition)
}

// # History & Thread

/*
GET /api/v1/guides/{id}/editions.

Description: Returns one edition per lineage, newest lineage first, the
guide's version history.

Response:
  - 200: []Edition: Lineage overview
  - 404: 404: ErrNotFound: Guide not found
*/
func (handler *Handler) EditionHistory(writer http.ResponseWriter, request *http.Request) {
	history, err := handler.service.EditionHistory(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{constants.FieldItems: history})
}

/*
GET /api/v1/guides/{id}/thread.

Description: Returns the audit timeline of the guide's current lineage:
draft creation, ownership assignment, state changes and comments in
chronological order.

Response:
  - 200: []Event: The thread
  - 404: 404: ErrNotFound: Guide not found
  - 500: 500: ErrInternal: Lineage contains an unlabelled transition
*/
func (handler *Handler) EditionThread(writer http.ResponseWriter, request *http.Request) {
	events, err := handler.service.EditionThread(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{constants.FieldItems: events})
}

// # Review Comments

// createCommentRequest defines the inbound JSON schema for comments.
type createCommentRequest struct {
	Body string `json:"body"`
}

/*
POST /api/v1/guides/{id}/comments.

Description: Attaches reviewer feedback to the guide's gating edition.

Request:
  - id: string (Guide UUID)
  - body: createCommentRequest

Response:
  - 201: Comment: The stored comment
  - 400: 400: Validation: Empty comment body
  - 404: 404: ErrNotFound: Guide has no editions
*/
func (handler *Handler) CreateComment(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createCommentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("body", input.Body)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.CreateComment(request.Context(), requestutil.ID(request, "id"), userID, input.Body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}
