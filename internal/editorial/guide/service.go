// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package guide

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taibuivan/guidepost/internal/markdown"
	"github.com/taibuivan/guidepost/internal/platform/apperr"
	"github.com/taibuivan/guidepost/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates the editorial workflow for guides: content edits,
// state transitions, history and the review thread.
type Service struct {
	guideRepo   GuideRepository
	editionRepo EditionRepository
	workflow    *Workflow
	logger      *slog.Logger
}

// NewService constructs a new [Service] with its required collaborators.
func NewService(guideRepo GuideRepository, editionRepo EditionRepository, workflow *Workflow, logger *slog.Logger) *Service {
	return &Service{
		guideRepo:   guideRepo,
		editionRepo: editionRepo,
		workflow:    workflow,
		logger:      logger,
	}
}

// EditionInput carries the author-editable content fields of an edition.
type EditionInput struct {
	Title          string
	Body           string
	ChangeNote     string
	UpdateType     UpdateType
	ContentOwnerID string
}

// GuideInput carries the addressing fields of a guide together with its
// edition content. Guides are always saved with an edition; the guide row
// alone has nothing to edit.
type GuideInput struct {
	Slug           string
	Kind           Kind
	TopicSectionID string
	Edition        EditionInput
}

// GuideDetail is the full read model for a single guide.
type GuideDetail struct {
	Guide         *Guide   `json:"guide"`
	LatestEdition *Edition `json:"latest_edition"`
	LiveEdition   *Edition `json:"live_edition,omitempty"`

	// LastPublishedEdition is the most recent edition that ever went live,
	// retained even while the guide is unpublished.
	LastPublishedEdition *Edition `json:"last_published_edition,omitempty"`

	HasBeenPublished bool `json:"has_been_published"`

	// HasUnpublishedChanges reports whether editions newer than the last
	// published one exist.
	HasUnpublishedChanges bool `json:"has_unpublished_changes"`
}

// # Guide Operations

/*
ListGuides retrieves guides with their gating edition.

Parameters:
  - context: context.Context
  - filter: GuideFilter
  - limit: int
  - offset: int

Returns:
  - []*GuideWithEdition: Matched guides, most recently touched first
  - int: Total match count
  - error: Storage failures
*/
func (service *Service) ListGuides(context context.Context, filter GuideFilter, limit, offset int) ([]*GuideWithEdition, int, error) {
	results, total, err := service.guideRepo.List(context, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	for _, result := range results {
		renderChangeNote(result.Edition)
	}
	return results, total, nil
}

/*
GetGuide retrieves a guide with its resolved latest and live editions.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *GuideDetail: The guide read model
  - error: apperr.NotFound if the guide is missing
*/
func (service *Service) GetGuide(context context.Context, id string) (*GuideDetail, error) {
	persisted, err := service.guideRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	editions, err := service.editionRepo.ListByGuide(context, id)
	if err != nil {
		return nil, err
	}

	detail := &GuideDetail{
		Guide:                 persisted,
		LatestEdition:         editions.Latest(),
		LiveEdition:           editions.Live(),
		LastPublishedEdition:  editions.LastPublished(),
		HasBeenPublished:      editions.HasBeenPublished(),
		HasUnpublishedChanges: len(editions.SinceLastPublished()) > 0,
	}
	renderChangeNote(detail.LatestEdition)
	renderChangeNote(detail.LiveEdition)
	renderChangeNote(detail.LastPublishedEdition)

	return detail, nil
}

/*
CreateGuide creates a guide together with the first draft edition of its
first lineage.

Description: The content identifier shared with the publishing service is
assigned here, exactly once; it never changes for the life of the guide.

Parameters:
  - context: context.Context
  - input: GuideInput
  - authorID: string (The creating user)

Returns:
  - *GuideDetail: The created guide with its draft edition
  - error: Validation or persistence errors
*/
func (service *Service) CreateGuide(context context.Context, input GuideInput, authorID string) (*GuideDetail, error) {
	newGuide := &Guide{
		ID:             uuidv7.New(),
		ContentID:      uuid.NewString(),
		Slug:           input.Slug,
		Kind:           normalizeKind(input.Kind),
		TopicSectionID: input.TopicSectionID,
	}

	if err := service.workflow.ValidateGuide(newGuide, nil, false, false); err != nil {
		return nil, err
	}

	edition := &Edition{
		GuideID:        newGuide.ID,
		Version:        1,
		State:          StateDraft,
		Title:          input.Edition.Title,
		Body:           input.Edition.Body,
		ChangeNote:     input.Edition.ChangeNote,
		UpdateType:     normalizeUpdateType(input.Edition.UpdateType),
		AuthorID:       authorID,
		ContentOwnerID: input.Edition.ContentOwnerID,
	}

	if err := service.workflow.ValidateEdition(context, newGuide.Kind, nil, edition); err != nil {
		return nil, err
	}

	// Guide row first, then the opening edition of lineage 1
	if err := service.guideRepo.Create(context, newGuide); err != nil {
		return nil, err
	}

	edition.ID = uuidv7.New()
	if err := service.editionRepo.Create(context, edition); err != nil {
		return nil, err
	}

	service.logger.Info("guide_created",
		slog.String("guide_id", newGuide.ID),
		slog.String("slug", newGuide.Slug),
		slog.String("author_id", authorID),
	)

	return &GuideDetail{Guide: newGuide, LatestEdition: edition}, nil
}

/*
UpdateGuide saves new content for a guide.

Description: Content saves are append-only. While the current lineage is
still open, the save appends a new draft row to it. Once the lineage has
reached a terminal state, the save opens a fresh lineage: a draft copy of the
last edition with the version bumped and the change note cleared, onto which
the new content is applied.

Parameters:
  - context: context.Context
  - id: string (Guide UUID)
  - input: GuideInput
  - authorID: string (The editing user)

Returns:
  - *GuideDetail: The guide with the newly appended edition
  - error: Validation or persistence errors
*/
func (service *Service) UpdateGuide(context context.Context, id string, input GuideInput, authorID string) (*GuideDetail, error) {
	persisted, err := service.guideRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	editions, err := service.editionRepo.ListByGuide(context, id)
	if err != nil {
		return nil, err
	}
	latest := editions.Latest()

	updated := &Guide{
		ID:             persisted.ID,
		ContentID:      persisted.ContentID,
		Slug:           input.Slug,
		Kind:           normalizeKind(input.Kind),
		TopicSectionID: input.TopicSectionID,
		CreatedAt:      persisted.CreatedAt,
	}

	topicChanged, err := service.topicChanged(context, persisted.TopicSectionID, updated.TopicSectionID)
	if err != nil {
		return nil, err
	}

	if err := service.workflow.ValidateGuide(updated, persisted, editions.HasBeenPublished(), topicChanged); err != nil {
		return nil, err
	}

	edition, predecessor := service.nextEdition(latest, authorID)
	edition.Title = input.Edition.Title
	edition.Body = input.Edition.Body
	edition.ChangeNote = input.Edition.ChangeNote
	edition.UpdateType = normalizeUpdateType(input.Edition.UpdateType)
	edition.ContentOwnerID = input.Edition.ContentOwnerID

	if err := service.workflow.ValidateEdition(context, updated.Kind, predecessor, edition); err != nil {
		return nil, err
	}

	if err := service.guideRepo.Update(context, updated); err != nil {
		return nil, err
	}

	edition.ID = uuidv7.New()
	if err := service.editionRepo.Create(context, edition); err != nil {
		return nil, err
	}

	service.logger.Info("guide_updated",
		slog.String("guide_id", updated.ID),
		slog.Int("version", edition.Version),
		slog.String("author_id", authorID),
	)

	return &GuideDetail{Guide: updated, LatestEdition: edition}, nil
}

/*
NewDraft explicitly opens a fresh lineage on a guide whose current lineage
has reached a terminal state.

Description: The new draft is a copy of the latest edition with the version
bumped and the change note cleared; the content itself is untouched. While a
lineage is still open, content saves land on it instead and this operation is
refused.

Parameters:
  - context: context.Context
  - guideID: string (UUID)
  - authorID: string (The user opening the draft)

Returns:
  - *Edition: The opening draft of the new lineage
  - error: apperr.Unprocessable while the current lineage is still open
*/
func (service *Service) NewDraft(context context.Context, guideID, authorID string) (*Edition, error) {
	if _, err := service.guideRepo.FindByID(context, guideID); err != nil {
		return nil, err
	}

	editions, err := service.editionRepo.ListByGuide(context, guideID)
	if err != nil {
		return nil, err
	}

	latest := editions.Latest()
	if latest == nil || !latest.State.IsTerminal() {
		return nil, apperr.Unprocessable("A draft is already in progress for this guide")
	}

	fresh := service.workflow.DraftCopy(latest)
	fresh.Version = latest.Version + 1
	fresh.AuthorID = authorID

	fresh.ID = uuidv7.New()
	if err := service.editionRepo.Create(context, fresh); err != nil {
		return nil, err
	}

	service.logger.Info("draft_opened",
		slog.String("guide_id", guideID),
		slog.Int("version", fresh.Version),
		slog.String("author_id", authorID),
	)

	return fresh, nil
}

/*
DeleteGuide removes a guide and its entire edition history.

Description: Deletion is only available while nothing has ever been
published; once live, content is withdrawn via unpublish instead so the
public record survives.

Parameters:
  - context: context.Context
  - guideID: string (UUID)

Returns:
  - error: apperr.NotFound, or apperr.Unprocessable once the guide has been
    published
*/
func (service *Service) DeleteGuide(context context.Context, guideID string) error {
	editions, err := service.editionRepo.ListByGuide(context, guideID)
	if err != nil {
		return err
	}

	if editions.HasBeenPublished() {
		return apperr.Unprocessable("Guides that have been published can't be deleted")
	}

	if err := service.guideRepo.Delete(context, guideID); err != nil {
		return err
	}

	service.logger.Info("guide_deleted", slog.String("guide_id", guideID))
	return nil
}

// # Workflow Transitions

/*
RequestReview moves the guide's gating edition from draft into review.

Parameters:
  - context: context.Context
  - guideID: string (UUID)
  - userID: string (The acting user)

Returns:
  - *Edition: The appended review_requested edition
  - error: apperr.Unprocessable when the transition is not available
*/
func (service *Service) RequestReview(context context.Context, guideID, userID string) (*Edition, error) {
	return service.transition(context, guideID, userID, "review_requested", StateReviewRequested,
		func(editions Editions, latest *Edition) bool {
			return service.workflow.CanRequestReview(latest)
		},
		"Review can't be requested in the current state")
}

/*
Approve marks the guide's gating edition as approved.

Description: Authors cannot approve their own editions unless the
self-approval override is enabled.

Parameters:
  - context: context.Context
  - guideID: string (UUID)
  - userID: string (The approving user)

Returns:
  - *Edition: The appended approved edition
  - error: apperr.Unprocessable when the transition is not available
*/
func (service *Service) Approve(context context.Context, guideID, userID string) (*Edition, error) {
	return service.transition(context, guideID, userID, "edition_approved", StateApproved,
		func(editions Editions, latest *Edition) bool {
			return service.workflow.CanBeApproved(latest, userID)
		},
		"Edition can't be approved in the current state")
}

/*
Publish takes the guide's approved gating edition live.

Description: The transition into published triggers link validation on the
edition body; any unresolvable link aborts the save with one error per
broken link.

Parameters:
  - context: context.Context
  - guideID: string (UUID)
  - userID: string (The publishing user)

Returns:
  - *Edition: The appended published edition
  - error: apperr.Unprocessable or validation errors
*/
func (service *Service) Publish(context context.Context, guideID, userID string) (*Edition, error) {
	return service.transition(context, guideID, userID, "edition_published", StatePublished,
		func(editions Editions, latest *Edition) bool {
			return service.workflow.CanBePublished(editions, latest)
		},
		"Edition can't be published in the current state")
}

/*
Unpublish withdraws a published guide from live view.

Parameters:
  - context: context.Context
  - guideID: string (UUID)
  - userID: string (The acting user)

Returns:
  - *Edition: The appended unpublished edition
  - error: apperr.Unprocessable when the gating edition is not published
*/
func (service *Service) Unpublish(context context.Context, guideID, userID string) (*Edition, error) {
	return service.transition(context, guideID, userID, "edition_unpublished", StateUnpublished,
		func(editions Editions, latest *Edition) bool {
			return latest.Persisted() && latest.State == StatePublished
		},
		"Only published editions can be unpublished")
}

// transition gates, validates and appends one state-transition row.
func (service *Service) transition(context context.Context, guideID, userID string, event string, target State, allowed func(Editions, *Edition) bool, denied string) (*Edition, error) {
	persisted, err := service.guideRepo.FindByID(context, guideID)
	if err != nil {
		return nil, err
	}

	editions, err := service.editionRepo.ListByGuide(context, guideID)
	if err != nil {
		return nil, err
	}

	latest := editions.Latest()
	if latest == nil || !allowed(editions, latest) {
		return nil, apperr.Unprocessable(denied)
	}

	// The transition row carries the same content with only the state moved.
	next := *latest
	next.ID = ""
	next.State = target

	if err := service.workflow.ValidateEdition(context, persisted.Kind, latest, &next); err != nil {
		return nil, err
	}

	next.ID = uuidv7.New()
	if err := service.editionRepo.Create(context, &next); err != nil {
		return nil, err
	}

	service.logger.Info(event,
		slog.String("guide_id", guideID),
		slog.String("edition_id", next.ID),
		slog.String("user_id", userID),
	)

	renderChangeNote(&next)
	return &next, nil
}

// # History & Thread

/*
EditionHistory returns one edition per lineage, newest lineage first.

Parameters:
  - context: context.Context
  - guideID: string (UUID)

Returns:
  - []*Edition: The guide's lineage overview
  - error: apperr.NotFound if the guide is missing
*/
func (service *Service) EditionHistory(context context.Context, guideID string) ([]*Edition, error) {
	if _, err := service.guideRepo.FindByID(context, guideID); err != nil {
		return nil, err
	}

	editions, err := service.editionRepo.ListByGuide(context, guideID)
	if err != nil {
		return nil, err
	}

	history := editions.LatestPerLineage()
	for _, edition := range history {
		renderChangeNote(edition)
	}
	return history, nil
}

/*
EditionThread reconstructs the audit timeline of the guide's current lineage.

Parameters:
  - context: context.Context
  - guideID: string (UUID)

Returns:
  - []Event: The chronological thread of drafts, state changes and comments
  - error: apperr.NotFound, or apperr.Internal on an unlabelled transition
*/
func (service *Service) EditionThread(context context.Context, guideID string) ([]Event, error) {
	if _, err := service.guideRepo.FindByID(context, guideID); err != nil {
		return nil, err
	}

	editions, err := service.editionRepo.ListByGuide(context, guideID)
	if err != nil {
		return nil, err
	}

	latest := editions.Latest()
	if latest == nil {
		return nil, nil
	}

	lineage, err := service.editionRepo.ListByLineage(context, guideID, latest.Version)
	if err != nil {
		return nil, err
	}

	comments, err := service.editionRepo.ListCommentsByLineage(context, guideID, latest.Version)
	if err != nil {
		return nil, err
	}

	events, err := BuildThread(lineage, comments)
	if err != nil {
		// A transition without a label is a programming invariant violation,
		// surfaced as a generic internal failure.
		return nil, apperr.Internal(err)
	}
	return events, nil
}

/*
CreateComment attaches reviewer feedback to the guide's gating edition.

Parameters:
  - context: context.Context
  - guideID: string (UUID)
  - authorID: string (The commenting user)
  - body: string

Returns:
  - *Comment: The stored comment
  - error: Validation or persistence errors
*/
func (service *Service) CreateComment(context context.Context, guideID, authorID, body string) (*Comment, error) {
	editions, err := service.editionRepo.ListByGuide(context, guideID)
	if err != nil {
		return nil, err
	}

	latest := editions.Latest()
	if latest == nil {
		return nil, apperr.NotFound("edition")
	}

	comment := &Comment{
		ID:        uuidv7.New(),
		EditionID: latest.ID,
		AuthorID:  authorID,
		Body:      body,
	}
	if err := service.editionRepo.CreateComment(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_created",
		slog.String("guide_id", guideID),
		slog.String("edition_id", latest.ID),
		slog.String("author_id", authorID),
	)

	return comment, nil
}

// # Internal Helpers

// nextEdition decides where a content save lands: a new row in the open
// lineage, or the first row of a fresh lineage when the current one is
// terminal. The returned predecessor is the edition validation compares
// against, nil for a fresh lineage.
func (service *Service) nextEdition(latest *Edition, authorID string) (*Edition, *Edition) {
	if latest == nil {
		return &Edition{Version: 1, State: StateDraft, AuthorID: authorID}, nil
	}

	if latest.State.IsTerminal() {
		fresh := service.workflow.DraftCopy(latest)
		fresh.Version = latest.Version + 1
		fresh.AuthorID = authorID
		return fresh, nil
	}

	next := *latest
	next.ID = ""
	next.State = StateDraft
	next.AuthorID = authorID
	return &next, latest
}

// topicChanged reports whether the new topic section belongs to a different
// topic than the stored one.
func (service *Service) topicChanged(context context.Context, oldSectionID, newSectionID string) (bool, error) {
	if oldSectionID == newSectionID || newSectionID == "" || oldSectionID == "" {
		return false, nil
	}

	oldTopic, err := service.guideRepo.TopicIDForSection(context, oldSectionID)
	if err != nil {
		return false, err
	}
	newTopic, err := service.guideRepo.TopicIDForSection(context, newSectionID)
	if err != nil {
		return false, err
	}
	return oldTopic != newTopic, nil
}

// renderChangeNote fills the derived HTML rendering of an edition's change
// note. Never persisted.
func renderChangeNote(edition *Edition) {
	if edition == nil || edition.ChangeNote == "" {
		return
	}
	edition.ChangeNoteHTML = markdown.Render(edition.ChangeNote)
}

func normalizeKind(kind Kind) Kind {
	if kind == "" {
		return KindGuide
	}
	return kind
}

func normalizeUpdateType(updateType UpdateType) UpdateType {
	if updateType == "" {
		return UpdateTypeMinor
	}
	return updateType
}
