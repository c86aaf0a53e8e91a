// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package guide

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taibuivan/guidepost/internal/platform/apperr"
)

// # In-memory Fakes

type fakeGuideRepo struct {
	guides map[string]*Guide
	topics map[string]string // section ID -> owning topic ID
}

func newFakeGuideRepo() *fakeGuideRepo {
	return &fakeGuideRepo{
		guides: make(map[string]*Guide),
		topics: map[string]string{"ts1": "topic1", "ts1b": "topic1", "ts2": "topic2"},
	}
}

func (f *fakeGuideRepo) List(_ context.Context, _ GuideFilter, _, _ int) ([]*GuideWithEdition, int, error) {
	return nil, 0, nil
}

func (f *fakeGuideRepo) FindByID(_ context.Context, id string) (*Guide, error) {
	g, ok := f.guides[id]
	if !ok {
		return nil, apperr.NotFound("guide")
	}
	return g, nil
}

func (f *fakeGuideRepo) FindBySlug(_ context.Context, slug string) (*Guide, error) {
	for _, g := range f.guides {
		if g.Slug == slug {
			return g, nil
		}
	}
	return nil, apperr.NotFound("guide")
}

func (f *fakeGuideRepo) Create(_ context.Context, g *Guide) error {
	f.guides[g.ID] = g
	return nil
}

func (f *fakeGuideRepo) Update(_ context.Context, g *Guide) error {
	if _, ok := f.guides[g.ID]; !ok {
		return apperr.NotFound("guide")
	}
	f.guides[g.ID] = g
	return nil
}

func (f *fakeGuideRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.guides[id]; !ok {
		return apperr.NotFound("guide")
	}
	delete(f.guides, id)
	return nil
}

func (f *fakeGuideRepo) TopicIDForSection(_ context.Context, sectionID string) (string, error) {
	topicID, ok := f.topics[sectionID]
	if !ok {
		return "", apperr.NotFound("topic section")
	}
	return topicID, nil
}

type fakeEditionRepo struct {
	editions []*Edition
	comments map[string][]*Comment
	clock    time.Time
}

func newFakeEditionRepo() *fakeEditionRepo {
	return &fakeEditionRepo{
		comments: make(map[string][]*Comment),
		clock:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeEditionRepo) ListByGuide(_ context.Context, guideID string) (Editions, error) {
	var result Editions
	for _, e := range f.editions {
		if e.GuideID == guideID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeEditionRepo) ListByLineage(_ context.Context, guideID string, version int) (Editions, error) {
	var result Editions
	for _, e := range f.editions {
		if e.GuideID == guideID && e.Version == version {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeEditionRepo) Create(_ context.Context, e *Edition) error {
	f.clock = f.clock.Add(time.Minute)
	e.CreatedAt = f.clock
	f.editions = append(f.editions, e)
	return nil
}

func (f *fakeEditionRepo) CreateComment(_ context.Context, c *Comment) error {
	f.clock = f.clock.Add(time.Minute)
	c.CreatedAt = f.clock
	f.comments[c.EditionID] = append(f.comments[c.EditionID], c)
	return nil
}

func (f *fakeEditionRepo) ListComments(_ context.Context, editionID string) ([]*Comment, error) {
	return f.comments[editionID], nil
}

func (f *fakeEditionRepo) ListCommentsByLineage(_ context.Context, guideID string, version int) (map[string][]*Comment, error) {
	result := make(map[string][]*Comment)
	for _, e := range f.editions {
		if e.GuideID == guideID && e.Version == version && len(f.comments[e.ID]) > 0 {
			result[e.ID] = f.comments[e.ID]
		}
	}
	return result, nil
}

// # Test Harness

type harness struct {
	service  *Service
	guides   *fakeGuideRepo
	editions *fakeEditionRepo
	links    *stubLinks
}

func newHarness(t *testing.T, allowSelfApproval bool) *harness {
	t.Helper()

	guides := newFakeGuideRepo()
	editions := newFakeEditionRepo()
	links := &stubLinks{}
	workflow := NewWorkflow(allowSelfApproval, links)

	return &harness{
		service:  NewService(guides, editions, workflow, slog.New(slog.NewTextHandler(io.Discard, nil))),
		guides:   guides,
		editions: editions,
		links:    links,
	}
}

func validInput() GuideInput {
	return GuideInput{
		Slug:           "/service-manual/agile-delivery/writing-user-stories",
		Kind:           KindGuide,
		TopicSectionID: "ts1",
		Edition: EditionInput{
			Title:          "Writing user stories",
			Body:           "Keep stories small.",
			UpdateType:     UpdateTypeMinor,
			ContentOwnerID: "owner",
		},
	}
}

// createDraft seeds a guide with one draft edition and returns its ID.
func (h *harness) createDraft(t *testing.T) string {
	t.Helper()
	detail, err := h.service.CreateGuide(context.Background(), validInput(), "author")
	require.NoError(t, err)
	return detail.Guide.ID
}

// advance drives the guide to the given state through the workflow.
func (h *harness) advance(t *testing.T, guideID string, to State) {
	t.Helper()
	ctx := context.Background()

	if to == StateDraft {
		return
	}
	_, err := h.service.RequestReview(ctx, guideID, "author")
	require.NoError(t, err)
	if to == StateReviewRequested {
		return
	}
	_, err = h.service.Approve(ctx, guideID, "reviewer")
	require.NoError(t, err)
	if to == StateApproved {
		return
	}
	_, err = h.service.Publish(ctx, guideID, "reviewer")
	require.NoError(t, err)
}

// # Creation & Editing

func TestCreateGuideOpensFirstLineage(t *testing.T) {
	h := newHarness(t, false)

	detail, err := h.service.CreateGuide(context.Background(), validInput(), "author")
	require.NoError(t, err)

	assert.NotEmpty(t, detail.Guide.ID)
	assert.NotEmpty(t, detail.Guide.ContentID)
	require.NotNil(t, detail.LatestEdition)
	assert.Equal(t, 1, detail.LatestEdition.Version)
	assert.Equal(t, StateDraft, detail.LatestEdition.State)
	assert.Equal(t, "author", detail.LatestEdition.AuthorID)
}

func TestUpdateGuideAppendsToOpenLineage(t *testing.T) {
	h := newHarness(t, false)
	guideID := h.createDraft(t)

	input := validInput()
	input.Edition.Body = "Keep stories small and testable."

	detail, err := h.service.UpdateGuide(context.Background(), guideID, input, "author")
	require.NoError(t, err)

	assert.Equal(t, 1, detail.LatestEdition.Version)
	assert.Len(t, h.editions.editions, 2)
}

func TestUpdateGuideAfterPublishOpensFreshLineage(t *testing.T) {
	h := newHarness(t, false)
	guideID := h.createDraft(t)
	h.advance(t, guideID, StatePublished)

	input := validInput()
	input.Edition.Body = "A second pass at the guidance."

	detail, err := h.service.UpdateGuide(context.Background(), guideID, input, "editor2")
	require.NoError(t, err)

	assert.Equal(t, 2, detail.LatestEdition.Version)
	assert.Equal(t, StateDraft, detail.LatestEdition.State)
	assert.Equal(t, "editor2", detail.LatestEdition.AuthorID)

	// The published lineage stays intact behind the new draft.
	editions, _ := h.editions.ListByGuide(context.Background(), guideID)
	live := editions.Live()
	require.NotNil(t, live)
	assert.Equal(t, 1, live.Version)
}

func TestUpdateGuideRejectsSlugChangeAfterPublish(t *testing.T) {
	h := newHarness(t, false)
	guideID := h.createDraft(t)
	h.advance(t, guideID, StatePublished)

	input := validInput()
	input.Slug = "/service-manual/agile-delivery/splitting-stories"

	_, err := h.service.UpdateGuide(context.Background(), guideID, input, "author")
	details := fieldErrors(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Slug can't be changed as this guide has been published", details[0].Message)
}

func TestUpdateGuideAllowsSectionMoveWithinTopic(t *testing.T) {
	h := newHarness(t, false)
	guideID := h.createDraft(t)
	h.advance(t, guideID, StatePublished)

	input := validInput()
	input.TopicSectionID = "ts1b" // Same owning topic as ts1.

	_, err := h.service.UpdateGuide(context.Background(), guideID, input, "author")
	assert.NoError(t, err)

	input.TopicSectionID = "ts2" // Different topic.
	_, err = h.service.UpdateGuide(context.Background(), guideID, input, "author")
	require.Error(t, err)
}

func TestNewDraftRequiresTerminalLineage(t *testing.T) {
	h := newHarness(t, false)
	guideID := h.createDraft(t)

	_, err := h.service.NewDraft(context.Background(), guideID, "editor2")
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 422, appErr.HTTPStatus)
}

func TestNewDraftCopiesLatestIntoFreshLineage(t *testing.T) {
	h := newHarness(t, false)
	guideID := h.createDraft(t)
	h.advance(t, guideID, StatePublished)

	draft, err := h.service.NewDraft(context.Background(), guideID, "editor2")
	require.NoError(t, err)

	assert.Equal(t, 2, draft.Version)
	assert.Equal(t, StateDraft, draft.State)
	assert.Equal(t, "editor2", draft.AuthorID)
	assert.Empty(t, draft.ChangeNote)
	assert.Equal(t, "Keep stories small.", draft.Body)
}

func TestDeleteGuideOnlyBeforePublish(t *testing.T) {
	h := newHarness(t, false)
	guideID := h.createDraft(t)

	require.NoError(t, h.service.DeleteGuide(context.Background(), guideID))
	_, err := h.guides.FindByID(context.Background(), guideID)
	require.Error(t, err)

	publishedID := h.createDraft(t)
	h.advance(t, publishedID, StatePublished)

	err = h.service.DeleteGuide(context.Background(), publishedID)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 422, appErr.HTTPStatus)
}

// # Transitions

func TestTransitionsAppendRows(t *testing.T) {
	h := newHarness(t, false)
	guideID := h.createDraft(t)
	h.advance(t, guideID, StatePublished)

	// draft + review_requested + approved + published
	assert.Len(t, h.editions.editions, 4)

	editions, _ := h.editions.ListByGuide(context.Background(), guideID)
	latest := editions.Latest()
	assert.Equal(t, StatePublished, latest.State)
	assert.True(t, editions.HasBeenPublished())
}

func TestRequestReviewRequiresDraft(t *testing.T) {
	h := newHarness(t, false)
	guideID := h.createDraft(t)
	h.advance(t, guideID, StateReviewRequested)

	_, err := h.service.RequestReview(context.Background(), guideID, "author")
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 422, appErr.HTTPStatus)
}

func TestApproveRejectsAuthorWithoutOverride(t *testing.T) {
	h := newHarness(t, false)
	guideID := h.createDraft(t)
	h.advance(t, guideID, StateReviewRequested)

	_, err := h.service.Approve(context.Background(), guideID, "author")
	require.Error(t, err)

	_, err = h.service.Approve(context.Background(), guideID, "reviewer")
	assert.NoError(t, err)
}

func TestApproveAllowsAuthorWithOverride(t *testing.T) {
	h := newHarness(t, true)
	guideID := h.createDraft(t)
	h.advance(t, guideID, StateReviewRequested)

	_, err := h.service.Approve(context.Background(), guideID, "author")
	assert.NoError(t, err)
}

func TestPublishRequiresApproval(t *testing.T) {
	h := newHarness(t, false)
	guideID := h.createDraft(t)

	_, err := h.service.Publish(context.Background(), guideID, "reviewer")
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 422, appErr.HTTPStatus)
}

func TestPublishBlockedByBrokenLinks(t *testing.T) {
	h := newHarness(t, false)
	guideID := h.createDraft(t)
	h.advance(t, guideID, StateApproved)

	h.links.broken = []string{"http://dead.example/a"}

	_, err := h.service.Publish(context.Background(), guideID, "reviewer")
	details := fieldErrors(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Body contains a broken link: http://dead.example/a", details[0].Message)
}

func TestUnpublishOnlyFromPublished(t *testing.T) {
	h := newHarness(t, false)
	guideID := h.createDraft(t)

	_, err := h.service.Unpublish(context.Background(), guideID, "author")
	require.Error(t, err)

	h.advance(t, guideID, StatePublished)
	unpublished, err := h.service.Unpublish(context.Background(), guideID, "author")
	require.NoError(t, err)
	assert.Equal(t, StateUnpublished, unpublished.State)

	editions, _ := h.editions.ListByGuide(context.Background(), guideID)
	assert.Nil(t, editions.Live())
	assert.True(t, editions.HasBeenPublished())
}

// # Thread & History

func TestEditionThreadCoversCurrentLineage(t *testing.T) {
	h := newHarness(t, false)
	guideID := h.createDraft(t)
	h.advance(t, guideID, StateReviewRequested)

	_, err := h.service.CreateComment(context.Background(), guideID, "reviewer", "Tighten the intro")
	require.NoError(t, err)

	events, err := h.service.EditionThread(context.Background(), guideID)
	require.NoError(t, err)
	require.Len(t, events, 4)

	assert.Equal(t, EventNewDraft, events[0].Kind)
	assert.Equal(t, EventAssignedTo, events[1].Kind)
	assert.Equal(t, EventStateChange, events[2].Kind)
	assert.Equal(t, "Review requested", events[2].Action)
	assert.Equal(t, EventComment, events[3].Kind)
	assert.Equal(t, "Tighten the intro", events[3].Comment.Body)
}

func TestEditionHistoryOnePerLineage(t *testing.T) {
	h := newHarness(t, false)
	guideID := h.createDraft(t)
	h.advance(t, guideID, StatePublished)

	_, err := h.service.UpdateGuide(context.Background(), guideID, validInput(), "author")
	require.NoError(t, err)

	history, err := h.service.EditionHistory(context.Background(), guideID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, 2, history[0].Version)
	assert.Equal(t, StateDraft, history[0].State)
	assert.Equal(t, 1, history[1].Version)
	assert.Equal(t, StatePublished, history[1].State)
}

func TestGetGuideResolvesLatestAndLive(t *testing.T) {
	h := newHarness(t, false)
	guideID := h.createDraft(t)
	h.advance(t, guideID, StatePublished)

	_, err := h.service.UpdateGuide(context.Background(), guideID, validInput(), "author")
	require.NoError(t, err)

	detail, err := h.service.GetGuide(context.Background(), guideID)
	require.NoError(t, err)

	assert.Equal(t, 2, detail.LatestEdition.Version)
	require.NotNil(t, detail.LiveEdition)
	assert.Equal(t, 1, detail.LiveEdition.Version)
	assert.True(t, detail.HasBeenPublished)
	assert.True(t, detail.HasUnpublishedChanges)
}

func TestGetGuideKeepsLastPublishedThroughUnpublish(t *testing.T) {
	h := newHarness(t, false)
	guideID := h.createDraft(t)
	h.advance(t, guideID, StatePublished)

	_, err := h.service.Unpublish(context.Background(), guideID, "author")
	require.NoError(t, err)

	detail, err := h.service.GetGuide(context.Background(), guideID)
	require.NoError(t, err)

	assert.Nil(t, detail.LiveEdition)
	require.NotNil(t, detail.LastPublishedEdition)
	assert.Equal(t, StatePublished, detail.LastPublishedEdition.State)
	assert.True(t, detail.HasBeenPublished)
}
