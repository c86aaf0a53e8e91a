// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package guide

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taibuivan/guidepost/internal/platform/apperr"
)

// stubLinks is a canned BrokenLinkFinder.
type stubLinks struct {
	broken []string
}

func (s *stubLinks) BrokenLinks(_ context.Context, _ string) []string {
	return s.broken
}

func newWorkflow(allowSelfApproval bool, broken ...string) *Workflow {
	return NewWorkflow(allowSelfApproval, &stubLinks{broken: broken})
}

// fieldErrors extracts the field-scoped details from a validation error.
func fieldErrors(t *testing.T, err error) []apperr.FieldError {
	t.Helper()
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	return appErr.Details
}

// # Predicates

func TestCanRequestReview(t *testing.T) {
	workflow := newWorkflow(false)

	assert.True(t, workflow.CanRequestReview(edition("e1", 1, StateDraft, 0)))
	assert.False(t, workflow.CanRequestReview(edition("e1", 1, StateReviewRequested, 0)))

	unpersisted := edition("", 1, StateDraft, 0)
	assert.False(t, workflow.CanRequestReview(unpersisted))
}

func TestCanBeApprovedRejectsAuthor(t *testing.T) {
	workflow := newWorkflow(false)

	e := edition("e1", 1, StateReviewRequested, 0)
	e.AuthorID = "author"

	assert.False(t, workflow.CanBeApproved(e, "author"))
	assert.True(t, workflow.CanBeApproved(e, "reviewer"))
}

func TestCanBeApprovedSelfApprovalOverride(t *testing.T) {
	workflow := newWorkflow(true)

	e := edition("e1", 1, StateReviewRequested, 0)
	e.AuthorID = "author"

	assert.True(t, workflow.CanBeApproved(e, "author"))
}

func TestCanBeApprovedWrongState(t *testing.T) {
	workflow := newWorkflow(true)

	e := edition("e1", 1, StateDraft, 0)
	assert.False(t, workflow.CanBeApproved(e, "reviewer"))
}

func TestCanBePublishedOnlyForLatestApproved(t *testing.T) {
	workflow := newWorkflow(false)

	approved := edition("e2", 1, StateApproved, 10)
	editions := Editions{edition("e1", 1, StateDraft, 0), approved}

	assert.True(t, workflow.CanBePublished(editions, approved))

	// The same approved edition loses eligibility once superseded.
	superseded := append(editions, edition("e3", 1, StateDraft, 20))
	assert.False(t, workflow.CanBePublished(superseded, approved))

	draft := edition("e4", 1, StateDraft, 30)
	assert.False(t, workflow.CanBePublished(Editions{draft}, draft))
}

// # Draft Copy

func TestDraftCopy(t *testing.T) {
	workflow := newWorkflow(false)

	source := &Edition{
		ID:             "e1",
		GuideID:        "g1",
		Version:        3,
		State:          StatePublished,
		Title:          "Writing user stories",
		Body:           "Keep stories small.",
		ChangeNote:     "Reworked the examples",
		UpdateType:     UpdateTypeMajor,
		AuthorID:       "author",
		ContentOwnerID: "owner",
	}

	copy := workflow.DraftCopy(source)

	assert.False(t, copy.Persisted())
	assert.Equal(t, StateDraft, copy.State)
	assert.Empty(t, copy.ChangeNote)

	assert.Equal(t, source.GuideID, copy.GuideID)
	assert.Equal(t, source.Version, copy.Version)
	assert.Equal(t, source.Title, copy.Title)
	assert.Equal(t, source.Body, copy.Body)
	assert.Equal(t, source.UpdateType, copy.UpdateType)
	assert.Equal(t, source.AuthorID, copy.AuthorID)
	assert.Equal(t, source.ContentOwnerID, copy.ContentOwnerID)
}

// # Edition Validation

func validEdition(state State) *Edition {
	return &Edition{
		ID:             "e1",
		GuideID:        "g1",
		Version:        1,
		State:          state,
		Title:          "Writing user stories",
		Body:           "Keep stories small.",
		UpdateType:     UpdateTypeMinor,
		AuthorID:       "author",
		ContentOwnerID: "owner",
	}
}

func TestValidateEditionPasses(t *testing.T) {
	workflow := newWorkflow(false)
	assert.NoError(t, workflow.ValidateEdition(context.Background(), KindGuide, nil, validEdition(StateDraft)))
}

func TestValidateEditionInvalidState(t *testing.T) {
	workflow := newWorkflow(false)

	e := validEdition("archived")
	err := workflow.ValidateEdition(context.Background(), KindGuide, nil, e)

	details := fieldErrors(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, FieldState, details[0].Field)
}

func TestValidateEditionMajorUpdateNeedsChangeNote(t *testing.T) {
	workflow := newWorkflow(false)

	e := validEdition(StateDraft)
	e.UpdateType = UpdateTypeMajor

	err := workflow.ValidateEdition(context.Background(), KindGuide, nil, e)
	details := fieldErrors(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Change note can't be blank", details[0].Message)

	e.ChangeNote = "Reworked the examples"
	assert.NoError(t, workflow.ValidateEdition(context.Background(), KindGuide, nil, e))
}

func TestValidateEditionContentOwnerRequired(t *testing.T) {
	workflow := newWorkflow(false)

	e := validEdition(StateDraft)
	e.ContentOwnerID = ""

	err := workflow.ValidateEdition(context.Background(), KindGuide, nil, e)
	details := fieldErrors(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Latest edition must have a content owner", details[0].Message)

	// Community pages have no content owner requirement.
	assert.NoError(t, workflow.ValidateEdition(context.Background(), KindCommunity, nil, e))
}

func TestValidateEditionPublishedIsImmutable(t *testing.T) {
	workflow := newWorkflow(false)

	persisted := validEdition(StatePublished)
	changed := validEdition(StatePublished)
	changed.Title = "A different title"
	changed.Body = "Different body too."

	err := workflow.ValidateEdition(context.Background(), KindGuide, persisted, changed)

	// Exactly one base-level error, however many fields changed.
	details := fieldErrors(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, apperr.FieldBase, details[0].Field)
	assert.Equal(t, "Published editions can't be updated", details[0].Message)
}

func TestValidateEditionPublishedAllowsStateOnlyTransition(t *testing.T) {
	workflow := newWorkflow(false)

	persisted := validEdition(StatePublished)
	unpublished := validEdition(StateUnpublished)

	assert.NoError(t, workflow.ValidateEdition(context.Background(), KindGuide, persisted, unpublished))
}

func TestValidateEditionBrokenLinksBlockPublish(t *testing.T) {
	workflow := newWorkflow(false, "http://dead.example/a", "http://dead.example/b")

	persisted := validEdition(StateApproved)
	publishing := validEdition(StatePublished)

	err := workflow.ValidateEdition(context.Background(), KindGuide, persisted, publishing)

	// One error per broken link, all scoped to the body.
	details := fieldErrors(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, FieldBody, details[0].Field)
	assert.Equal(t, "Body contains a broken link: http://dead.example/a", details[0].Message)
	assert.Equal(t, "Body contains a broken link: http://dead.example/b", details[1].Message)
}

func TestValidateEditionLinksCheckedOnlyOnPublishTransition(t *testing.T) {
	workflow := newWorkflow(false, "http://dead.example/a")

	// Saving a draft with broken links is fine; only going live is gated.
	assert.NoError(t, workflow.ValidateEdition(context.Background(), KindGuide, nil, validEdition(StateDraft)))
}

// # Guide Validation

func validGuide() *Guide {
	return &Guide{
		ID:             "g1",
		ContentID:      "content-1",
		Slug:           "/service-manual/agile-delivery/writing-user-stories",
		Kind:           KindGuide,
		TopicSectionID: "ts1",
	}
}

func TestValidateGuidePasses(t *testing.T) {
	workflow := newWorkflow(false)
	assert.NoError(t, workflow.ValidateGuide(validGuide(), nil, false, false))
}

func TestValidateGuideSlugCharsetAndFormat(t *testing.T) {
	workflow := newWorkflow(false)

	g := validGuide()
	g.Slug = "/service-manual/agile delivery/stories!"

	err := workflow.ValidateGuide(g, nil, false, false)
	details := fieldErrors(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, "Slug can only contain letters, numbers and dashes", details[0].Message)
	assert.Equal(t, "Slug must be present and start with '/service-manual/[topic]'", details[1].Message)
}

func TestValidateGuideSlugOutsideServiceManual(t *testing.T) {
	workflow := newWorkflow(false)

	g := validGuide()
	g.Slug = "/guidance/agile-delivery/writing-user-stories"

	err := workflow.ValidateGuide(g, nil, false, false)
	details := fieldErrors(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Slug must be present and start with '/service-manual/[topic]'", details[0].Message)
}

func TestValidateGuideSlugImmutableOncePublished(t *testing.T) {
	workflow := newWorkflow(false)

	persisted := validGuide()
	changed := validGuide()
	changed.Slug = "/service-manual/agile-delivery/splitting-stories"

	err := workflow.ValidateGuide(changed, persisted, true, false)
	details := fieldErrors(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Slug can't be changed as this guide has been published", details[0].Message)

	// With only drafts the same change is accepted.
	assert.NoError(t, workflow.ValidateGuide(changed, persisted, false, false))
}

func TestValidateGuideTopicImmutableOncePublished(t *testing.T) {
	workflow := newWorkflow(false)

	persisted := validGuide()
	changed := validGuide()
	changed.TopicSectionID = "ts2"

	err := workflow.ValidateGuide(changed, persisted, true, true)
	details := fieldErrors(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Topic section can't be changed to a different topic as this guide has been published", details[0].Message)

	// Moving within the same topic is allowed.
	assert.NoError(t, workflow.ValidateGuide(changed, persisted, true, false))
}
