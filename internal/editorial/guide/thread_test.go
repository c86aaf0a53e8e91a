// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package guide

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildThreadDraftThenReview(t *testing.T) {
	e1 := edition("e1", 1, StateDraft, 0)
	e2 := edition("e2", 1, StateReviewRequested, 10)
	c1 := &Comment{ID: "c1", EditionID: "e2", AuthorID: "u2", Body: "Looks good", CreatedAt: base.Add(15 * time.Minute)}

	events, err := BuildThread([]*Edition{e1, e2}, map[string][]*Comment{"e2": {c1}})
	require.NoError(t, err)
	require.Len(t, events, 4)

	assert.Equal(t, EventNewDraft, events[0].Kind)
	assert.Equal(t, "e1", events[0].Edition.ID)

	assert.Equal(t, EventAssignedTo, events[1].Kind)
	assert.Equal(t, "e1", events[1].Edition.ID)

	assert.Equal(t, EventStateChange, events[2].Kind)
	assert.Equal(t, "e2", events[2].Edition.ID)
	assert.Equal(t, "Review requested", events[2].Action)

	assert.Equal(t, EventComment, events[3].Kind)
	assert.Equal(t, "c1", events[3].Comment.ID)
}

func TestBuildThreadCommentsOnFirstEditionPrecedeStateChanges(t *testing.T) {
	e1 := edition("e1", 1, StateDraft, 0)
	e2 := edition("e2", 1, StateReviewRequested, 10)
	c1 := &Comment{ID: "c1", EditionID: "e1", Body: "Early note"}

	events, err := BuildThread([]*Edition{e1, e2}, map[string][]*Comment{"e1": {c1}})
	require.NoError(t, err)
	require.Len(t, events, 4)

	assert.Equal(t, EventComment, events[2].Kind)
	assert.Equal(t, EventStateChange, events[3].Kind)
}

func TestBuildThreadRepeatedStateEmitsNoChange(t *testing.T) {
	// Consecutive drafts are content saves, not transitions.
	e1 := edition("e1", 1, StateDraft, 0)
	e2 := edition("e2", 1, StateDraft, 10)

	events, err := BuildThread([]*Edition{e1, e2}, nil)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, EventNewDraft, events[0].Kind)
	assert.Equal(t, EventAssignedTo, events[1].Kind)
}

func TestBuildThreadUnlabelledTransitionFails(t *testing.T) {
	e1 := edition("e1", 1, StateReviewRequested, 0)
	e2 := edition("e2", 1, StateApproved, 10)

	events, err := BuildThread([]*Edition{e1, e2}, nil)
	assert.Nil(t, events)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnhandledTransition)
}

func TestBuildThreadEmptyLineage(t *testing.T) {
	events, err := BuildThread(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, events)
}
