// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package guide

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// edition builds a minimal edition at base+offset minutes.
func edition(id string, version int, state State, offsetMinutes int) *Edition {
	return &Edition{
		ID:        id,
		GuideID:   "g1",
		Version:   version,
		State:     state,
		Title:     "Writing user stories",
		CreatedAt: base.Add(time.Duration(offsetMinutes) * time.Minute),
	}
}

func TestLatestPicksNewestOfCurrentLineage(t *testing.T) {
	editions := Editions{
		edition("e1", 1, StateDraft, 0),
		edition("e2", 1, StatePublished, 10),
		edition("e3", 2, StateDraft, 20),
		edition("e4", 2, StateReviewRequested, 30),
	}

	latest := editions.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, "e4", latest.ID)
}

func TestLatestIgnoresOlderLineages(t *testing.T) {
	// Lineage 1 has the latest row overall only within its own lineage;
	// lineage 2 owns the newest edition so it is the current lineage.
	editions := Editions{
		edition("e1", 1, StatePublished, 0),
		edition("e2", 2, StateDraft, 5),
	}

	latest := editions.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, "e2", latest.ID)
}

func TestLatestBreaksTimestampTiesByRowOrder(t *testing.T) {
	first := edition("e1", 1, StateDraft, 0)
	second := edition("e2", 1, StateReviewRequested, 0)

	latest := Editions{first, second}.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, "e2", latest.ID)
}

func TestLatestEmpty(t *testing.T) {
	assert.Nil(t, Editions{}.Latest())
}

func TestLivePublishedEdition(t *testing.T) {
	editions := Editions{
		edition("e1", 1, StateDraft, 0),
		edition("e2", 1, StatePublished, 10),
	}

	live := editions.Live()
	require.NotNil(t, live)
	assert.Equal(t, "e2", live.ID)
}

func TestLiveSuppressedByLaterUnpublish(t *testing.T) {
	editions := Editions{
		edition("e1", 1, StatePublished, 0),
		edition("e2", 1, StateUnpublished, 10),
	}

	assert.Nil(t, editions.Live())
}

func TestLiveRestoredByRepublish(t *testing.T) {
	editions := Editions{
		edition("e1", 1, StatePublished, 0),
		edition("e2", 1, StateUnpublished, 10),
		edition("e3", 2, StatePublished, 20),
	}

	live := editions.Live()
	require.NotNil(t, live)
	assert.Equal(t, "e3", live.ID)
}

func TestLiveNeverPublished(t *testing.T) {
	editions := Editions{
		edition("e1", 1, StateDraft, 0),
		edition("e2", 1, StateApproved, 10),
	}

	assert.Nil(t, editions.Live())
}

func TestLatestPerLineageOnePerVersion(t *testing.T) {
	editions := Editions{
		edition("e1", 1, StateDraft, 0),
		edition("e2", 1, StatePublished, 10),
		edition("e3", 2, StateDraft, 20),
		edition("e4", 3, StateDraft, 30),
		edition("e5", 3, StateReviewRequested, 40),
	}

	perLineage := editions.LatestPerLineage()
	require.Len(t, perLineage, 3)

	// Newest lineage first, one edition per version, none excluded.
	assert.Equal(t, "e5", perLineage[0].ID)
	assert.Equal(t, "e3", perLineage[1].ID)
	assert.Equal(t, "e2", perLineage[2].ID)
}

func TestHasBeenPublishedSurvivesUnpublish(t *testing.T) {
	editions := Editions{
		edition("e1", 1, StatePublished, 0),
		edition("e2", 1, StateUnpublished, 10),
	}

	assert.True(t, editions.HasBeenPublished())
	assert.False(t, Editions{edition("e1", 1, StateDraft, 0)}.HasBeenPublished())
}

func TestSinceLastPublished(t *testing.T) {
	editions := Editions{
		edition("e1", 1, StateDraft, 0),
		edition("e2", 1, StatePublished, 10),
		edition("e3", 2, StateDraft, 20),
		edition("e4", 2, StateReviewRequested, 30),
	}

	since := editions.SinceLastPublished()
	require.Len(t, since, 2)
	assert.Equal(t, "e3", since[0].ID)
	assert.Equal(t, "e4", since[1].ID)
}

func TestSinceLastPublishedNeverPublished(t *testing.T) {
	editions := Editions{edition("e1", 1, StateDraft, 0)}
	assert.Empty(t, editions.SinceLastPublished())
}

func TestPreviouslyPublishedIsTheReleaseBeforeLast(t *testing.T) {
	editions := Editions{
		edition("e1", 1, StatePublished, 0),
		edition("e2", 2, StateDraft, 10),
		edition("e3", 2, StatePublished, 20),
		edition("e4", 3, StateDraft, 30),
	}

	previous := editions.PreviouslyPublished()
	require.NotNil(t, previous)
	assert.Equal(t, "e1", previous.ID)
}

func TestPreviouslyPublishedNeedsTwoReleases(t *testing.T) {
	once := Editions{
		edition("e1", 1, StateDraft, 0),
		edition("e2", 1, StatePublished, 10),
	}

	assert.Nil(t, once.PreviouslyPublished())
	assert.Nil(t, Editions{edition("e1", 1, StateDraft, 0)}.PreviouslyPublished())
}

func TestLastPublishedSurvivesUnpublish(t *testing.T) {
	editions := Editions{
		edition("e1", 1, StatePublished, 0),
		edition("e2", 1, StateUnpublished, 10),
		edition("e3", 2, StateDraft, 20),
	}

	last := editions.LastPublished()
	require.NotNil(t, last)
	assert.Equal(t, "e1", last.ID)

	assert.Nil(t, Editions{edition("e1", 1, StateDraft, 0)}.LastPublished())
}
