// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package guide

import (
	"errors"
	"fmt"
)

// # Edition Thread

// ErrUnhandledTransition signals a state transition the thread builder has no
// label for. It is deliberately fatal rather than silently mislabelled, so
// the label table cannot drift out of sync with the state enum.
var ErrUnhandledTransition = errors.New("guide: unhandled state transition")

// EventKind discriminates the entries of an edition thread.
type EventKind string

const (
	EventNewDraft    EventKind = "new_draft"
	EventAssignedTo  EventKind = "assigned_to"
	EventStateChange EventKind = "state_change"
	EventComment     EventKind = "comment"
)

// Event is one entry in a lineage's audit timeline. Exactly one of Edition
// or Comment is set, depending on Kind. Action carries the human-readable
// label for state changes.
type Event struct {
	Kind    EventKind `json:"kind"`
	Edition *Edition  `json:"edition,omitempty"`
	Comment *Comment  `json:"comment,omitempty"`
	Action  string    `json:"action,omitempty"`
}

// transitionLabels maps a newly entered state to its timeline label. Only
// transitions a reviewer can see in the thread today are defined; anything
// else fails with [ErrUnhandledTransition].
var transitionLabels = map[State]string{
	StateReviewRequested: "Review requested",
}

/*
BuildThread reconstructs the audit timeline of one lineage.

Description: The input is the lineage's full edition set in insertion order
(ascending CreatedAt) plus each edition's comments in stored order. The
timeline always opens with the draft creation and initial ownership
assignment, then interleaves state changes and comments edition by edition.

Parameters:
  - editions: the lineage's editions, ascending CreatedAt.
  - comments: comments keyed by edition ID, each slice in stored order.

Returns:
  - []Event: The flattened timeline, nil for an empty lineage.
  - error: ErrUnhandledTransition when a state change has no defined label.
*/
func BuildThread(editions []*Edition, comments map[string][]*Comment) ([]Event, error) {
	if len(editions) == 0 {
		return nil, nil
	}

	first := editions[0]
	events := []Event{
		{Kind: EventNewDraft, Edition: first},
		{Kind: EventAssignedTo, Edition: first},
	}

	for i, edition := range editions {
		if i > 0 && edition.State != editions[i-1].State {
			label, ok := transitionLabels[edition.State]
			if !ok {
				return nil, fmt.Errorf("%w: into %q", ErrUnhandledTransition, edition.State)
			}
			events = append(events, Event{Kind: EventStateChange, Edition: edition, Action: label})
		}

		for _, comment := range comments[edition.ID] {
			events = append(events, Event{Kind: EventComment, Comment: comment})
		}
	}

	return events, nil
}
