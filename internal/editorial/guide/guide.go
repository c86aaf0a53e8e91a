// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package guide

import "time"

// ── Aggregate ────────────────────────────────────────────────────────────────

// State is the workflow position of an [Edition].
//
// # Lifecycle
//
// Editions move draft → review_requested → approved → published, and
// unpublished is reachable only from published. Published and unpublished
// editions are terminal with respect to further field edits; continuing work
// on a published guide opens a new lineage via [Workflow.DraftCopy].
type State string

const (
	StateDraft           State = "draft"
	StateReviewRequested State = "review_requested"
	StateApproved        State = "approved"
	StatePublished       State = "published"
	StateUnpublished     State = "unpublished"
)

// States lists every legal state value, in lifecycle order.
var States = []State{StateDraft, StateReviewRequested, StateApproved, StatePublished, StateUnpublished}

// IsValid reports whether s is one of the enumerated states.
func (s State) IsValid() bool {
	for _, known := range States {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether an edition in this state accepts no further
// field edits.
func (s State) IsTerminal() bool {
	return s == StatePublished || s == StateUnpublished
}

// UpdateType classifies the significance of an edition's changes. Major
// updates require a change note and trigger downstream notifications.
type UpdateType string

const (
	UpdateTypeMajor UpdateType = "major"
	UpdateTypeMinor UpdateType = "minor"
)

// Kind distinguishes standard guides from community-owned pages, which share
// the workflow but skip the content-owner requirement.
type Kind string

const (
	KindGuide     Kind = "guide"
	KindCommunity Kind = "community"
)

// Guide is the stable identity of a piece of content. Its editable substance
// lives in [Edition] rows; the guide row itself only carries addressing and
// classification.
type Guide struct {
	ID             string    `json:"id"`
	ContentID      string    `json:"content_id"` // Assigned once at creation, shared with the publishing service.
	Slug           string    `json:"slug"`       // e.g. "/service-manual/agile-delivery/writing-user-stories".
	Kind           Kind      `json:"kind"`
	TopicSectionID string    `json:"topic_section_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Edition is one immutable-once-published snapshot of a guide's content.
//
// # Lineage
//
// Editions sharing (GuideID, Version) form a lineage, one draft-to-publish
// cycle. Rows are append-only: every save and every state transition inserts
// a new row, so the full history of a lineage is the rows themselves.
type Edition struct {
	ID             string     `json:"id"`
	GuideID        string     `json:"guide_id"`
	Version        int        `json:"version"` // Lineage key.
	State          State      `json:"state"`
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	ChangeNote     string     `json:"change_note"`
	ChangeNoteHTML string     `json:"change_note_html,omitempty"` // Derived, never stored.
	UpdateType     UpdateType `json:"update_type"`
	AuthorID       string     `json:"author_id"`
	ContentOwnerID string     `json:"content_owner_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Persisted reports whether the edition has been written to the store.
func (e *Edition) Persisted() bool {
	return e != nil && e.ID != ""
}

// Comment is reviewer feedback attached to a specific edition.
type Comment struct {
	ID        string    `json:"id"`
	EditionID string    `json:"edition_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// GuideFilter holds parameters for filtering the guide listing.
//
// # Parameters
//   - State: only guides whose latest edition is in this state.
//   - AuthorID: only guides whose latest edition was authored by this user.
//   - ContentOwnerID: only guides whose latest edition is owned by this user.
//   - Kind: "guide" or "community".
//   - Query: case-insensitive match against title or slug.
//   - Live: only guides whose latest edition is published.
//   - NotUnpublished: exclude guides whose latest edition is unpublished.
type GuideFilter struct {
	State          State
	AuthorID       string
	ContentOwnerID string
	Kind           Kind
	Query          string
	Live           bool
	NotUnpublished bool
}
