// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package guide

import (
	"context"
	"fmt"
	"regexp"

	"github.com/taibuivan/guidepost/internal/platform/validate"
)

const (
	FieldSlug         = "slug"
	FieldTopicSection = "topic_section_id"
	FieldState        = "state"
	FieldTitle        = "title"
	FieldBody         = "body"
	FieldChangeNote   = "change_note"
	FieldContentOwner = "content_owner_id"
)

// Slug shape: two alphanumeric-and-dash segments under the service manual
// prefix. The charset and shape checks are separate so a slug can fail both.
var (
	slugCharset = regexp.MustCompile(`^[a-zA-Z0-9/-]*$`)
	slugFormat  = regexp.MustCompile(`^/service-manual/[a-zA-Z0-9-]+/[a-zA-Z0-9-]+$`)
)

// BrokenLinkFinder reports the unresolvable URLs in a body of text. Checked
// only on the transition into published.
type BrokenLinkFinder interface {
	BrokenLinks(ctx context.Context, body string) []string
}

// # Workflow

// Workflow is the edition state machine: legal-action predicates, save-time
// transition validation, and draft copying.
//
// # Gating
//
// The predicates answer "may this action be offered" and never mutate
// anything. Callers check the predicate, then persist the transition; a save
// that violates the rules anyway is caught by the validation methods.
type Workflow struct {
	allowSelfApproval bool
	links             BrokenLinkFinder
}

// NewWorkflow constructs a [Workflow]. allowSelfApproval is the operational
// override letting authors approve their own editions.
func NewWorkflow(allowSelfApproval bool, links BrokenLinkFinder) *Workflow {
	return &Workflow{
		allowSelfApproval: allowSelfApproval,
		links:             links,
	}
}

// CanRequestReview reports whether a review may be requested on the edition:
// it must be persisted and still a draft.
func (workflow *Workflow) CanRequestReview(edition *Edition) bool {
	return edition.Persisted() && edition.State == StateDraft
}

// CanBeApproved reports whether userID may approve the edition. Authors may
// not approve their own work unless the self-approval override is enabled.
func (workflow *Workflow) CanBeApproved(edition *Edition, userID string) bool {
	if !edition.Persisted() || edition.State != StateReviewRequested {
		return false
	}
	return workflow.allowSelfApproval || userID != edition.AuthorID
}

// CanBePublished reports whether the edition may go live: it must be the
// guide's single gating edition and already approved.
func (workflow *Workflow) CanBePublished(editions Editions, edition *Edition) bool {
	latest := editions.Latest()
	return latest != nil && latest.ID == edition.ID && edition.State == StateApproved
}

/*
DraftCopy produces a new, unpersisted edition from source: every field is
carried over except ChangeNote, which is cleared, and State, which resets to
draft. This is the only supported way to resume editing once an edition has
reached a terminal state.

Parameters:
  - source: the edition to copy, typically a published one.

Returns:
  - *Edition: The unpersisted copy; ID and CreatedAt are zero until saved.
*/
func (workflow *Workflow) DraftCopy(source *Edition) *Edition {
	return &Edition{
		GuideID:        source.GuideID,
		Version:        source.Version,
		State:          StateDraft,
		Title:          source.Title,
		Body:           source.Body,
		UpdateType:     source.UpdateType,
		AuthorID:       source.AuthorID,
		ContentOwnerID: source.ContentOwnerID,
	}
}

/*
ValidateEdition applies save-time transition validation.

Description: Checks the state value, the major-update change note rule, the
content-owner requirement (waived for community guides), immutability of
published editions, and, on the transition into published, that every link in
the body resolves.

Parameters:
  - ctx: bounds the outbound link probes.
  - kind: the owning guide's kind.
  - persisted: the edition's stored predecessor in its lineage, nil for the
    first edition of a lineage.
  - edition: the candidate row about to be saved.

Returns:
  - error: *apperr.AppError carrying field-scoped messages, nil when valid.
*/
func (workflow *Workflow) ValidateEdition(ctx context.Context, kind Kind, persisted, edition *Edition) error {
	validator := &validate.Validator{}

	// A published predecessor accepts no further field edits. Only the state
	// itself may move (published to unpublished); anything else is exactly one
	// base-level error regardless of how many fields changed.
	if persisted != nil && persisted.State == StatePublished && fieldsChanged(persisted, edition) {
		validator.Base(true, "Published editions can't be updated")
		return validator.Err()
	}

	validator.Custom(FieldState, !edition.State.IsValid(),
		fmt.Sprintf("State %q is not a valid state", edition.State))

	validator.Required(FieldTitle, edition.Title)

	validator.Custom(FieldChangeNote,
		edition.UpdateType == UpdateTypeMajor && edition.ChangeNote == "",
		"Change note can't be blank")

	if kind != KindCommunity {
		validator.Custom(FieldContentOwner, edition.ContentOwnerID == "",
			"Latest edition must have a content owner")
	}

	// Link validation runs only when this save moves the lineage into
	// published, one error per broken link.
	if edition.State == StatePublished && (persisted == nil || persisted.State != StatePublished) {
		for _, url := range workflow.links.BrokenLinks(ctx, edition.Body) {
			validator.Custom(FieldBody, true, fmt.Sprintf("Body contains a broken link: %s", url))
		}
	}

	return validator.Err()
}

/*
ValidateGuide applies guide-level validation.

Parameters:
  - incoming: the guide as it would be after the save.
  - persisted: the stored guide, nil on creation.
  - hasBeenPublished: whether any edition of the guide ever reached published.
  - topicChanged: whether the new topic section belongs to a different topic
    than the stored one.

Returns:
  - error: *apperr.AppError with field-scoped messages, nil when valid.
*/
func (workflow *Workflow) ValidateGuide(incoming, persisted *Guide, hasBeenPublished, topicChanged bool) error {
	validator := &validate.Validator{}

	validator.Custom(FieldSlug, !slugCharset.MatchString(incoming.Slug),
		"Slug can only contain letters, numbers and dashes")
	validator.Custom(FieldSlug, !slugFormat.MatchString(incoming.Slug),
		"Slug must be present and start with '/service-manual/[topic]'")

	validator.Required(FieldTopicSection, incoming.TopicSectionID)

	if persisted != nil && hasBeenPublished {
		validator.Custom(FieldSlug, incoming.Slug != persisted.Slug,
			"Slug can't be changed as this guide has been published")
		validator.Custom(FieldTopicSection, topicChanged,
			"Topic section can't be changed to a different topic as this guide has been published")
	}

	return validator.Err()
}

// fieldsChanged reports whether any content field differs between the stored
// edition and the candidate. State is deliberately excluded.
func fieldsChanged(persisted, edition *Edition) bool {
	return edition.Title != persisted.Title ||
		edition.Body != persisted.Body ||
		edition.ChangeNote != persisted.ChangeNote ||
		edition.UpdateType != persisted.UpdateType ||
		edition.AuthorID != persisted.AuthorID ||
		edition.ContentOwnerID != persisted.ContentOwnerID ||
		edition.Version != persisted.Version
}
