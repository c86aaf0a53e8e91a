// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package guide

import "context"

// # Guide & Edition Data Access

// GuideRepository defines the data access contract for guides.
type GuideRepository interface {

	/*
		List returns guides matching the filter, each hydrated with the latest
		edition of its current lineage.

		Parameters:
		  - context: context.Context
		  - filter: GuideFilter
		  - limit: int
		  - offset: int

		Returns:
		  - []*GuideWithEdition: Guides with their gating edition
		  - int: Total matching guides
		  - error: Storage failures
	*/
	List(context context.Context, filter GuideFilter, limit, offset int) ([]*GuideWithEdition, int, error)

	/*
		FindByID returns the guide with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Guide: Hydrated guide row
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*Guide, error)

	/*
		FindBySlug returns the guide addressed by slug.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - *Guide: Hydrated guide row
		  - error: apperr.NotFound if missing
	*/
	FindBySlug(context context.Context, slug string) (*Guide, error)

	/*
		Create persists a new guide row.

		Parameters:
		  - context: context.Context
		  - guide: *Guide

		Returns:
		  - error: apperr.Conflict on duplicate slug, other storage failures
	*/
	Create(context context.Context, guide *Guide) error

	/*
		Update persists changes to an existing guide row.

		Parameters:
		  - context: context.Context
		  - guide: *Guide

		Returns:
		  - error: apperr.NotFound if the row is gone, storage failures
	*/
	Update(context context.Context, guide *Guide) error

	/*
		Delete removes a guide row. Edition and comment rows cascade at the
		storage layer.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - error: apperr.NotFound if the row is gone, storage failures
	*/
	Delete(context context.Context, id string) error

	/*
		TopicIDForSection resolves the owning topic of a topic section.

		Parameters:
		  - context: context.Context
		  - sectionID: string (UUID)

		Returns:
		  - string: The owning topic's ID
		  - error: apperr.NotFound if the section is missing
	*/
	TopicIDForSection(context context.Context, sectionID string) (string, error)
}

// EditionRepository defines the data access contract for editions and their
// comments. Editions are append-only; there is no update or delete.
type EditionRepository interface {

	/*
		ListByGuide returns every edition of a guide in insertion order
		(ascending createdAt, stable on ties).

		Parameters:
		  - context: context.Context
		  - guideID: string (UUID)

		Returns:
		  - Editions: The guide's full edition set
		  - error: Storage failures
	*/
	ListByGuide(context context.Context, guideID string) (Editions, error)

	/*
		ListByLineage returns the editions sharing (guideID, version) in
		insertion order.

		Parameters:
		  - context: context.Context
		  - guideID: string (UUID)
		  - version: int (Lineage key)

		Returns:
		  - Editions: The lineage's editions
		  - error: Storage failures
	*/
	ListByLineage(context context.Context, guideID string, version int) (Editions, error)

	/*
		Create appends a new edition row.

		Parameters:
		  - context: context.Context
		  - edition: *Edition

		Returns:
		  - error: Storage failures
	*/
	Create(context context.Context, edition *Edition) error

	/*
		CreateComment attaches a comment to an edition.

		Parameters:
		  - context: context.Context
		  - comment: *Comment

		Returns:
		  - error: Storage failures
	*/
	CreateComment(context context.Context, comment *Comment) error

	/*
		ListComments returns an edition's comments in stored order.

		Parameters:
		  - context: context.Context
		  - editionID: string (UUID)

		Returns:
		  - []*Comment: Comments, oldest first
		  - error: Storage failures
	*/
	ListComments(context context.Context, editionID string) ([]*Comment, error)

	/*
		ListCommentsByLineage returns the comments of every edition in a
		lineage, keyed by edition ID, each slice in stored order.

		Parameters:
		  - context: context.Context
		  - guideID: string (UUID)
		  - version: int (Lineage key)

		Returns:
		  - map[string][]*Comment: Comments per edition
		  - error: Storage failures
	*/
	ListCommentsByLineage(context context.Context, guideID string, version int) (map[string][]*Comment, error)
}

// GuideWithEdition pairs a guide with the latest edition of its current
// lineage, the row shape used by listings.
type GuideWithEdition struct {
	Guide   *Guide   `json:"guide"`
	Edition *Edition `json:"edition"`
}
