// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package topic

import "context"

// # Topic Data Access

// TopicRepository defines the data access contract for topics and their
// sections.
type TopicRepository interface {

	/*
		List returns all topics ordered by title.

		Parameters:
		  - context: context.Context

		Returns:
		  - []*Topic: Topics without hydrated sections
		  - error: Storage failures
	*/
	List(context context.Context) ([]*Topic, error)

	/*
		FindByID returns the topic with the given ID, sections hydrated.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Topic: The topic with its ordered sections
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*Topic, error)

	/*
		SaveWithin upserts the topic row and runs fn inside the same
		transaction. If fn returns an error the upsert is rolled back.

		Parameters:
		  - context: context.Context
		  - topic: *Topic (The row to upsert)
		  - fn: func(context.Context) error (Work sharing the transaction's fate)

		Returns:
		  - error: fn's error after rollback, or commit/storage failures
	*/
	SaveWithin(context context.Context, topic *Topic, fn func(context.Context) error) error

	/*
		CreateSection persists a new topic section.

		Parameters:
		  - context: context.Context
		  - section: *TopicSection

		Returns:
		  - error: Storage failures
	*/
	CreateSection(context context.Context, section *TopicSection) error

	/*
		LinkedGuideContentIDs returns the content identifiers of every guide
		classified under the topic, in section and guide order.

		Parameters:
		  - context: context.Context
		  - topicID: string (UUID)

		Returns:
		  - []string: Guide content IDs for the publishing link set
		  - error: Storage failures
	*/
	LinkedGuideContentIDs(context context.Context, topicID string) ([]string, error)
}
