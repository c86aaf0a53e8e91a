// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package topic provides the PostgreSQL implementation for topic data access.

The write path is transactional by contract: SaveWithin upserts the topic row
and runs caller-supplied work inside the same transaction, so a failure in
that work (typically a rejected publishing call) rolls the local row back.
*/
package topic

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taibuivan/guidepost/internal/platform/database/schema"
	"github.com/taibuivan/guidepost/internal/platform/dberr"
)

// # PostgreSQL Repository

// topicRepository implements the [TopicRepository] interface using pgx.
type topicRepository struct {
	pool *pgxpool.Pool
}

// NewTopicRepository constructs a PostgreSQL backed topic store.
func NewTopicRepository(pool *pgxpool.Pool) TopicRepository {
	return &topicRepository{pool: pool}
}

/*
List returns all topics ordered by title.

Parameters:
  - context: context.Context

Returns:
  - []*Topic: Topics without hydrated sections
  - error: Storage failures
*/
func (repository *topicRepository) List(context context.Context) ([]*Topic, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		ORDER BY %s ASC
	`,
		schema.EditorialTopic.ID, schema.EditorialTopic.ContentID, schema.EditorialTopic.Path,
		schema.EditorialTopic.Title, schema.EditorialTopic.Description, schema.EditorialTopic.UpdateType,
		schema.EditorialTopic.CreatedAt, schema.EditorialTopic.UpdatedAt,
		schema.EditorialTopic.Table,
		schema.EditorialTopic.Title,
	)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list topics: %w", err)
	}
	defer rows.Close()

	var topics []*Topic
	for rows.Next() {
		var topic Topic
		err := rows.Scan(
			&topic.ID, &topic.ContentID, &topic.Path, &topic.Title,
			&topic.Description, &topic.UpdateType, &topic.CreatedAt, &topic.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan topic: %w", err)
		}
		topics = append(topics, &topic)
	}

	return topics, nil
}

/*
FindByID returns the topic with its ordered sections.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Topic: The hydrated topic
  - error: apperr.NotFound on absent rows
*/
func (repository *topicRepository) FindByID(context context.Context, id string) (*Topic, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.EditorialTopic.ID, schema.EditorialTopic.ContentID, schema.EditorialTopic.Path,
		schema.EditorialTopic.Title, schema.EditorialTopic.Description, schema.EditorialTopic.UpdateType,
		schema.EditorialTopic.CreatedAt, schema.EditorialTopic.UpdatedAt,
		schema.EditorialTopic.Table,
		schema.EditorialTopic.ID,
	)

	var topic Topic
	err := repository.pool.QueryRow(context, query, id).Scan(
		&topic.ID, &topic.ContentID, &topic.Path, &topic.Title,
		&topic.Description, &topic.UpdateType, &topic.CreatedAt, &topic.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "topic")
	}

	// Section hydration, ordered by position
	sectionQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		schema.EditorialTopicSection.ID, schema.EditorialTopicSection.TopicID,
		schema.EditorialTopicSection.Title, schema.EditorialTopicSection.Description,
		schema.EditorialTopicSection.Position,
		schema.EditorialTopicSection.CreatedAt, schema.EditorialTopicSection.UpdatedAt,
		schema.EditorialTopicSection.Table,
		schema.EditorialTopicSection.TopicID,
		schema.EditorialTopicSection.Position,
	)

	rows, err := repository.pool.Query(context, sectionQuery, id)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list topic sections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var section TopicSection
		err := rows.Scan(
			&section.ID, &section.TopicID, &section.Title, &section.Description,
			&section.Position, &section.CreatedAt, &section.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan topic section: %w", err)
		}
		topic.Sections = append(topic.Sections, &section)
	}

	return &topic, nil
}

/*
SaveWithin upserts the topic row and runs fn inside the same transaction.

Description: The caller's work typically includes outbound publishing calls;
when any of it fails, the rollback undoes the upsert so the local row never
reflects a state the downstream service rejected.

Parameters:
  - context: context.Context
  - topic: *Topic
  - fn: func(context.Context) error

Returns:
  - error: fn's error after rollback, or commit/storage failures
*/
func (repository *topicRepository) SaveWithin(context context.Context, topic *Topic, fn func(context.Context) error) error {

	// Transaction boundary spanning the local write and the caller's work
	tx, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin topic transaction: %w", err)
	}
	defer tx.Rollback(context)

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = NOW()
	`,
		schema.EditorialTopic.Table,
		schema.EditorialTopic.ID, schema.EditorialTopic.ContentID, schema.EditorialTopic.Path,
		schema.EditorialTopic.Title, schema.EditorialTopic.Description, schema.EditorialTopic.UpdateType,
		schema.EditorialTopic.ID,
		schema.EditorialTopic.Path, schema.EditorialTopic.Path,
		schema.EditorialTopic.Title, schema.EditorialTopic.Title,
		schema.EditorialTopic.Description, schema.EditorialTopic.Description,
		schema.EditorialTopic.UpdateType, schema.EditorialTopic.UpdateType,
		schema.EditorialTopic.UpdatedAt,
	)

	_, err = tx.Exec(context, query,
		topic.ID,
		topic.ContentID,
		topic.Path,
		topic.Title,
		topic.Description,
		topic.UpdateType,
	)
	if err != nil {
		return dberr.Wrap(err, "topic")
	}

	// The caller's work shares the transaction's fate.
	if err := fn(context); err != nil {
		return err
	}

	if err := tx.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit topic transaction: %w", err)
	}

	return nil
}

/*
CreateSection persists a new topic section.

Parameters:
  - context: context.Context
  - section: *TopicSection

Returns:
  - error: Storage failures
*/
func (repository *topicRepository) CreateSection(context context.Context, section *TopicSection) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
	`,
		schema.EditorialTopicSection.Table,
		schema.EditorialTopicSection.ID, schema.EditorialTopicSection.TopicID,
		schema.EditorialTopicSection.Title, schema.EditorialTopicSection.Description,
		schema.EditorialTopicSection.Position,
	)

	_, err := repository.pool.Exec(context, query,
		section.ID,
		section.TopicID,
		section.Title,
		section.Description,
		section.Position,
	)
	if err != nil {
		return dberr.Wrap(err, "topic section")
	}

	return nil
}

/*
LinkedGuideContentIDs returns the content identifiers of every guide
classified under the topic.

Description: Joins guides through their topic section, ordered by section
position then guide creation, the order the published topic page lists them.

Parameters:
  - context: context.Context
  - topicID: string (UUID)

Returns:
  - []string: Guide content IDs
  - error: Storage failures
*/
func (repository *topicRepository) LinkedGuideContentIDs(context context.Context, topicID string) ([]string, error) {

	query := fmt.Sprintf(`
		SELECT g.%s
		FROM %s g
		JOIN %s s ON g.%s = s.%s
		WHERE s.%s = $1
		ORDER BY s.%s ASC, g.%s ASC
	`,
		schema.EditorialGuide.ContentID,
		schema.EditorialGuide.Table,
		schema.EditorialTopicSection.Table, schema.EditorialGuide.TopicSectionID, schema.EditorialTopicSection.ID,
		schema.EditorialTopicSection.TopicID,
		schema.EditorialTopicSection.Position, schema.EditorialGuide.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, topicID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list linked guides: %w", err)
	}
	defer rows.Close()

	var contentIDs []string
	for rows.Next() {
		var contentID string
		if err := rows.Scan(&contentID); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan linked guide: %w", err)
		}
		contentIDs = append(contentIDs, contentID)
	}

	return contentIDs, nil
}
