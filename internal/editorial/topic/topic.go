// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package topic

import (
	"regexp"
	"time"

	"github.com/taibuivan/guidepost/internal/platform/validate"
)

// ── Aggregate ────────────────────────────────────────────────────────────────

// Topic is a publishable classification unit with its own draft/publish cycle
// against the downstream publishing service, independent of guide
// publication.
type Topic struct {
	ID          string    `json:"id"`
	ContentID   string    `json:"content_id"` // Assigned once at creation, shared with the publishing service.
	Path        string    `json:"path"`       // e.g. "/service-manual/agile-delivery".
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UpdateType  string    `json:"update_type"` // "major" or "minor", forwarded on publish.
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Sections are hydrated on reads, ordered by position.
	Sections []*TopicSection `json:"sections,omitempty"`
}

// TopicSection is one ordered grouping of guides within a topic.
type TopicSection struct {
	ID          string    `json:"id"`
	TopicID     string    `json:"topic_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	FieldPath       = "path"
	FieldTitle      = "title"
	FieldUpdateType = "update_type"
)

// Topic paths are a single segment under the service manual prefix.
var pathFormat = regexp.MustCompile(`^/service-manual/[a-zA-Z0-9-]+$`)

// Validate checks the topic's own fields. Field-scoped details surface
// through the shared validation error type.
func (topic *Topic) Validate() error {
	validator := &validate.Validator{}

	validator.Required(FieldTitle, topic.Title)
	validator.Custom(FieldPath, !pathFormat.MatchString(topic.Path),
		"Path must be of the form '/service-manual/[topic]'")
	validator.OneOf(FieldUpdateType, topic.UpdateType, "major", "minor")

	return validator.Err()
}
