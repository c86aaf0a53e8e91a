// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema defines table and column name constants for all Guidepost
// relations. Query builders reference these instead of string literals so a
// column rename is a one-file change.
package schema

// EditorialGuideTable represents the 'editorial.guide' table
type EditorialGuideTable struct {
	Table          string
	ID             string
	ContentID      string
	Slug           string
	Kind           string
	TopicSectionID string
	CreatedAt      string
	UpdatedAt      string
}

// EditorialGuide is the schema definition for editorial.guide
var EditorialGuide = EditorialGuideTable{
	Table:          "editorial.guide",
	ID:             "id",
	ContentID:      "contentid",
	Slug:           "slug",
	Kind:           "kind",
	TopicSectionID: "topicsectionid",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}
