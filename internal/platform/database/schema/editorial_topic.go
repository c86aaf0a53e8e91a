// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// EditorialTopicTable represents the 'editorial.topic' table
type EditorialTopicTable struct {
	Table       string
	ID          string
	ContentID   string
	Path        string
	Title       string
	Description string
	UpdateType  string
	CreatedAt   string
	UpdatedAt   string
}

// EditorialTopic is the schema definition for editorial.topic
var EditorialTopic = EditorialTopicTable{
	Table:       "editorial.topic",
	ID:          "id",
	ContentID:   "contentid",
	Path:        "path",
	Title:       "title",
	Description: "description",
	UpdateType:  "updatetype",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// EditorialTopicSectionTable represents the 'editorial.topicsection' table
type EditorialTopicSectionTable struct {
	Table       string
	ID          string
	TopicID     string
	Title       string
	Description string
	Position    string
	CreatedAt   string
	UpdatedAt   string
}

// EditorialTopicSection is the schema definition for editorial.topicsection
var EditorialTopicSection = EditorialTopicSectionTable{
	Table:       "editorial.topicsection",
	ID:          "id",
	TopicID:     "topicid",
	Title:       "title",
	Description: "description",
	Position:    "position",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}
