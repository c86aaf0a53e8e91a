// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// EditorialEditionTable represents the 'editorial.edition' table
type EditorialEditionTable struct {
	Table          string
	ID             string
	GuideID        string
	Version        string
	State          string
	Title          string
	Body           string
	ChangeNote     string
	UpdateType     string
	AuthorID       string
	ContentOwnerID string
	CreatedAt      string
}

// EditorialEdition is the schema definition for editorial.edition.
//
// Editions are append-only: there is no updatedat column because a persisted
// edition's content is never mutated. Workflow progress appends new rows.
var EditorialEdition = EditorialEditionTable{
	Table:          "editorial.edition",
	ID:             "id",
	GuideID:        "guideid",
	Version:        "version",
	State:          "state",
	Title:          "title",
	Body:           "body",
	ChangeNote:     "changenote",
	UpdateType:     "updatetype",
	AuthorID:       "authorid",
	ContentOwnerID: "contentownerid",
	CreatedAt:      "createdat",
}

// Columns returns all column names in insert order.
func (t EditorialEditionTable) Columns() []string {
	return []string{
		t.ID, t.GuideID, t.Version, t.State, t.Title, t.Body,
		t.ChangeNote, t.UpdateType, t.AuthorID, t.ContentOwnerID, t.CreatedAt,
	}
}
