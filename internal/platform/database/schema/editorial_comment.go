// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// EditorialCommentTable represents the 'editorial.comment' table
type EditorialCommentTable struct {
	Table     string
	ID        string
	EditionID string
	AuthorID  string
	Body      string
	CreatedAt string
}

// EditorialComment is the schema definition for editorial.comment.
// Comments belong to one edition and are removed with it.
var EditorialComment = EditorialCommentTable{
	Table:     "editorial.comment",
	ID:        "id",
	EditionID: "editionid",
	AuthorID:  "authorid",
	Body:      "body",
	CreatedAt: "createdat",
}
