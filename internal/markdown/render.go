// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package markdown renders editor-supplied CommonMark to HTML.
//
// # Contract
//
// Input is a raw markdown string (typically an edition change note); output is
// sanitized HTML with bare URLs autolinked. Raw inline HTML in the input is
// escaped rather than passed through, so the output is safe to embed without
// re-parsing.
package markdown

import "gitlab.com/golang-commonmark/markdown"

// renderer is shared across requests. The markdown parser is stateless after
// construction and safe for concurrent use.
var renderer = markdown.New(
	markdown.HTML(false),
	markdown.Linkify(true),
	markdown.Typographer(false),
	markdown.MaxNesting(10),
)

// Render converts a markdown string to sanitized HTML.
func Render(source string) string {
	return renderer.RenderToString([]byte(source))
}
