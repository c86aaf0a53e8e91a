// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package linkcheck verifies that outbound links in edition bodies resolve.
//
// # Behaviour
//
// URLs are extracted from markdown link targets and bare http(s) URLs in the
// text. Each distinct URL is probed with a HEAD request; servers that reject
// HEAD with 405 are retried with GET. A link is broken when the request fails
// at the transport level or the response status is 400 or above.
package linkcheck

import (
	"context"
	"net/http"
	"regexp"
	"time"
)

// markdownLink matches the target of an inline markdown link. bareURL catches
// http(s) URLs pasted directly into the text; trailing punctuation commonly
// found at sentence ends is excluded from the match.
var (
	markdownLink = regexp.MustCompile(`\]\((https?://[^)\s]+)\)`)
	bareURL      = regexp.MustCompile(`https?://[^\s<>()\[\]"']+[^\s<>()\[\]"'.,;:!?]`)
)

// Checker probes URLs found in document bodies.
type Checker struct {
	client *http.Client
}

// New creates a Checker whose individual probes are bounded by timeout.
func New(timeout time.Duration) *Checker {
	return &Checker{
		client: &http.Client{Timeout: timeout},
	}
}

/*
BrokenLinks extracts every URL from body and returns the ones that do not
resolve, in first-occurrence order. A body with no URLs returns nil.

Parameters:
  - ctx: request context, cancels in-flight probes.
  - body: markdown text to scan.

Returns:
  - []string: the broken URLs, nil when all links resolve.
*/
func (c *Checker) BrokenLinks(ctx context.Context, body string) []string {
	urls := extractURLs(body)
	if len(urls) == 0 {
		return nil
	}

	var broken []string
	for _, u := range urls {
		if !c.resolves(ctx, u) {
			broken = append(broken, u)
		}
	}
	return broken
}

// resolves reports whether a single URL answers with a non-error status.
func (c *Checker) resolves(ctx context.Context, url string) bool {
	status, err := c.probe(ctx, http.MethodHead, url)
	if err != nil {
		return false
	}
	if status == http.StatusMethodNotAllowed {
		status, err = c.probe(ctx, http.MethodGet, url)
		if err != nil {
			return false
		}
	}
	return status < http.StatusBadRequest
}

func (c *Checker) probe(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}

// extractURLs returns the distinct URLs in body, preserving first-occurrence
// order. Markdown link targets are collected first so the bare-URL scan does
// not re-add them with trailing punctuation stripped differently.
func extractURLs(body string) []string {
	seen := make(map[string]struct{})
	var urls []string

	add := func(u string) {
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	for _, m := range markdownLink.FindAllStringSubmatch(body, -1) {
		add(m[1])
	}
	for _, m := range bareURL.FindAllString(body, -1) {
		add(m)
	}
	return urls
}
