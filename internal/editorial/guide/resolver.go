// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package guide

// # Edition Resolution

// Editions is a guide's edition set in insertion order (ascending CreatedAt,
// ties broken by row order). All resolution is computed per call from the
// slice itself; nothing here is cached or persisted.
type Editions []*Edition

/*
Latest returns the single gating edition: the most recent edition of the
guide's current lineage, where the current lineage is the one the guide's
most recently created edition belongs to.

Returns:
  - *Edition: The edition subject to approval/publish gating, nil when empty.
*/
func (editions Editions) Latest() *Edition {
	newest := editions.newest()
	if newest == nil {
		return nil
	}

	// Within the current lineage, a later row wins createdAt ties.
	var latest *Edition
	for _, edition := range editions {
		if edition.Version != newest.Version {
			continue
		}
		if latest == nil || !edition.CreatedAt.Before(latest.CreatedAt) {
			latest = edition
		}
	}
	return latest
}

/*
Live returns the edition currently visible externally: the most recent
published edition, unless a more recent unpublished edition supersedes it.

Description: Scans terminal-state editions from most recent to oldest. The
first one encountered decides the outcome; an unpublished edition hides every
older published edition behind it.

Returns:
  - *Edition: The live edition, or nil when nothing is externally visible.
*/
func (editions Editions) Live() *Edition {
	for i := len(editions) - 1; i >= 0; i-- {
		switch editions[i].State {
		case StatePublished:
			return editions[i]
		case StateUnpublished:
			return nil
		}
	}
	return nil
}

/*
LatestPerLineage returns one edition per lineage, the most recent of each,
ordered by descending lineage recency. This is the "one row per in-flight
draft" view used by listings and history.

Returns:
  - []*Edition: At most one edition per distinct Version, newest lineage first.
*/
func (editions Editions) LatestPerLineage() []*Edition {
	latest := make(map[int]*Edition)
	for _, edition := range editions {
		current, ok := latest[edition.Version]
		if !ok || !edition.CreatedAt.Before(current.CreatedAt) {
			latest[edition.Version] = edition
		}
	}

	// Order lineages by the recency of their latest edition. Insertion order
	// of the source slice keeps equal timestamps stable.
	result := make([]*Edition, 0, len(latest))
	for i := len(editions) - 1; i >= 0; i-- {
		edition := latest[editions[i].Version]
		if edition == nil {
			continue
		}
		result = append(result, edition)
		delete(latest, editions[i].Version)
	}
	return result
}

// HasBeenPublished reports whether any edition has ever reached published,
// regardless of whether a later unpublish removed it from live view.
func (editions Editions) HasBeenPublished() bool {
	for _, edition := range editions {
		if edition.State == StatePublished {
			return true
		}
	}
	return false
}

/*
LastPublished returns the most recent edition that reached published, even
when a later unpublish has since removed it from live view.

Returns:
  - *Edition: nil when the guide has never been published.
*/
func (editions Editions) LastPublished() *Edition {
	var lastPublished *Edition
	for _, edition := range editions {
		if edition.State != StatePublished {
			continue
		}
		if lastPublished == nil || !edition.CreatedAt.Before(lastPublished.CreatedAt) {
			lastPublished = edition
		}
	}
	return lastPublished
}

/*
PreviouslyPublished returns the published edition immediately before the most
recent one, the baseline for "what changed since the last release" diffs.

Returns:
  - *Edition: nil unless at least two editions have reached published.
*/
func (editions Editions) PreviouslyPublished() *Edition {
	last := editions.LastPublished()
	if last == nil {
		return nil
	}

	var previous *Edition
	for _, edition := range editions {
		if edition.State != StatePublished || edition == last {
			continue
		}
		if !edition.CreatedAt.After(last.CreatedAt) && (previous == nil || !edition.CreatedAt.Before(previous.CreatedAt)) {
			previous = edition
		}
	}
	return previous
}

/*
SinceLastPublished returns the editions created after the most recent
published edition, in insertion order.

Returns:
  - []*Edition: Empty when the guide has never been published.
*/
func (editions Editions) SinceLastPublished() []*Edition {
	lastPublished := editions.LastPublished()
	if lastPublished == nil {
		return nil
	}

	var result []*Edition
	for _, edition := range editions {
		if edition.CreatedAt.After(lastPublished.CreatedAt) {
			result = append(result, edition)
		}
	}
	return result
}

// newest returns the most recently created edition across all lineages, with
// a later row winning createdAt ties.
func (editions Editions) newest() *Edition {
	var newest *Edition
	for _, edition := range editions {
		if newest == nil || !edition.CreatedAt.Before(newest.CreatedAt) {
			newest = edition
		}
	}
	return newest
}
