// Reelrank - Personalized Catalog Ranking and Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/reelrank/recommend"
)

// projectionQuery aggregates every relation of an item into a single row.
// list(DISTINCT ...) keeps the relation ids as native LIST values so the
// scan decodes them without string splitting.
const projectionQuery = `SELECT
	i.id,
	COALESCE(i.owner_id, 0) AS owner_id,
	list(DISTINCT ic.contributor_id) FILTER (WHERE ic.contributor_id IS NOT NULL) AS contributor_ids,
	list(DISTINCT it.tag_id) FILTER (WHERE it.tag_id IS NOT NULL) AS tag_ids,
	i.engagement_count,
	i.released_on
FROM items i
LEFT JOIN item_contributors ic ON ic.item_id = i.id
LEFT JOIN item_tags it ON it.item_id = i.id`

const projectionGroupBy = ` GROUP BY i.id, i.owner_id, i.engagement_count, i.released_on`

// LoadProjections returns scoring projections for the whole catalog.
func (s *Store) LoadProjections(ctx context.Context) (projections []recommend.ScoringProjection, err error) {
	start := time.Now()
	defer func() { observe("load_projections", start, err) }()

	rows, err := s.conn.QueryContext(ctx, projectionQuery+projectionGroupBy)
	if err != nil {
		return nil, fmt.Errorf("failed to query projections: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	for rows.Next() {
		p, scanErr := scanProjection(rows)
		if scanErr != nil {
			err = scanErr
			return nil, err
		}
		projections = append(projections, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projections: %w", err)
	}

	return projections, nil
}

// LoadProjection returns one item's projection, or (nil, nil) when the
// item does not exist.
func (s *Store) LoadProjection(ctx context.Context, id int) (p *recommend.ScoringProjection, err error) {
	start := time.Now()
	defer func() { observe("load_projection", start, err) }()

	query := projectionQuery + " WHERE i.id = ?" + projectionGroupBy
	rows, err := s.conn.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query projection: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to read projection: %w", err)
		}
		return nil, nil
	}

	return scanProjection(rows)
}

// LoadProjectionsByIDs returns projections for the given items only, in a
// single query. Unknown ids are silently absent from the result.
func (s *Store) LoadProjectionsByIDs(ctx context.Context, ids []int) (projections []recommend.ScoringProjection, err error) {
	if len(ids) == 0 {
		return nil, nil
	}

	start := time.Now()
	defer func() { observe("load_projections_by_ids", start, err) }()

	query := projectionQuery + " WHERE i.id IN (" + inPlaceholders(len(ids)) + ")" + projectionGroupBy

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projections by ids: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	for rows.Next() {
		p, scanErr := scanProjection(rows)
		if scanErr != nil {
			err = scanErr
			return nil, err
		}
		projections = append(projections, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projections: %w", err)
	}

	return projections, nil
}

// LoadTagIndex returns the contributor→tags and owner→tags maps used for
// tag-origin resolution, built from two grouped queries.
func (s *Store) LoadTagIndex(ctx context.Context) (idx *recommend.TagIndex, err error) {
	start := time.Now()
	defer func() { observe("load_tag_index", start, err) }()

	contributorTags, err := s.loadRelatedTags(ctx,
		`SELECT ic.contributor_id, it.tag_id
		FROM item_contributors ic
		JOIN item_tags it ON it.item_id = ic.item_id
		GROUP BY ic.contributor_id, it.tag_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load contributor tags: %w", err)
	}

	ownerTags, err := s.loadRelatedTags(ctx,
		`SELECT i.owner_id, it.tag_id
		FROM items i
		JOIN item_tags it ON it.item_id = i.id
		WHERE i.owner_id IS NOT NULL
		GROUP BY i.owner_id, it.tag_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load owner tags: %w", err)
	}

	return &recommend.TagIndex{
		ContributorTags: contributorTags,
		OwnerTags:       ownerTags,
	}, nil
}

// loadRelatedTags runs a (entity_id, tag_id) pair query and folds the
// pairs into per-entity tag sets.
func (s *Store) loadRelatedTags(ctx context.Context, query string) (map[int]recommend.IDSet, error) {
	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	tags := make(map[int]recommend.IDSet)
	for rows.Next() {
		var entityID, tagID int
		if err := rows.Scan(&entityID, &tagID); err != nil {
			return nil, err
		}
		set, ok := tags[entityID]
		if !ok {
			set = make(recommend.IDSet)
			tags[entityID] = set
		}
		set[tagID] = struct{}{}
	}
	return tags, rows.Err()
}

// scanProjection decodes one aggregated projection row.
func scanProjection(rows *sql.Rows) (*recommend.ScoringProjection, error) {
	var (
		p               recommend.ScoringProjection
		contributorList any
		tagList         any
		releasedOn      sql.NullTime
	)

	if err := rows.Scan(&p.ID, &p.OwnerID, &contributorList, &tagList, &p.EngagementCount, &releasedOn); err != nil {
		return nil, fmt.Errorf("failed to scan projection: %w", err)
	}

	contributors, err := toIDSlice(contributorList)
	if err != nil {
		return nil, fmt.Errorf("failed to decode contributor ids: %w", err)
	}
	tagIDs, err := toIDSlice(tagList)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tag ids: %w", err)
	}

	p.ContributorIDs = recommend.NewIDSet(contributors...)
	p.TagIDs = recommend.NewIDSet(tagIDs...)
	if releasedOn.Valid {
		t := releasedOn.Time
		p.OccurredOn = &t
	}

	return &p, nil
}
