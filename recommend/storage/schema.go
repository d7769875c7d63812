// Reelrank - Personalized Catalog Ranking and Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package storage

// schemaStatements holds the DDL for the tables the store reads. They are
// idempotent so EnsureSchema can run on every startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY,
		owner_id INTEGER,
		engagement_count INTEGER NOT NULL DEFAULT 0,
		released_on TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS item_contributors (
		item_id INTEGER NOT NULL,
		contributor_id INTEGER NOT NULL,
		PRIMARY KEY (item_id, contributor_id)
	)`,
	`CREATE TABLE IF NOT EXISTS item_tags (
		item_id INTEGER NOT NULL,
		tag_id INTEGER NOT NULL,
		PRIMARY KEY (item_id, tag_id)
	)`,
	`CREATE TABLE IF NOT EXISTS entity_signals (
		user_id INTEGER NOT NULL,
		kind VARCHAR NOT NULL,
		entity_id INTEGER NOT NULL,
		favorite BOOLEAN NOT NULL DEFAULT false,
		rating INTEGER,
		PRIMARY KEY (user_id, kind, entity_id)
	)`,
	`CREATE TABLE IF NOT EXISTS item_signals (
		user_id INTEGER NOT NULL,
		item_id INTEGER NOT NULL,
		favorite BOOLEAN NOT NULL DEFAULT false,
		rating INTEGER,
		PRIMARY KEY (user_id, item_id)
	)`,
	`CREATE TABLE IF NOT EXISTS item_interactions (
		user_id INTEGER NOT NULL,
		item_id INTEGER NOT NULL,
		occurred_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_item_interactions_user
		ON item_interactions (user_id, item_id)`,
}
