// Reelrank - Personalized Catalog Ranking and Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

import (
	"context"
	"time"
)

// Kind identifies a relation kind attached to a catalog item.
type Kind int

const (
	// KindContributor is an entity directly associated with an item
	// (e.g., a performer).
	KindContributor Kind = iota
	// KindOwner is the single top-level grouping entity for an item
	// (e.g., a studio).
	KindOwner
	// KindTag is a label attached to an item directly or inherited
	// through a contributor or owner.
	KindTag
)

// Kinds lists all relation kinds in scoring order.
var Kinds = []Kind{KindContributor, KindOwner, KindTag}

// String returns a human-readable name for the relation kind.
func (k Kind) String() string {
	switch k {
	case KindContributor:
		return "contributor"
	case KindOwner:
		return "owner"
	case KindTag:
		return "tag"
	default:
		return "unknown"
	}
}

// IDSet is a set of entity or item identifiers.
type IDSet map[int]struct{}

// NewIDSet builds a set from a slice of ids.
func NewIDSet(ids ...int) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is in the set.
func (s IDSet) Contains(id int) bool {
	_, ok := s[id]
	return ok
}

// ScoringProjection is the minimal per-item record sufficient to compute a
// score without full relational hydration. One immutable snapshot per item,
// rebuilt fresh every request.
type ScoringProjection struct {
	// ID is the catalog item identifier.
	ID int

	// OwnerID is the item's owning entity, or zero if unowned.
	OwnerID int

	// ContributorIDs are the contributors directly attached to the item.
	ContributorIDs IDSet

	// TagIDs are the tags directly attached to the item.
	TagIDs IDSet

	// EngagementCount is the item's own engagement counter.
	EngagementCount int

	// OccurredOn is the item date used for tie-breaking, if known.
	OccurredOn *time.Time
}

// RelationCount returns the total number of relations across all kinds.
func (p *ScoringProjection) RelationCount() int {
	n := len(p.ContributorIDs) + len(p.TagIDs)
	if p.OwnerID != 0 {
		n++
	}
	return n
}

// TagIndex maps contributors and owners to the tags they carry, so an item's
// inherited tags can be resolved without hydrating the related entities.
type TagIndex struct {
	// ContributorTags maps contributor id to its tag ids.
	ContributorTags map[int]IDSet

	// OwnerTags maps owner id to its tag ids.
	OwnerTags map[int]IDSet
}

// PreferenceSignal is a stored explicit signal for one entity or item.
type PreferenceSignal struct {
	// EntityID is the entity (or item) the signal is scoped to.
	EntityID int

	// Favorite reports whether the user favorited the entity.
	Favorite bool

	// Rating is the explicit rating in [0, 100], or nil if unrated.
	Rating *int
}

// PreferenceProfile holds a user's accumulated preference state for one
// request. Built once, read-only afterward.
type PreferenceProfile struct {
	// Favorites holds explicitly favorited entity ids per kind.
	Favorites map[Kind]IDSet

	// HighRated holds explicitly high-rated entity ids per kind
	// (rating >= Config.Profile.HighRatedMin), favorites included.
	HighRated map[Kind]IDSet

	// Derived holds implicit preference weights per kind, accumulated
	// from the user's rated/favorited items. All values are > 0;
	// zero-weight entries are never stored.
	Derived map[Kind]map[int]float64

	// LastInteraction maps item id to the user's most recent interaction
	// with it. Items absent from the map were never interacted with.
	LastInteraction map[int]time.Time

	// FavoriteItems is the number of item-level favorite signals seen.
	FavoriteItems int

	// RatedItems is the number of item-level rating signals seen.
	RatedItems int
}

// ScoredCandidate pairs an item id with its computed score and tie-break
// key. Transient, discarded after pagination.
type ScoredCandidate struct {
	ID         int
	Score      float64
	OccurredOn *time.Time
}

// Item is the fully hydrated, display-ready representation of a catalog
// item, produced by the Hydration Gateway.
type Item struct {
	// ID is the catalog item identifier.
	ID int `json:"id"`

	// Title is the item title.
	Title string `json:"title"`

	// OwnerName is the owning entity's display name.
	OwnerName string `json:"owner_name,omitempty"`

	// Contributors are the contributor display names.
	Contributors []string `json:"contributors,omitempty"`

	// Tags are the tag display names.
	Tags []string `json:"tags,omitempty"`

	// Date is the item date, if known.
	Date *time.Time `json:"date,omitempty"`
}

// Mode selects the ranking mode for a request.
type Mode int

const (
	// ModePersonalized ranks the whole catalog against the user's
	// accumulated preference signals.
	ModePersonalized Mode = iota
	// ModeSimilar ranks the catalog by overlap with one reference item.
	ModeSimilar
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModePersonalized:
		return "personalized"
	case ModeSimilar:
		return "similar"
	default:
		return "unknown"
	}
}

// Request describes one ranking request.
type Request struct {
	// Mode selects personalized or similarity ranking.
	Mode Mode `json:"mode"`

	// UserID is the user the ranking is computed for.
	UserID int `json:"user_id"`

	// ReferenceID is the reference item for ModeSimilar.
	ReferenceID int `json:"reference_id,omitempty"`

	// Page is the 1-based page to return. Defaults to 1.
	Page int `json:"page,omitempty"`

	// PerPage is the page size. Defaults to Config.Limits.DefaultPerPage.
	PerPage int `json:"per_page,omitempty"`

	// RequestID is a unique identifier for log correlation.
	// Generated if empty.
	RequestID string `json:"request_id,omitempty"`
}

// DiagnosticCounts summarizes the user's signals so a caller can explain an
// empty ranking instead of returning a bare empty list.
type DiagnosticCounts struct {
	FavoriteContributors  int `json:"favorite_contributors"`
	HighRatedContributors int `json:"high_rated_contributors"`
	FavoriteOwners        int `json:"favorite_owners"`
	HighRatedOwners       int `json:"high_rated_owners"`
	FavoriteTags          int `json:"favorite_tags"`
	HighRatedTags         int `json:"high_rated_tags"`
	FavoriteItems         int `json:"favorite_items"`
	RatedItems            int `json:"rated_items"`
}

// RankedPage is the unit returned to callers: one hydrated page of the
// ranking plus pagination bookkeeping.
type RankedPage struct {
	// Items is the hydrated page, in rank order.
	Items []Item `json:"items"`

	// TotalMatchCount is the size of the pre-pagination candidate set,
	// after capping.
	TotalMatchCount int `json:"total_match_count"`

	// Page is the 1-based page number served.
	Page int `json:"page"`

	// PerPage is the page size used.
	PerPage int `json:"per_page"`

	// Diagnostics is present only when the pre-pagination candidate set
	// was empty.
	Diagnostics *DiagnosticCounts `json:"diagnostics,omitempty"`
}

// ProjectionStore exposes the catalog as scoring projections via a constant
// number of aggregate fetches, never one round-trip per item.
type ProjectionStore interface {
	// LoadProjections returns the whole catalog as projections.
	LoadProjections(ctx context.Context) ([]ScoringProjection, error)

	// LoadProjection returns one item's projection, or (nil, nil) when
	// the item does not exist.
	LoadProjection(ctx context.Context, id int) (*ScoringProjection, error)

	// LoadProjectionsByIDs returns projections for the given items only.
	LoadProjectionsByIDs(ctx context.Context, ids []int) ([]ScoringProjection, error)

	// LoadTagIndex returns the contributor and owner tag maps.
	LoadTagIndex(ctx context.Context) (*TagIndex, error)
}

// SignalStore returns a user's stored preference signals.
type SignalStore interface {
	// EntitySignals returns the user's explicit signals for one kind.
	EntitySignals(ctx context.Context, userID int, kind Kind) ([]PreferenceSignal, error)

	// ItemSignals returns the user's item-level signals.
	ItemSignals(ctx context.Context, userID int) ([]PreferenceSignal, error)

	// ItemInteractions returns the user's most recent interaction time
	// per item.
	ItemInteractions(ctx context.Context, userID int) (map[int]time.Time, error)
}

// VisibilityPredicate resolves the ids a user must never be shown.
// Implemented by the caller's permission layer.
type VisibilityPredicate interface {
	ExcludedIDs(ctx context.Context, userID int, hiddenOnly bool) (IDSet, error)
}

// HydrationGateway fetches fully relational entities by id. The returned
// order is unreliable and must be reimposed by the caller.
type HydrationGateway interface {
	FetchByIDs(ctx context.Context, userID int, ids []int) ([]Item, error)
}
