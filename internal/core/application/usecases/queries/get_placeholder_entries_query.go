package queries

import (
	"context"
	"errors"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/catalog"
	"github.com/arvni/provider-panel-sub000/internal/pkg/guard"

	"gorm.io/gorm"
)

var ErrGetPlaceholderEntriesQueryIsNotConstructed = errors.New(
	"GetPlaceholderEntriesQuery must be created via NewGetPlaceholderEntriesQuery constructor",
)

// GetPlaceholderEntriesQuery lists placeholder catalog rows provisioned
// during imports. The audit job uses it to surface entries that still need
// curation.
type GetPlaceholderEntriesQuery struct {
	guard guard.ConstructorGuard
}

// NewGetPlaceholderEntriesQuery creates the parameterless placeholder query.
func NewGetPlaceholderEntriesQuery() GetPlaceholderEntriesQuery {
	return GetPlaceholderEntriesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetPlaceholderEntriesQuery) Validate() error {
	return q.guard.Validate(ErrGetPlaceholderEntriesQueryIsNotConstructed)
}

// PlaceholderEntry is one uncurated catalog row.
type PlaceholderEntry struct {
	Kind     string // "test" or "sample_type"
	ID       uint
	ServerID *int64
	Name     string
	Code     string
}

// GetPlaceholderEntriesQueryHandler reads placeholder catalog rows.
type GetPlaceholderEntriesQueryHandler struct {
	db *gorm.DB
}

// NewGetPlaceholderEntriesQueryHandler creates a handler over the given
// database handle.
func NewGetPlaceholderEntriesQueryHandler(db *gorm.DB) GetPlaceholderEntriesQueryHandler {
	return GetPlaceholderEntriesQueryHandler{db: db}
}

// Handle returns every placeholder test and sample type.
func (h GetPlaceholderEntriesQueryHandler) Handle(
	ctx context.Context,
	query GetPlaceholderEntriesQuery,
) ([]PlaceholderEntry, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var tests []catalog.Test
	if err := h.db.WithContext(ctx).
		Where("placeholder = ?", true).
		Find(&tests).Error; err != nil {
		return nil, err
	}

	var sampleTypes []catalog.SampleType
	if err := h.db.WithContext(ctx).
		Where("placeholder = ?", true).
		Find(&sampleTypes).Error; err != nil {
		return nil, err
	}

	entries := make([]PlaceholderEntry, 0, len(tests)+len(sampleTypes))
	for _, t := range tests {
		entries = append(entries, PlaceholderEntry{
			Kind:     "test",
			ID:       t.ID,
			ServerID: t.ServerID,
			Name:     t.Name,
			Code:     t.Code,
		})
	}
	for _, st := range sampleTypes {
		entries = append(entries, PlaceholderEntry{
			Kind:     "sample_type",
			ID:       st.ID,
			ServerID: st.ServerID,
			Name:     st.Name,
		})
	}

	return entries, nil
}
