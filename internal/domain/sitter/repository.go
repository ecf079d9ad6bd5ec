package sitter

import (
	"context"

	"github.com/google/uuid"
)

// SearchFilter narrows a sitter directory search. Zero values mean "any".
type SearchFilter struct {
	City          string
	MaxHourlyRate float64
}

// SitterRepository defines persistence operations for sitter profiles.
type SitterRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sitter, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Sitter, error)
	Search(ctx context.Context, filter SearchFilter, page, limit int) ([]*Sitter, int64, error)
	Save(ctx context.Context, sitter *Sitter) error
	Update(ctx context.Context, sitter *Sitter) error
}
