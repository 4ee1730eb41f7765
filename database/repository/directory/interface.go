package directoryRepo

import (
	"context"

	"pawsit/models"
)

// DirectoryRepository exposes read-only lookups of owner profiles, sitter
// profiles, and pets. Their CRUD lifecycle lives elsewhere; the booking
// engine only verifies existence and ownership.
//
// Lookups return (nil, nil) when no matching profile exists.
type DirectoryRepository interface {
	FindOwnerByUserID(ctx context.Context, userID string) (*models.Owner, error)
	FindSitterByID(ctx context.Context, id string) (*models.Sitter, error)
	FindSitterByUserID(ctx context.Context, userID string) (*models.Sitter, error)
	FindPetsByIDs(ctx context.Context, ids []string) ([]models.Pet, error)
}
