package ports

import (
	"context"
	"iter"

	"github.com/companyhub/companies-api/internal/core/domain"
)

// CompanyRepository defines persistence operations for companies.
type CompanyRepository interface {
	// Create inserts c and assigns its ID.
	Create(ctx context.Context, c *domain.Company) error
	// FindByID returns domain.ErrCompanyNotFound when no record matches id.
	FindByID(ctx context.Context, id string) (*domain.Company, error)
	// ListByOwner yields the companies owned by ownerID, newest first.
	// The query runs each time the sequence is ranged over, so the sequence
	// can be consumed more than once.
	ListByOwner(ctx context.Context, ownerID string) iter.Seq2[*domain.Company, error]
	// Update replaces every mutable field of the stored record with the
	// values in c. Owner and CreatedAt are never written.
	Update(ctx context.Context, c *domain.Company) error
	Delete(ctx context.Context, id string) error
}
