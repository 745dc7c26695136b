package ports

import (
	"context"

	"github.com/companyhub/companies-api/internal/core/domain"
)

// CompanyInput carries the client-writable fields of a company. The owner is
// never part of it.
type CompanyInput struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Website     string `json:"website"     validate:"omitempty,url,max=200"`
	Email       string `json:"email"       validate:"omitempty,email,max=254"`
	Phone       string `json:"phone"       validate:"max=32"`
}

// CompanyDecoder fills a CompanyInput from the request payload. Update calls
// it only after the caller's access to the company has been confirmed.
type CompanyDecoder func(*CompanyInput) error

// CompanyService defines use-case operations for companies. Every operation
// on a single company resolves it first (domain.ErrCompanyNotFound) and then
// checks ownership (*domain.OwnershipError) before validating or writing.
type CompanyService interface {
	ListCompanies(ctx context.Context, ownerID string) ([]*domain.Company, error)
	CreateCompany(ctx context.Context, ownerID string, input CompanyInput) (*domain.Company, error)
	GetCompany(ctx context.Context, id, callerID string) (*domain.Company, error)
	UpdateCompany(ctx context.Context, id, callerID string, decode CompanyDecoder) (*domain.Company, error)
	DeleteCompany(ctx context.Context, id, callerID string) error
}
