package handler

import (
	"github.com/companyhub/companies-api/internal/core/domain"
	"github.com/companyhub/companies-api/internal/core/ports"
)

// --- Request → Service input ---

// toCompanyInput drops the owner field: ownership is decided by the caller's
// identity, never by the payload.
func toCompanyInput(req companyRequest) ports.CompanyInput {
	return ports.CompanyInput{
		Name:        req.Name,
		Description: req.Description,
		Website:     req.Website,
		Email:       req.Email,
		Phone:       req.Phone,
	}
}

// --- Service result → HTTP response ---

func toCompanyResponse(c *domain.Company) companyResponse {
	return companyResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Website:     c.Website,
		Email:       c.Email,
		Phone:       c.Phone,
		Owner:       c.Owner,
		CreatedAt:   c.CreatedAt.UTC(),
		UpdatedAt:   c.UpdatedAt.UTC(),
	}
}

func toCompanyListResponse(companies []*domain.Company) []companyResponse {
	out := make([]companyResponse, len(companies))
	for i, c := range companies {
		out[i] = toCompanyResponse(c)
	}
	return out
}
