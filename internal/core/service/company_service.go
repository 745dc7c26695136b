package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/companyhub/companies-api/internal/core/domain"
	"github.com/companyhub/companies-api/internal/core/ports"
)

type CompanyService struct {
	repo      ports.CompanyRepository
	validator ports.Validator
	logger    zerolog.Logger
	now       func() time.Time
}

func NewCompanyService(repo ports.CompanyRepository, validator ports.Validator, logger zerolog.Logger) *CompanyService {
	return &CompanyService{repo: repo, validator: validator, logger: logger, now: time.Now}
}

// ListCompanies returns every company owned by ownerID, most recent first.
// An owner with no companies gets an empty, non-nil slice.
func (s *CompanyService) ListCompanies(ctx context.Context, ownerID string) ([]*domain.Company, error) {
	companies := make([]*domain.Company, 0)
	for c, err := range s.repo.ListByOwner(ctx, ownerID) {
		if err != nil {
			s.logger.Error().Err(err).Str("owner", ownerID).Msg("failed to list companies")
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, nil
}

// CreateCompany validates input and stores a new company owned by ownerID.
// Nothing is written when validation fails.
func (s *CompanyService) CreateCompany(ctx context.Context, ownerID string, input ports.CompanyInput) (*domain.Company, error) {
	if err := s.validator.Validate(&input); err != nil {
		return nil, err
	}

	now := s.timestamp()
	company := &domain.Company{
		Name:        input.Name,
		Description: input.Description,
		Website:     input.Website,
		Email:       input.Email,
		Phone:       input.Phone,
		Owner:       ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, company); err != nil {
		s.logger.Error().Err(err).Msg("failed to create company")
		return nil, err
	}

	s.logger.Info().Str("company_id", company.ID).Str("owner", ownerID).Msg("company created")
	return company, nil
}

func (s *CompanyService) GetCompany(ctx context.Context, id, callerID string) (*domain.Company, error) {
	return s.ownedCompany(ctx, id, callerID, domain.ActionRead)
}

// UpdateCompany replaces the writable fields of the company with the decoded
// input. Fields left empty are cleared; the owner is kept as stored. The
// payload is decoded only once the company exists and belongs to callerID.
func (s *CompanyService) UpdateCompany(ctx context.Context, id, callerID string, decode ports.CompanyDecoder) (*domain.Company, error) {
	company, err := s.ownedCompany(ctx, id, callerID, domain.ActionEdit)
	if err != nil {
		return nil, err
	}

	var input ports.CompanyInput
	if err := decode(&input); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(&input); err != nil {
		return nil, err
	}

	updated := *company
	updated.Name = input.Name
	updated.Description = input.Description
	updated.Website = input.Website
	updated.Email = input.Email
	updated.Phone = input.Phone
	updated.UpdatedAt = s.timestamp()

	if err := s.repo.Update(ctx, &updated); err != nil {
		if !errors.Is(err, domain.ErrCompanyNotFound) {
			s.logger.Error().Err(err).Str("company_id", id).Msg("failed to update company")
		}
		return nil, err
	}

	s.logger.Info().Str("company_id", id).Msg("company updated")
	return &updated, nil
}

func (s *CompanyService) DeleteCompany(ctx context.Context, id, callerID string) error {
	if _, err := s.ownedCompany(ctx, id, callerID, domain.ActionDelete); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrCompanyNotFound) {
			s.logger.Error().Err(err).Str("company_id", id).Msg("failed to delete company")
		}
		return err
	}

	s.logger.Info().Str("company_id", id).Msg("company deleted")
	return nil
}

// timestamp is the current time at the millisecond precision MongoDB keeps,
// so a freshly written record encodes the same as when it is read back.
func (s *CompanyService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// ownedCompany resolves id and checks that callerID owns the result. A
// missing company is reported before ownership, so non-owners learn that a
// company exists but cannot act on it.
func (s *CompanyService) ownedCompany(ctx context.Context, id, callerID string, action domain.Action) (*domain.Company, error) {
	company, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := company.Authorize(callerID, action); err != nil {
		s.logger.Warn().
			Str("company_id", id).
			Str("caller", callerID).
			Str("action", string(action)).
			Msg("ownership check failed")
		return nil, err
	}
	return company, nil
}
