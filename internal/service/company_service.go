package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/erp"
	"github.com/medcare-solutions/repair-api/internal/mapper"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Company service errors
var (
	ErrCompanyNotFound  = errors.New("company not found")
	ErrERPNotConfigured = errors.New("erp directory is not configured")
)

// CompanyDirectory is an external source of customer companies
type CompanyDirectory interface {
	GetCompanies(ctx context.Context) ([]erp.Company, error)
}

// CompanyService handles business logic for customer companies
type CompanyService struct {
	companyRepo *repository.CompanyRepository
	directory   CompanyDirectory
	activity    *ActivityService
	logger      *zap.Logger
}

// NewCompanyService creates a new CompanyService. directory may be nil when the ERP is disabled.
func NewCompanyService(
	companyRepo *repository.CompanyRepository,
	directory CompanyDirectory,
	activity *ActivityService,
	logger *zap.Logger,
) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		directory:   directory,
		activity:    activity,
		logger:      logger,
	}
}

func (s *CompanyService) Create(ctx context.Context, req *domain.CreateCompanyRequest) (*domain.CompanyDTO, error) {
	company := &domain.Company{
		Name:        strings.TrimSpace(req.Name),
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Address:     req.Address,
		MofNumber:   req.MofNumber,
	}

	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	s.activity.Record(ctx, domain.ActivityTargetCompany, company.ID,
		"Company created", fmt.Sprintf("Company '%s' was created", company.Name))

	dto := mapper.ToCompanyDTO(company)
	return &dto, nil
}

func (s *CompanyService) GetByID(ctx context.Context, id uuid.UUID) (*domain.CompanyDTO, error) {
	company, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToCompanyDTO(company)
	return &dto, nil
}

func (s *CompanyService) get(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

func (s *CompanyService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateCompanyRequest) (*domain.CompanyDTO, error) {
	company, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	company.Name = strings.TrimSpace(req.Name)
	company.PhoneNumber = req.PhoneNumber
	company.Email = req.Email
	company.Address = req.Address
	company.MofNumber = req.MofNumber

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	dto := mapper.ToCompanyDTO(company)
	return &dto, nil
}

func (s *CompanyService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.companyRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	return nil
}

func (s *CompanyService) List(ctx context.Context, page, pageSize int, search string, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)

	companies, total, err := s.companyRepo.List(ctx, page, pageSize, search, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	dtos := make([]domain.CompanyDTO, len(companies))
	for i := range companies {
		dtos[i] = mapper.ToCompanyDTO(&companies[i])
	}
	return domain.NewPaginatedResponse(dtos, total, page, pageSize), nil
}

// SyncFromERP upserts the ERP customer directory, matching existing companies by
// case-insensitive name. Empty ERP fields never overwrite local values.
func (s *CompanyService) SyncFromERP(ctx context.Context) (*domain.ERPSyncResultDTO, error) {
	if s.directory == nil {
		return nil, ErrERPNotConfigured
	}

	remote, err := s.directory.GetCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch erp companies: %w", err)
	}

	existing, err := s.companyRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	byName := make(map[string]*domain.Company, len(existing))
	for i := range existing {
		key := strings.ToLower(strings.TrimSpace(existing[i].Name))
		if _, dup := byName[key]; !dup {
			byName[key] = &existing[i]
		}
	}

	result := &domain.ERPSyncResultDTO{Fetched: len(remote)}
	for _, rc := range remote {
		name := strings.TrimSpace(rc.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)

		if local, ok := byName[key]; ok {
			if !mergeERPCompany(local, rc) {
				continue
			}
			if err := s.companyRepo.Update(ctx, local); err != nil {
				return result, fmt.Errorf("failed to update company %q: %w", name, err)
			}
			result.Updated++
			continue
		}

		company := &domain.Company{
			Name:         name,
			PhoneNumber:  rc.Phone,
			Email:        rc.Email,
			Address:      rc.Address,
			MofNumber:    rc.MofNumber,
			ERPReference: rc.Reference,
		}
		if err := s.companyRepo.Create(ctx, company); err != nil {
			return result, fmt.Errorf("failed to create company %q: %w", name, err)
		}
		byName[key] = company
		result.Created++
	}

	s.logger.Info("erp company sync finished",
		zap.Int("fetched", result.Fetched),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated))

	return result, nil
}

// mergeERPCompany copies non-empty ERP fields onto local and reports whether anything changed
func mergeERPCompany(local *domain.Company, rc erp.Company) bool {
	changed := false
	set := func(dst *string, v string) {
		v = strings.TrimSpace(v)
		if v != "" && *dst != v {
			*dst = v
			changed = true
		}
	}
	set(&local.PhoneNumber, rc.Phone)
	set(&local.Email, rc.Email)
	set(&local.Address, rc.Address)
	set(&local.MofNumber, rc.MofNumber)
	set(&local.ERPReference, rc.Reference)
	return changed
}
