package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"gorm.io/gorm"
)

var companySortFields = map[string]string{
	"name":      "name",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// CompanyRepository handles database operations for customer companies
type CompanyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Create(ctx context.Context, company *domain.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

// GetByID retrieves a company by its ID
func (r *CompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	var company domain.Company
	err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// GetByName finds a company by name, ignoring case and surrounding whitespace.
// Scopes reference their customer by name, so this is how documents find the letterhead recipient.
func (r *CompanyRepository) GetByName(ctx context.Context, name string) (*domain.Company, error) {
	var company domain.Company
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Order("created_at ASC").
		First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// Update updates a company's fields
func (r *CompanyRepository) Update(ctx context.Context, company *domain.Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

func (r *CompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Company{}, "id = ?", id).Error
}

func (r *CompanyRepository) List(ctx context.Context, page, pageSize int, search string, sort SortConfig) ([]domain.Company, int64, error) {
	var companies []domain.Company
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Company{})
	if search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(name) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!' OR LOWER(mof_number) LIKE ? ESCAPE '!'", pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := Paginate(query, page, pageSize).
		Order(BuildOrderClause(sort, companySortFields, "created_at")).
		Find(&companies).Error

	return companies, total, err
}

// ListAll returns every company ordered by name
func (r *CompanyRepository) ListAll(ctx context.Context) ([]domain.Company, error) {
	var companies []domain.Company
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}
