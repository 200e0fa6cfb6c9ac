package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"marketplace/internal/domain"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account. A second account for the same subject or
// email is a domain conflict.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	a.Email = strings.TrimSpace(strings.ToLower(a.Email))
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	m := toAccountModel(a)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Errorf(domain.ErrConflict, "account already exists")
		}
		return err
	}
	*a = *toDomainAccount(m)
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	var m accountModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err, "account %s not found", id)
	}
	return toDomainAccount(m), nil
}
