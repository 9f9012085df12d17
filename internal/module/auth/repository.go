package auth

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simp-lee/folio/internal/domain"
	"github.com/simp-lee/folio/internal/pkg"
)

// accountRepository implements domain.AccountRepository using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewRepository creates an AccountRepository backed by db.
func NewRepository(db *gorm.DB) domain.AccountRepository {
	return &accountRepository{db: db}
}

// GetByID retrieves an account by its ID.
func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	var account domain.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	return &account, nil
}

// GetByEmail retrieves an account by its email address.
func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var account domain.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	return &account, nil
}

// Upsert inserts account, or updates name and password hash of the account
// that already uses its email. account is reloaded afterwards.
func (r *accountRepository) Upsert(ctx context.Context, account *domain.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "password_hash", "updated_at"}),
	}).Create(account).Error
	if err != nil {
		return pkg.MapDBError(err)
	}
	var stored domain.Account
	if err := db.Where("email = ?", account.Email).First(&stored).Error; err != nil {
		return pkg.MapDBError(err)
	}
	*account = stored
	return nil
}
