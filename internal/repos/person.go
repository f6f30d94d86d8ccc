package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/btrkeks/innovation-coach-backend/internal/logger"
	"github.com/btrkeks/innovation-coach-backend/internal/types"
)

type PersonRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, personID int64) (*types.Person, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]types.Person, error)
	Save(ctx context.Context, tx *gorm.DB, person *types.Person) (*types.Person, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, personID int64) error
	ExistsByID(ctx context.Context, tx *gorm.DB, personID int64) (bool, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type personRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPersonRepo(db *gorm.DB, baseLog *logger.Logger) PersonRepo {
	repoLog := baseLog.With("repo", "PersonRepo")
	return &personRepo{db: db, log: repoLog}
}

func (pr *personRepo) GetByID(ctx context.Context, tx *gorm.DB, personID int64) (*types.Person, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.Person
	if err := transaction.WithContext(ctx).
		Where("id = ?", personID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (pr *personRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]types.Person, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []types.Person
	if err := transaction.WithContext(ctx).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *personRepo) Save(ctx context.Context, tx *gorm.DB, person *types.Person) (*types.Person, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if err := transaction.WithContext(ctx).Save(person).Error; err != nil {
		return nil, err
	}
	return person, nil
}

func (pr *personRepo) DeleteByID(ctx context.Context, tx *gorm.DB, personID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", personID).
		Delete(&types.Person{}).Error
}

func (pr *personRepo) ExistsByID(ctx context.Context, tx *gorm.DB, personID int64) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Person{}).
		Where("id = ?", personID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (pr *personRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Person{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
