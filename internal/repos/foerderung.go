package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/btrkeks/innovation-coach-backend/internal/logger"
	"github.com/btrkeks/innovation-coach-backend/internal/types"
)

type FoerderungRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, foerderungID int64) (*types.Foerderung, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]types.Foerderung, error)
	Save(ctx context.Context, tx *gorm.DB, foerderung *types.Foerderung) (*types.Foerderung, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, foerderungID int64) error
	ExistsByID(ctx context.Context, tx *gorm.DB, foerderungID int64) (bool, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type foerderungRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFoerderungRepo(db *gorm.DB, baseLog *logger.Logger) FoerderungRepo {
	repoLog := baseLog.With("repo", "FoerderungRepo")
	return &foerderungRepo{db: db, log: repoLog}
}

func (fr *foerderungRepo) GetByID(ctx context.Context, tx *gorm.DB, foerderungID int64) (*types.Foerderung, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	var result types.Foerderung
	if err := transaction.WithContext(ctx).
		Where("id = ?", foerderungID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (fr *foerderungRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]types.Foerderung, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	var results []types.Foerderung
	if err := transaction.WithContext(ctx).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (fr *foerderungRepo) Save(ctx context.Context, tx *gorm.DB, foerderung *types.Foerderung) (*types.Foerderung, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	if err := transaction.WithContext(ctx).Save(foerderung).Error; err != nil {
		return nil, err
	}
	return foerderung, nil
}

func (fr *foerderungRepo) DeleteByID(ctx context.Context, tx *gorm.DB, foerderungID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", foerderungID).
		Delete(&types.Foerderung{}).Error
}

func (fr *foerderungRepo) ExistsByID(ctx context.Context, tx *gorm.DB, foerderungID int64) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Foerderung{}).
		Where("id = ?", foerderungID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (fr *foerderungRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Foerderung{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
