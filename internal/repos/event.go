package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/btrkeks/innovation-coach-backend/internal/logger"
	"github.com/btrkeks/innovation-coach-backend/internal/types"
)

type EventRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, eventID int64) (*types.Event, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]types.Event, error)
	Save(ctx context.Context, tx *gorm.DB, event *types.Event) (*types.Event, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, eventID int64) error
	ExistsByID(ctx context.Context, tx *gorm.DB, eventID int64) (bool, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	repoLog := baseLog.With("repo", "EventRepo")
	return &eventRepo{db: db, log: repoLog}
}

func (er *eventRepo) GetByID(ctx context.Context, tx *gorm.DB, eventID int64) (*types.Event, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var result types.Event
	if err := transaction.WithContext(ctx).
		Where("id = ?", eventID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (er *eventRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]types.Event, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var results []types.Event
	if err := transaction.WithContext(ctx).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *eventRepo) Save(ctx context.Context, tx *gorm.DB, event *types.Event) (*types.Event, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	if err := transaction.WithContext(ctx).Save(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

func (er *eventRepo) DeleteByID(ctx context.Context, tx *gorm.DB, eventID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", eventID).
		Delete(&types.Event{}).Error
}

func (er *eventRepo) ExistsByID(ctx context.Context, tx *gorm.DB, eventID int64) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Event{}).
		Where("id = ?", eventID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (er *eventRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Event{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
