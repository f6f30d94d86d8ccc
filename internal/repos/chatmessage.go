package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/btrkeks/innovation-coach-backend/internal/logger"
	"github.com/btrkeks/innovation-coach-backend/internal/types"
)

type ChatMessageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, message *types.ChatMessage) (*types.ChatMessage, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID int64) ([]types.ChatMessage, error)
	CountByUserID(ctx context.Context, tx *gorm.DB, userID int64) (int64, error)
}

type chatMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
	repoLog := baseLog.With("repo", "ChatMessageRepo")
	return &chatMessageRepo{db: db, log: repoLog}
}

func (cr *chatMessageRepo) Create(ctx context.Context, tx *gorm.DB, message *types.ChatMessage) (*types.ChatMessage, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if err := transaction.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

func (cr *chatMessageRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID int64) ([]types.ChatMessage, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []types.ChatMessage
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *chatMessageRepo) CountByUserID(ctx context.Context, tx *gorm.DB, userID int64) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ChatMessage{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
