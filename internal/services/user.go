package services

import (
	"context"
	"fmt"

	"github.com/btrkeks/innovation-coach-backend/internal/apperr"
	"github.com/btrkeks/innovation-coach-backend/internal/logger"
	"github.com/btrkeks/innovation-coach-backend/internal/repos"
	"github.com/btrkeks/innovation-coach-backend/internal/types"
)

type UserService interface {
	GetUser(ctx context.Context, userID int64) (*types.User, error)
	GetChatHistory(ctx context.Context, userID int64) ([]types.ChatMessage, error)
}

type userService struct {
	log      *logger.Logger
	users    repos.UserRepo
	messages repos.ChatMessageRepo
}

func NewUserService(baseLog *logger.Logger, userRepo repos.UserRepo, messageRepo repos.ChatMessageRepo) UserService {
	return &userService{
		log:      baseLog.With("service", "UserService"),
		users:    userRepo,
		messages: messageRepo,
	}
}

func (us *userService) GetUser(ctx context.Context, userID int64) (*types.User, error) {
	user, err := us.users.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", userID, apperr.ErrNotFound)
	}

	history, err := us.messages.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load chat history for user %d: %w", userID, err)
	}
	user.Messages = history
	return user, nil
}

func (us *userService) GetChatHistory(ctx context.Context, userID int64) ([]types.ChatMessage, error) {
	exists, err := us.users.ExistsByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("check user %d: %w", userID, err)
	}
	if !exists {
		return nil, fmt.Errorf("user %d: %w", userID, apperr.ErrNotFound)
	}
	return us.messages.GetByUserID(ctx, nil, userID)
}
