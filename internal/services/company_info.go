package services

import (
	"context"
	"fmt"

	"github.com/btrkeks/innovation-coach-backend/internal/logger"
	"github.com/btrkeks/innovation-coach-backend/internal/repos"
	"github.com/btrkeks/innovation-coach-backend/internal/types"
)

// CompanyInfoService covers manual company-info updates from the profile page.
type CompanyInfoService interface {
	UpdateCompanyInfo(ctx context.Context, userID int64, info types.CompanyInfo) (bool, error)
}

type companyInfoService struct {
	log   *logger.Logger
	users repos.UserRepo
}

func NewCompanyInfoService(baseLog *logger.Logger, userRepo repos.UserRepo) CompanyInfoService {
	return &companyInfoService{
		log:   baseLog.With("service", "CompanyInfoService"),
		users: userRepo,
	}
}

func (s *companyInfoService) UpdateCompanyInfo(ctx context.Context, userID int64, info types.CompanyInfo) (bool, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		return false, fmt.Errorf("load user %d: %w", userID, err)
	}
	if user == nil {
		return false, nil
	}

	user.SetCompanyInfo(info)
	if _, err := s.users.Save(ctx, nil, user); err != nil {
		return false, fmt.Errorf("save company info for user %d: %w", userID, err)
	}
	return true, nil
}
