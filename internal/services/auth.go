package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/btrkeks/innovation-coach-backend/internal/apperr"
	"github.com/btrkeks/innovation-coach-backend/internal/logger"
	"github.com/btrkeks/innovation-coach-backend/internal/repos"
	"github.com/btrkeks/innovation-coach-backend/internal/types"
)

type AuthService interface {
	Register(ctx context.Context, username, password, email string) (int64, error)
	Login(ctx context.Context, username, password string) (int64, string, error)
	ParseToken(tokenString string) (int64, error)
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	users        repos.UserRepo
	jwtSecretKey string
	accessTTL    time.Duration
}

func NewAuthService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo, jwtSecretKey string, accessTTL time.Duration) AuthService {
	return &authService{
		db:           db,
		log:          baseLog.With("service", "AuthService"),
		users:        userRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}
}

func (as *authService) Register(ctx context.Context, username, password, email string) (int64, error) {
	if username == "" || password == "" || email == "" {
		return 0, fmt.Errorf("%w: username, password and email are required", apperr.ErrInvalidArgument)
	}

	usernameTaken, err := as.users.UsernameExists(ctx, nil, username)
	if err != nil {
		return 0, fmt.Errorf("check username: %w", err)
	}
	if usernameTaken {
		return 0, fmt.Errorf("%w: username already taken", apperr.ErrInvalidArgument)
	}

	emailTaken, err := as.users.EmailExists(ctx, nil, email)
	if err != nil {
		return 0, fmt.Errorf("check email: %w", err)
	}
	if emailTaken {
		return 0, fmt.Errorf("%w: email already registered", apperr.ErrInvalidArgument)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		Username: username,
		Password: string(hashed),
		Email:    email,
	}
	if _, err := as.users.Save(ctx, nil, user); err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return user.ID, nil
}

func (as *authService) Login(ctx context.Context, username, password string) (int64, string, error) {
	user, err := as.users.GetByUsername(ctx, nil, username)
	if err != nil {
		return 0, "", fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return 0, "", fmt.Errorf("%w: invalid username or password", apperr.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return 0, "", fmt.Errorf("%w: invalid username or password", apperr.ErrUnauthorized)
	}

	token, err := as.generateAccessToken(user)
	if err != nil {
		return 0, "", fmt.Errorf("generate access token: %w", err)
	}
	return user.ID, token, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(user.ID, 10),
		"iat": now.Unix(),
		"exp": now.Add(as.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) ParseToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("%w: invalid claims", apperr.ErrUnauthorized)
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("%w: missing subject", apperr.ErrUnauthorized)
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed subject", apperr.ErrUnauthorized)
	}
	return userID, nil
}
