package usecase

import (
	"context"
	"errors"

	"rewardgate/internal/domain/user"
	"rewardgate/internal/infra"
	"rewardgate/internal/pkg/jwt"
	"rewardgate/internal/pkg/password"
	"rewardgate/internal/usecase/queries"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrTokenGeneration    = errors.New("token generation failed")
)

type UserReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error)
	FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error)
}

type AuthUseCase interface {
	Login(ctx context.Context, email, plainPassword string) (string, *queries.AuthorizedUserView, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*queries.AuthorizedUserView, error)
}

type authUseCaseImpl struct {
	userReads  UserReadStore
	jwtService *jwt.Service
}

func NewAuthUseCase(userReads UserReadStore, jwtService *jwt.Service) AuthUseCase {
	return &authUseCaseImpl{
		userReads:  userReads,
		jwtService: jwtService,
	}
}

func (a *authUseCaseImpl) Login(ctx context.Context, email, plainPassword string) (string, *queries.AuthorizedUserView, error) {
	addr, err := user.NewEmail(email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	userView, hashedPassword, err := a.userReads.FindByEmail(ctx, addr.String())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return "", nil, ErrUserNotFound
		}
		return "", nil, err
	}

	if !userView.IsActive {
		return "", nil, ErrUserInactive
	}

	if err := password.ComparePassword(hashedPassword, plainPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := a.jwtService.GenerateToken(userView.ID, userView.Tier)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	return token, userView, nil
}

func (a *authUseCaseImpl) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*queries.AuthorizedUserView, error) {
	userView, err := a.userReads.FindByID(ctx, userID)
	if err != nil || userView == nil {
		return nil, ErrUserNotFound
	}

	if !userView.IsActive {
		return nil, ErrUserInactive
	}

	return userView, nil
}

