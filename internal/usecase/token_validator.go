package usecase

import (
	"rewardgate/internal/domain/user"
	"rewardgate/internal/pkg/jwt"

	"github.com/google/uuid"
)

type TokenValidator interface {
	ValidateToken(tokenString string) (uuid.UUID, user.Tier, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (uuid.UUID, user.Tier, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return uuid.Nil, "", err
	}

	tier, err := user.NewTier(claims.Tier)
	if err != nil {
		return uuid.Nil, "", err
	}

	return claims.UserID, tier, nil
}
