package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"storefront/internal/permissions"
	"storefront/internal/repositories"

	"github.com/dgrijalva/jwt-go"
)

// ErrInvalidToken is returned for malformed, expired or foreign bearer tokens.
var ErrInvalidToken = errors.New("invalid token")

// AuthService verifies bearer tokens issued by the identity service and
// resolves them to actors.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
	}
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// ResolveActor validates the token and looks up the user it names. The
// staff flag is taken from the user record, never from the token.
func (s *AuthService) ResolveActor(ctx context.Context, tokenString string) (permissions.Actor, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return permissions.Actor{}, err
	}

	// JSON numbers decode as float64 in MapClaims.
	raw, ok := claims["user_id"].(float64)
	if !ok || raw < 1 || raw != float64(uint(raw)) {
		return permissions.Actor{}, fmt.Errorf("%w: missing or malformed user_id claim", ErrInvalidToken)
	}

	user, err := s.userRepo.GetByID(ctx, uint(raw))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return permissions.Actor{}, fmt.Errorf("%w: unknown user", ErrInvalidToken)
		}
		return permissions.Actor{}, err
	}
	return permissions.Actor{UserID: user.ID, Staff: user.IsStaff}, nil
}
