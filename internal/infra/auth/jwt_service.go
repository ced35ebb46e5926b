package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskhub/config"
	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/service"
	"taskhub/internal/errors"
)

// refreshTokenBytes is the entropy of an opaque refresh token.
// The hex encoding doubles it to an 80-character string.
const refreshTokenBytes = 40

// resetTokenBytes is the entropy of a password reset token.
const resetTokenBytes = 32

// jwtService is a concrete implementation of the TokenService interface.
// Access tokens are signed JWTs. Refresh and reset tokens are opaque
// random strings whose state lives in the database.
type jwtService struct {
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.JWT.Secret == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	accessTTL, err := config.ParseExpiry(cfg.JWT.AccessExpiry)
	if err != nil {
		return nil, errors.Wrap(err, "parse access token expiry")
	}

	refreshTTL, err := config.ParseExpiry(cfg.JWT.RefreshExpiry)
	if err != nil {
		return nil, errors.Wrap(err, "parse refresh token expiry")
	}

	return &jwtService{
		secret:     cfg.JWT.Secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// GenerateAccessToken creates a signed access token carrying the user's
// identity and role.
func (s *jwtService) GenerateAccessToken(user *entity.User) (string, error) {
	now := time.Now()
	claims := &service.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", errors.Wrap(err, "sign access token")
	}

	return signed, nil
}

// ValidateAccessToken parses and verifies a token string, returning its claims.
// Expired tokens are reported distinctly from otherwise malformed or
// tampered ones.
func (s *jwtService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &service.Claims{}, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainerrors.ErrAccessTokenExpired
		}

		return nil, domainerrors.ErrAccessTokenInvalid
	}

	claims, ok := token.Claims.(*service.Claims)
	if !ok || !token.Valid {
		return nil, domainerrors.ErrAccessTokenInvalid
	}

	return claims, nil
}

// NewRefreshToken generates an opaque refresh token from a CSPRNG.
func (s *jwtService) NewRefreshToken() (string, error) {
	return randomHex(refreshTokenBytes)
}

// RefreshTokenDuration returns the configured refresh token lifetime.
func (s *jwtService) RefreshTokenDuration() time.Duration {
	return s.refreshTTL
}

// NewResetToken generates a password reset token. The plaintext goes to the
// user, only the hash is stored.
func (s *jwtService) NewResetToken() (string, string, error) {
	plaintext, err := randomHex(resetTokenBytes)
	if err != nil {
		return "", "", err
	}

	return plaintext, s.HashResetToken(plaintext), nil
}

// HashResetToken hashes a plaintext reset token for storage and lookup.
func (s *jwtService) HashResetToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))

	return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "read random bytes")
	}

	return hex.EncodeToString(buf), nil
}
