package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"forum/backend/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	TokenIssuer = "API do Fórum"
	TokenType   = "Bearer"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenService issues and validates the HS256 tokens that authenticate
// API calls. The subject claim carries the user ID.
type TokenService struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		secret:     []byte(cfg.JWTSecret),
		expiration: cfg.JWTExpiration,
		now:        time.Now,
	}
}

// GenerateToken signs a token for userID.
func (s *TokenService) GenerateToken(userID uint) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    TokenIssuer,
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// UserID validates tokenString and returns the user ID it was issued for.
func (s *TokenService) UserID(tokenString string) (uint, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || !claims.VerifyIssuer(TokenIssuer, true) {
		return 0, ErrInvalidToken
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, claims.Subject)
	}
	return uint(id), nil
}

// ExtractBearerToken returns the token of an "Authorization: Bearer ..."
// header, or an empty string when the header is absent or uses another
// scheme.
func ExtractBearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) <= len(TokenType)+1 || !strings.EqualFold(header[:len(TokenType)], TokenType) || header[len(TokenType)] != ' ' {
		return ""
	}
	return strings.TrimSpace(header[len(TokenType)+1:])
}
