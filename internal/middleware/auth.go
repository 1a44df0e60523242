package middleware

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenIssuer   = "askme-api"
	TokenAudience = "askme-client"
	TokenTTL      = 24 * time.Hour
)

// AccessClaims are the validated contents of an access token.
type AccessClaims struct {
	UserID    uint
	JTI       string
	ExpiresAt time.Time
}

// IssueToken signs an HS256 access token for userID.
func IssueToken(secret string, userID uint, now time.Time) (string, *AccessClaims, error) {
	claims := &AccessClaims{
		UserID:    userID,
		JTI:       uuid.NewString(),
		ExpiresAt: now.Add(TokenTTL),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": TokenIssuer,
		"aud": TokenAudience,
		"jti": claims.JTI,
		"iat": now.Unix(),
		"exp": claims.ExpiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *fiber.Ctx) (string, bool) {
	parts := strings.Split(c.Get("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// ParseToken validates signature, expiry, issuer and audience and returns the claims.
func ParseToken(secret, tokenString string) (*AccessClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	},
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, errors.New("invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return nil, errors.New("invalid user ID in token")
	}

	out := &AccessClaims{UserID: uint(userID)}
	if jti, ok := claims["jti"].(string); ok {
		out.JTI = jti
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

// RevocationKey is the Redis key marking a token ID as revoked.
func RevocationKey(jti string) string {
	return "blacklist:" + jti
}
