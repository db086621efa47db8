package auth

import (
	"brandlink/internal/apierrors"
	"brandlink/internal/observability"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrExpiredToken = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// Guard validates admin bearer tokens on the reporting routes
type Guard struct {
	jwtSecret string
	logger    *observability.Logger
}

func NewGuard(jwtSecret string, logger *observability.Logger) Guard {
	return Guard{
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// ValidateToken parses and verifies an HS256 bearer token
func (g *Guard) ValidateToken(ctx context.Context, token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(g.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			g.logger.Error(ctx, "token expired", err)
			return nil, ErrExpiredToken
		}
		g.logger.Error(ctx, "failed to parse token", err)
		return nil, ErrInvalidToken
	}
	if !t.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Middleware rejects requests without a valid admin bearer token and stores
// the authenticated account id in the gin context for downstream handlers.
func (g *Guard) Middleware(c *gin.Context) {
	ctx := c.Request.Context()

	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		apierrors.Unauthorized(c, "Authorization token is missing or invalid")
		c.Abort()
		return
	}

	claims, err := g.ValidateToken(ctx, strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		apierrors.Unauthorized(c, err.Error())
		c.Abort()
		return
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		apierrors.Unauthorized(c, "token subject is missing")
		c.Abort()
		return
	}

	c.Set("Account-ID", sub)
	c.Next()
}
