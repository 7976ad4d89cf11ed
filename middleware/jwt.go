package middleware

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"budgetbuddy/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// ErrNoUserIDClaim is returned when a token carries none of the recognized
// owner-identifier claims.
var ErrNoUserIDClaim = errors.New("token has no user id claim")

// InitJWT stores the signing secret from the configuration.
func InitJWT(cfg *config.Config) {
	jwtSecret = []byte(cfg.JWT.Secret)
}

// Claims is the normalized token payload. Whatever claim shape the issuer
// used, downstream code only ever sees the canonical UserID.
type Claims struct {
	UserID uint
	Name   string
}

// GenerateToken signs a token for the given user. The owner id is written
// under the canonical "user_id" claim.
func GenerateToken(userID uint, name string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"name":    name,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseToken verifies the token and returns normalized claims.
func ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	userID, err := NormalizeUserID(mapClaims)
	if err != nil {
		return nil, err
	}
	name, _ := mapClaims["name"].(string)

	return &Claims{UserID: userID, Name: name}, nil
}

// NormalizeUserID maps heterogeneous claim shapes to the canonical owner
// id. Token issuers variously store it under "user_id", "id" or "sub",
// as a JSON number or a numeric string.
func NormalizeUserID(claims jwt.MapClaims) (uint, error) {
	for _, key := range []string{"user_id", "id", "sub"} {
		v, ok := claims[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			if n > 0 {
				return uint(n), nil
			}
		case string:
			if id, err := strconv.ParseUint(n, 10, 32); err == nil && id > 0 {
				return uint(id), nil
			}
		}
	}
	return 0, ErrNoUserIDClaim
}

// JWTAuth is the bearer-token authentication middleware. On success it
// stores the normalized user id in the context.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(401, gin.H{"code": 401, "message": "authentication required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(401, gin.H{"code": 401, "message": "invalid authorization header"})
			return
		}

		claims, err := ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "token expired, please login again"
			}
			c.AbortWithStatusJSON(401, gin.H{"code": 401, "message": msg})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userName", claims.Name)
		c.Next()
	}
}

// GetCurrentUserID returns the authenticated user's id from the context.
func GetCurrentUserID(c *gin.Context) uint {
	if v, exists := c.Get("userID"); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
