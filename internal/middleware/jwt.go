package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"secretshare-service/internal/models"
)

const identityKey = "identity"

// Claims are the identity provider's token claims. Subject carries the profile id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			abortUnauthenticated(c, "Missing or invalid authorization header")
			return
		}

		tokenString := strings.TrimSpace(authHeader[7:])

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			abortUnauthenticated(c, "Invalid token")
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			abortUnauthenticated(c, "Token subject is not a user id")
			return
		}

		c.Set(identityKey, models.Identity{ID: userID, Email: claims.Email})
		c.Next()
	}
}

// IdentityFrom returns the caller set by JWTAuth.
func IdentityFrom(c *gin.Context) (models.Identity, bool) {
	val, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	identity, ok := val.(models.Identity)
	return identity, ok
}

// SetIdentity stores identity on the context the way JWTAuth does.
func SetIdentity(c *gin.Context, identity models.Identity) {
	c.Set(identityKey, identity)
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"kind": "unauthenticated", "message": message},
	})
}
