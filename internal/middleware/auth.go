package middleware

import (
	"net/http"
	"strings"

	"cotizador/internal/apierror"
	"cotizador/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ClaimsKey = "claims"
)

// JWTClaims are the custom claims the session provider embeds in every token.
// Tokens are issued elsewhere; this service only validates them.
type JWTClaims struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	BranchID    string `json:"branch_id"`
	BranchName  string `json:"branch_name"`
	jwt.RegisteredClaims
}

// Actor maps the claims onto the acting seller.
func (c *JWTClaims) Actor() model.Actor {
	return model.Actor{
		UserID:      c.UserID,
		DisplayName: c.DisplayName,
		BranchID:    c.BranchID,
		BranchName:  c.BranchName,
	}
}

// JWTAuth validates the Bearer token on every protected route.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid || claims.UserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// GetClaims returns the typed claims, or nil on unauthenticated routes.
func GetClaims(c *gin.Context) *JWTClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*JWTClaims)
	return claims
}

// GetActor returns the acting seller. Without claims the zero Actor is
// returned and attribution falls back to the system user.
func GetActor(c *gin.Context) model.Actor {
	if claims := GetClaims(c); claims != nil {
		return claims.Actor()
	}
	return model.Actor{}
}
