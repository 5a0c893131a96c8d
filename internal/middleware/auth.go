package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/apierror"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by RequireAuth.
const (
	CtxUserID     = "user_id"
	CtxUsername   = "username"
	CtxRol        = "rol"
	CtxSucursalID = "sucursal_id"
)

// RequireAuth validates the Bearer access token and loads its claims into the
// gin context.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("token requerido"))
			return
		}

		claims := &service.JWTClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("método de firma inesperado")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid || claims.TokenType != "access" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("token inválido o expirado"))
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUsername, claims.Username)
		c.Set(CtxRol, claims.Rol)
		if claims.SucursalID != nil {
			c.Set(CtxSucursalID, *claims.SucursalID)
		}
		c.Next()
	}
}

// RequireRole allows only the listed roles past. Must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	permitidos := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		permitidos[r] = struct{}{}
	}
	return func(c *gin.Context) {
		rol := c.GetString(CtxRol)
		if _, ok := permitidos[rol]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("rol sin permisos para esta operación"))
			return
		}
		c.Next()
	}
}
