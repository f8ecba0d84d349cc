package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/barber-desk/internal/config"
	"github.com/BruksfildServices01/barber-desk/internal/httperr"
)

const (
	ContextUserID       = "userID"
	ContextBarbershopID = "barbershopID"
	ContextUserRoles    = "userRoles"
)

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// Claims is the JWT payload issued at login.
type Claims struct {
	BarbershopID uint     `json:"barbershopId"`
	Roles        []string `json:"roles"`
	Type         string   `json:"typ"`
	jwt.RegisteredClaims
}

// ParseToken validates raw as an HS256 token of the given type.
func ParseToken(cfg *config.Config, raw string, tokenType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Type != tokenType || claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Abort(c, http.StatusUnauthorized, "missing_authorization_header", "Autenticação necessária.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_authorization_header", "Cabeçalho de autorização inválido.")
			return
		}

		claims, err := ParseToken(cfg, parts[1], TokenAccess)
		if err != nil {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token", "Sessão expirada ou inválida.")
			return
		}

		userID, err := claims.UserID()
		if err != nil || claims.BarbershopID == 0 {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token_payload", "Sessão expirada ou inválida.")
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextBarbershopID, claims.BarbershopID)
		c.Set(ContextUserRoles, claims.Roles)

		c.Next()
	}
}

// RequireRole lets the request through when the token carries any of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		have, _ := c.Get(ContextUserRoles)
		granted, _ := have.([]string)

		for _, g := range granted {
			for _, r := range roles {
				if g == r {
					c.Next()
					return
				}
			}
		}

		httperr.Abort(c, http.StatusForbidden, "forbidden", "Acesso não permitido para este perfil.")
	}
}
