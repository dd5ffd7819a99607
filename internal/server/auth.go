package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/smallbiznis/gridbill/internal/authctx"
	"go.uber.org/zap"
)

const bearerPrefix = "bearer "

// Claims are the token claims the API understands.
type Claims struct {
	Role       string `json:"role"`
	CustomerID string `json:"customer_id,omitempty"`
	StaffID    string `json:"staff_id,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuthRequired verifies the bearer token and puts the caller on the request
// context.
func (s *Server) JWTAuthRequired() gin.HandlerFunc {
	secret := []byte(strings.TrimSpace(s.cfg.AuthJWTSecret))
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if len(secret) == 0 {
			s.log.Error("AUTH_JWT_SECRET is not set, rejecting bearer token")
			AbortWithError(c, ErrUnauthorized)
			return
		}

		var claims Claims
		token, err := parser.ParseWithClaims(strings.TrimSpace(header[len(bearerPrefix):]), &claims, func(*jwt.Token) (any, error) {
			return secret, nil
		})
		if err != nil || !token.Valid {
			s.log.Debug("bearer token rejected", zap.Error(err))
			AbortWithError(c, ErrUnauthorized)
			return
		}

		principal, ok := principalFromClaims(claims)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Request = c.Request.WithContext(authctx.WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

func principalFromClaims(claims Claims) (authctx.Principal, bool) {
	role, ok := authctx.ParseRole(claims.Role)
	if !ok {
		return authctx.Principal{}, false
	}
	p := authctx.Principal{Subject: claims.Subject, Role: role}

	switch role {
	case authctx.RoleCustomer:
		id, err := strconv.ParseInt(strings.TrimSpace(claims.CustomerID), 10, 64)
		if err != nil || id <= 0 {
			return authctx.Principal{}, false
		}
		p.CustomerID = id
	case authctx.RoleStaff:
		id, err := strconv.ParseInt(strings.TrimSpace(claims.StaffID), 10, 64)
		if err != nil || id <= 0 {
			return authctx.Principal{}, false
		}
		p.StaffID = id
	}
	return p, true
}

// authorize checks the caller's role against the policy for object and action.
func (s *Server) authorize(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := authctx.PrincipalFromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if err := s.authzSvc.Authorize(c.Request.Context(), principal, object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

func principal(c *gin.Context) authctx.Principal {
	p, _ := authctx.PrincipalFromContext(c.Request.Context())
	return p
}
