// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"errors"
	"strings"

	"github.com/amirphl/Kusanagi/app/dto"
	"github.com/amirphl/Kusanagi/app/services"
	"github.com/amirphl/Kusanagi/utils"
	"github.com/gofiber/fiber/v3"
)

// AuthMiddleware handles JWT token validation for protected endpoints
type AuthMiddleware struct {
	tokenService services.TokenService
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(tokenService services.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// extractBearerToken pulls the raw token out of the Authorization header
func extractBearerToken(c fiber.Ctx) (string, *dto.ErrorDetail) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", &dto.ErrorDetail{Code: "MISSING_AUTHORIZATION_HEADER"}
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", &dto.ErrorDetail{Code: "INVALID_AUTHORIZATION_FORMAT"}
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", &dto.ErrorDetail{Code: "MISSING_ACCESS_TOKEN"}
	}
	return token, nil
}

func tokenErrorResponse(c fiber.Ctx, err error) error {
	var errorCode string
	var message string

	if errors.Is(err, services.ErrTokenExpired) {
		errorCode = "TOKEN_EXPIRED"
		message = "Access token has expired"
	} else if errors.Is(err, services.ErrTokenInvalid) {
		errorCode = "TOKEN_INVALID"
		message = "Invalid access token"
	} else if errors.Is(err, services.ErrTokenRevoked) {
		errorCode = "TOKEN_REVOKED"
		message = "Access token has been revoked"
	} else {
		errorCode = "TOKEN_VALIDATION_FAILED"
		message = "Token validation failed"
	}

	return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code: errorCode,
		},
	})
}

// Authenticate validates JWT tokens and stores the employee identity in the
// request context. Both roles pass; role enforcement happens in RequireAdmin
// or in the flows themselves.
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, detail := extractBearerToken(c)
		if detail != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Authorization required",
				Error:   *detail,
			})
		}

		// Validate the token (this already checks for revocation)
		claims, err := m.tokenService.ValidateToken(token)
		if err != nil {
			return tokenErrorResponse(c, err)
		}

		// Store identity in context for downstream handlers
		c.Locals("emp_id", claims.EmpID)
		c.Locals("role", claims.Role)
		c.Locals("token_id", claims.TokenID)
		c.Locals("token_claims", claims)

		// Store RequestID for audit logging
		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		// Continue to the next handler
		return c.Next()
	}
}

// AdminAuthenticate validates JWT tokens and requires the admin role
func (m *AuthMiddleware) AdminAuthenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, detail := extractBearerToken(c)
		if detail != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Authorization required",
				Error:   *detail,
			})
		}

		claims, err := m.tokenService.ValidateToken(token)
		if err != nil {
			return tokenErrorResponse(c, err)
		}

		if claims.Role != utils.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(dto.APIResponse{
				Success: false,
				Message: "Admin role required",
				Error:   dto.ErrorDetail{Code: "ADMIN_ROLE_REQUIRED"},
			})
		}

		c.Locals("emp_id", claims.EmpID)
		c.Locals("role", claims.Role)
		c.Locals("token_id", claims.TokenID)
		c.Locals("token_claims", claims)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// GetEmpIDFromContext extracts the employee id from the request context
func GetEmpIDFromContext(c fiber.Ctx) (string, bool) {
	empID, ok := c.Locals("emp_id").(string)
	return empID, ok
}

// GetRoleFromContext extracts the actor role from the request context
func GetRoleFromContext(c fiber.Ctx) (string, bool) {
	role, ok := c.Locals("role").(string)
	return role, ok
}

// GetTokenClaimsFromContext extracts token claims from the request context
func GetTokenClaimsFromContext(c fiber.Ctx) (*services.TokenClaims, bool) {
	claims, ok := c.Locals("token_claims").(*services.TokenClaims)
	return claims, ok
}
