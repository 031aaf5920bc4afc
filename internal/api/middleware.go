package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"college/internal/database"
	"college/internal/middleware"
	"college/internal/models"
)

type contextKey string

const userContextKey contextKey = "api_user"

const jwtIssuer = "college"

// AdminLookup loads the account named in a token.
type AdminLookup interface {
	GetAdminByID(ctx context.Context, id int64) (*models.Admin, error)
}

// JWTClaims represents the claims in a JWT token.
type JWTClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTMiddleware handles JWT authentication for the API.
type JWTMiddleware struct {
	admins    AdminLookup
	secretKey []byte
	limiter   *middleware.LoginRateLimiter
}

// NewJWTMiddleware creates a new JWT middleware. Failed attempts share limiter with the login endpoint.
func NewJWTMiddleware(admins AdminLookup, secretKey string, limiter *middleware.LoginRateLimiter) *JWTMiddleware {
	return &JWTMiddleware{
		admins:    admins,
		secretKey: []byte(secretKey),
		limiter:   limiter,
	}
}

// Middleware returns the Echo middleware function.
func (m *JWTMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			clientIP := c.RealIP()

			// Check rate limit before processing
			if allowed, _ := m.limiter.Check(clientIP); !allowed {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many failed authentication attempts")
			}

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				m.limiter.RecordFailure(clientIP)
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				m.limiter.RecordFailure(clientIP)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims, err := m.parse(parts[1])
			if err != nil {
				m.limiter.RecordFailure(clientIP)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			user, err := m.admins.GetAdminByID(c.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, database.ErrNotFound) {
					m.limiter.RecordFailure(clientIP)
					return echo.NewHTTPError(http.StatusUnauthorized, "user not found")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "failed to get user")
			}

			ctx := context.WithValue(c.Request().Context(), userContextKey, user)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func (m *JWTMiddleware) parse(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(jwtIssuer))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}
	return claims, nil
}

// RequireRole middleware checks that the user has the required role.
func RequireRole(role models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetAPIUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			hasRole := false
			switch role {
			case models.RoleTeacher:
				hasRole = user.Role.CanManageContent()
			case models.RoleAdmin:
				hasRole = user.Role.CanAdmin()
			}

			if !hasRole {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}

			return next(c)
		}
	}
}

// GetAPIUser returns the authenticated user from context.
func GetAPIUser(c echo.Context) *models.Admin {
	user, _ := c.Request().Context().Value(userContextKey).(*models.Admin)
	return user
}

// GenerateJWT creates a signed token for an account.
func GenerateJWT(user *models.Admin, secretKey string, expiry time.Duration, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(expiry)
	claims := &JWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    jwtIssuer,
			Subject:   user.Username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
