package middleware

import (
	"net/http"
	"strings"

	"github.com/anonto42/nano-midea/socialgraph/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	// UserIDKey is the echo context key holding the authenticated caller's user id
	UserIDKey = "userID"
	// CallerKey holds the caller's profile (*models.User) as the token describes it
	CallerKey = "caller"
)

// JWTAuthMiddleware checks for a valid HS256 JWT and stores the caller's user id.
// Token issuance belongs to the auth service; this only verifies.
func JWTAuthMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := bearerToken(c)
			if err != nil {
				return err
			}

			claims := &models.JwtCustomClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}
			if claims.UserID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token has no user id")
			}

			c.Set("user", claims)
			c.Set(UserIDKey, claims.UserID)
			c.Set(CallerKey, newCaller(claims.UserID, claims.Username, claims.Name, claims.Email, claims.Picture))
			return next(c)
		}
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>"
func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
	}
	return parts[1], nil
}

// newCaller builds a directory record from token claims. The username falls back to the user id.
func newCaller(userID, username, name, email, picture string) *models.User {
	if username == "" {
		username = userID
	}
	user := &models.User{ID: userID, Username: username, FullName: name, Email: email}
	if picture != "" {
		user.AvatarURL = &picture
	}
	return user
}
