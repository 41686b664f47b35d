package middleware

import (
	"context"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
)

// IDTokenVerifier is the part of the Firebase auth client the middleware needs
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuthMiddleware verifies Firebase ID tokens. The Firebase UID is the caller's user id.
func FirebaseAuthMiddleware(verifier IDTokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idToken, err := bearerToken(c)
			if err != nil {
				return err
			}

			token, err := verifier.VerifyIDToken(c.Request().Context(), idToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
			}

			c.Set("firebaseToken", token)
			c.Set(UserIDKey, token.UID)
			c.Set(CallerKey, newCaller(token.UID,
				claimString(token.Claims, "username"),
				claimString(token.Claims, "name"),
				claimString(token.Claims, "email"),
				claimString(token.Claims, "picture")))
			return next(c)
		}
	}
}

func claimString(claims map[string]interface{}, key string) string {
	v, _ := claims[key].(string)
	return v
}
