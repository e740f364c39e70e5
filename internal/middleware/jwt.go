package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "errors"   // sentinel comparisons for token verification outcomes
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/virasat-labs/heritage-archive/internal/utils"
)

// errBody builds the machine-stable error envelope used across the API:
// an "errors" array of objects each carrying a single "msg".  The
// frontend renders the first message as a toast.
func errBody(msgs ...string) echo.Map {
    arr := make([]echo.Map, 0, len(msgs))
    for _, m := range msgs {
        arr = append(arr, echo.Map{"msg": m})
    }
    return echo.Map{"errors": arr}
}

// JWTAuth returns an Echo middleware that validates a Bearer token and
// injects the verified subject and role into the request context under
// "user_id" (uint64) and "role" (string).  The provided secret must match
// the one used when issuing tokens.  An empty secret means the deployment
// is misconfigured; that is reported as a 500 rather than a 401 so the
// operator error is not mistaken for a client one.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // Read the Authorization header.  A valid header starts with
            // "Bearer " followed by the JWT.
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, errBody("Missing token"))
            }
            if secret == "" {
                return c.JSON(http.StatusInternalServerError, errBody("Server misconfiguration: JWT secret not set"))
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            claims, err := utils.VerifyToken(secret, raw)
            if err != nil {
                if errors.Is(err, utils.ErrTokenExpired) {
                    return c.JSON(http.StatusUnauthorized, errBody("Token expired"))
                }
                return c.JSON(http.StatusUnauthorized, errBody("Invalid token"))
            }

            // Store the verified identity in the context.  Handlers and
            // downstream middleware read these via c.Get().
            c.Set("user_id", claims.Subject)
            c.Set("role", claims.Role)
            return next(c)
        }
    }
}
