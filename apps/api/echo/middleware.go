package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	contextOwnerKey = "owner"
	ownerParam      = "user_id"
)

// ownerMiddleware resolves the schedule owner from the token subject.
// Asking for someone else's schedule (`user_id` query param) is forbidden.
func ownerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.Subject == "" {
				return errUnauthorized
			}
			if uid := ctx.QueryParam(ownerParam); uid != "" && uid != claims.Subject {
				return errHttpForbidden
			}
			ctx.Set(contextOwnerKey, claims.Subject)
			return next(ctx)
		}
	}
}

func getContextOwner(ctx echo.Context) (string, error) {
	if owner, ok := ctx.Get(contextOwnerKey).(string); ok && owner != "" {
		return owner, nil
	}
	return "", errUnauthorized
}
