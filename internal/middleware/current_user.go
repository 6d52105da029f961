package middleware

import (
	"context"
	"net/http"

	"flashcard_study/internal/model"
)

// CurrentUserSource returns the logged in user, or nil when nobody is.
type CurrentUserSource interface {
	CurrentUser(ctx context.Context) (*model.CurrentUser, error)
}

// CurrentUserMiddleware puts the persisted login session, if any, into the
// request context and tags the request logger with the username. A failing
// lookup is logged and the request continues anonymously; there is nothing
// to protect here.
func CurrentUserMiddleware(src CurrentUserSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := GetLogger(ctx)

			user, err := src.CurrentUser(ctx)
			if err != nil {
				logger.Warn("Could not load current user", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if user != nil {
				ctx = context.WithValue(ctx, model.CurrentUserKey, *user)
				ctx = WithLogger(ctx, logger.With("user", user.Username))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUserFromContext returns the user stored by CurrentUserMiddleware.
func CurrentUserFromContext(ctx context.Context) (model.CurrentUser, bool) {
	u, ok := ctx.Value(model.CurrentUserKey).(model.CurrentUser)
	return u, ok
}
