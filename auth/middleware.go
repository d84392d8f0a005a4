package auth

import (
	"context"
	"encoding/json"
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	sdk "github.com/asadbekGo/upgrade-list-sdk"
	"github.com/asadbekGo/upgrade-list-sdk/tools/auth0"
)

// Middleware protects the dashboard with Auth0 bearer tokens. When no tenant is
// configured every request passes through.
func Middleware(api *sdk.Client) (func(http.Handler) http.Handler, error) {
	if !api.Cfg.Auth0Enabled() {
		api.Logger.WarnLog.Sprint("auth0 is not configured, dashboard is public")
		return func(next http.Handler) http.Handler { return next }, nil
	}

	jwtValidator, err := auth0.NewValidator(api.Cfg.Auth0Domain, api.Cfg.Auth0Audience)
	if err != nil {
		return nil, err
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler(api)),
	)

	return func(next http.Handler) http.Handler {
		return middleware.CheckJWT(logSubject(api, next))
	}, nil
}

func errorHandler(api *sdk.Client) jwtmiddleware.ErrorHandler {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		response := sdk.ResponseError{
			StatusCode:   http.StatusUnauthorized,
			ErrorMessage: api.Logger.WarnLog.Sprint("rejected ", r.URL.Path, ": ", err.Error()),
		}
		response.ClientErrorMessage = sdk.ErrorCodeWithMessage[response.StatusCode]

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(response.StatusCode)
		json.NewEncoder(w).Encode(response)
	}
}

func logSubject(api *sdk.Client, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := ClaimsFromContext(r.Context()); ok {
			api.Logger.WithField("sub", claims.Subject).DebugLog.Sprint(r.Method, " ", r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}

// ClaimsFromContext returns the claims CheckJWT stored for an authenticated request.
func ClaimsFromContext(ctx context.Context) (auth0.CustomClaims, bool) {
	validated, ok := ctx.Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
	if !ok || validated == nil {
		return auth0.CustomClaims{}, false
	}
	return auth0.ClaimsFrom(validated), true
}
