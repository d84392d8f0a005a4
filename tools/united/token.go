package united

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	sdk "github.com/asadbekGo/upgrade-list-sdk"
)

const tokenPath = "/api/svc/token/anonymous"

// FetchToken obtains a fresh anonymous bearer token. Nothing is cached: callers get a
// new token on every call.
func FetchToken(ctx context.Context, api *sdk.Client) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, api.Cfg.Timeout)
	defer cancel()

	url := api.Cfg.BaseURL + tokenPath
	body, err := sdk.DoRequest(ctx, api.HTTPClient, url, http.MethodGet, nil, sdk.BrowserHeaders(api.Cfg))
	if err != nil {
		api.Logger.ErrorLog.Sprint("Unable to fetch authorization token: ", err.Error())
		return "", err
	}

	var response tokenResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", &sdk.ParseError{Reason: api.Logger.ErrorLog.Sprint("token response: ", err.Error()), Body: string(body)}
	}

	if response.Data.Token.Hash == "" {
		return "", &sdk.ParseError{Reason: api.Logger.ErrorLog.Sprint("token response has no data.token.hash"), Body: string(body)}
	}

	if expiresAt, ok := TokenExpiry(response.Data.Token.Hash); ok {
		api.Logger.DebugLog.Sprint("anonymous token expires at ", expiresAt.Format(time.RFC3339))
	}

	return response.Data.Token.Hash, nil
}

// TokenExpiry reads the exp claim when the token is a JWT. The signature is not checked:
// the value is only logged.
func TokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}
