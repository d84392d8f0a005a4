package auth0

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/pkg/errors"

	sdk "github.com/asadbekGo/upgrade-list-sdk"
)

const jwksCacheTTL = 5 * time.Minute

// IssuerURL turns a bare tenant domain into the issuer URL Auth0 puts in tokens.
func IssuerURL(domain string) (*url.URL, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return nil, errors.New("auth0 domain is empty")
	}
	if !strings.Contains(domain, "://") {
		domain = "https://" + domain
	}
	if !strings.HasSuffix(domain, "/") {
		domain += "/"
	}
	return url.Parse(domain)
}

// NewValidator builds an RS256 validator backed by the tenant's cached JWKS. Keys are
// fetched on first use.
func NewValidator(domain, audience string) (*validator.Validator, error) {
	issuerURL, err := IssuerURL(domain)
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, jwksCacheTTL)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "set up the validator")
	}
	return jwtValidator, nil
}

// Auth0ValidateToken validates accessToken against the configured tenant and returns its
// claims for logging.
func Auth0ValidateToken(ctx context.Context, accessToken string, api *sdk.Client) (customClaims CustomClaims, errorResponse sdk.ResponseError) {
	jwtValidator, err := NewValidator(api.Cfg.Auth0Domain, api.Cfg.Auth0Audience)
	if err != nil {
		errorResponse.StatusCode = http.StatusInternalServerError
		errorResponse.ClientErrorMessage = sdk.ErrorCodeWithMessage[errorResponse.StatusCode]
		errorResponse.ErrorMessage = api.Logger.ErrorLog.Sprint("Failed to set up the validator: " + err.Error())
		return CustomClaims{}, errorResponse
	}

	claims, err := jwtValidator.ValidateToken(ctx, accessToken)
	if err != nil {
		errorResponse.StatusCode = http.StatusUnauthorized
		errorResponse.ClientErrorMessage = sdk.ErrorCodeWithMessage[errorResponse.StatusCode]
		errorResponse.ErrorMessage = api.Logger.ErrorLog.Sprint("Invalid token: " + err.Error())
		return CustomClaims{}, errorResponse
	}

	validated, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		errorResponse.StatusCode = http.StatusInternalServerError
		errorResponse.ClientErrorMessage = sdk.ErrorCodeWithMessage[errorResponse.StatusCode]
		errorResponse.ErrorMessage = api.Logger.ErrorLog.Sprint("Unexpected claims type")
		return CustomClaims{}, errorResponse
	}

	return ClaimsFrom(validated), errorResponse
}

// ClaimsFrom flattens validated claims into CustomClaims.
func ClaimsFrom(validated *validator.ValidatedClaims) CustomClaims {
	var customClaims CustomClaims
	if custom, ok := validated.CustomClaims.(*CustomClaims); ok && custom != nil {
		customClaims.Scope = custom.Scope
	}
	customClaims.Subject = validated.RegisteredClaims.Subject
	customClaims.Issuer = validated.RegisteredClaims.Issuer
	customClaims.Audience = validated.RegisteredClaims.Audience
	customClaims.Expiry = validated.RegisteredClaims.Expiry
	return customClaims
}

// Auth0GetToken runs the client credentials grant. Scripts use the returned access token
// to call the dashboard API.
func Auth0GetToken(ctx context.Context, creds Credential, api *sdk.Client) (tokenResponse TokenResponse, errorResponse sdk.ResponseError) {
	issuerURL, err := IssuerURL(creds.Domain)
	if err != nil {
		errorResponse.StatusCode = http.StatusBadRequest
		errorResponse.ClientErrorMessage = sdk.ErrorCodeWithMessage[errorResponse.StatusCode]
		errorResponse.ErrorMessage = api.Logger.ErrorLog.Sprint("Failed to parse the issuer url: " + err.Error())
		return tokenResponse, errorResponse
	}

	if creds.GrantType == "" {
		creds.GrantType = "client_credentials"
	}

	var getTokenRequest = map[string]interface{}{
		"client_id":     creds.ClientId,
		"client_secret": creds.ClientSecret,
		"audience":      creds.Audience,
		"grant_type":    creds.GrantType,
	}

	var headers = map[string]interface{}{"Content-Type": "application/json"}

	ctx, cancel := context.WithTimeout(ctx, api.Cfg.Timeout)
	defer cancel()

	body, err := sdk.DoRequest(ctx, api.HTTPClient, issuerURL.String()+"oauth/token", http.MethodPost, getTokenRequest, headers)
	if err != nil {
		errorResponse.StatusCode = http.StatusUnauthorized
		errorResponse.ClientErrorMessage = sdk.ErrorCodeWithMessage[errorResponse.StatusCode]
		errorResponse.ErrorMessage = api.Logger.ErrorLog.Sprint(err.Error())
		return tokenResponse, errorResponse
	}

	err = json.Unmarshal(body, &tokenResponse)
	if err != nil {
		errorResponse.StatusCode = http.StatusInternalServerError
		errorResponse.ClientErrorMessage = sdk.ErrorCodeWithMessage[errorResponse.StatusCode]
		errorResponse.ErrorMessage = api.Logger.ErrorLog.Sprint("Failed to unmarshal token response: " + err.Error())
		return tokenResponse, errorResponse
	}

	return tokenResponse, errorResponse
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type Credential struct {
	Domain       string `json:"domain"`
	Audience     string `json:"audience"`
	ClientId     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	GrantType    string `json:"grant_type"`
}

type CustomClaims struct {
	Scope    string   `json:"scope"`
	Subject  string   `json:"sub,omitempty"`
	Issuer   string   `json:"iss,omitempty"`
	Audience []string `json:"aud,omitempty"`
	Expiry   int64    `json:"exp,omitempty"`
}

// Validate does nothing, but we need it to satisfy validator.CustomClaims interface.
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}
