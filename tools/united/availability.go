package united

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	sdk "github.com/asadbekGo/upgrade-list-sdk"
)

const (
	availabilityPath = "/api/flight/upgradeListExtended"
	flightStatusPath = "/en/us/flightstatus/details/%s/%s/%s"
	authHeader       = "x-authorization-api"
)

// FetchAvailability runs the token call followed by the upgrade list call. A token
// failure is returned as is and the second call is never made.
func FetchAvailability(ctx context.Context, api *sdk.Client, query sdk.FlightQuery) (*AvailabilityData, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	query = query.Normalize()

	token, err := FetchToken(ctx, api)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, api.Cfg.Timeout)
	defer cancel()

	var headers = sdk.BrowserHeaders(api.Cfg)
	sdk.CopyMapStringInterface(headers, map[string]interface{}{
		"Referer":  Referer(api.Cfg.BaseURL, query),
		authHeader: "bearer " + token,
	})

	body, err := sdk.DoRequest(ctx, api.HTTPClient, AvailabilityURL(api.Cfg.BaseURL, query), http.MethodGet, nil, headers)
	if err != nil {
		api.Logger.ErrorLog.Sprint("Unable to fetch data: ", err.Error())
		return nil, err
	}

	data, err := DecodeAvailability(body)
	if err != nil {
		api.Logger.ErrorLog.Sprint("Invalid upgrade list response: ", err.Error())
		return nil, err
	}

	api.Logger.WithFields(map[string]interface{}{
		"flight": query.FlightNumber,
		"date":   query.FlightDate,
		"origin": query.OriginAirportCode,
		"cabins": len(data.Cabins),
	}).InfoLog.Sprint("upgrade list fetched")

	return data, nil
}

// Fetcher binds FetchAvailability to one client so front ends can depend on an interface.
type Fetcher struct {
	api *sdk.Client
}

func NewFetcher(api *sdk.Client) *Fetcher {
	return &Fetcher{api: api}
}

func (f *Fetcher) FetchAvailability(ctx context.Context, query sdk.FlightQuery) (*AvailabilityData, error) {
	return FetchAvailability(ctx, f.api, query)
}

func AvailabilityURL(baseURL string, query sdk.FlightQuery) string {
	params := url.Values{}
	params.Set("flightNumber", query.FlightNumber)
	params.Set("flightDate", query.FlightDate)
	params.Set("fromAirportCode", query.OriginAirportCode)
	return baseURL + availabilityPath + "?" + params.Encode()
}

// Referer mirrors the public flight status page for the same flight.
func Referer(baseURL string, query sdk.FlightQuery) string {
	return baseURL + fmt.Sprintf(flightStatusPath,
		url.PathEscape(query.FlightNumber),
		url.PathEscape(query.FlightDate),
		url.PathEscape(query.OriginAirportCode),
	)
}
