package upgradelistsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// DoRequest sends one request and returns the body of a 200 response. Any other status
// is reported as *HttpError carrying the body. A nil body sends no payload.
func DoRequest(ctx context.Context, client *http.Client, url string, method string, body interface{}, headers map[string]interface{}) ([]byte, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "marshal request body")
		}
		payload = bytes.NewBuffer(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}

	for key, value := range headers {
		request.Header.Set(key, cast.ToString(value))
	}

	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(request)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, url)
	}
	defer resp.Body.Close()

	respByte, err := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return respByte, &HttpError{StatusCode: resp.StatusCode, URL: url, Body: string(respByte)}
	}
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}

	return respByte, nil
}

// BrowserHeaders are sent on every upstream call.
func BrowserHeaders(cfg *Config) map[string]interface{} {
	return map[string]interface{}{
		"User-Agent":      cfg.UserAgent,
		"Accept":          "application/json",
		"Accept-Language": cfg.AcceptLanguage,
	}
}

func CopyMapStringInterface(dest, src map[string]interface{}) {
	for key, value := range src {
		dest[key] = value
	}
}
