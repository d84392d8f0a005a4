package upgradelistsdk

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoRequest(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           interface{}
		status         int
		response       string
		expectedBody   string
		expectedStatus int
	}{
		{
			name:         "get without body",
			method:       http.MethodGet,
			status:       http.StatusOK,
			response:     `{"ok":true}`,
			expectedBody: "",
		},
		{
			name:         "post with json body",
			method:       http.MethodPost,
			body:         map[string]interface{}{"flightNumber": "1274"},
			status:       http.StatusOK,
			response:     `{"ok":true}`,
			expectedBody: `{"flightNumber":"1274"}`,
		},
		{
			name:           "non 200 status",
			method:         http.MethodGet,
			status:         http.StatusServiceUnavailable,
			response:       `maintenance`,
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.method, r.Method)
				assert.Equal(t, "1", r.Header.Get("X-Number"))
				assert.Equal(t, "en-US", r.Header.Get("Accept-Language"))

				received, err := io.ReadAll(r.Body)
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedBody, string(received))

				w.WriteHeader(tt.status)
				io.WriteString(w, tt.response)
			}))
			defer server.Close()

			headers := BrowserHeaders(DefaultConfig())
			CopyMapStringInterface(headers, map[string]interface{}{"X-Number": 1})

			respBody, err := DoRequest(context.Background(), server.Client(), server.URL, tt.method, tt.body, headers)
			assert.Equal(t, tt.response, string(respBody))

			if tt.expectedStatus == 0 {
				require.NoError(t, err)
				return
			}

			var httpErr *HttpError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.expectedStatus, httpErr.StatusCode)
			assert.Equal(t, server.URL, httpErr.URL)
			assert.Equal(t, tt.response, httpErr.Body)
		})
	}
}

func TestDoRequest_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DoRequest(ctx, nil, server.URL, http.MethodGet, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
