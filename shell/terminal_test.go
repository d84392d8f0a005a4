package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sdk "github.com/asadbekGo/upgrade-list-sdk"
	"github.com/asadbekGo/upgrade-list-sdk/presenter"
)

func runTerminal(t *testing.T, s *Shell, input string, canShare bool) string {
	t.Helper()

	var out bytes.Buffer
	term := NewTerminal(s, strings.NewReader(input), &out, presenter.FormatMarkdown, canShare)
	term.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local) }

	require.NoError(t, term.Run(context.Background()))
	return out.String()
}

func TestTerminal_DefaultsAndCheck(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchAvailability", mock.Anything, testQuery).Return(scenarioData(), nil)

	out := runTerminal(t, New(fetcher, nil, testLogger()), "\n\n\ny\n\n\n\nq\n", false)

	assert.Contains(t, out, "# "+presenter.Title)
	assert.Contains(t, out, "Enter Flight Number [1274]: ")
	assert.Contains(t, out, "Select Flight Date (YYYY-MM-DD) [2024-05-01]: ")
	assert.Contains(t, out, "Enter Departure Airport Code [IAD]: ")
	assert.Contains(t, out, "Check availability? [y/n/q]")
	assert.Contains(t, out, busyMessage)
	assert.Contains(t, out, "### Economy Cabin")
	assert.Contains(t, out, "Available: 10")
	assert.Contains(t, out, "No passengers on standby.")

	fetcher.AssertNumberOfCalls(t, "FetchAvailability", 1)
}

func TestTerminal_TypedValuesBecomeNextDefaults(t *testing.T) {
	query := sdk.FlightQuery{FlightNumber: "88", FlightDate: "2024-06-02", OriginAirportCode: "sfo"}

	fetcher := new(mockFetcher)
	fetcher.On("FetchAvailability", mock.Anything, query).Return(scenarioData(), nil)

	out := runTerminal(t, New(fetcher, nil, testLogger()), "88\n2024-06-02\nsfo\nn\n\n\n\nq\n", false)

	assert.Contains(t, out, "Enter Flight Number [88]: ")
	assert.Contains(t, out, "Enter Departure Airport Code [sfo]: ")
	assert.NotContains(t, out, busyMessage)
	fetcher.AssertNotCalled(t, "FetchAvailability", mock.Anything, mock.Anything)
}

func TestTerminal_ErrorShownInline(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchAvailability", mock.Anything, testQuery).
		Return(nil, &sdk.HttpError{StatusCode: 403, URL: "https://example.test/api/svc/token/anonymous"})

	out := runTerminal(t, New(fetcher, nil, testLogger()), "\n\n\ny\n", false)

	assert.Contains(t, out, "Error: Unable to fetch data from the airline. unexpected status code 403")
	assert.NotContains(t, out, "## Cabin Availability")
}

func TestTerminal_Share(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchAvailability", mock.Anything, testQuery).Return(scenarioData(), nil)

	notifier := newFakeNotifier()
	out := runTerminal(t, New(fetcher, notifier, testLogger()), "\n\n\ny\n\n\n\ns\nq\n", true)

	assert.Contains(t, out, "Check availability? [y/n/s/q]")
	assert.Contains(t, out, "Report shared.")

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Len(t, notifier.files, 1)
}

func TestTerminal_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in, _ := io.Pipe()
	term := NewTerminal(New(new(mockFetcher), nil, testLogger()), in, &bytes.Buffer{}, presenter.FormatMarkdown, false)
	err := term.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTerminal_InputReaderStopsAfterQuit(t *testing.T) {
	term := NewTerminal(New(new(mockFetcher), nil, testLogger()), strings.NewReader("\n\n\nq\nextra\nmore\n"), &bytes.Buffer{}, presenter.FormatMarkdown, false)
	require.NoError(t, term.Run(context.Background()))

	select {
	case <-term.scanned:
	case <-time.After(time.Second):
		t.Fatal("input reader still running after Run returned")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestTerminal_WriteFailureIsLogged(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchAvailability", mock.Anything, testQuery).Return(scenarioData(), nil)

	var logs bytes.Buffer
	s := New(fetcher, nil, sdk.NewLoggerWithOutput("test", "debug", &logs))
	term := NewTerminal(s, strings.NewReader("\n\n\ny\n\n\n\nq\n"), failingWriter{}, presenter.FormatMarkdown, false)
	term.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local) }

	require.NoError(t, term.Run(context.Background()))
	assert.Contains(t, logs.String(), "write report: broken pipe")
	assert.Contains(t, logs.String(), "level=warning")
}
