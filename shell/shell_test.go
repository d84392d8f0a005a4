package shell

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sdk "github.com/asadbekGo/upgrade-list-sdk"
	"github.com/asadbekGo/upgrade-list-sdk/tools/united"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchAvailability(ctx context.Context, query sdk.FlightQuery) (*united.AvailabilityData, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*united.AvailabilityData), args.Error(1)
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages chan string
	files    []string
	fileErr  error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{messages: make(chan string, 4)}
}

func (n *fakeNotifier) SendTelegram(text string) error {
	n.messages <- text
	return nil
}

func (n *fakeNotifier) SendTelegramFile(data []byte, filename string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.files = append(n.files, filename)
	return n.fileErr
}

var testQuery = sdk.FlightQuery{FlightNumber: "1274", FlightDate: "2024-05-01", OriginAirportCode: "IAD"}

func testLogger() *sdk.Logger {
	return sdk.NewLoggerWithOutput("test", "debug", io.Discard)
}

func scenarioData() *united.AvailabilityData {
	return &united.AvailabilityData{
		Segment: &united.Segment{AirlineCode: "UA", FlightNumber: "1274", FlightDate: "2024-05-01", DepartureAirportCode: "IAD"},
		Cabins:  []united.Cabin{{Name: "Economy", Capacity: 150, Booked: 140, Authorized: 0, RevenueStandby: 2, WaitList: 1}},
		Rear:    &united.UpgradeGroup{Cleared: []united.Passenger{}, Standby: []united.Passenger{}},
		Raw:     []byte(`{"pbts":[]}`),
	}
}

func TestDefaultQuery(t *testing.T) {
	now := time.Date(2024, 5, 1, 23, 30, 0, 0, time.Local)
	assert.Equal(t, testQuery, DefaultQuery(now))
}

func TestShell_TriggerSuccess(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchAvailability", mock.Anything, testQuery).Return(scenarioData(), nil)

	s := New(fetcher, nil, testLogger())
	assert.Equal(t, Idle, s.State())

	report, err := s.Trigger(context.Background(), testQuery)
	require.NoError(t, err)
	assert.Contains(t, report.Markdown(), "Available: 10")

	view := s.View()
	assert.Equal(t, Displaying, view.State)
	assert.Equal(t, testQuery, view.Query)
	assert.Len(t, view.QueryID, 36)
	require.NotNil(t, view.Report)
	assert.Equal(t, report.Fingerprint, view.Report.Fingerprint)
	assert.NoError(t, view.Err)

	fetcher.AssertExpectations(t)
}

func TestShell_FailureKeepsPreviousReport(t *testing.T) {
	upstreamErr := &sdk.HttpError{StatusCode: 403, URL: "https://example.test/api/svc/token/anonymous"}

	fetcher := new(mockFetcher)
	fetcher.On("FetchAvailability", mock.Anything, testQuery).Return(scenarioData(), nil).Once()
	fetcher.On("FetchAvailability", mock.Anything, testQuery).Return(nil, upstreamErr).Once()

	notifier := newFakeNotifier()
	s := New(fetcher, notifier, testLogger())

	first, err := s.Trigger(context.Background(), testQuery)
	require.NoError(t, err)

	_, err = s.Trigger(context.Background(), testQuery)
	require.ErrorIs(t, err, upstreamErr)

	view := s.View()
	assert.Equal(t, ErrorShown, view.State)
	assert.Equal(t, upstreamErr, view.Err)
	require.NotNil(t, view.Report)
	assert.Equal(t, first.Fingerprint, view.Report.Fingerprint)

	select {
	case msg := <-notifier.messages:
		assert.Contains(t, msg, "1274 2024-05-01 IAD failed")
		assert.Contains(t, msg, "403")
	case <-time.After(time.Second):
		t.Fatal("expected a telegram alert")
	}
}

func TestShell_TriggerNormalizesQuery(t *testing.T) {
	upstreamErr := &sdk.HttpError{StatusCode: 502, URL: "https://example.test/api/flight/upgradeListExtended"}

	fetcher := new(mockFetcher)
	fetcher.On("FetchAvailability", mock.Anything, testQuery).Return(nil, upstreamErr)

	var logs bytes.Buffer
	notifier := newFakeNotifier()
	s := New(fetcher, notifier, sdk.NewLoggerWithOutput("test", "debug", &logs))

	_, err := s.Trigger(context.Background(), sdk.FlightQuery{FlightNumber: " 1274 ", FlightDate: "2024-05-01 ", OriginAirportCode: " iad "})
	require.ErrorIs(t, err, upstreamErr)
	assert.Equal(t, testQuery, s.View().Query)
	assert.Contains(t, logs.String(), "origin=IAD")

	select {
	case msg := <-notifier.messages:
		assert.Contains(t, msg, " 1274 2024-05-01 IAD failed")
	case <-time.After(time.Second):
		t.Fatal("expected a telegram alert")
	}
	fetcher.AssertExpectations(t)
}

func TestShell_ValidationErrorIsNotAlerted(t *testing.T) {
	validationErr := &sdk.ValidationError{Field: "flightNumber"}
	query := sdk.FlightQuery{FlightDate: "2024-05-01", OriginAirportCode: "IAD"}

	fetcher := new(mockFetcher)
	fetcher.On("FetchAvailability", mock.Anything, query).Return(nil, validationErr)

	notifier := newFakeNotifier()
	s := New(fetcher, notifier, testLogger())

	_, err := s.Trigger(context.Background(), query)
	assert.ErrorIs(t, err, validationErr)
	assert.Equal(t, ErrorShown, s.State())

	select {
	case msg := <-notifier.messages:
		t.Fatalf("unexpected alert %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestShell_RenderErrorIsShown(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchAvailability", mock.Anything, testQuery).Return(&united.AvailabilityData{}, nil)

	s := New(fetcher, nil, testLogger())
	_, err := s.Trigger(context.Background(), testQuery)

	var missingErr *sdk.MissingFieldError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, "segment", missingErr.Path)
	assert.Nil(t, s.View().Report)
}

func TestShell_BusyWhileFetching(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	fetcher := new(mockFetcher)
	fetcher.On("FetchAvailability", mock.Anything, testQuery).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(scenarioData(), nil).Once()

	s := New(fetcher, nil, testLogger())

	done := make(chan error, 1)
	go func() {
		_, err := s.Trigger(context.Background(), testQuery)
		done <- err
	}()

	<-started
	assert.Equal(t, Fetching, s.State())

	_, err := s.Trigger(context.Background(), testQuery)
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, Displaying, s.State())

	fetcher.AssertNumberOfCalls(t, "FetchAvailability", 1)
}

func TestShell_Share(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchAvailability", mock.Anything, testQuery).Return(scenarioData(), nil)

	notifier := newFakeNotifier()
	s := New(fetcher, notifier, testLogger())

	assert.Error(t, s.Share())

	_, err := s.Trigger(context.Background(), testQuery)
	require.NoError(t, err)
	require.NoError(t, s.Share())

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Equal(t, []string{"upgrade-list-UA1274-2024-05-01.xlsx"}, notifier.files)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "fetching", Fetching.String())
	assert.Equal(t, "displaying", Displaying.String())
	assert.Equal(t, "error", ErrorShown.String())
}
