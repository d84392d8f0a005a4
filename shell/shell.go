package shell

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	sdk "github.com/asadbekGo/upgrade-list-sdk"
	"github.com/asadbekGo/upgrade-list-sdk/presenter"
	"github.com/asadbekGo/upgrade-list-sdk/tools/united"
)

const (
	DefaultFlightNumber = "1274"
	DefaultOrigin       = "IAD"
)

// ErrBusy is returned when a query is triggered while another one is still fetching.
var ErrBusy = errors.New("a query is already running")

type State int

const (
	Idle State = iota
	Fetching
	Displaying
	ErrorShown
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Displaying:
		return "displaying"
	case ErrorShown:
		return "error"
	}
	return "unknown"
}

type (
	Fetcher interface {
		FetchAvailability(ctx context.Context, query sdk.FlightQuery) (*united.AvailabilityData, error)
	}

	// Notifier delivers operator alerts. *sdk.Client implements it.
	Notifier interface {
		SendTelegram(text string) error
		SendTelegramFile(data []byte, filename string) error
	}

	// View is what a front end needs to redraw itself.
	View struct {
		State   State
		Query   sdk.FlightQuery
		QueryID string
		Report  *presenter.Report
		Err     error
	}
)

// Shell is the state machine shared by the terminal and web front ends. Only one query
// runs at a time.
type Shell struct {
	fetcher  Fetcher
	notifier Notifier
	logger   *sdk.Logger

	mu      sync.Mutex
	state   State
	query   sdk.FlightQuery
	queryID string
	report  *presenter.Report
	err     error
}

func New(fetcher Fetcher, notifier Notifier, logger *sdk.Logger) *Shell {
	return &Shell{
		fetcher:  fetcher,
		notifier: notifier,
		logger:   logger,
		state:    Idle,
	}
}

// DefaultQuery is the form prefill: flight 1274 from IAD today.
func DefaultQuery(now time.Time) sdk.FlightQuery {
	return sdk.FlightQuery{
		FlightNumber:      DefaultFlightNumber,
		FlightDate:        now.Format(sdk.FlightDateLayout),
		OriginAirportCode: DefaultOrigin,
	}
}

// Trigger runs fetch and render for query. On failure the previously displayed report
// stays available through View.
func (s *Shell) Trigger(ctx context.Context, query sdk.FlightQuery) (presenter.Report, error) {
	query = query.Normalize()

	s.mu.Lock()
	if s.state == Fetching {
		s.mu.Unlock()
		return presenter.Report{}, ErrBusy
	}
	queryID := uuid.NewString()
	s.state = Fetching
	s.query = query
	s.queryID = queryID
	s.err = nil
	s.mu.Unlock()

	logger := s.logger.WithFields(map[string]interface{}{
		"query_id": queryID,
		"flight":   query.FlightNumber,
		"date":     query.FlightDate,
		"origin":   query.OriginAirportCode,
	})
	logger.DebugLog.Sprint("fetching upgrade list")

	report, err := s.run(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = ErrorShown
		s.err = err
		s.notify(logger, query, queryID, err)
		return presenter.Report{}, err
	}

	s.state = Displaying
	s.report = &report
	logger.InfoLog.Sprint("report ready, snapshot ", presenter.ShortFingerprint(report.Fingerprint))

	return report, nil
}

func (s *Shell) run(ctx context.Context, query sdk.FlightQuery) (presenter.Report, error) {
	data, err := s.fetcher.FetchAvailability(ctx, query)
	if err != nil {
		return presenter.Report{}, err
	}
	return presenter.Render(data)
}

func (s *Shell) notify(logger *sdk.Logger, query sdk.FlightQuery, queryID string, err error) {
	var validationErr *sdk.ValidationError
	if errors.As(err, &validationErr) {
		logger.WarnLog.Sprint("invalid query: ", err.Error())
		return
	}

	msg := logger.ErrorLog.Sprintf("query %s for %s %s %s failed: %s",
		queryID, query.FlightNumber, query.FlightDate, query.OriginAirportCode, err.Error())
	if s.notifier == nil {
		return
	}
	go func() {
		if err := s.notifier.SendTelegram(msg); err != nil {
			logger.WarnLog.Sprint("telegram alert failed: ", err.Error())
		}
	}()
}

func (s *Shell) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		State:   s.state,
		Query:   s.query,
		QueryID: s.queryID,
		Report:  s.report,
		Err:     s.err,
	}
}

func (s *Shell) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Share uploads the last displayed report as a workbook.
func (s *Shell) Share() error {
	s.mu.Lock()
	report := s.report
	s.mu.Unlock()

	if report == nil {
		return errors.New("nothing to share yet")
	}
	if s.notifier == nil {
		return errors.New("telegram is not configured")
	}

	body, err := presenter.ExportXLSX(*report)
	if err != nil {
		return err
	}
	return s.notifier.SendTelegramFile(body, presenter.FormatXLSX.FileName(*report))
}
