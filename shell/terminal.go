package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	sdk "github.com/asadbekGo/upgrade-list-sdk"
	"github.com/asadbekGo/upgrade-list-sdk/presenter"
)

const (
	busyMessage   = "Fetching data..."
	spinnerFrames = `|/-\`
	spinnerTick   = 120 * time.Millisecond
)

// Terminal is the interactive front end: prompts with defaults, a y/n/q trigger and a
// spinner while the query runs.
type Terminal struct {
	shell    *Shell
	in       io.Reader
	out      io.Writer
	lines    <-chan string
	scanned  chan struct{}
	format   presenter.Format
	now      func() time.Time
	canShare bool
}

func NewTerminal(shell *Shell, in io.Reader, out io.Writer, format presenter.Format, canShare bool) *Terminal {
	return &Terminal{
		shell:    shell,
		in:       in,
		out:      out,
		scanned:  make(chan struct{}),
		format:   format,
		now:      time.Now,
		canShare: canShare,
	}
}

// scan feeds input lines until input ends or done is closed. A read already blocked
// in the reader only returns once the reader does.
func (t *Terminal) scan(done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(t.scanned)
		defer close(lines)
		scanner := bufio.NewScanner(t.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}

// Run loops until the operator quits, input ends or ctx is cancelled. It must only be
// called once.
func (t *Terminal) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	t.lines = t.scan(done)

	fmt.Fprintf(t.out, "# %s\n\n", presenter.Title)

	query := DefaultQuery(t.now())
	for {
		var ok bool
		if query, ok = t.promptQuery(ctx, query); !ok {
			return ctx.Err()
		}

		choices := "y/n/q"
		if t.canShare {
			choices = "y/n/s/q"
		}
		answer, ok := t.prompt(ctx, "Check availability? ["+choices+"]", "y")
		if !ok {
			return ctx.Err()
		}

		switch strings.ToLower(answer) {
		case "y", "yes":
			t.check(ctx, query)
		case "s":
			if err := t.shell.Share(); err != nil {
				fmt.Fprintf(t.out, "Error: %s\n\n", err.Error())
			} else {
				fmt.Fprintln(t.out, "Report shared.")
			}
		case "q", "quit":
			return nil
		}
	}
}

func (t *Terminal) promptQuery(ctx context.Context, query sdk.FlightQuery) (sdk.FlightQuery, bool) {
	var ok bool
	if query.FlightNumber, ok = t.prompt(ctx, "Enter Flight Number", query.FlightNumber); !ok {
		return query, false
	}
	if query.FlightDate, ok = t.prompt(ctx, "Select Flight Date (YYYY-MM-DD)", query.FlightDate); !ok {
		return query, false
	}
	if query.OriginAirportCode, ok = t.prompt(ctx, "Enter Departure Airport Code", query.OriginAirportCode); !ok {
		return query, false
	}
	return query, true
}

// prompt returns def on an empty line and false when input is closed.
func (t *Terminal) prompt(ctx context.Context, label, def string) (string, bool) {
	fmt.Fprintf(t.out, "%s [%s]: ", label, def)
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-t.lines:
		if !ok {
			return "", false
		}
		if line = strings.TrimSpace(line); line != "" {
			return line, true
		}
		return def, true
	}
}

func (t *Terminal) check(ctx context.Context, query sdk.FlightQuery) {
	stop := t.spin()
	report, err := t.shell.Trigger(ctx, query)
	stop()

	if err != nil {
		resp := sdk.NewResponseError(err)
		fmt.Fprintf(t.out, "Error: %s %s\n\n", resp.ClientErrorMessage, resp.ErrorMessage)
		return
	}

	body, err := presenter.Export(report, t.format)
	if err != nil {
		fmt.Fprintf(t.out, "Error: %s\n\n", err.Error())
		return
	}
	if _, err := t.out.Write(body); err != nil {
		t.shell.logger.WarnLog.Sprint("write report: ", err.Error())
		return
	}
	fmt.Fprintln(t.out)
}

// spin draws the busy indicator until the returned func is called.
func (t *Terminal) spin() func() {
	done := make(chan struct{})
	finished := make(chan struct{})

	fmt.Fprint(t.out, busyMessage)
	go func() {
		defer close(finished)
		ticker := time.NewTicker(spinnerTick)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-done:
				fmt.Fprint(t.out, "\r"+strings.Repeat(" ", len(busyMessage)+2)+"\r")
				return
			case <-ticker.C:
				fmt.Fprintf(t.out, "\r%s %c", busyMessage, spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()

	return func() {
		close(done)
		<-finished
	}
}
