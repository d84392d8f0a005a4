package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	sdk "github.com/asadbekGo/upgrade-list-sdk"
	"github.com/asadbekGo/upgrade-list-sdk/auth"
	"github.com/asadbekGo/upgrade-list-sdk/presenter"
	"github.com/asadbekGo/upgrade-list-sdk/shell"
	"github.com/asadbekGo/upgrade-list-sdk/tools/auth0"
	"github.com/asadbekGo/upgrade-list-sdk/tools/united"
)

const usage = `Usage:
  upgradelist [-env file] [-format markdown|json|yaml|raw]     interactive terminal
  upgradelist query [-flight n] [-date d] [-from c] [-format f] [-out file] [-telegram]
  upgradelist serve [-addr :8080]                               web dashboard
  upgradelist token                                             print an Auth0 access token
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	command := "terminal"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		command, args = args[0], args[1:]
	}

	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	envFile := fs.String("env", ".env", "dotenv file to load")
	format := fs.String("format", "markdown", "output format")
	addr := fs.String("addr", "", "listen address for serve")
	flightNumber := fs.String("flight", "", "flight number for query")
	flightDate := fs.String("date", "", "flight date (YYYY-MM-DD) for query")
	origin := fs.String("from", "", "departure airport code for query")
	out := fs.String("out", "", "write the query result to this file")
	share := fs.Bool("telegram", false, "share the query result as xlsx via telegram")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := sdk.LoadConfig(*envFile)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}

	outputFormat, err := presenter.ParseFormat(*format)
	if err != nil {
		return err
	}

	api := sdk.New(cfg)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := shell.New(united.NewFetcher(api), api, api.Logger)

	switch command {
	case "terminal":
		return shell.NewTerminal(app, os.Stdin, os.Stdout, outputFormat, cfg.TelegramEnabled()).Run(ctx)
	case "query":
		query := shell.DefaultQuery(time.Now())
		if *flightNumber != "" {
			query.FlightNumber = *flightNumber
		}
		if *flightDate != "" {
			query.FlightDate = *flightDate
		}
		if *origin != "" {
			query.OriginAirportCode = *origin
		}
		return runQuery(ctx, app, query, outputFormat, *out, *share)
	case "serve":
		return serve(ctx, api, app)
	case "token":
		return printToken(ctx, api)
	}

	fs.Usage()
	return errors.Errorf("unknown command %q", command)
}

func runQuery(ctx context.Context, app *shell.Shell, query sdk.FlightQuery, format presenter.Format, out string, share bool) error {
	report, err := app.Trigger(ctx, query)
	if err != nil {
		return err
	}

	body, err := presenter.Export(report, format)
	if err != nil {
		return err
	}

	if out == "" {
		_, err = os.Stdout.Write(body)
	} else {
		err = os.WriteFile(out, body, 0o644)
	}
	if err != nil {
		return err
	}

	if share {
		return app.Share()
	}
	return nil
}

func serve(ctx context.Context, api *sdk.Client, app *shell.Shell) error {
	middleware, err := auth.Middleware(api)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         api.Cfg.ListenAddr,
		Handler:      shell.NewServer(app, api.Logger, middleware),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: api.Cfg.Timeout*2 + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		api.Logger.InfoLog.Sprint("dashboard listening on ", api.Cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	api.Logger.InfoLog.Sprint("shutting down dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func printToken(ctx context.Context, api *sdk.Client) error {
	if !api.Cfg.Auth0Enabled() {
		return errors.New("UPGRADELIST_AUTH0_DOMAIN and UPGRADELIST_AUTH0_AUDIENCE must be set")
	}

	token, errorResponse := auth0.Auth0GetToken(ctx, auth0.Credential{
		Domain:       api.Cfg.Auth0Domain,
		Audience:     api.Cfg.Auth0Audience,
		ClientId:     api.Cfg.Auth0ClientId,
		ClientSecret: api.Cfg.Auth0ClientSecret,
	}, api)
	if errorResponse.StatusCode != 0 {
		return errors.Errorf("%s %s", errorResponse.ClientErrorMessage, errorResponse.ErrorMessage)
	}

	claims, errorResponse := auth0.Auth0ValidateToken(ctx, token.AccessToken, api)
	if errorResponse.StatusCode != 0 {
		return errors.Errorf("token was issued but does not validate: %s", errorResponse.ErrorMessage)
	}
	api.Logger.WithField("sub", claims.Subject).InfoLog.Sprint("token valid until ", time.Unix(claims.Expiry, 0).Format(time.RFC3339))

	fmt.Println(token.AccessToken)
	return nil
}
