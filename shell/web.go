package shell

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	sdk "github.com/asadbekGo/upgrade-list-sdk"
	"github.com/asadbekGo/upgrade-list-sdk/datahash"
	"github.com/asadbekGo/upgrade-list-sdk/presenter"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 60rem; margin: 2rem auto; }
form label { display: block; margin-bottom: .5rem; }
.error { color: #b00020; border: 1px solid #b00020; padding: .5rem; }
.snapshot { color: #666; font-size: .8rem; }
table { border-collapse: collapse; } td, th { padding: .25rem .75rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<form method="get" action="/" onsubmit="var b=this.querySelector('button');b.disabled=true;b.textContent='Fetching data...';">
<label>Enter Flight Number: <input name="flightNumber" value="{{.Query.FlightNumber}}"></label>
<label>Select Flight Date: <input type="date" name="flightDate" value="{{.Query.FlightDate}}"></label>
<label>Enter Departure Airport Code: <input name="fromAirportCode" value="{{.Query.OriginAirportCode}}"></label>
<input type="hidden" name="check" value="1">
<button type="submit"{{if .Busy}} disabled{{end}}>Check Availability</button>
</form>
{{if .Error}}<p class="error">Error: {{.Error}}</p>{{end}}
{{.Report}}
</body>
</html>
`))

type pageData struct {
	Title  string
	Query  sdk.FlightQuery
	Busy   bool
	Error  string
	Report template.HTML
}

// Server is the web front end. Every route except /health goes through auth.
type Server struct {
	shell  *Shell
	logger *sdk.Logger
	now    func() time.Time
	router *mux.Router
}

func NewServer(shell *Shell, logger *sdk.Logger, auth func(http.Handler) http.Handler) *Server {
	s := &Server{
		shell:  shell,
		logger: logger,
		now:    time.Now,
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	protected := r.NewRoute().Subrouter()
	if auth != nil {
		protected.Use(auth)
	}
	protected.HandleFunc("/", s.page).Methods(http.MethodGet)
	protected.HandleFunc("/api/upgrade-list", s.export(presenter.FormatJSON)).Methods(http.MethodGet)
	protected.HandleFunc("/api/upgrade-list.xlsx", s.export(presenter.FormatXLSX)).Methods(http.MethodGet)
	protected.HandleFunc("/api/state", s.state).Methods(http.MethodGet)

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func responseError(err error) sdk.ResponseError {
	if errors.Is(err, ErrBusy) {
		return sdk.ResponseError{
			StatusCode:         http.StatusConflict,
			ErrorMessage:       err.Error(),
			ClientErrorMessage: sdk.ErrorCodeWithMessage[http.StatusConflict],
		}
	}
	return sdk.NewResponseError(err)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// queryFromRequest fills blanks from the defaults the form starts with.
func (s *Server) queryFromRequest(r *http.Request) sdk.FlightQuery {
	def := DefaultQuery(s.now())
	values := r.URL.Query()
	pick := func(key, fallback string) string {
		if v := strings.TrimSpace(values.Get(key)); v != "" {
			return v
		}
		return fallback
	}
	return sdk.FlightQuery{
		FlightNumber:      pick("flightNumber", def.FlightNumber),
		FlightDate:        pick("flightDate", def.FlightDate),
		OriginAirportCode: pick("fromAirportCode", def.OriginAirportCode),
	}
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Title: presenter.Title,
		Query: s.queryFromRequest(r),
		Busy:  s.shell.State() == Fetching,
	}

	status := http.StatusOK
	if r.URL.Query().Get("check") != "" {
		report, err := s.shell.Trigger(r.Context(), data.Query)
		if err != nil {
			resp := responseError(err)
			status = resp.StatusCode
			data.Error = resp.ClientErrorMessage + " " + resp.ErrorMessage
		} else {
			data.Report = template.HTML(presenter.HTML(report))
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.ErrorLog.Sprint("render page: ", err.Error())
	}
}

func (s *Server) export(format presenter.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := format
		if f := r.URL.Query().Get("format"); f != "" && format != presenter.FormatXLSX {
			parsed, err := presenter.ParseFormat(f)
			if err != nil {
				respondJSON(w, http.StatusBadRequest, sdk.ResponseError{
					StatusCode:         http.StatusBadRequest,
					ErrorMessage:       err.Error(),
					ClientErrorMessage: "Supported formats: markdown, json, yaml, xlsx, raw.",
				})
				return
			}
			format = parsed
		}

		report, err := s.shell.Trigger(r.Context(), s.queryFromRequest(r))
		if err != nil {
			resp := responseError(err)
			respondJSON(w, resp.StatusCode, resp)
			return
		}

		body, err := presenter.Export(report, format)
		if err != nil {
			resp := sdk.NewResponseError(err)
			respondJSON(w, resp.StatusCode, resp)
			return
		}

		fingerprint := report.Fingerprint
		if format == presenter.FormatRaw {
			fingerprint = datahash.HashSHA256(body)
		}
		etag := datahash.EntityTag(string(format), fingerprint)
		w.Header().Set("ETag", etag)
		if datahash.MatchEntityTag(r.Header.Get("If-None-Match"), etag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("Content-Type", format.ContentType())
		if format == presenter.FormatXLSX {
			w.Header().Set("Content-Disposition", `attachment; filename="`+format.FileName(report)+`"`)
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			s.logger.WarnLog.Sprint("write response: ", err.Error())
		}
	}
}

type stateResponse struct {
	State       string          `json:"state"`
	QueryID     string          `json:"queryId,omitempty"`
	Query       sdk.FlightQuery `json:"query"`
	Fingerprint string          `json:"fingerprint,omitempty"`
	Error       string          `json:"error,omitempty"`
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	view := s.shell.View()
	resp := stateResponse{
		State:   view.State.String(),
		QueryID: view.QueryID,
		Query:   view.Query,
	}
	if view.Report != nil {
		resp.Fingerprint = view.Report.Fingerprint
	}
	if view.Err != nil {
		resp.Error = view.Err.Error()
	}
	respondJSON(w, http.StatusOK, resp)
}
