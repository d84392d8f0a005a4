package presenter

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/pretty"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v2"

	"github.com/asadbekGo/upgrade-list-sdk/tools/united"
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatXLSX     Format = "xlsx"
	FormatRaw      Format = "raw"
)

const (
	summarySheet  = "Summary"
	cabinsSheet   = "Cabins"
	upgradesSheet = "Upgrades"
)

var contentTypes = map[Format]string{
	FormatMarkdown: "text/markdown; charset=utf-8",
	FormatJSON:     "application/json",
	FormatYAML:     "application/yaml",
	FormatXLSX:     "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatRaw:      "application/json",
}

type (
	exportDocument struct {
		Fingerprint string               `json:"fingerprint" yaml:"fingerprint"`
		Segment     *united.Segment      `json:"segment" yaml:"segment"`
		Cabins      []exportCabin        `json:"cabins" yaml:"cabins"`
		Front       *united.UpgradeGroup `json:"front,omitempty" yaml:"front,omitempty"`
		Rear        *united.UpgradeGroup `json:"rear,omitempty" yaml:"rear,omitempty"`
	}

	exportCabin struct {
		united.Cabin `yaml:",inline"`
		Available    int `json:"available" yaml:"available"`
	}
)

func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	if format == "" || format == "md" {
		return FormatMarkdown, nil
	}
	if _, ok := contentTypes[format]; !ok {
		return "", errors.Errorf("unknown format %q", s)
	}
	return format, nil
}

func (f Format) ContentType() string {
	return contentTypes[f]
}

// FileName is the download name for a report of this flight.
func (f Format) FileName(r Report) string {
	name := "upgrade-list"
	if r.Data != nil && r.Data.Segment != nil {
		name += "-" + r.Data.Segment.AirlineCode + r.Data.Segment.FlightNumber + "-" + r.Data.Segment.FlightDate
	}
	switch f {
	case FormatMarkdown:
		return name + ".md"
	case FormatRaw:
		return name + "-raw.json"
	default:
		return name + "." + string(f)
	}
}

func Export(r Report, format Format) ([]byte, error) {
	switch format {
	case FormatMarkdown:
		return []byte(r.Markdown()), nil
	case FormatJSON:
		return ExportJSON(r)
	case FormatYAML:
		return ExportYAML(r)
	case FormatXLSX:
		return ExportXLSX(r)
	case FormatRaw:
		return ExportRaw(r)
	}
	return nil, errors.Errorf("unknown format %q", format)
}

func newExportDocument(r Report) exportDocument {
	doc := exportDocument{Fingerprint: r.Fingerprint, Cabins: []exportCabin{}}
	if r.Data == nil {
		return doc
	}
	doc.Segment = r.Data.Segment
	doc.Front = r.Data.Front
	doc.Rear = r.Data.Rear
	for _, cabin := range r.Data.Cabins {
		doc.Cabins = append(doc.Cabins, exportCabin{Cabin: cabin, Available: cabin.Available()})
	}
	return doc
}

func ExportJSON(r Report) ([]byte, error) {
	body, err := json.Marshal(newExportDocument(r))
	if err != nil {
		return nil, errors.Wrap(err, "marshal report")
	}
	return pretty.Pretty(body), nil
}

func ExportYAML(r Report) ([]byte, error) {
	body, err := yaml.Marshal(newExportDocument(r))
	if err != nil {
		return nil, errors.Wrap(err, "marshal report")
	}
	return body, nil
}

// ExportRaw returns the upstream body exactly as received, indented.
func ExportRaw(r Report) ([]byte, error) {
	if r.Data == nil || len(r.Data.Raw) == 0 {
		return nil, errors.New("no raw response recorded")
	}
	return pretty.Pretty(r.Data.Raw), nil
}

// ExportXLSX writes a workbook with Summary, Cabins and Upgrades sheets.
func ExportXLSX(r Report) ([]byte, error) {
	doc := newExportDocument(r)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, errors.Wrap(err, "summary sheet")
	}
	for _, sheet := range []string{cabinsSheet, upgradesSheet} {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, errors.Wrapf(err, "%s sheet", sheet)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, errors.Wrap(err, "header style")
	}

	segment := doc.Segment
	if segment == nil {
		segment = &united.Segment{}
	}
	summaryRows := [][]interface{}{
		{"Field", "Value"},
		{"Flight", strings.TrimSpace(segment.AirlineCode + " " + segment.FlightNumber)},
		{"Date", segment.FlightDate},
		{"Aircraft", segment.EquipmentDescription},
		{"Tail", segment.TailNumber},
		{"From", airport(segment.DepartureAirportName, segment.DepartureAirportCode)},
		{"To", airport(segment.ArrivalAirportName, segment.ArrivalAirportCode)},
		{"Scheduled Departure", segment.ScheduledDepartureTime},
		{"Scheduled Arrival", segment.ScheduledArrivalTime},
		{"Snapshot", doc.Fingerprint},
	}

	cabinRows := [][]interface{}{
		{"Cabin", "Capacity", "Booked", "Available", "Authorized", "Revenue Standby", "Waitlist"},
	}
	for _, cabin := range doc.Cabins {
		cabinRows = append(cabinRows, []interface{}{
			cabin.Name, cabin.Capacity, cabin.Booked, cabin.Available, cabin.Authorized, cabin.RevenueStandby, cabin.WaitList,
		})
	}

	upgradeRows := [][]interface{}{
		{"Group", "List", "Position", "Passenger", "Seat"},
	}
	for _, group := range r.groups() {
		for i, p := range group.Group.Cleared {
			upgradeRows = append(upgradeRows, []interface{}{group.Name, "Cleared", i + 1, p.PassengerName, p.SeatNumber})
		}
		for i, p := range group.Group.Standby {
			upgradeRows = append(upgradeRows, []interface{}{group.Name, "Standby", i + 1, p.PassengerName, p.SeatNumber})
		}
	}

	for sheet, rows := range map[string][][]interface{}{
		summarySheet:  summaryRows,
		cabinsSheet:   cabinRows,
		upgradesSheet: upgradeRows,
	} {
		if err := writeRows(f, sheet, rows, header); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "write workbook")
	}
	return buf.Bytes(), nil
}

func (r Report) groups() []united.NamedGroup {
	if r.Data == nil {
		return nil
	}
	return r.Data.Groups()
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "%s row %d", sheet, i+1)
		}
	}

	if len(rows) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, headerStyle)
}
