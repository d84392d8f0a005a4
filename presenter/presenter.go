package presenter

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	sdk "github.com/asadbekGo/upgrade-list-sdk"
	"github.com/asadbekGo/upgrade-list-sdk/datahash"
	"github.com/asadbekGo/upgrade-list-sdk/tools/united"
)

const (
	Title        = "United Airlines Cabin Availability Checker"
	NotAvailable = "N/A"

	noPassengersCleared = "No passengers cleared."
	noPassengersStandby = "No passengers on standby."
	noCabins            = "No cabin data returned."
	noGroups            = "No upgrade or standby lists returned."
)

type (
	// Section is one titled block of the report. Items are rendered as subsections and
	// become expandable blocks in HTML.
	Section struct {
		Title string
		Intro string
		Items []Item
	}

	Item struct {
		Title string
		Body  string
	}

	Report struct {
		Summary     Section
		Cabins      Section
		Upgrades    Section
		Fingerprint string
		Data        *united.AvailabilityData
	}
)

// Render builds the three report sections in display order.
func Render(data *united.AvailabilityData) (Report, error) {
	if data == nil {
		return Report{}, &sdk.MissingFieldError{Path: "segment"}
	}

	summary, err := RenderFlightSummary(data.Segment)
	if err != nil {
		return Report{}, err
	}

	fingerprint, err := datahash.Fingerprint(data)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Summary:     summary,
		Cabins:      RenderCabinAvailability(data.Cabins),
		Upgrades:    RenderUpgradeStandby(data),
		Fingerprint: fingerprint,
		Data:        data,
	}, nil
}

func (r Report) Sections() []Section {
	return []Section{r.Summary, r.Cabins, r.Upgrades}
}

func (r Report) Markdown() string {
	var b strings.Builder
	for _, section := range r.Sections() {
		b.WriteString(section.Markdown())
	}
	if r.Fingerprint != "" {
		fmt.Fprintf(&b, "_Snapshot %s_\n", ShortFingerprint(r.Fingerprint))
	}
	return b.String()
}

func (s Section) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", s.Title)
	if s.Intro != "" {
		b.WriteString(s.Intro)
		b.WriteString("\n")
	}
	for _, item := range s.Items {
		fmt.Fprintf(&b, "### %s\n\n%s\n", item.Title, item.Body)
	}
	return b.String()
}

func ShortFingerprint(fingerprint string) string {
	if len(fingerprint) > 12 {
		return fingerprint[:12]
	}
	return fingerprint
}

// RenderFlightSummary lays the segment out as a two-column label/value table.
func RenderFlightSummary(segment *united.Segment) (Section, error) {
	if segment == nil {
		return Section{}, &sdk.MissingFieldError{Path: "segment"}
	}

	flight := strings.TrimSpace(segment.AirlineCode + " " + segment.FlightNumber)
	rows := [][2]string{
		{cell("Flight", flight), cell("From", airport(segment.DepartureAirportName, segment.DepartureAirportCode))},
		{cell("Date", segment.FlightDate), cell("To", airport(segment.ArrivalAirportName, segment.ArrivalAirportCode))},
		{cell("Aircraft", segment.EquipmentDescription), cell("Scheduled Departure", segment.ScheduledDepartureTime)},
		{cell("Tail", segment.TailNumber), cell("Scheduled Arrival", segment.ScheduledArrivalTime)},
	}

	var b strings.Builder
	b.WriteString("| Flight | Route |\n|---|---|\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "| %s | %s |\n", row[0], row[1])
	}

	return Section{Title: "Flight Summary", Intro: b.String()}, nil
}

// RenderCabinAvailability emits one item per cabin in upstream order.
func RenderCabinAvailability(cabins []united.Cabin) Section {
	section := Section{Title: "Cabin Availability"}
	if len(cabins) == 0 {
		section.Intro = noCabins + "\n"
		return section
	}

	for _, cabin := range cabins {
		lines := []string{
			"Capacity: " + cast.ToString(cabin.Capacity),
			"Booked: " + cast.ToString(cabin.Booked),
			"Available: " + cast.ToString(cabin.Available()),
			"Authorized: " + cast.ToString(cabin.Authorized),
			"Revenue Standby: " + cast.ToString(cabin.RevenueStandby),
			"Waitlist: " + cast.ToString(cabin.WaitList),
		}
		section.Items = append(section.Items, Item{
			Title: orNA(escape(cabin.Name)) + " Cabin",
			Body:  "- " + strings.Join(lines, "\n- ") + "\n",
		})
	}

	return section
}

// RenderUpgradeStandby emits one item per group present in data, front first. Front and
// rear are optional, so nil data renders the no-groups message.
func RenderUpgradeStandby(data *united.AvailabilityData) Section {
	section := Section{Title: "Upgrade and Standby Information"}
	groups := data.Groups()
	if len(groups) == 0 {
		section.Intro = noGroups + "\n"
		return section
	}

	for _, group := range groups {
		var b strings.Builder
		writePassengers(&b, "Cleared", "Seat", group.Group.Cleared, noPassengersCleared)
		b.WriteString("\n")
		writePassengers(&b, "Standby", "Current seat", group.Group.Standby, noPassengersStandby)
		section.Items = append(section.Items, Item{Title: group.Name + " Cabin", Body: b.String()})
	}

	return section
}

func writePassengers(b *strings.Builder, label, seatLabel string, passengers []united.Passenger, empty string) {
	fmt.Fprintf(b, "**%s (%d)**\n\n", label, len(passengers))
	if len(passengers) == 0 {
		b.WriteString(empty + "\n")
		return
	}
	for i, p := range passengers {
		fmt.Fprintf(b, "%d. %s (%s: %s)\n", i+1, orNA(escape(p.PassengerName)), seatLabel, orNA(escape(p.SeatNumber)))
	}
}

func cell(label, value string) string {
	return "**" + label + ":** " + orNA(escape(value))
}

func airport(name, code string) string {
	switch {
	case name != "" && code != "":
		return name + " (" + code + ")"
	case code != "":
		return code
	default:
		return name
	}
}

func orNA(value string) string {
	if strings.TrimSpace(value) == "" {
		return NotAvailable
	}
	return value
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"|", `\|`,
	"`", "\\`",
	"<", "&lt;",
	">", "&gt;",
)

func escape(value string) string {
	return markdownEscaper.Replace(value)
}
