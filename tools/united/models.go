package united

type (
	AvailabilityData struct {
		Segment *Segment      `json:"segment" mapstructure:"segment" yaml:"segment"`
		Cabins  []Cabin       `json:"pbts" mapstructure:"pbts" yaml:"pbts"`
		Front   *UpgradeGroup `json:"front,omitempty" mapstructure:"front" yaml:"front,omitempty"`
		Rear    *UpgradeGroup `json:"rear,omitempty" mapstructure:"rear" yaml:"rear,omitempty"`

		// Raw is the upstream body exactly as received.
		Raw []byte `json:"-" mapstructure:"-" yaml:"-"`
	}

	Segment struct {
		AirlineCode            string `json:"airlineCode" mapstructure:"airlineCode" yaml:"airlineCode"`
		FlightNumber           string `json:"flightNumber" mapstructure:"flightNumber" yaml:"flightNumber"`
		FlightDate             string `json:"flightDate" mapstructure:"flightDate" yaml:"flightDate"`
		EquipmentDescription   string `json:"equipmentDescription" mapstructure:"equipmentDescription" yaml:"equipmentDescription"`
		TailNumber             string `json:"tailNumber" mapstructure:"tailNumber" yaml:"tailNumber"`
		DepartureAirportCode   string `json:"departureAirportCode" mapstructure:"departureAirportCode" yaml:"departureAirportCode"`
		DepartureAirportName   string `json:"departureAirportName" mapstructure:"departureAirportName" yaml:"departureAirportName"`
		ArrivalAirportCode     string `json:"arrivalAirportCode" mapstructure:"arrivalAirportCode" yaml:"arrivalAirportCode"`
		ArrivalAirportName     string `json:"arrivalAirportName" mapstructure:"arrivalAirportName" yaml:"arrivalAirportName"`
		ScheduledDepartureTime string `json:"scheduledDepartureTime" mapstructure:"scheduledDepartureTime" yaml:"scheduledDepartureTime"`
		ScheduledArrivalTime   string `json:"scheduledArrivalTime" mapstructure:"scheduledArrivalTime" yaml:"scheduledArrivalTime"`
	}

	Cabin struct {
		Name           string `json:"cabin" mapstructure:"cabin" yaml:"cabin"`
		Capacity       int    `json:"capacity" mapstructure:"capacity" yaml:"capacity"`
		Booked         int    `json:"booked" mapstructure:"booked" yaml:"booked"`
		Authorized     int    `json:"authorized" mapstructure:"authorized" yaml:"authorized"`
		RevenueStandby int    `json:"revenueStandby" mapstructure:"revenueStandby" yaml:"revenueStandby"`
		WaitList       int    `json:"waitList" mapstructure:"waitList" yaml:"waitList"`
	}

	UpgradeGroup struct {
		Cleared []Passenger `json:"cleared" mapstructure:"cleared" yaml:"cleared"`
		Standby []Passenger `json:"standby" mapstructure:"standby" yaml:"standby"`
	}

	Passenger struct {
		PassengerName string `json:"passengerName" mapstructure:"passengerName" yaml:"passengerName"`
		SeatNumber    string `json:"seatNumber" mapstructure:"seatNumber" yaml:"seatNumber"`
	}

	tokenResponse struct {
		Data struct {
			Token struct {
				Hash string `json:"hash"`
			} `json:"token"`
		} `json:"data"`
	}
)

// Available may be negative when upstream reports more bookings than seats.
func (c Cabin) Available() int {
	return c.Capacity - c.Booked
}

// Groups returns the adjacency groups present in the response, front first.
func (d *AvailabilityData) Groups() []NamedGroup {
	if d == nil {
		return nil
	}

	var groups []NamedGroup
	if d.Front != nil {
		groups = append(groups, NamedGroup{Name: "Front", Group: *d.Front})
	}
	if d.Rear != nil {
		groups = append(groups, NamedGroup{Name: "Rear", Group: *d.Rear})
	}
	return groups
}

type NamedGroup struct {
	Name  string
	Group UpgradeGroup
}
