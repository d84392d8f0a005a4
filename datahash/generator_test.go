package datahash

import (
	"testing"

	"github.com/asadbekGo/upgrade-list-sdk/tools/united"
)

const sampleDatahash = "d7fa9536be713c46a3ca33733391b4b690062cacfe6fe4f28cf221b3c816b7a9"

func sampleData() *united.AvailabilityData {
	return &united.AvailabilityData{
		Segment: &united.Segment{
			AirlineCode:          "UA",
			FlightNumber:         "1274",
			FlightDate:           "2024-05-01",
			DepartureAirportCode: "IAD",
			DepartureAirportName: "Washington Dulles",
			TailNumber:           "N73445",
		},
		Cabins: []united.Cabin{
			{Name: "Economy", Capacity: 150, Booked: 140, Authorized: 0, RevenueStandby: 2, WaitList: 1},
		},
		Front: &united.UpgradeGroup{
			Cleared: []united.Passenger{{PassengerName: "DOE/J", SeatNumber: "1A"}},
			Standby: []united.Passenger{},
		},
		Raw: []byte(`{"ignored":true}`),
	}
}

type (
	FingerprintTestCase struct {
		name             string
		data             *united.AvailabilityData
		expectedDatahash string
		expectChanged    bool
	}
)

var FingerprintTestCases = []FingerprintTestCase{
	{
		name:             "Full snapshot",
		data:             sampleData(),
		expectedDatahash: sampleDatahash,
	},
	{
		name: "Raw body is ignored",
		data: func() *united.AvailabilityData {
			data := sampleData()
			data.Raw = []byte(`{"other":1}`)
			return data
		}(),
		expectedDatahash: sampleDatahash,
	},
	{
		name: "Nil and empty standby list are the same",
		data: func() *united.AvailabilityData {
			data := sampleData()
			data.Front.Standby = nil
			return data
		}(),
		expectedDatahash: sampleDatahash,
	},
	{
		name: "No cabins and no groups",
		data: &united.AvailabilityData{
			Segment: &united.Segment{AirlineCode: "UA", FlightNumber: "88", FlightDate: "2024-05-01"},
		},
		expectedDatahash: "8dfc3b59ddf1270fb01046ed1eb0c1fd7e9968aa3d15549f4c01f8447b706c34",
	},
	{
		name: "Booking count changed",
		data: func() *united.AvailabilityData {
			data := sampleData()
			data.Cabins[0].Booked = 141
			return data
		}(),
		expectChanged: true,
	},
	{
		name: "Standby list changed",
		data: func() *united.AvailabilityData {
			data := sampleData()
			data.Front.Standby = append(data.Front.Standby, united.Passenger{PassengerName: "ROE/R"})
			return data
		}(),
		expectChanged: true,
	},
	{
		name: "Airport name changed",
		data: func() *united.AvailabilityData {
			data := sampleData()
			data.Segment.DepartureAirportName = "Dulles"
			return data
		}(),
		expectChanged: true,
	},
	{
		name: "Schedule, arrival and equipment changed",
		data: func() *united.AvailabilityData {
			data := sampleData()
			data.Segment.ScheduledDepartureTime = "2024-05-01T08:15:00"
			data.Segment.ArrivalAirportCode = "SFO"
			data.Segment.EquipmentDescription = "Boeing 737-900"
			return data
		}(),
		expectChanged: true,
	},
}

func TestFingerprint(t *testing.T) {
	for _, tc := range FingerprintTestCases {
		t.Run(tc.name, func(t *testing.T) {
			generatedDatahash, err := Fingerprint(tc.data)
			if err != nil {
				t.Errorf("Expected no error, but got: %v", err)
			}
			if tc.expectChanged {
				if generatedDatahash == sampleDatahash {
					t.Errorf("Expected data hash to change, but got: %s", generatedDatahash)
				}
				return
			}
			if generatedDatahash != tc.expectedDatahash {
				t.Errorf("Expected data hash: %s, but got: %s", tc.expectedDatahash, generatedDatahash)
			}
		})
	}
}

func TestFingerprint_NilData(t *testing.T) {
	first, err := Fingerprint(nil)
	if err != nil {
		t.Fatalf("Expected no error, but got: %v", err)
	}
	second, _ := Fingerprint(&united.AvailabilityData{})
	if first != second {
		t.Errorf("Expected nil and empty data to match, got %s and %s", first, second)
	}
}

type (
	MatchEntityTagTestCase struct {
		name        string
		ifNoneMatch string
		expectMatch bool
	}
)

var MatchEntityTagTestCases = []MatchEntityTagTestCase{
	{name: "Exact", ifNoneMatch: `"json-abc"`, expectMatch: true},
	{name: "Weak", ifNoneMatch: `W/"json-abc"`, expectMatch: true},
	{name: "Listed", ifNoneMatch: `"yaml-abc", "json-abc"`, expectMatch: true},
	{name: "Any", ifNoneMatch: `*`, expectMatch: true},
	{name: "Other format", ifNoneMatch: `"yaml-abc"`, expectMatch: false},
	{name: "Bare fingerprint", ifNoneMatch: `"abc"`, expectMatch: false},
	{name: "Empty", ifNoneMatch: ``, expectMatch: false},
}

func TestMatchEntityTag(t *testing.T) {
	tag := EntityTag("json", "abc")
	if tag != `"json-abc"` {
		t.Fatalf("Expected entity tag %q, but got %q", `"json-abc"`, tag)
	}
	for _, tc := range MatchEntityTagTestCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MatchEntityTag(tc.ifNoneMatch, tag); got != tc.expectMatch {
				t.Errorf("Expected match %v for %q, but got %v", tc.expectMatch, tc.ifNoneMatch, got)
			}
		})
	}
}

func TestHashSHA256(t *testing.T) {
	// sha256("")
	const empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := HashSHA256(nil); got != empty {
		t.Errorf("Expected %s, but got %s", empty, got)
	}
}
