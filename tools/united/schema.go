package united

import (
	"encoding/json"
	"sort"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
	"github.com/xeipuuv/gojsonschema"

	sdk "github.com/asadbekGo/upgrade-list-sdk"
)

const rootField = "(root)"

const availabilitySchema = `{
  "type": "object",
  "required": ["segment", "pbts"],
  "properties": {
    "segment": {
      "type": "object",
      "required": ["airlineCode", "flightNumber", "flightDate"],
      "properties": {
        "airlineCode": {"type": "string"},
        "flightNumber": {"type": ["string", "integer"]},
        "flightDate": {"type": "string"},
        "equipmentDescription": {"type": ["string", "null"]},
        "tailNumber": {"type": ["string", "null"]},
        "departureAirportCode": {"type": ["string", "null"]},
        "departureAirportName": {"type": ["string", "null"]},
        "arrivalAirportCode": {"type": ["string", "null"]},
        "arrivalAirportName": {"type": ["string", "null"]},
        "scheduledDepartureTime": {"type": ["string", "null"]},
        "scheduledArrivalTime": {"type": ["string", "null"]}
      }
    },
    "pbts": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["cabin", "capacity", "booked"],
        "properties": {
          "cabin": {"type": "string"},
          "capacity": {"type": "integer"},
          "booked": {"type": "integer"},
          "authorized": {"type": ["integer", "null"]},
          "revenueStandby": {"type": ["integer", "null"]},
          "waitList": {"type": ["integer", "null"]}
        }
      }
    },
    "front": {"$ref": "#/definitions/group"},
    "rear": {"$ref": "#/definitions/group"}
  },
  "definitions": {
    "group": {
      "type": ["object", "null"],
      "required": ["cleared", "standby"],
      "properties": {
        "cleared": {"type": "array", "items": {"$ref": "#/definitions/passenger"}},
        "standby": {"type": "array", "items": {"$ref": "#/definitions/passenger"}}
      }
    },
    "passenger": {
      "type": "object",
      "required": ["passengerName"],
      "properties": {
        "passengerName": {"type": "string"},
        "seatNumber": {"type": ["string", "null"]}
      }
    }
  }
}`

var compiledSchema = mustSchema(availabilitySchema)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic("united: invalid availability schema: " + err.Error())
	}
	return schema
}

// DecodeAvailability validates body against the availability schema and decodes it.
// Non-JSON bodies yield *sdk.ParseError, schema violations *sdk.MissingFieldError.
func DecodeAvailability(body []byte) (*AvailabilityData, error) {
	var document map[string]interface{}
	if err := json.Unmarshal(body, &document); err != nil {
		return nil, &sdk.ParseError{Reason: err.Error(), Body: string(body)}
	}

	result, err := compiledSchema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, &sdk.ParseError{Reason: err.Error(), Body: string(body)}
	}
	if !result.Valid() {
		return nil, schemaError(result.Errors())
	}

	var data AvailabilityData
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &data,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(document); err != nil {
		return nil, &sdk.ParseError{Reason: err.Error(), Body: string(body)}
	}
	data.Raw = body

	return &data, nil
}

// schemaError reports the lexically first offending path so the same payload always
// yields the same error.
func schemaError(resultErrors []gojsonschema.ResultError) error {
	missing := make([]*sdk.MissingFieldError, 0, len(resultErrors))
	for _, resultError := range resultErrors {
		missing = append(missing, &sdk.MissingFieldError{
			Path:   fieldPath(resultError),
			Reason: resultError.Description(),
		})
	}
	sort.SliceStable(missing, func(i, j int) bool {
		return missing[i].Path < missing[j].Path
	})
	return missing[0]
}

func fieldPath(resultError gojsonschema.ResultError) string {
	field := resultError.Field()
	if resultError.Type() != "required" {
		return field
	}

	property := cast.ToString(resultError.Details()["property"])
	if field == rootField || field == "" {
		return property
	}
	return field + "." + property
}
