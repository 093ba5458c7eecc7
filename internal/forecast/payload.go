package forecast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Payload is a CWA open-data datastore response. Multi-day datasets nest
// locations one level deeper (records.locations[].location[]) than the
// 36-hour dataset (records.location[]).
type Payload struct {
	Success Flag     `json:"success"`
	Message string   `json:"message"`
	Records *Records `json:"records"`
}

type Records struct {
	DatasetDescription string          `json:"datasetDescription"`
	Locations          []LocationGroup `json:"locations"`
	Location           []Location      `json:"location"`
}

type LocationGroup struct {
	DatasetDescription string     `json:"datasetDescription"`
	LocationsName      string     `json:"locationsName"`
	DataID             string     `json:"dataid"`
	Location           []Location `json:"location"`
}

type Location struct {
	LocationName   string    `json:"locationName"`
	WeatherElement []Element `json:"weatherElement"`
}

type Element struct {
	ElementName string  `json:"elementName"`
	Description string  `json:"description"`
	Time        []Entry `json:"time"`
}

// Entry is one forecast slot of an element series.
type Entry struct {
	StartTime    string     `json:"startTime"`
	EndTime      string     `json:"endTime"`
	ElementValue []Value    `json:"elementValue"`
	Parameter    *Parameter `json:"parameter"`
}

type Value struct {
	Value    string `json:"value"`
	Measures string `json:"measures"`
}

type Parameter struct {
	ParameterName  string `json:"parameterName"`
	ParameterValue string `json:"parameterValue"`
	ParameterUnit  string `json:"parameterUnit"`
}

// Value returns the primary value of the slot, whichever layout carries it.
func (e Entry) Value() (string, bool) {
	if len(e.ElementValue) > 0 {
		return e.ElementValue[0].Value, true
	}
	if e.Parameter != nil {
		return e.Parameter.ParameterName, true
	}
	return "", false
}

// Locations returns the location list for either dataset layout.
func (p *Payload) Locations() []Location {
	if p.Records == nil {
		return nil
	}
	if len(p.Records.Locations) > 0 {
		return p.Records.Locations[0].Location
	}
	return p.Records.Location
}

// Flag is the CWA success indicator. The API sends the string "true", but a
// JSON boolean is accepted too. Anything else counts as false so the
// accompanying message still reaches the user.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	v := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	*f = Flag(strings.EqualFold(v, "true"))
	return nil
}

// Decode parses a raw API body. Any malformed or mistyped document is
// reported as a structural error.
func Decode(body []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, &Error{Kind: KindStructure, Err: fmt.Errorf("decode payload: %w", err)}
	}
	return &p, nil
}
