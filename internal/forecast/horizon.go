package forecast

import (
	"fmt"
	"strings"
)

// Horizon describes how far ahead a forecast reaches, which dataset serves it
// and how many slots are rendered.
type Horizon struct {
	Name    string
	Dataset string
	Title   string
	Slots   int

	Weather string
	MinT    string
	MaxT    string
	PoP     string
	Comfort string // empty when the dataset has no comfort index
}

var (
	// Week is the one-week county forecast in 12 hour slots.
	Week = Horizon{
		Name:    "week",
		Dataset: "F-D0047-091",
		Title:   "未來一週天氣",
		Slots:   14,
		Weather: "Wx",
		MinT:    "MinT",
		MaxT:    "MaxT",
		PoP:     "PoP12h",
	}

	// Short is the 36 hour forecast; only the nearest slot is shown.
	Short = Horizon{
		Name:    "short",
		Dataset: "F-C0032-001",
		Title:   "未來 36 小時天氣",
		Slots:   1,
		Weather: "Wx",
		MinT:    "MinT",
		MaxT:    "MaxT",
		PoP:     "PoP",
		Comfort: "CI",
	}
)

// HorizonByName resolves a configured horizon name.
func HorizonByName(name string) (Horizon, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case Week.Name:
		return Week, nil
	case Short.Name:
		return Short, nil
	}
	return Horizon{}, fmt.Errorf("unknown forecast horizon %q", name)
}

// Elements lists the element names rendered per slot, in query order.
func (h Horizon) Elements() []string {
	names := []string{h.Weather, h.PoP, h.MinT, h.MaxT}
	if h.Comfort != "" {
		names = append(names, h.Comfort)
	}
	return names
}

// ElementQuery is the comma separated elementName query parameter.
func (h Horizon) ElementQuery() string {
	return strings.Join(h.Elements(), ",")
}
