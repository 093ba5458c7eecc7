package forecast

import (
	"fmt"
	"strings"
	"time"
)

// Taipei is the zone CWA timestamps and reply times are shown in.
var Taipei = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Taipei")
	if err != nil {
		return time.FixedZone("CST", 8*60*60)
	}
	return loc
}()

var weekdays = [...]string{"日", "一", "二", "三", "四", "五", "六"}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseTime parses a CWA slot timestamp. Timestamps without an offset are
// Taipei local time.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, Taipei); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}

// SlotLabel formats a slot start as "MM/DD(週) HH:MM" in Taipei time.
func SlotLabel(t time.Time) string {
	t = t.In(Taipei)
	return fmt.Sprintf("%s(%s) %s", t.Format("01/02"), weekdays[t.Weekday()], t.Format("15:04"))
}

type slot struct {
	Start   time.Time
	Weather string
	MinT    string
	MaxT    string
	PoP     string
	Comfort string
}

// Format renders the forecast for region as reply text. It never panics on
// odd payloads; every failure comes back as an *Error.
func Format(p *Payload, region string, h Horizon, now time.Time) (string, error) {
	if p == nil || !bool(p.Success) {
		var msg string
		if p != nil {
			msg = p.Message
		}
		return "", &Error{Kind: KindUpstream, Region: region, Message: msg}
	}

	locations := p.Locations()
	if len(locations) == 0 {
		return "", &Error{Kind: KindNotFound, Region: region}
	}

	series := make(map[string][]Entry)
	for _, el := range locations[0].WeatherElement {
		series[el.ElementName] = el.Time
	}

	n := min(h.Slots, len(series[h.Weather]))

	// A missing or short series ends the reply early; with no Wx at all
	// only the header is sent.
	var body strings.Builder
	for i := 0; i < n; i++ {
		s, ok, err := readSlot(series, h, i)
		if err != nil {
			return "", &Error{Kind: KindStructure, Region: region, Err: err}
		}
		if !ok {
			break
		}
		writeSlot(&body, h, s)
	}

	var out strings.Builder
	fmt.Fprintf(&out, "☀️ %s %s\n", region, h.Title)
	fmt.Fprintf(&out, "📅 查詢時間：%s\n", now.In(Taipei).Format("2006-01-02 15:04"))
	out.WriteString(strings.Repeat("=", 25) + "\n\n")
	out.WriteString(body.String())
	return out.String(), nil
}

// Render is Format with failures turned into their reply text.
func Render(p *Payload, region string, h Horizon, now time.Time) string {
	text, err := Format(p, region, h, now)
	if err != nil {
		return Message(err)
	}
	return text
}

// readSlot gathers slot i from every series the horizon renders. ok is false
// when a series is missing or too short; rendering stops there.
func readSlot(series map[string][]Entry, h Horizon, i int) (slot, bool, error) {
	anchor := series[h.Weather][i]
	start, err := ParseTime(anchor.StartTime)
	if err != nil {
		return slot{}, false, fmt.Errorf("%s[%d]: %w", h.Weather, i, err)
	}

	s := slot{Start: start}
	fields := []struct {
		name string
		dst  *string
	}{
		{h.Weather, &s.Weather},
		{h.MinT, &s.MinT},
		{h.MaxT, &s.MaxT},
		{h.PoP, &s.PoP},
	}
	if h.Comfort != "" {
		fields = append(fields, struct {
			name string
			dst  *string
		}{h.Comfort, &s.Comfort})
	}

	for _, f := range fields {
		entries, ok := series[f.name]
		if !ok || i >= len(entries) {
			return slot{}, false, nil
		}
		e := entries[i]

		if f.name != h.Weather {
			t, err := ParseTime(e.StartTime)
			if err != nil {
				return slot{}, false, fmt.Errorf("%s[%d]: %w", f.name, i, err)
			}
			if !t.Equal(start) {
				return slot{}, false, fmt.Errorf("%s[%d] starts %s, %s[%d] starts %s",
					f.name, i, e.StartTime, h.Weather, i, anchor.StartTime)
			}
		}

		v, ok := e.Value()
		if !ok {
			return slot{}, false, fmt.Errorf("%s[%d] has no value", f.name, i)
		}
		*f.dst = v
	}
	return s, true, nil
}

func writeSlot(b *strings.Builder, h Horizon, s slot) {
	fmt.Fprintf(b, "📆 %s\n", SlotLabel(s.Start))
	fmt.Fprintf(b, "%s %s\n", Icon(s.Weather), s.Weather)
	fmt.Fprintf(b, "🌡️ %s°C ~ %s°C\n", orDash(s.MinT), orDash(s.MaxT))
	fmt.Fprintf(b, "💧 降雨 %s%%\n", orDash(s.PoP))
	if h.Comfort != "" {
		fmt.Fprintf(b, "😊 舒適度 %s\n", orDash(s.Comfort))
	}
	b.WriteString(strings.Repeat("-", 20) + "\n")
}

// orDash stands in for the blank values CWA sends for far-out slots.
func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}
