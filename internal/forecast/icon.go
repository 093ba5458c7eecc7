package forecast

import "strings"

const (
	IconRain    = "🌧️"
	IconSunny   = "☀️"
	IconCloudy  = "☁️"
	IconThunder = "⛈️"
	IconDefault = "🌤️"
)

// iconRules are checked in order; the first rule with a matching keyword wins.
// Rain outranks sunny: "晴時多雲短暫陣雨" gets the rain icon.
var iconRules = []struct {
	icon     string
	keywords []string
}{
	{IconRain, []string{"雨"}},
	{IconSunny, []string{"晴"}},
	{IconCloudy, []string{"雲", "陰"}},
	{IconThunder, []string{"雷"}},
}

// Icon picks the emoji for a CWA weather phenomenon description.
func Icon(desc string) string {
	for _, rule := range iconRules {
		for _, kw := range rule.keywords {
			if strings.Contains(desc, kw) {
				return rule.icon
			}
		}
	}
	return IconDefault
}
