package regions

import "strings"

// Default is queried when a caller does not name a region.
const Default = "臺南市"

// MenuSize is the LINE quick reply item limit.
const MenuSize = 13

var all = []string{
	"臺北市", "新北市", "桃園市", "臺中市", "臺南市", "高雄市",
	"基隆市", "新竹市", "嘉義市", "新竹縣", "苗栗縣", "彰化縣",
	"南投縣", "雲林縣", "嘉義縣", "屏東縣", "宜蘭縣", "花蓮縣",
	"臺東縣", "澎湖縣", "金門縣", "連江縣",
}

var index = func() map[string]struct{} {
	m := make(map[string]struct{}, len(all))
	for _, name := range all {
		m[name] = struct{}{}
	}
	return m
}()

// All returns every county and city name in display order.
func All() []string {
	out := make([]string, len(all))
	copy(out, all)
	return out
}

// Menu returns the regions offered as quick reply buttons.
func Menu() []string {
	return All()[:MenuSize]
}

// IsValid reports whether name is exactly one of the known regions.
func IsValid(name string) bool {
	_, ok := index[name]
	return ok
}

// Normalize trims the name and rewrites 台 to the official 臺.
func Normalize(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), "台", "臺")
}

// Lookup returns the canonical region for user input.
func Lookup(name string) (string, bool) {
	n := Normalize(name)
	if !IsValid(n) {
		return "", false
	}
	return n, true
}
