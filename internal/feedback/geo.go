package feedback

import "strings"

var zonePrefixes = []struct {
	prefix string
	region string
}{
	{"America/", "americas"},
	{"Europe/", "europe"},
	{"Africa/", "africa"},
	{"Asia/", "asia"},
	{"Australia/", "oceania"},
	{"Pacific/", "oceania"},
}

// RegionFromTimeZone maps an IANA zone name to a coarse region, or
// "unknown".
func RegionFromTimeZone(tz string) string {
	for _, z := range zonePrefixes {
		if strings.HasPrefix(tz, z.prefix) {
			return z.region
		}
	}
	return "unknown"
}
