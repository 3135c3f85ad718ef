package probe

import "strings"

// SampleName holds the fields encoded in a sample capture's file name,
// "<subscription>-<channel words...>-<id>-<n>.ts".
type SampleName struct {
	Subscription string
	Channel      string
	ID           string
}

// ParseSampleName splits a sample file name into its fields. Names with fewer
// than four dash-separated parts are not samples.
func ParseSampleName(name string) (SampleName, bool) {
	name = strings.TrimSuffix(name, ".ts")
	parts := strings.Split(name, "-")
	if len(parts) < 4 {
		return SampleName{}, false
	}
	return SampleName{
		Subscription: parts[0],
		Channel:      strings.Join(parts[1:len(parts)-2], " "),
		ID:           parts[len(parts)-2],
	}, true
}
