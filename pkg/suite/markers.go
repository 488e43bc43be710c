package suite

import (
	"os"
	"strings"
	"testing"
)

// Marker is a test category tag. Markers are combinable: a test may carry
// several, and it runs when any of them is selected.
type Marker string

const (
	Smoke      Marker = "smoke"
	Regression Marker = "regression"
	UI         Marker = "ui"
	API        Marker = "api"
)

// MarkersEnv selects categories for a run as a comma-separated list. Empty
// means run everything. The runner CLI sets it from its category flags.
const MarkersEnv = "WEBTEST_MARKERS"

// Mark tags the test with its categories and skips it when the run's
// selection excludes all of them.
func Mark(t *testing.T, markers ...Marker) {
	t.Helper()
	selection := selectedMarkers(os.Getenv(MarkersEnv))
	if !shouldRun(markers, selection) {
		t.Skipf("test not in selected categories (%s)", os.Getenv(MarkersEnv))
	}
}

func selectedMarkers(raw string) map[Marker]bool {
	selection := make(map[Marker]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			selection[Marker(part)] = true
		}
	}
	return selection
}

// shouldRun reports whether a test carrying the given markers runs under
// the selection. An empty selection runs everything.
func shouldRun(markers []Marker, selection map[Marker]bool) bool {
	if len(selection) == 0 {
		return true
	}
	for _, m := range markers {
		if selection[m] {
			return true
		}
	}
	return false
}

func markerNames(markers []Marker) []string {
	if len(markers) == 0 {
		return nil
	}
	names := make([]string, len(markers))
	for i, m := range markers {
		names[i] = string(m)
	}
	return names
}
