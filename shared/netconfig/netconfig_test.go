package netconfig

import "testing"

func TestParseMatchPhaseRoundTrips(t *testing.T) {
	for p := range phaseNames {
		got, ok := ParseMatchPhase(p.String())
		if !ok || got != p {
			t.Errorf("ParseMatchPhase(%q) = %v, %t", p.String(), got, ok)
		}
	}
	if _, ok := ParseMatchPhase("unknown"); ok {
		t.Errorf("unknown should not parse")
	}
}
