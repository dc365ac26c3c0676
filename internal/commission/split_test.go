package commission

import (
	"errors"
	"testing"
)

func TestSplitVectors(t *testing.T) {
	cases := []struct {
		name         string
		gross        int64
		hasReferrer  bool
		wantAgent    int64
		wantOverride int64
	}{
		{name: "typical with referrer", gross: 520000, hasReferrer: true, wantAgent: 286000, wantOverride: 14300},
		{name: "typical without referrer", gross: 520000, hasReferrer: false, wantAgent: 286000, wantOverride: 0},
		{name: "rounding half up", gross: 333, hasReferrer: false, wantAgent: 183, wantOverride: 0},
		{name: "zero gross", gross: 0, hasReferrer: true, wantAgent: 0, wantOverride: 0},
		{name: "one cent", gross: 1, hasReferrer: true, wantAgent: 1, wantOverride: 0},
	}

	for _, tc := range cases {
		agent, override, err := Split(tc.gross, tc.hasReferrer)
		if err != nil {
			t.Fatalf("%s: split failed: %v", tc.name, err)
		}
		if agent != tc.wantAgent {
			t.Fatalf("%s: agent share got=%d want=%d", tc.name, agent, tc.wantAgent)
		}
		if override != tc.wantOverride {
			t.Fatalf("%s: override share got=%d want=%d", tc.name, override, tc.wantOverride)
		}
	}
}

func TestSplitRejectsNegativeGross(t *testing.T) {
	if _, _, err := Split(-1, false); !errors.Is(err, ErrNegativeGross) {
		t.Fatalf("expected ErrNegativeGross, got %v", err)
	}
}

func TestSplitIdempotent(t *testing.T) {
	for _, gross := range []int64{0, 1, 99, 333, 520000, 123456789} {
		a1, o1, err := Split(gross, true)
		if err != nil {
			t.Fatalf("split failed: %v", err)
		}
		a2, o2, err := Split(gross, true)
		if err != nil {
			t.Fatalf("split failed: %v", err)
		}
		if a1 != a2 || o1 != o2 {
			t.Fatalf("split not idempotent for gross=%d: (%d,%d) vs (%d,%d)", gross, a1, o1, a2, o2)
		}
	}
}

func TestParseDollarAmount(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
	}{
		{"5200.00", 520000},
		{"$5,200.00", 520000},
		{" 1.5 ", 150},
		{"USD 42", 4200},
		{"0", 0},
	}
	for _, tc := range cases {
		got, err := ParseDollarAmount(tc.raw)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("parse %q got=%d want=%d", tc.raw, got, tc.want)
		}
	}
}

func TestParseDollarAmountRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "abc", "$", "1.2.3"} {
		if _, err := ParseDollarAmount(raw); !errors.Is(err, ErrUnparsableAmount) {
			t.Fatalf("expected ErrUnparsableAmount for %q, got %v", raw, err)
		}
	}
}
