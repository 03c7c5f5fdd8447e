package theme

import "testing"

func TestByNameFallsBackToDefault(t *testing.T) {
	if got := ByName("no-such-theme").Name; got != FlexokiDark.Name {
		t.Fatalf("ByName(unknown) = %q, want %q", got, FlexokiDark.Name)
	}
	if got := ByName("tokyo-night").Name; got != "tokyo-night" {
		t.Fatalf("ByName(tokyo-night) = %q", got)
	}
}

func TestValidAndNames(t *testing.T) {
	names := Names()
	if len(names) != len(All) {
		t.Fatalf("Names() len = %d, want %d", len(names), len(All))
	}
	for _, n := range names {
		if !Valid(n) {
			t.Errorf("Valid(%q) = false", n)
		}
	}
	if Valid("") {
		t.Error("Valid(\"\") = true")
	}
}

func TestSeverityColors(t *testing.T) {
	th := FlexokiDark
	if th.Severity(0) != th.GreenBright || th.Severity(1) != th.Yellow || th.Severity(2) != th.Red {
		t.Fatal("unexpected severity palette")
	}
	if th.Severity(9) != th.Red {
		t.Fatal("out-of-range severity should be red")
	}
}
