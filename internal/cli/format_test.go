package cli

import "testing"

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "₹0"},
		{1234.6, "₹1,235"},
		{99999, "₹99,999"},
		{250000, "₹2.5 lakh"},
		{31000000, "₹3.1 crore"},
		{-5000, "-₹5,000"},
	}
	for _, c := range cases {
		if got := FormatCurrency(c.in); got != c.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatAmountIgnoresCompactUnits(t *testing.T) {
	if got := FormatAmount(250000); got != "₹250,000" {
		t.Errorf("FormatAmount = %q, want %q", got, "₹250,000")
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(1234567); got != "1,234,567" {
		t.Errorf("FormatNumber = %q", got)
	}
	if got := FormatNumber(-1000); got != "-1,000" {
		t.Errorf("FormatNumber(-1000) = %q", got)
	}
}

func TestFormatMonths(t *testing.T) {
	cases := []struct {
		months    float64
		unbounded bool
		want      string
	}{
		{0, false, "done"},
		{2.1, false, "3 mo"},
		{24, false, "2y"},
		{14.5, false, "1y 3mo"},
		{0, true, "never"},
	}
	for _, c := range cases {
		if got := FormatMonths(c.months, c.unbounded); got != c.want {
			t.Errorf("FormatMonths(%v, %v) = %q, want %q", c.months, c.unbounded, got, c.want)
		}
	}
}
