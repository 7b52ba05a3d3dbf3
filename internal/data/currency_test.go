package data

import (
	"testing"
	"time"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"300.00", 30000},
		{"$299", 29900},
		{"0.00", 0},
		{"1,250.50", 125050},
		{"  $42.5 ", 4250},
		{".75", 75},
		{"7", 700},
	}
	for _, c := range cases {
		got, err := ParseAmount(c.in)
		if err != nil {
			t.Fatalf("ParseAmount(%q) failed: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseAmount(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseAmount_Malformed(t *testing.T) {
	for _, in := range []string{"", "$", "abc", "1.234", "12.3.4", "$12notes"} {
		if got, err := ParseAmount(in); err == nil {
			t.Fatalf("ParseAmount(%q) = %d, expected error", in, got)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{30000, "300.00"},
		{29900, "299.00"},
		{0, "0.00"},
		{5, "0.05"},
		{125050, "1250.50"},
	}
	for _, c := range cases {
		if got := FormatAmount(c.in); got != c.want {
			t.Fatalf("FormatAmount(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

// parse-then-format lands on the normalized decimal form of the input
func TestAmountRoundTrip(t *testing.T) {
	cases := map[string]string{
		"300.00": "300.00",
		"$299":   "299.00",
		"0.00":   "0.00",
	}
	for in, want := range cases {
		minor, err := ParseAmount(in)
		if err != nil {
			t.Fatalf("ParseAmount(%q) failed: %v", in, err)
		}
		if got := FormatAmount(minor); got != want {
			t.Fatalf("FormatAmount(ParseAmount(%q)) = %q, want %q", in, got, want)
		}
	}
}

func TestDonationFormatAmount(t *testing.T) {
	d := NewDonation(time.Time{}, 30000)
	if got := d.FormatAmount(); got != "300.00" {
		t.Fatalf("FormatAmount() = %q, want %q", got, "300.00")
	}
}
