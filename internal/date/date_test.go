package date

import (
	"encoding/json"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"
)

func TestParseAndString(t *testing.T) {
	d, err := Parse("2026-03-15")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := d.String(); got != "2026-03-15" {
		t.Errorf("String: got %s, want 2026-03-15", got)
	}

	if _, err := Parse("15.03.2026"); err == nil {
		t.Error("Parse accepted a non-ISO date")
	}
	if _, err := Parse("2026-13-01"); err == nil {
		t.Error("Parse accepted month 13")
	}
}

func TestNextWeekday(t *testing.T) {
	// 2026-03-16 is a Monday.
	monday := New(2026, time.March, 16)

	tests := []struct {
		name string
		wd   time.Weekday
		want string
	}{
		{"next friday", time.Friday, "2026-03-20"},
		{"same weekday moves a full week", time.Monday, "2026-03-23"},
		{"next sunday", time.Sunday, "2026-03-22"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := monday.NextWeekday(tt.wd).String(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAddMonthClamped(t *testing.T) {
	tests := []struct {
		name   string
		from   Date
		anchor int
		want   string
	}{
		{"plain month step", New(2026, time.March, 10), 0, "2026-04-10"},
		{"anchor 31 clamps to april 30", New(2026, time.March, 31), 31, "2026-04-30"},
		{"anchor 31 into may stays 31", New(2026, time.April, 30), 31, "2026-05-31"},
		{"jan 31 clamps to feb 28", New(2026, time.January, 31), 31, "2026-02-28"},
		{"december wraps the year", New(2026, time.December, 15), 0, "2027-01-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.AddMonthClamped(tt.anchor).String(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAddYearClamped(t *testing.T) {
	// 2028 is a leap year, 2029 is not.
	leap := New(2028, time.February, 29)
	if got := leap.AddYearClamped().String(); got != "2029-02-28" {
		t.Errorf("got %s, want 2029-02-28", got)
	}
	plain := New(2026, time.July, 4)
	if got := plain.AddYearClamped().String(); got != "2027-07-04" {
		t.Errorf("got %s, want 2027-07-04", got)
	}
}

func TestWeekBounds(t *testing.T) {
	// 2026-03-18 is a Wednesday.
	wed := New(2026, time.March, 18)
	if got := wed.StartOfWeek().String(); got != "2026-03-16" {
		t.Errorf("StartOfWeek: got %s, want 2026-03-16", got)
	}
	if got := wed.EndOfWeek().String(); got != "2026-03-22" {
		t.Errorf("EndOfWeek: got %s, want 2026-03-22", got)
	}

	// Sunday belongs to the week that started the previous Monday.
	sun := New(2026, time.March, 22)
	if got := sun.StartOfWeek().String(); got != "2026-03-16" {
		t.Errorf("StartOfWeek(sunday): got %s, want 2026-03-16", got)
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in   string
		want time.Weekday
		ok   bool
	}{
		{"monday", time.Monday, true},
		{"Fri", time.Friday, true},
		{"TUESDAY", time.Tuesday, true},
		{"someday", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseWeekday(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseWeekday(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	type doc struct {
		Due Date `yaml:"due"`
	}
	in := doc{Due: New(2026, time.May, 1)}
	data, err := yaml.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var out doc
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !out.Due.Equal(in.Due) {
		t.Errorf("round trip: got %s, want %s", out.Due, in.Due)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := New(2026, time.May, 1)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"2026-05-01"` {
		t.Errorf("Marshal: got %s", data)
	}
	var out Date
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !out.Equal(d) {
		t.Errorf("round trip: got %s, want %s", out, d)
	}
}
