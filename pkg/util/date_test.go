package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeVendorLayouts(t *testing.T) {
	want := time.Date(2025, 3, 4, 13, 45, 0, 0, time.UTC)
	for _, s := range []string{"2025-03-04 13:45:00", "20250304T134500Z"} {
		got, ok := ParseTime(s)
		if !ok {
			t.Fatalf("%q: expected ok", s)
		}
		if !got.Equal(want) {
			t.Fatalf("%q: got %v want %v", s, got, want)
		}
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
	ms, ok := ParseTime(strconv.FormatInt(ts*1000, 10))
	if !ok || ms.Unix() != ts {
		t.Fatalf("unexpected unix from ms %v", ms.Unix())
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("gold rallies", 4); got != "gold" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("xau", 10); got != "xau" {
		t.Fatalf("got %q", got)
	}
}

func TestStdDevConventions(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := StdDev(xs, 0); got != 2 {
		t.Fatalf("population std = %v, want 2", got)
	}
	if got := StdDev(xs, 1); got < 2.138 || got > 2.139 {
		t.Fatalf("sample std = %v, want ~2.1381", got)
	}
	if got := StdDev([]float64{1}, 1); got != 0 {
		t.Fatalf("sample std of one value = %v, want 0", got)
	}
}

func TestMedianEvenAndOdd(t *testing.T) {
	if got := Median([]float64{3, 1, 2}); got != 2 {
		t.Fatalf("odd median = %v", got)
	}
	in := []float64{4, 1, 3, 2}
	if got := Median(in); got != 2.5 {
		t.Fatalf("even median = %v", got)
	}
	if in[0] != 4 {
		t.Fatalf("median mutated its input")
	}
}
