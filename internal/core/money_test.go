package core

import (
	"math"
	"testing"
)

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1.004, 1.00},
		{1.005, 1.01},
		{2.675, 2.68}, // binary representation of 2.675 is just below the half
		{-2.675, -2.68},
		{-1.005, -1.01},
		{2166.666666666667, 2166.67},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Fatalf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRound2Idempotent(t *testing.T) {
	values := []float64{0, 1.005, 2.675, -2.675, 8791.5887, 1066.18551, 123.456789, -0.015}
	for _, v := range values {
		once := Round2(v)
		if twice := Round2(once); twice != once {
			t.Fatalf("Round2 not idempotent for %v: %v then %v", v, once, twice)
		}
	}
}

func TestSum(t *testing.T) {
	cases := []struct {
		name string
		in   []float64
		want float64
	}{
		{"empty", nil, 0},
		{"plain", []float64{1.10, 2.20, 3.30}, 6.60},
		{"non-finite coerced to zero", []float64{math.NaN(), 5, math.Inf(1)}, 5},
		{"rounds once at the boundary", []float64{1.005, 2}, 3.01},
		{"negative", []float64{-10.555, 0.005}, -10.55},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sum(tc.in...); got != tc.want {
				t.Fatalf("Sum(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"12.34", 12.34, false},
		{"12,34", 12.34, false},
		{" 100 ", 100, false},
		{"12.345", 12.35, false}, // half-up on the third decimal
		{"-5.5", -5.5, false},
		{"", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseAmount(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseAmount(%q) unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseAmount(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
