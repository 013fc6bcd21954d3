package ui

import "testing"

func TestDetermineLayoutMode(t *testing.T) {
	cases := []struct {
		name string
		cols int
		rows int
		want LayoutMode
	}{
		{"wide", 140, 30, LayoutWide},
		{"wide boundary", 120, 30, LayoutWide},
		{"medium", 100, 30, LayoutMedium},
		{"tall but narrow", 119, 40, LayoutMedium},
		{"too narrow", 79, 30, LayoutTooSmall},
		{"too short", 100, 20, LayoutTooSmall},
		{"minimum medium", 80, 24, LayoutMedium},
	}
	for _, tc := range cases {
		if got := DetermineLayoutMode(tc.cols, tc.rows); got != tc.want {
			t.Fatalf("%s: %dx%d got %v want %v", tc.name, tc.cols, tc.rows, got, tc.want)
		}
	}
}
