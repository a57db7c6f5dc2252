package model

import (
	"testing"
	"time"
)

func TestCategoryFor(t *testing.T) {
	ref := time.Date(2026, 4, 1, 23, 59, 0, 0, time.UTC)
	tests := []struct {
		dob  string
		want Category
	}{
		{"2014-12-31", CategoryCub},
		{"2014-01-01", CategoryCub},
		{"2013-06-15", CategoryScout},
		{"2011-01-01", CategoryScout},
		{"2010-12-31", CategoryRover},
		{"2008-05-05", CategoryRover},
		{"2007-12-31", CategoryAdult},
		{"1980-02-29", CategoryAdult},
		{"", ""},
		{"31.12.2010", ""},
	}
	for _, tt := range tests {
		if got := CategoryFor(tt.dob, ref); got != tt.want {
			t.Errorf("CategoryFor(%q) = %q, want %q", tt.dob, got, tt.want)
		}
	}
}

func TestDivisionValid(t *testing.T) {
	if !DivisionFood.Valid() {
		t.Error("FOOD should be valid")
	}
	for _, d := range []Division{"", "food", "KITCHEN"} {
		if d.Valid() {
			t.Errorf("%q should not be valid", d)
		}
	}
}
