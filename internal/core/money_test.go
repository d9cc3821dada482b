package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPercent(t *testing.T) {
	cases := []struct {
		part, whole, want string
	}{
		{"50", "200", "25"},
		{"1", "3", "33.33"},
		{"2", "3", "66.67"},
		{"10", "0", "0"},
		{"10", "-5", "0"},
	}
	for _, tc := range cases {
		got := Percent(decimal.RequireFromString(tc.part), decimal.RequireFromString(tc.whole))
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("Percent(%s, %s) = %s, want %s", tc.part, tc.whole, got, tc.want)
		}
	}
}
