package model

import "testing"

func TestPitchTypeDisplay(t *testing.T) {
	cases := []struct {
		in   PitchType
		want string
	}{
		{PitchFastball, "Fastball"},
		{"KNUCKLE_CURVE", "Knuckle_curve"},
		{"éclair", "Éclair"},
		{"ñ", "Ñ"},
		{"x", "X"},
		{"", ""},
	}
	for _, c := range cases {
		if got := c.in.Display(); got != c.want {
			t.Errorf("Display(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
