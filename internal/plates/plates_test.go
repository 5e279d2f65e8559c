package plates

import "testing"

func TestNormalize(t *testing.T) {

	tt := []struct {
		name  string
		plate string
		want  string
	}{
		{name: "lowercase", plate: "abc1234", want: "ABC1234"},
		{name: "whitespace", plate: "  abc1d23 ", want: "ABC1D23"},
		{name: "already canonical", plate: "ABC1234", want: "ABC1234"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.plate); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestIsValid(t *testing.T) {

	tt := []struct {
		name  string
		plate string
		want  bool
	}{
		{name: "old format", plate: "ABC1234", want: true},
		{name: "mercosul", plate: "ABC1D23", want: true},
		{name: "lowercase old format", plate: "abc1234", want: true},
		{name: "too short", plate: "AB1234", want: false},
		{name: "too long", plate: "ABCD1234", want: false},
		{name: "letters only", plate: "ABCDEFG", want: false},
		{name: "empty", plate: "", want: false},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValid(tc.plate); got != tc.want {
				t.Errorf("IsValid(%q): expected %v, got %v", tc.plate, tc.want, got)
			}
		})
	}
}
