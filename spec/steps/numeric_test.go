package steps

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNumeric_Int(t *testing.T) {
	tests := []struct {
		src   string
		want  int
		unset bool
		error bool
	}{
		{src: `"3"`, want: 3},
		{src: `3`, want: 3},
		{src: `3.0`, want: 3},
		{src: `" 7 "`, want: 7},
		{src: `-1`, want: -1},
		{src: `"3.5"`, error: true},
		{src: `3.5`, error: true},
		{src: `"abc"`, error: true},
		{src: `null`, unset: true},
		{src: `""`, unset: true},
		{src: `1e22`, error: true},
		{src: `"99999999999999999999"`, error: true},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			var n Numeric
			if err := json.Unmarshal([]byte(tt.src), &n); err != nil {
				t.Fatal(err)
			}
			v, err := n.Int()
			switch {
			case tt.unset:
				if !errors.Is(err, ErrUnset) {
					t.Fatalf("ErrUnset must be returned: %v", err)
				}
				if n.IsSet() {
					t.Fatal("the value must not be set")
				}
			case tt.error:
				if err == nil {
					t.Fatalf("an error must occur, but got %v", v)
				}
				if n.IntOr(-9) != -9 {
					t.Fatalf("IntOr must fall back to the default")
				}
			default:
				if err != nil {
					t.Fatal(err)
				}
				if v != tt.want {
					t.Fatalf("unexpected value: want %v, got %v", tt.want, v)
				}
			}
		})
	}
}

func TestNumeric_RejectsNonScalars(t *testing.T) {
	var n Numeric
	if err := json.Unmarshal([]byte(`{"a":1}`), &n); err == nil {
		t.Fatal("an object must not decode into a numeric field")
	}
}

func TestNumeric_MarshalJSON(t *testing.T) {
	tests := []struct {
		n    Numeric
		want string
	}{
		{n: NewNumeric(5), want: `5`},
		{n: Numeric{}, want: `null`},
		{n: Numeric{raw: "x", set: true}, want: `"x"`},
	}
	for _, tt := range tests {
		b, err := json.Marshal(tt.n)
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != tt.want {
			t.Fatalf("unexpected JSON: want %v, got %v", tt.want, string(b))
		}
	}
}

func TestFlag(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{src: `true`, want: true},
		{src: `false`, want: false},
		{src: `null`, want: false},
		{src: `1`, want: true},
		{src: `0`, want: false},
		{src: `"1"`, want: true},
		{src: `"true"`, want: true},
		{src: `"YES"`, want: true},
		{src: `"no"`, want: false},
		{src: `"maybe"`, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			var f Flag
			if err := json.Unmarshal([]byte(tt.src), &f); err != nil {
				t.Fatal(err)
			}
			if f.Bool() != tt.want {
				t.Fatalf("unexpected flag: want %v, got %v", tt.want, f.Bool())
			}
		})
	}
}
