package steps

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

var ErrUnset = errors.New("value is not set")

// Numeric is an integer field that producers emit either as a JSON number or as a string.
type Numeric struct {
	raw string
	set bool
}

func NewNumeric(n int) Numeric {
	return Numeric{
		raw: strconv.Itoa(n),
		set: true,
	}
}

func (n *Numeric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = Numeric{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Numeric{
			raw: strings.TrimSpace(s),
			set: true,
		}
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("numeric field must be a number or a string: %w", err)
	}
	*n = Numeric{
		raw: num.String(),
		set: true,
	}
	return nil
}

func (n Numeric) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	if v, err := n.Int(); err == nil {
		return []byte(strconv.Itoa(v)), nil
	}
	return json.Marshal(n.raw)
}

func (n Numeric) IsSet() bool {
	return n.set && n.raw != ""
}

func (n Numeric) String() string {
	return n.raw
}

// Int returns the integer value. Integral floats such as `3.0` are accepted.
func (n Numeric) Int() (int, error) {
	if !n.IsSet() {
		return 0, ErrUnset
	}
	if v, err := strconv.ParseInt(n.raw, 10, 64); err == nil {
		return safecast.Conv[int](v)
	}
	f, err := strconv.ParseFloat(n.raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", n.raw)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%q is not an integer", n.raw)
	}
	return safecast.Convert[int](f)
}

// IntOr returns the integer value or def when the value is unset or unreadable.
func (n Numeric) IntOr(def int) int {
	v, err := n.Int()
	if err != nil {
		return def
	}
	return v
}

// Flag is a boolean field that producers emit either as a JSON boolean, a number or a string.
// Decoding a Flag never fails.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null":
		*f = false
		return nil
	case "true":
		*f = true
		return nil
	case "false":
		*f = false
		return nil
	}
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}
	// Anything that isn't a recognizable truthy value reads as false.
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y":
		*f = true
	default:
		*f = false
	}
	return nil
}

func (f Flag) Bool() bool {
	return bool(f)
}
