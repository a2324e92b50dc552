package normalize

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var jsonNull = []byte("null")

// Sanitize trims s and maps the literal text "null" to "".
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "null") {
		return ""
	}
	return s
}

// NormalizeTitle returns a committee title fit for display.
func NormalizeTitle(s string) string {
	return Sanitize(s)
}

// Text is an upstream free-text field, sanitized on decode.
type Text string

// UnmarshalJSON accepts strings, numbers and null.
func (t *Text) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, jsonNull) {
		*t = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var n json.Number
		if numErr := json.Unmarshal(b, &n); numErr != nil {
			return err
		}
		s = n.String()
	}

	*t = Text(Sanitize(s))
	return nil
}

// String returns the sanitized text.
func (t Text) String() string {
	return string(t)
}

// ID is an upstream identifier sent either as a number or a string.
type ID string

// UnmarshalJSON accepts numbers, strings and null.
func (id *ID) UnmarshalJSON(b []byte) error {
	var t Text
	if err := t.UnmarshalJSON(b); err != nil {
		return err
	}
	*id = ID(t)
	return nil
}

// Int is an upstream integer sent either as a number or a numeric string.
// Null and unparseable values decode to 0.
type Int int

// UnmarshalJSON accepts numbers, numeric strings and null.
func (i *Int) UnmarshalJSON(b []byte) error {
	var t Text
	if err := t.UnmarshalJSON(b); err != nil {
		return err
	}

	if n, err := strconv.Atoi(string(t)); err == nil {
		*i = Int(n)
		return nil
	}
	if f, err := strconv.ParseFloat(string(t), 64); err == nil {
		*i = Int(int(f))
		return nil
	}

	*i = 0
	return nil
}

// Amount is an upstream money value sent as a number or a numeric string.
// Null, empty and unparseable values decode as missing.
type Amount struct {
	decimal.NullDecimal
}

// UnmarshalJSON accepts numbers, numeric strings, "" and null.
func (a *Amount) UnmarshalJSON(b []byte) error {
	var t Text
	if err := t.UnmarshalJSON(b); err != nil {
		return err
	}

	a.NullDecimal = decimal.NullDecimal{}
	if t == "" {
		return nil
	}
	d, err := decimal.NewFromString(string(t))
	if err != nil {
		return nil
	}
	a.NullDecimal = decimal.NewNullDecimal(d)
	return nil
}

// Value returns the decimal and whether one was present.
func (a Amount) Value() (decimal.Decimal, bool) {
	return a.Decimal, a.Valid
}

// firstText returns the first non-empty value.
func firstText(values ...Text) string {
	for _, v := range values {
		if v != "" {
			return string(v)
		}
	}
	return ""
}
