package filter

import (
	"bytes"
	"fmt"
	"time"
)

// dateTimeLayouts are tried in order when decoding. The API writes
// DateTimeLayout without a zone; some endpoints append fractions or an
// offset, and date-only values appear in older firms.
var dateTimeLayouts = []string{
	DateTimeLayout,
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02",
}

// DateTime is a timestamp in the API's wire form. Values without a zone are
// read as UTC wall-clock time; output always uses DateTimeLayout.
type DateTime struct {
	time.Time
}

// NewDateTime wraps t.
func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t}
}

// ParseDateTime parses any of the accepted wire forms.
func ParseDateTime(s string) (DateTime, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateTime{Time: t}, nil
		}
	}
	return DateTime{}, fmt.Errorf("invalid date time %q, want %s", s, DateTimeLayout)
}

// String renders the wire form.
func (d DateTime) String() string {
	return d.Format(DateTimeLayout)
}

// MarshalJSON writes a zero value as null.
func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts null and "" as the zero value.
func (d *DateTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		*d = DateTime{}
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("date time must be a JSON string, got %s", data)
	}
	parsed, err := ParseDateTime(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
