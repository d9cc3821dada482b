package core

import (
	"errors"
	"fmt"
	"strings"
)

// Month is a calendar month identified by its canonical index (0 = Yan, 11 = Dek).
type Month int

const (
	Yan Month = iota
	Fev
	Mar
	Apr
	May
	Iyn
	Iyl
	Avq
	Sen
	Okt
	Noy
	Dek
)

// ErrInvalidMonth is matched by every *InvalidMonthError.
var ErrInvalidMonth = errors.New("invalid month")

// InvalidMonthError reports a label outside both month vocabularies.
type InvalidMonthError struct {
	Label string
}

func (e *InvalidMonthError) Error() string {
	return fmt.Sprintf("invalid month %q", e.Label)
}

func (e *InvalidMonthError) Is(target error) bool {
	return target == ErrInvalidMonth
}

var shortLabels = [12]string{"Yan", "Fev", "Mar", "Apr", "May", "İyn", "İyl", "Avq", "Sen", "Okt", "Noy", "Dek"}

var fullLabels = [12]string{"Yanvar", "Fevral", "Mart", "Aprel", "May", "İyun", "İyul", "Avqust", "Sentyabr", "Oktyabr", "Noyabr", "Dekabr"}

// Months returns the twelve months in canonical order.
func Months() []Month {
	out := make([]Month, 12)
	for i := range out {
		out[i] = Month(i)
	}
	return out
}

// ParseMonth maps a 3-letter or full month label onto its canonical month.
func ParseMonth(label string) (Month, error) {
	l := strings.TrimSpace(label)
	for i := 0; i < 12; i++ {
		if matchLabel(l, shortLabels[i]) || matchLabel(l, fullLabels[i]) {
			return Month(i), nil
		}
	}
	return 0, &InvalidMonthError{Label: label}
}

// matchLabel compares labels ignoring case. The dotted capital İ has no
// simple lowercase fold, so both the dotted and the plain form are accepted.
func matchLabel(got, want string) bool {
	if strings.EqualFold(got, want) {
		return true
	}
	if strings.HasPrefix(want, "İ") {
		rest := strings.TrimPrefix(want, "İ")
		return strings.EqualFold(got, "i"+rest)
	}
	return false
}

// Valid reports whether m is one of the twelve canonical months.
func (m Month) Valid() bool {
	return m >= Yan && m <= Dek
}

// Index returns the canonical 0-11 position.
func (m Month) Index() int { return int(m) }

// Number returns the calendar month number, 1-12.
func (m Month) Number() int { return int(m) + 1 }

// String returns the canonical 3-letter label.
func (m Month) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Month(%d)", int(m))
	}
	return shortLabels[m]
}

// FullName returns the long label, e.g. "Yanvar".
func (m Month) FullName() string {
	if !m.Valid() {
		return m.String()
	}
	return fullLabels[m]
}

func (m Month) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, &InvalidMonthError{Label: m.String()}
	}
	return []byte(shortLabels[m]), nil
}

func (m *Month) UnmarshalText(b []byte) error {
	parsed, err := ParseMonth(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
