package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultTimezone es la zona civil en la que opera la clínica.
const DefaultTimezone = "Asia/Kolkata"

const layout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// Date es un día civil, sin hora ni zona. El valor cero significa "sin fecha".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf trunca un instante al día civil en loc.
func DateOf(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

func NewDate(year int, month time.Month, day int) Date {
	// Normaliza (p.ej. 31 de abril => 1 de mayo) igual que time.Date.
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC), time.UTC)
}

// ParseDate acepta YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t, time.UTC), nil
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// midnightUTC se usa sólo para aritmética de días; nunca se expone.
func (d Date) midnightUTC() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.midnightUTC().AddDate(0, 0, n), time.UTC)
}

// DaysUntil devuelve other - d en días (negativo si other es anterior).
func (d Date) DaysUntil(other Date) int {
	return int(other.midnightUTC().Sub(d.midnightUTC()).Hours() / 24)
}

func (d Date) Equal(other Date) bool { return d == other }

func (d Date) Before(other Date) bool { return d.midnightUTC().Before(other.midnightUTC()) }

func (d Date) After(other Date) bool { return d.midnightUTC().After(other.midnightUTC()) }

// In devuelve la medianoche de d en loc.
func (d Date) In(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Bounds devuelve el rango inclusivo [start, end] de instantes que cubren el día en loc.
func (d Date) Bounds(loc *time.Location) (time.Time, time.Time) {
	start := d.In(loc)
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.midnightUTC().Format(layout)
}

// Format usa layouts de time (p.ej. "02 Jan 2006").
func (d Date) Format(layout string) string {
	if d.IsZero() {
		return ""
	}
	return d.midnightUTC().Format(layout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// LoadLocation resuelve una zona IANA. Si la base tz no está disponible
// (imágenes mínimas) y se pidió la zona por defecto, usa +05:30 fijo.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err == nil {
		return loc, nil
	}
	if name == DefaultTimezone {
		return time.FixedZone("IST", 5*3600+30*60), nil
	}
	return nil, fmt.Errorf("load timezone %q: %w", name, err)
}

// Calendar combina la zona civil con un reloj inyectable.
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

func New(loc *time.Location, now func() time.Time) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Calendar{loc: loc, now: now}
}

func (c *Calendar) Location() *time.Location { return c.loc }

func (c *Calendar) Now() time.Time { return c.now() }

func (c *Calendar) Today() Date { return DateOf(c.now(), c.loc) }

func (c *Calendar) DateOf(t time.Time) Date { return DateOf(t, c.loc) }

func (c *Calendar) DayBounds(d Date) (time.Time, time.Time) { return d.Bounds(c.loc) }
