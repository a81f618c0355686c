package grid

import (
	"math"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"shipment-dashboard/internal/features/shipments/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder is shown for null or missing cells.
const Placeholder = "-"

const currencySymbol = "R$"

// Formatter renders shipment cells for the pt-BR locale.
type Formatter struct {
	loc     *time.Location
	printer *message.Printer
}

// NewFormatter creates a Formatter rendering dates in loc. A nil loc means UTC.
func NewFormatter(loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{
		loc:     loc,
		printer: message.NewPrinter(language.BrazilianPortuguese),
	}
}

// LoadFormatter resolves the named zone, falling back to UTC when unknown.
func LoadFormatter(zone string) *Formatter {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		loc = time.UTC
	}
	return NewFormatter(loc)
}

// Location returns the display zone.
func (f *Formatter) Location() *time.Location { return f.loc }

// Generic is the fallback conversion used for every column without a
// dedicated formatter.
func Generic(v domain.Value, present bool) string {
	if !present || v.IsNull() {
		return Placeholder
	}
	return v.Text()
}

// Cell formats the value of column. present is false when the record has
// no such key.
func (f *Formatter) Cell(column string, v domain.Value, present bool) string {
	switch column {
	case "startedAt", "deliveryEstimateDate", "lastNotifiedAt":
		return f.Date(v, present)
	case "value":
		return f.Currency(v, present)
	default:
		return Generic(v, present)
	}
}

// Date renders a timestamp as dd/mm/yyyy. Values that do not parse are
// passed to Generic.
func (f *Formatter) Date(v domain.Value, present bool) string {
	t, ok := parseTime(v, f.loc)
	if !present || !ok {
		return Generic(v, present)
	}
	return t.In(f.loc).Format("02/01/2006")
}

// DateTime renders a timestamp in the pt-BR medium date, short time style,
// e.g. "31 de jan. de 2026, 00:00".
func (f *Formatter) DateTime(v domain.Value, present bool) string {
	t, ok := parseTime(v, f.loc)
	if !present || !ok {
		return Generic(v, present)
	}
	t = t.In(f.loc)
	return strconv.Itoa(t.Day()) + " de " + monthAbbr[t.Month()-1] + " de " +
		strconv.Itoa(t.Year()) + ", " + t.Format("15:04")
}

// Currency renders a number or numeric string as BRL, e.g. "R$ 1.234,50".
// Anything else is passed to Generic.
func (f *Formatter) Currency(v domain.Value, present bool) string {
	amount, ok := parseAmount(v)
	if !present || !ok {
		return Generic(v, present)
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + currencySymbol + " " + f.printer.Sprint(number.Decimal(amount, number.Scale(2)))
}

var monthAbbr = [12]string{
	"jan.", "fev.", "mar.", "abr.", "mai.", "jun.",
	"jul.", "ago.", "set.", "out.", "nov.", "dez.",
}

// zonedLayouts carry their own offset.
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
}

// localLayouts have no offset and are read in the display zone, so a
// date-only string keeps its calendar day.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseTime accepts ISO-8601 strings and epoch milliseconds.
func parseTime(v domain.Value, loc *time.Location) (time.Time, bool) {
	if ms, ok := v.Float(); ok {
		if math.IsNaN(ms) || math.IsInf(ms, 0) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(ms)).UTC(), true
	}

	s, ok := v.Str()
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseAmount(v domain.Value) (float64, bool) {
	if n, ok := v.Float(); ok {
		return n, true
	}

	s, ok := v.Str()
	if !ok {
		return 0, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
