package domain

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// Field names one of the shipment list filters. The value doubles as the
// query parameter name.
type Field string

const (
	FieldStatus      Field = "status"
	FieldInvoiceCode Field = "invoiceCode"
	FieldExternalID  Field = "externalId"
)

// Fields lists the filters in query order.
var Fields = []Field{FieldStatus, FieldInvoiceCode, FieldExternalID}

// MinActiveLength is the trimmed length a filter value must exceed to apply.
const MinActiveLength = 3

// Filters holds the three text filters of the shipment list.
type Filters struct {
	Status      string
	InvoiceCode string
	ExternalID  string
}

// Get returns the value of field f.
func (f Filters) Get(field Field) string {
	switch field {
	case FieldStatus:
		return f.Status
	case FieldInvoiceCode:
		return f.InvoiceCode
	case FieldExternalID:
		return f.ExternalID
	}
	return ""
}

// With returns a copy of f with field set to value.
func (f Filters) With(field Field, value string) Filters {
	switch field {
	case FieldStatus:
		f.Status = value
	case FieldInvoiceCode:
		f.InvoiceCode = value
	case FieldExternalID:
		f.ExternalID = value
	}
	return f
}

// Active returns the trimmed value when it is long enough to apply, else "".
func Active(value string) string {
	trimmed := strings.TrimSpace(value)
	if utf8.RuneCountInString(trimmed) > MinActiveLength {
		return trimmed
	}
	return ""
}

// Effective returns the filters actually used for querying: each field
// trimmed and gated by MinActiveLength.
func (f Filters) Effective() Filters {
	return Filters{
		Status:      Active(f.Status),
		InvoiceCode: Active(f.InvoiceCode),
		ExternalID:  Active(f.ExternalID),
	}
}

// Query builds the fetch query from the active filters only.
func (f Filters) Query() url.Values {
	q := url.Values{}
	eff := f.Effective()
	for _, field := range Fields {
		if v := eff.Get(field); v != "" {
			q.Set(string(field), v)
		}
	}
	return q
}

// FiltersFromQuery seeds filters from URL query parameters.
func FiltersFromQuery(q url.Values) Filters {
	return Filters{
		Status:      q.Get(string(FieldStatus)),
		InvoiceCode: q.Get(string(FieldInvoiceCode)),
		ExternalID:  q.Get(string(FieldExternalID)),
	}
}

// SyncQuery returns current with the filter parameters rewritten from the
// effective filters of f: active values are set, inactive ones removed.
// Unrelated parameters are kept.
func SyncQuery(current url.Values, f Filters) url.Values {
	next := url.Values{}
	for k, vs := range current {
		next[k] = append([]string(nil), vs...)
	}

	eff := f.Effective()
	for _, field := range Fields {
		if v := eff.Get(field); v != "" {
			next.Set(string(field), v)
		} else {
			next.Del(string(field))
		}
	}
	return next
}

// Location joins a path and a query the way the address bar shows it.
func Location(path string, q url.Values) string {
	if encoded := q.Encode(); encoded != "" {
		return path + "?" + encoded
	}
	return path
}
