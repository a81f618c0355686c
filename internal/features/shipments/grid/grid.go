package grid

import (
	"strconv"

	"shipment-dashboard/internal/features/shipments/domain"
)

// EmptyText is shown instead of a table when there are no records.
const EmptyText = "No shipments found for this account."

// hiddenColumns are never displayed even when present.
var hiddenColumns = map[string]struct{}{
	"account":   {},
	"accountId": {},
	"origin":    {},
	"id":        {},
	"createdAt": {},
	"updatedAt": {},
}

// ColumnOrder is the display order; keys outside it are not shown.
var ColumnOrder = []string{
	"externalId",
	"invoiceCode",
	"status",
	"destination",
	"value",
	"startedAt",
	"deliveryEstimateDate",
	"lastNotifiedAt",
	"carrier",
	"carrierStatus",
	"statusDescription",
}

var labels = map[string]string{
	"externalId":           "#Pedido",
	"status":               "Status",
	"invoiceCode":          "NFe",
	"destination":          "Destino",
	"value":                "Valor",
	"startedAt":            "Iniciado em",
	"deliveryEstimate":     "Prazo de Entrega",
	"carrier":              "Transportadora",
	"carrierStatus":        "Transportadora status",
	"statusDescription":    "Detalhes status",
	"deliveryEstimateDate": "Data Estimada de Entrega",
	"lastNotifiedAt":       "Ultima Notificacao",
}

// Column is one displayed field.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Row is one rendered record.
type Row struct {
	Key   string   `json:"key"`
	Cells []string `json:"cells"`
}

// Grid is a collection ready for display.
type Grid struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
	// Empty is set when there is nothing to show; EmptyText replaces the table.
	Empty     bool   `json:"empty"`
	EmptyText string `json:"emptyText,omitempty"`
}

// Label returns the display label of key, or key itself.
func Label(key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}

// Columns derives the displayed columns: the preferred order restricted to
// keys present in at least one record and not hidden.
func Columns(records []domain.Record) []Column {
	available := make(map[string]struct{})
	for _, r := range records {
		for k := range r {
			if _, hidden := hiddenColumns[k]; !hidden {
				available[k] = struct{}{}
			}
		}
	}

	cols := make([]Column, 0, len(ColumnOrder))
	for _, k := range ColumnOrder {
		if _, ok := available[k]; ok {
			cols = append(cols, Column{Key: k, Label: Label(k)})
		}
	}
	return cols
}

// RowKey identifies a record: its "id", then "_id", then its position.
func RowKey(r domain.Record, index int) string {
	for _, k := range []string{"id", "_id"} {
		if v, ok := r[k]; ok && !v.IsNull() {
			return v.Text()
		}
	}
	return strconv.Itoa(index)
}

// Build renders records with f.
func Build(records []domain.Record, f *Formatter) Grid {
	if len(records) == 0 {
		return Grid{Columns: []Column{}, Rows: []Row{}, Empty: true, EmptyText: EmptyText}
	}

	cols := Columns(records)
	rows := make([]Row, 0, len(records))
	for i, r := range records {
		cells := make([]string, len(cols))
		for j, c := range cols {
			v, ok := r[c.Key]
			cells[j] = f.Cell(c.Key, v, ok)
		}
		rows = append(rows, Row{Key: RowKey(r, i), Cells: cells})
	}
	return Grid{Columns: cols, Rows: rows}
}
