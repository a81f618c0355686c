package grid

import (
	"shipment-dashboard/internal/features/shipments/domain"
)

// PayloadColumns is the fixed layout of the payload table.
var PayloadColumns = []Column{
	{Key: "externalId", Label: "External ID"},
	{Key: "status", Label: "Status"},
	{Key: "invoiceCode", Label: "Invoice Code"},
	{Key: "origin", Label: "Origin"},
	{Key: "destination", Label: "Destination"},
	{Key: "value", Label: "Value"},
	{Key: "startedAt", Label: "Started At"},
	{Key: "deliveryEstimate", Label: "Delivery Estimate"},
	{Key: "carrier", Label: "Carrier"},
	{Key: "deliveryEstimateDate", Label: "Delivery Estimate Date"},
	{Key: "updatedAt", Label: "Updated At"},
}

// SampleRecord is displayed when the payload endpoint fails or is empty.
func SampleRecord() domain.Record {
	return domain.Record{
		"externalId":           domain.String("51972830"),
		"status":               domain.String("TRANSPORTE INICIADO"),
		"invoiceCode":          domain.String("30"),
		"origin":               domain.String("SP - Santo André"),
		"destination":          domain.String("CE - Tauá"),
		"value":                domain.String("238.83"),
		"startedAt":            domain.String("2026-01-31T03:00:00.000Z"),
		"deliveryEstimate":     domain.String("17 dias úteis"),
		"carrier":              domain.String("Rápido Figueiredo"),
		"deliveryEstimateDate": domain.String("2026-03-11T03:00:00.000Z"),
		"updatedAt":            domain.String("2026-02-19T00:47:52.455Z"),
	}
}

// PayloadCell formats one payload-table cell.
func (f *Formatter) PayloadCell(column string, v domain.Value, present bool) string {
	switch column {
	case "value":
		return f.Currency(v, present)
	case "startedAt", "deliveryEstimateDate", "updatedAt":
		return f.DateTime(v, present)
	default:
		return Generic(v, present)
	}
}

// BuildPayload renders records in the fixed payload layout. An empty
// collection is replaced by the sample record.
func BuildPayload(records []domain.Record, f *Formatter) Grid {
	if len(records) == 0 {
		records = []domain.Record{SampleRecord()}
	}

	rows := make([]Row, 0, len(records))
	for i, r := range records {
		cells := make([]string, len(PayloadColumns))
		for j, c := range PayloadColumns {
			v, ok := r[c.Key]
			cells[j] = f.PayloadCell(c.Key, v, ok)
		}
		id, _ := r.Get("externalId")
		updated, _ := r.Get("updatedAt")
		key := id.Text() + "-" + updated.Text()
		if _, ok := r["externalId"]; !ok {
			key = RowKey(r, i)
		}
		rows = append(rows, Row{Key: key, Cells: cells})
	}
	return Grid{Columns: PayloadColumns, Rows: rows}
}
