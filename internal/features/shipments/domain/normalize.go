package domain

import (
	"bytes"
	"encoding/json"
)

// Normalize coerces a shipment response into a collection. It accepts a
// single record, an array of records, or an envelope whose "data" field is
// either. It never fails and keeps backend order:
//
//	null, empty or invalid JSON -> []
//	[a, b]                      -> [a, b]
//	{"data": [a, b]}            -> [a, b]
//	{"data": a}                 -> [a]
//	{"data": null}              -> []
//	a (no "data" key)           -> [a]
//
// Array elements that are not objects become empty records so positions
// are preserved.
func Normalize(payload []byte) []Record {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return []Record{}
	}

	switch payload[0] {
	case '[':
		return decodeArray(payload)
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(payload, &fields); err != nil {
			return []Record{}
		}
		if data, ok := fields["data"]; ok {
			return normalizeData(data)
		}
		return []Record{decodeFields(fields)}
	default:
		return []Record{}
	}
}

func normalizeData(data json.RawMessage) []Record {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []Record{}
	}
	switch data[0] {
	case '[':
		return decodeArray(data)
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return []Record{}
		}
		return []Record{decodeFields(fields)}
	default:
		// null, or a scalar that is not a record
		return []Record{}
	}
}

func decodeArray(data json.RawMessage) []Record {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return []Record{}
	}

	out := make([]Record, 0, len(items))
	for _, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			out = append(out, Record{})
			continue
		}
		out = append(out, decodeFields(fields))
	}
	return out
}

func decodeFields(fields map[string]json.RawMessage) Record {
	rec := make(Record, len(fields))
	for k, raw := range fields {
		var v Value
		if err := v.UnmarshalJSON(raw); err != nil {
			v = Null()
		}
		rec[k] = v
	}
	return rec
}
