package automation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Record is a backend entity relayed verbatim between the ERP API and the host.
// Records are decoded with UseNumber so integer identifiers and minor-unit
// amounts survive the round trip unchanged.
type Record map[string]any

// DecodeRecord parses a JSON object into a Record.
func DecodeRecord(data []byte) (Record, error) {
	var r Record
	if err := decodeJSON(data, &r); err != nil {
		return nil, err
	}
	return r, nil
}

// DecodeRecords parses a JSON array of objects. A null or empty body yields an empty slice.
func DecodeRecords(data []byte) ([]Record, error) {
	records := []Record{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return records, nil
	}
	if err := decodeJSON(trimmed, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ToRecord converts a typed entity into a Record.
func ToRecord(v any) (Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return DecodeRecord(data)
}

// As decodes the record into a typed entity such as Task or Lead.
func As[T any](r Record) (T, error) {
	var out T
	data, err := json.Marshal(r)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("automation: decode record: %w", err)
	}
	return out, nil
}

// ID returns the record identity rendered as a string, or "" when absent.
func (r Record) ID() string {
	return r.String("id")
}

// String renders a scalar field as a string. Missing and null fields yield "".
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// LastModified returns updatedAt, falling back to createdAt.
func (r Record) LastModified() string {
	if ts := r.String("updatedAt"); ts != "" {
		return ts
	}
	return r.String("createdAt")
}

// DedupeKey derives the advisory key the host uses to suppress repeated
// deliveries: "{id}-{updatedAt ?? createdAt}". Records whose timestamp did not
// move produce the same key, so an update that does not bump updatedAt is
// indistinguishable from a redelivery.
func DedupeKey(r Record) string {
	return r.ID() + "-" + r.LastModified()
}

func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("automation: decode json: %w", err)
	}
	return nil
}
