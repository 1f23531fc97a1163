package tabular

import (
	"encoding/json"
	"fmt"
)

// Record is one flat row. Values hold what encoding/json produces for the
// column types in use: string, float64 or nil. Housekeeping fields added by
// the local store keep the "_" prefix of the source layout.
type Record map[string]any

const (
	FieldID        = "_id"
	FieldCreatedAt = "_created_at"
)

func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

func (r Record) Float(key string) float64 {
	f, _ := r[key].(float64)
	return f
}

func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Encode flattens a struct into a Record through its json tags.
func Encode(v any) (Record, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return rec, nil
}

// Decode fills a struct from a Record through its json tags. Unknown keys
// (including the housekeeping fields) are ignored.
func Decode(rec Record, v any) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}
