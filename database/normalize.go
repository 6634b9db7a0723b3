package database

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TimeLayout is the textual form of every timestamp returned by the API.
const TimeLayout = time.RFC3339Nano

// Normalize returns a copy of doc fit for a response: _id becomes a string id
// and every timestamp or object id value is rendered as text.
func Normalize(doc bson.M) map[string]any {
	if doc == nil {
		return nil
	}
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == "_id" {
			if v != nil {
				out["id"] = normalizeValue(v)
			}
			continue
		}
		out[k] = normalizeValue(v)
	}
	return out
}

// NormalizeAll applies Normalize to each document. The result is never nil.
func NormalizeAll(docs []bson.M) []map[string]any {
	out := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		out = append(out, Normalize(d))
	}
	return out
}

// FormatTime renders t in the API's timestamp format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return FormatTime(val.Time())
	case time.Time:
		return FormatTime(val)
	case *time.Time:
		if val == nil {
			return nil
		}
		return FormatTime(*val)
	case bson.M:
		return Normalize(val)
	case primitive.D:
		return Normalize(val.Map())
	case primitive.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
