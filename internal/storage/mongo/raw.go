package mongo

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sortir/internal/domain"
)

// plainValue turns the driver's document types back into plain maps and
// slices. Nested documents under an untyped field decode as primitive.D,
// which encodes to JSON as a list of Key/Value pairs.
func plainValue(v any) any {
	switch t := v.(type) {
	case primitive.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = plainValue(e.Value)
		}
		return out
	case primitive.M:
		out := make(map[string]any, len(t))
		for k, x := range t {
			out[k] = plainValue(x)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			out[k] = plainValue(x)
		}
		return out
	case primitive.A:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = plainValue(x)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = plainValue(x)
		}
		return out
	default:
		return v
	}
}

// plainEvent restores the raw sales payload to the shape it was stored in.
func plainEvent(e *domain.Event) {
	if e.Sales == nil {
		return
	}
	e.Sales = plainValue(e.Sales).(map[string]any)
}

func plainEvents(events []domain.Event) {
	for i := range events {
		plainEvent(&events[i])
	}
}
