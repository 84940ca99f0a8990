package bench

import (
	"fmt"
	"strings"
)

// normalizeResponse collapses the agent's polymorphic return value into an
// answer and a rationale. Unrecognized shapes are stringified into the
// answer with an empty rationale; this is best effort and never fails.
func normalizeResponse(v any) (answer string, rationale string) {
	switch r := v.(type) {
	case nil:
		return "", ""
	case string:
		return r, ""
	case Response:
		return r.Answer, r.Rationale
	case *Response:
		if r == nil {
			return "", ""
		}
		return r.Answer, r.Rationale
	case map[string]any:
		return stringField(r, "answer"), stringField(r, "rationale")
	case map[string]string:
		return r["answer"], r["rationale"]
	case fmt.Stringer:
		return r.String(), ""
	default:
		return fmt.Sprint(v), ""
	}
}

func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
