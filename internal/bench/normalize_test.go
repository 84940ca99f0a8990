package bench

import "testing"

type fakeStringer struct{ s string }

func (f fakeStringer) String() string { return f.s }

func TestNormalizeResponse(t *testing.T) {
	tests := []struct {
		name          string
		in            any
		wantAnswer    string
		wantRationale string
	}{
		{"nil", nil, "", ""},
		{"string", "42", "42", ""},
		{"response value", Response{Answer: "a", Rationale: "r"}, "a", "r"},
		{"response pointer", &Response{Answer: "a"}, "a", ""},
		{"nil response pointer", (*Response)(nil), "", ""},
		{"map any", map[string]any{"answer": "a", "rationale": "r"}, "a", "r"},
		{"map any non-string answer", map[string]any{"answer": 7}, "7", ""},
		{"map string", map[string]string{"answer": "a"}, "a", ""},
		{"stringer", fakeStringer{s: "str"}, "str", ""},
		{"fallback", 3.5, "3.5", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer, rationale := normalizeResponse(tt.in)
			if answer != tt.wantAnswer || rationale != tt.wantRationale {
				t.Fatalf("normalizeResponse: got (%q, %q) want (%q, %q)",
					answer, rationale, tt.wantAnswer, tt.wantRationale)
			}
		})
	}
}
