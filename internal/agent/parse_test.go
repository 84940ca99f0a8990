package agent

import "testing"

func TestParseJSON(t *testing.T) {
	t.Parallel()

	type out struct {
		Answer string `json:"answer"`
	}

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"plain object", `{"answer": "four"}`, "four", false},
		{"surrounding prose", `Sure! Here you go: {"answer": "four"} hope that helps`, "four", false},
		{"code fence", "```json\n{\"answer\": \"four\"}\n```", "four", false},
		{"bare fence", "```\n{\"answer\": \"four\"}\n```", "four", false},
		{"empty", "   ", "", true},
		{"no object", "just text", "", true},
		{"malformed", `{"answer": `, "", true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var v out
			err := ParseJSON(tt.raw, &v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseJSON(%q): err %v wantErr %v", tt.raw, err, tt.wantErr)
			}
			if v.Answer != tt.want {
				t.Fatalf("ParseJSON(%q): got %q want %q", tt.raw, v.Answer, tt.want)
			}
		})
	}
}
