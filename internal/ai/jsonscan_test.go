package ai

import "testing"

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		found bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"surrounding prose", "Here you go: {\"a\":1} thanks", `{"a":1}`, true},
		{"nested", `x {"a":{"b":[{"c":2}]}} y {"z":0}`, `{"a":{"b":[{"c":2}]}}`, true},
		{"brace in string", `{"s":"a } b { c"}`, `{"s":"a } b { c"}`, true},
		{"escaped quote", `{"s":"say \"}\" now"} tail`, `{"s":"say \"}\" now"}`, true},
		{"escaped backslash", `{"s":"C:\\"} }`, `{"s":"C:\\"}`, true},
		{"code fence", "```json\n{\"a\":true}\n```", `{"a":true}`, true},
		{"no brace", "no json here", "", false},
		{"unterminated", `{"a": {"b": 1}`, "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.input)
			if ok != tt.found {
				t.Fatalf("ExtractJSONObject(%q) found = %v, want %v", tt.input, ok, tt.found)
			}
			if got != tt.want {
				t.Errorf("ExtractJSONObject(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
