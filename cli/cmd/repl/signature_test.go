package repl

import "testing"

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		cursor int
		want   functionCall
	}{
		{"no call", "greeting", 8, functionCall{}},
		{"first arg", "card(", 5, functionCall{"card", 0, true}},
		{"second arg", "card(1, ", 8, functionCall{"card", 1, true}},
		{"nested closed", "card(f(1, 2), ", 14, functionCall{"card", 1, true}},
		{"inner call", "card(f(1, ", 10, functionCall{"f", 1, true}},
		{"list literal", "card([1, 2], x", 14, functionCall{"card", 1, true}},
		{"attribute", "ui.card(", 8, functionCall{"ui.card", 0, true}},
		{"closed", "card(1)", 7, functionCall{}},
		{"grouping", "(1, ", 4, functionCall{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFunctionCall(tt.input, tt.cursor); got != tt.want {
				t.Errorf("detectFunctionCall(%q, %d) = %+v, want %+v",
					tt.input, tt.cursor, got, tt.want)
			}
		})
	}
}

func TestParamIndex(t *testing.T) {
	params := []string{"a", "/", "b", "*rest", "k", "**kw"}

	tests := map[int]int{0: 0, 1: 2, 2: 3, 5: 3}
	for arg, want := range tests {
		if got := paramIndex(params, arg); got != want {
			t.Errorf("paramIndex(%d) = %d, want %d", arg, got, want)
		}
	}

	if got := paramIndex([]string{"a"}, 3); got != -1 {
		t.Errorf("paramIndex past end = %d, want -1", got)
	}
}
