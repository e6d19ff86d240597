package markup

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single line", "hello", []string{"hello"}},
		{"three paragraphs", "a\n\nb\n\nc", []string{"a", "b", "c"}},
		{"single newline stays", "a\nb", []string{"a\nb"}},
		{"whitespace-only line is blank", "a\n \t\nb", []string{"a", "b"}},
		{"runs of blank lines", "a\n\n\n\n b ", []string{"a", "b"}},
		{"leading and trailing blanks", "\n\na\n\n", []string{"a"}},
		{"empty", "", []string{}},
		{"only whitespace", "  \n\n\t", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
