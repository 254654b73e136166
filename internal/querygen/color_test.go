package querygen

import "testing"

func TestDescribeColorTableHits(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "#0f172a", want: "dark navy"},
		{input: "#3b82f6", want: "bright blue"},
		{input: "#10b981", want: "emerald green"},
		{input: "#ffffff", want: "white"},
		{input: "#FF0000", want: "red"},
		{input: "#0F172A", want: "dark navy"},
	}

	for _, tt := range tests {
		if got := DescribeColor(tt.input); got != tt.want {
			t.Errorf("DescribeColor(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDescribeColorHeuristic(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "#ff9900", want: "orange"},
		{input: "#800000", want: "dark red"},
		{input: "#8000ff", want: "dark purple"},
		{input: "#00ff80", want: "teal"},
		{input: "#00ccff", want: "cyan"},
		{input: "#808080", want: "gray"},
		{input: "#202020", want: "dark gray"},
		{input: "#e0e0e0", want: "light gray"},
	}

	for _, tt := range tests {
		if got := DescribeColor(tt.input); got != tt.want {
			t.Errorf("DescribeColor(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDescribeColorPassthrough(t *testing.T) {
	tests := []string{
		"not-a-color",
		"crimson",
		"#zzz999",
		"#fff",
		"",
	}

	for _, input := range tests {
		if got := DescribeColor(input); got != input {
			t.Errorf("DescribeColor(%q) = %q, want input unchanged", input, got)
		}
	}
}
