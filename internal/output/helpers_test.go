package output

import "testing"

func TestTruncateMessage_Output(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		maxLen   int
		expected string
	}{
		{name: "Short message", msg: "hello", maxLen: 40, expected: "hello"},
		{name: "Exact length", msg: "1234567890", maxLen: 10, expected: "1234567890"},
		{name: "Over max length", msg: "a very long message here", maxLen: 10, expected: "a very ..."},
		{name: "Empty message", msg: "", maxLen: 40, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := truncateMessage(tt.msg, tt.maxLen)
			if result != tt.expected {
				t.Errorf("truncateMessage(%q, %d) = %q, expected %q", tt.msg, tt.maxLen, result, tt.expected)
			}
		})
	}
}

func TestGetScoreEmoji(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected string
	}{
		{name: "High", score: 0.9, expected: "\U0001F534"},
		{name: "High boundary", score: 0.5, expected: "\U0001F534"},
		{name: "Medium", score: 0.2, expected: "\U0001F7E1"},
		{name: "Low", score: 0.01, expected: "\U0001F7E2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := getScoreEmoji(tt.score)
			if result != tt.expected {
				t.Errorf("getScoreEmoji(%v) = %q, expected %q", tt.score, result, tt.expected)
			}
		})
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Pipe", input: "a|b", expected: "a\\|b"},
		{name: "Asterisk", input: "a*b", expected: "a\\*b"},
		{name: "Underscore", input: "a_b", expected: "a\\_b"},
		{name: "Backtick", input: "a`b", expected: "a\\`b"},
		{name: "Multiple specials", input: "a|b*c_d", expected: "a\\|b\\*c\\_d"},
		{name: "No specials", input: "plain text", expected: "plain text"},
		{name: "Empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := escapeMarkdown(tt.input)
			if result != tt.expected {
				t.Errorf("escapeMarkdown(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestMarkdownComment(t *testing.T) {
	got := markdownComment("Bump commons_logging\r\nFixes build | failure")
	want := "Bump commons\\_logging<br>Fixes build \\| failure"
	if got != want {
		t.Errorf("markdownComment() = %q, expected %q", got, want)
	}
}
