// internal/utils/sanitize_test.go
package utils

import "testing"

// TestSanitizeDirName 目录名清洗规则
func TestSanitizeDirName(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"Intro to Biology", "Intro_to_Biology"},
		{"Cells!", "Cells"},
		{"a/b\\c", "abc"},
		{"trailing space  ", "trailing_space"},
		{"mixed-case_OK 9", "mixed-case_OK_9"},
		{"中文 name", "_name"},
		{"", ""},
	}
	for _, c := range cases {
		if got := SanitizeDirName(c.input); got != c.expected {
			t.Errorf("SanitizeDirName(%q) = %q, 期望 %q", c.input, got, c.expected)
		}
	}
}
