// internal/utils/sanitize.go
package utils

import "strings"

// SanitizeDirName 将课程/模块名称转换为安全的目录名
// 仅保留字母、数字、空格、连字符和下划线，去除尾部空白后将空格替换为下划线
func SanitizeDirName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	cleaned := strings.TrimRight(b.String(), " ")
	return strings.ReplaceAll(cleaned, " ", "_")
}
