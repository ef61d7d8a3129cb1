package utils

import (
	"strings"
	"unicode"
)

// Slugify 由显示名派生 URL 安全的小写标识
// 非字母数字一律折叠成单个连字符，首尾连字符去掉
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true // 抑制开头的连字符

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
