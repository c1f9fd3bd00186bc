package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars   = regexp.MustCompile(`[^a-z0-9-]+`)
	repeatedHyphen = regexp.MustCompile(`-+`)
)

// GenerateSlug: "Máy in Văn phòng" → "may-in-van-phong"
func GenerateSlug(input string) string {
	ascii := RemoveDiacritics(input)
	lower := strings.ToLower(strings.TrimSpace(ascii))
	hyphenated := strings.Join(strings.Fields(lower), "-")
	cleaned := nonSlugChars.ReplaceAllString(hyphenated, "")
	return strings.Trim(repeatedHyphen.ReplaceAllString(cleaned, "-"), "-")
}

// RemoveDiacritics bỏ dấu bằng NFD rồi loại các combining mark.
// "đ"/"Đ" không phân rã được nên thay tay.
func RemoveDiacritics(input string) string {
	input = strings.NewReplacer("đ", "d", "Đ", "D").Replace(input)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, input)
	if err != nil {
		return input
	}
	return out
}
