package model

import (
	"html"
	"strconv"
	"strings"
)

// NormalizeContext - giá trị của các field khác mà rule normalize cần đến
type NormalizeContext struct {
	Status string
}

// Normalize chuyển raw input thành canonical value để lưu. Không bao giờ trả error:
// giá trị không hợp lệ được thay bằng default an toàn.
func Normalize(key FieldKey, raw string, nctx NormalizeContext) string {
	f, ok := FieldByKey(key)
	if !ok {
		return ""
	}

	value := strings.TrimSpace(raw)

	switch f.Kind {
	case KindDate:
		if IsStrictDate(value) {
			return value
		}
		return ""

	case KindUserRef:
		if value == "" && nctx.Status == StatusUnassigned {
			return ""
		}
		return strconv.FormatInt(parseUserID(value), 10)

	case KindEnum:
		if IsStatus(value) {
			return value
		}
		return StatusOptions[0]

	default:
		return CanonicalText(value)
	}
}

// CanonicalText - dạng lưu của text field. Unescape trước để giá trị đã escape
// không bị escape lần hai. Search term và brand facet cũng đi qua đây.
func CanonicalText(s string) string {
	return html.EscapeString(html.UnescapeString(strings.TrimSpace(s)))
}

// NormalizeSubmission normalize toàn bộ field của submission
func NormalizeSubmission(sub Submission) Attributes {
	nctx := NormalizeContext{Status: sub.Value(FieldStatus)}

	attrs := make(Attributes, len(Fields))
	for _, f := range Fields {
		attrs[f.Key] = Normalize(f.Key, sub.Values[f.Key], nctx)
	}
	return attrs
}

// parseUserID: số nguyên không âm, non-numeric → 0
func parseUserID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	if id < 0 {
		return -id
	}
	return id
}

// ComparableUserRef đưa user_ref về dạng "rỗng hoặc số nguyên dương".
// "", "0" và giá trị non-numeric đều là rỗng.
func ComparableUserRef(s string) string {
	id := parseUserID(strings.TrimSpace(s))
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
