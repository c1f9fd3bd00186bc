package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate kiểm tra một submission và trả về toàn bộ lỗi theo thứ tự schema,
// lỗi category luôn ở cuối. Slice rỗng nghĩa là hợp lệ.
func Validate(sub Submission) []string {
	status := sub.Value(FieldStatus)

	var messages []string
	for _, f := range Fields {
		if err := validation.Validate(sub.Value(f.Key), fieldRules(f, status)...); err != nil {
			messages = append(messages, err.Error())
		}
	}

	categoryErr := validation.Validate(strings.TrimSpace(sub.Category),
		validation.Required.Error(fmt.Sprintf("The %s field is required; please select a category.", CategoryLabel)),
	)
	if categoryErr != nil {
		messages = append(messages, categoryErr.Error())
	}

	return messages
}

// fieldRules - ozzo dừng ở rule đầu tiên fail nên mỗi field có tối đa một message
func fieldRules(f Field, status string) []validation.Rule {
	switch f.Kind {
	case KindDate:
		invalid := fmt.Sprintf("The %s field has an invalid date format. Please use YYYY-MM-DD.", f.Label)
		return []validation.Rule{
			validation.Required.Error(fmt.Sprintf("The %s field is required.", f.Label)),
			validation.Date(DateLayout).Error(invalid),
			validation.By(strictDate(invalid)),
		}

	case KindEnum:
		return []validation.Rule{
			validation.Required.Error(fmt.Sprintf("The %s field is required; please select a status.", f.Label)),
			validation.In(statusValues()...).Error(fmt.Sprintf("Invalid value selected for the %s field.", f.Label)),
		}

	case KindUserRef:
		return []validation.Rule{
			validation.When(status != StatusUnassigned,
				validation.Required.Error(fmt.Sprintf("The %s field is required; please select a user.", f.Label)),
			),
		}

	default:
		return []validation.Rule{
			validation.Required.Error(fmt.Sprintf("The %s field is required.", f.Label)),
		}
	}
}

// strictDate: re-format phải trùng input (loại "2024-2-1", "2024-02-30")
func strictDate(message string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		if !IsStrictDate(s) {
			return errors.New(message)
		}
		return nil
	}
}

func IsStrictDate(s string) bool {
	t, err := time.Parse(DateLayout, s)
	return err == nil && t.Format(DateLayout) == s
}

func statusValues() []interface{} {
	values := make([]interface{}, len(StatusOptions))
	for i, s := range StatusOptions {
		values[i] = s
	}
	return values
}
