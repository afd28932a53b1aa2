// Package validation turns untyped request payloads into validated
// subscription records.
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"philcali.me/subscriptions/internal/data"
	"philcali.me/subscriptions/internal/exceptions"
)

var requiredFields = []string{
	"name",
	"price",
	"renewal_date",
	"duration",
	"type",
	"category",
	"is_shared",
}

// Accepted renewal_date layouts. Date-times without an offset are UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("bson"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks raw against the subscription schema. Every offending
// field is reported in the returned *exceptions.ValidationError.
func Validate(raw map[string]any) (data.SubscriptionInputDTO, error) {
	var input data.SubscriptionInputDTO
	fields := make(map[string]string)
	if raw == nil {
		raw = map[string]any{}
	}
	for _, name := range requiredFields {
		if value, ok := raw[name]; !ok || value == nil {
			fields[name] = "field required"
		}
	}

	if value, ok := present(raw, "name", fields); ok {
		// Blank names are rejected; other names are stored as sent.
		if name, isString := value.(string); !isString {
			fields["name"] = "must be a string"
		} else if strings.TrimSpace(name) == "" {
			fields["name"] = "must not be empty"
		} else {
			input.Name = name
		}
	}
	if value, ok := present(raw, "price", fields); ok {
		if price, err := toNumber(value); err == nil {
			input.Price = price
		} else {
			fields["price"] = err.Error()
		}
	}
	if value, ok := present(raw, "renewal_date", fields); ok {
		if renewal, err := toDateTime(value); err == nil {
			input.RenewalDate = renewal
		} else {
			fields["renewal_date"] = err.Error()
		}
	}
	if value, ok := present(raw, "duration", fields); ok {
		if duration, err := toEnum(value, data.Durations); err == nil {
			input.Duration = duration
		} else {
			fields["duration"] = err.Error()
		}
	}
	if value, ok := present(raw, "type", fields); ok {
		if subscriptionType, err := toEnum(value, data.SubscriptionTypes); err == nil {
			input.Type = subscriptionType
		} else {
			fields["type"] = err.Error()
		}
	}
	if value, ok := present(raw, "category", fields); ok {
		if category, err := toEnum(value, data.Categories); err == nil {
			input.Category = category
		} else {
			fields["category"] = err.Error()
		}
	}
	if value, ok := present(raw, "is_shared", fields); ok {
		if shared, isBool := value.(bool); isBool {
			input.IsShared = shared
		} else {
			fields["is_shared"] = "must be a boolean"
		}
	}
	input.SharedWith = []string{}
	if value, ok := raw["shared_with"]; ok && value != nil {
		if sharedWith, err := toStrings(value); err == nil {
			input.SharedWith = sharedWith
		} else {
			fields["shared_with"] = err.Error()
		}
	}

	if err := validate.Struct(input); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				if _, reported := fields[fe.Field()]; !reported {
					fields[fe.Field()] = describe(fe)
				}
			}
		} else {
			return input, err
		}
	}

	if len(fields) > 0 {
		return input, exceptions.Invalid(fields)
	}
	return input, nil
}

func present(raw map[string]any, name string, fields map[string]string) (any, bool) {
	if _, failed := fields[name]; failed {
		return nil, false
	}
	value, ok := raw[name]
	return value, ok && value != nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

func toNumber(value any) (float64, error) {
	var number float64
	switch v := value.(type) {
	case float64:
		number = v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("must be a number")
		}
		number = f
	case int:
		number = float64(v)
	case int64:
		number = float64(v)
	default:
		return 0, fmt.Errorf("must be a number")
	}
	if math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, fmt.Errorf("must be a finite number")
	}
	return number, nil
}

func toDateTime(value any) (time.Time, error) {
	text, ok := value.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("must be a date-time string")
	}
	text = strings.TrimSpace(text)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date-time: %q", text)
}

func toEnum[E ~string](value any, allowed []E) (E, error) {
	text, ok := value.(string)
	if ok {
		for _, candidate := range allowed {
			if string(candidate) == text {
				return candidate, nil
			}
		}
	}
	names := make([]string, len(allowed))
	for i, candidate := range allowed {
		names[i] = string(candidate)
	}
	return "", fmt.Errorf("must be one of: %s", strings.Join(names, ", "))
}

func toStrings(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return append([]string{}, v...), nil
	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			text, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("item %d must be a string", i)
			}
			items[i] = text
		}
		return items, nil
	}
	return nil, fmt.Errorf("must be a list of strings")
}
