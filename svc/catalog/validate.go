package catalog

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

const MaxNameLength = 200

// rule pairs a check with the message recorded when it fails.
type rule struct {
	field   string
	check   func() bool
	message string
}

// apply evaluates all rules and returns a ValidationError when any fails.
func apply(rules ...rule) error {
	verr := NewValidationError()
	for _, r := range rules {
		if !r.check() {
			verr.Add(r.field, r.message)
		}
	}
	if verr.IsEmpty() {
		return nil
	}
	return verr
}

func required(field, value string) rule {
	return rule{
		field:   field,
		check:   func() bool { return strings.TrimSpace(value) != "" },
		message: "is required",
	}
}

func maxLen(field, value string, max int) rule {
	return rule{
		field:   field,
		check:   func() bool { return utf8.RuneCountInString(value) <= max },
		message: fmt.Sprintf("must be at most %d characters long", max),
	}
}

func nonNegative[T int64 | float64](field string, value T) rule {
	return rule{
		field:   field,
		check:   func() bool { return value >= 0 },
		message: "must be greater than or equal to 0",
	}
}

func httpURL(field, value string) rule {
	return rule{
		field: field,
		check: func() bool {
			u, err := url.ParseRequestURI(value)
			if err != nil {
				return false
			}
			return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
		},
		message: "must be an absolute http or https URL",
	}
}

// validate checks the invariants every stored product satisfies.
func validate(name string, price float64, stock int64, images []string) error {
	rules := []rule{
		required("name", name),
		maxLen("name", name, MaxNameLength),
		nonNegative("price", price),
		nonNegative("stock", stock),
	}
	for i, img := range images {
		rules = append(rules, httpURL(fmt.Sprintf("images[%d]", i), img))
	}
	return apply(rules...)
}
