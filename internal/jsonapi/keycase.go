package jsonapi

import (
	"fmt"

	strcase "github.com/stoewer/go-strcase"
)

// KeyCase is the casing of attribute and relationship keys on the wire.
type KeyCase string

const (
	CamelCase KeyCase = "camelCase"
	DashCase  KeyCase = "dash-case"
	SnakeCase KeyCase = "snake_case"
)

// ParseKeyCase validates a configured key case.
func ParseKeyCase(s string) (KeyCase, error) {
	switch KeyCase(s) {
	case CamelCase, DashCase, SnakeCase:
		return KeyCase(s), nil
	case "":
		return CamelCase, nil
	default:
		return "", fmt.Errorf("unknown key case %q", s)
	}
}

// Apply converts an internal name to its wire form.
func (k KeyCase) Apply(name string) string {
	switch k {
	case DashCase:
		return strcase.KebabCase(name)
	case SnakeCase:
		return strcase.SnakeCase(name)
	default:
		return strcase.LowerCamelCase(name)
	}
}

// normalizeKey folds any wire casing to one comparable form.
func normalizeKey(name string) string {
	return strcase.LowerCamelCase(name)
}
