package extract

import (
	"encoding/json"
	"math"
	"strings"

	"max.ks1230/split-expenses-bot/internal/entity/expense"
)

const (
	FieldTotal       = "total"
	FieldTitle       = "title"
	FieldCategory    = "category"
	FieldPaidBy      = "paid_by"
	FieldSplitMethod = "split_method"
)

type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindEnum
)

// Field describes one value the model has to fill in. Numbers must be
// positive, strings non-blank and enums one of Enum (Default when empty).
type Field struct {
	Name        string
	Description string
	Kind        Kind
	Enum        []string
	Default     string
}

// Schema is a runtime structural schema. It is rebuilt from the catalog on
// every call so it always matches the current configuration.
type Schema struct {
	Fields []Field
}

func BuildSchema(catalog *expense.Catalog) Schema {
	categories := make([]string, 0, len(catalog.Categories))
	for _, c := range catalog.Categories {
		categories = append(categories, c.Name)
	}
	users := make([]string, 0, len(catalog.Users))
	for _, u := range catalog.Users {
		users = append(users, u.Name)
	}
	splits := catalog.SplitMethodNames()
	var defaultSplit string
	if len(splits) > 0 {
		defaultSplit = splits[0]
	}

	return Schema{Fields: []Field{
		{Name: FieldTotal, Kind: KindNumber, Description: "Total amount of the transaction"},
		{Name: FieldTitle, Kind: KindString, Description: "Short title of the transaction"},
		{Name: FieldCategory, Kind: KindEnum, Enum: categories, Description: "Category of the transaction"},
		{Name: FieldPaidBy, Kind: KindEnum, Enum: users, Description: "Who paid"},
		{Name: FieldSplitMethod, Kind: KindEnum, Enum: splits, Default: defaultSplit, Description: "How the total is split"},
	}}
}

// Values holds a validated payload.
type Values map[string]any

func (v Values) Number(name string) float64 {
	f, _ := v[name].(float64)
	return f
}

func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Validate checks the payload against the schema and returns the normalized
// values together with the names of the fields that are missing or invalid.
func (s Schema) Validate(payload map[string]any) (Values, []string) {
	values := make(Values, len(s.Fields))
	var missing []string
	for _, f := range s.Fields {
		v, ok := f.normalize(payload[f.Name])
		if !ok {
			missing = append(missing, f.Name)
			continue
		}
		values[f.Name] = v
	}
	return values, missing
}

func (f Field) normalize(raw any) (any, bool) {
	switch f.Kind {
	case KindNumber:
		n, ok := toNumber(raw)
		if !ok || n <= 0 || math.IsInf(n, 0) || math.IsNaN(n) {
			return nil, false
		}
		return n, true
	case KindString:
		str, ok := raw.(string)
		if !ok || strings.TrimSpace(str) == "" {
			return nil, false
		}
		return strings.TrimSpace(str), true
	case KindEnum:
		str, _ := raw.(string)
		if str == "" {
			str = f.Default
		}
		for _, e := range f.Enum {
			if e == str {
				return str, true
			}
		}
		return nil, false
	}
	return nil, false
}

func toNumber(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case int:
		return float64(n), true
	}
	return 0, false
}
