package api

import (
	"encoding/json"
	"fmt"
)

// FieldMap lists, per entity kind, the canonical field names and the server aliases
// that populate them when the canonical field is missing or empty.
var FieldMap = map[string]map[string][]string{
	"partner": {
		"name":  {"firm_name", "shop_name"},
		"phone": {"contact_number"},
	},
	"product": {
		"name": {"product_name"},
	},
	"stock": {
		"product_id": {"id"},
	},
	"ledger": {
		"amount":     {"value"},
		"created_at": {"date"},
		"remarks":    {"description"},
	},
}

// DecodeMapped applies the field map of entity to each row and decodes rows into out.
// An empty entity skips mapping.
func DecodeMapped(entity string, rows []any, out any) error {
	if mapping, ok := FieldMap[entity]; ok {
		for _, row := range rows {
			if obj, ok := row.(map[string]any); ok {
				applyAliases(obj, mapping)
			}
		}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("re-encode rows: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode rows: %w", err)
	}
	return nil
}

// MapObject applies the field map of entity to a single decoded object body
func MapObject(entity string, body []byte, out any) error {
	data, err := parseGeneric(body)
	if err != nil {
		return fmt.Errorf("decode object: %w", err)
	}
	if obj, ok := data.(map[string]any); ok {
		if mapping, ok := FieldMap[entity]; ok {
			applyAliases(obj, mapping)
		}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("re-encode object: %w", err)
	}
	return json.Unmarshal(raw, out)
}

func applyAliases(obj map[string]any, mapping map[string][]string) {
	for canonical, aliases := range mapping {
		if !isEmpty(obj[canonical]) {
			continue
		}
		for _, alias := range aliases {
			if v, ok := obj[alias]; ok && !isEmpty(v) {
				obj[canonical] = v
				break
			}
		}
	}
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	default:
		return false
	}
}
