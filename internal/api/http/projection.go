package http

import (
	"encoding/json"
)

// nestedFields names the field keys that live inside a sub-object of the
// product JSON rather than at the top level.
var nestedFields = map[string]string{
	"city":    "location",
	"state":   "location",
	"country": "location",
}

// project keeps only the named JSON fields of each element of items. With
// no fields the items are returned unchanged. Nested keys such as city are
// kept inside their parent object; asking for the parent keeps all of it.
func project[T any](items []T, fields []string) (any, error) {
	if len(fields) == 0 {
		return items, nil
	}
	out := make([]map[string]json.RawMessage, 0, len(items))
	for _, it := range items {
		raw, err := json.Marshal(it)
		if err != nil {
			return nil, err
		}
		var full map[string]json.RawMessage
		if err := json.Unmarshal(raw, &full); err != nil {
			return nil, err
		}
		kept := make(map[string]json.RawMessage, len(fields))
		nested := make(map[string]map[string]json.RawMessage)
		for _, f := range fields {
			if parent, ok := nestedFields[f]; ok {
				v, err := subField(full[parent], f)
				if err != nil {
					return nil, err
				}
				if v != nil {
					if nested[parent] == nil {
						nested[parent] = make(map[string]json.RawMessage)
					}
					nested[parent][f] = v
				}
				continue
			}
			if v, ok := full[f]; ok {
				kept[f] = v
			}
		}
		for parent, sub := range nested {
			if _, whole := kept[parent]; whole {
				continue
			}
			v, err := json.Marshal(sub)
			if err != nil {
				return nil, err
			}
			kept[parent] = v
		}
		out = append(out, kept)
	}
	return out, nil
}

func subField(parent json.RawMessage, key string) (json.RawMessage, error) {
	if len(parent) == 0 {
		return nil, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(parent, &obj); err != nil {
		return nil, err
	}
	return obj[key], nil
}
