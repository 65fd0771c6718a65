package tools

import (
	"reflect"
	"strings"

	"github.com/tutor-orchestrator/server/internal/agent/model"
)

// IsMissing reports whether an extracted value counts as absent: nil, a
// blank string (whatever the declared type), or an empty list.
func IsMissing(v any) bool {
	switch vv := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(vv) == ""
	case []any:
		return len(vv) == 0
	case []string:
		return len(vv) == 0
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return true
	}
	return false
}

// MissingFields returns required fields of s that are missing from params,
// in schema-declared order.
func (s *Schema) MissingFields(params model.ToolParameters) []string {
	var missing []string
	for _, name := range s.RequiredFields() {
		if IsMissing(params[name]) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Validate partitions extracted parameters into complete and incomplete tools.
// It is a pure function of its input. Unknown tools fail fast.
func (r *Registry) Validate(extracted model.ExtractedParameters) (model.ValidationResult, error) {
	result := model.ValidationResult{
		CompleteTools:   map[string]model.ToolParameters{},
		IncompleteTools: map[string][]string{},
	}
	for name, params := range extracted {
		s, err := r.Lookup(name)
		if err != nil {
			return model.ValidationResult{}, err
		}
		if missing := s.MissingFields(params); len(missing) > 0 {
			result.IncompleteTools[name] = missing
			continue
		}
		complete := make(model.ToolParameters, len(params))
		for k, v := range params {
			complete[k] = v
		}
		result.CompleteTools[name] = complete
	}
	return result, nil
}
