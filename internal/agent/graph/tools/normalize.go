package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"

	"github.com/tutor-orchestrator/server/internal/agent/model"
)

// Normalize coerces raw extracted values onto the schema. It never invents a
// value: anything that cannot be coerced, or falls outside the field bounds, is
// dropped (absent). Blank strings on required fields are kept as-is so the
// validator reports them as missing; on optional fields they count as absent.
// Defaults are applied to optional fields that stay absent.
func (s *Schema) Normalize(raw map[string]any) model.ToolParameters {
	out := make(model.ToolParameters, len(s.Fields))
	for _, f := range s.Fields {
		v, ok := raw[f.Name]
		if ok && v != nil {
			if nv, keep := f.coerce(v); keep {
				out[f.Name] = nv
			}
		}
		if _, present := out[f.Name]; !present && !f.Required && f.Default != nil {
			out[f.Name] = f.Default
		}
	}
	return out
}

func (f Field) coerce(v any) (any, bool) {
	if str, ok := v.(string); ok {
		str = strings.TrimSpace(str)
		if str == "" {
			// required blanks stay blank; validator decides
			return "", f.Required
		}
		v = str
	}

	switch f.Type {
	case TypeString:
		str, ok := v.(string)
		if !ok {
			str = strings.TrimSpace(fmt.Sprint(v))
		}
		if len(f.Enum) == 0 {
			return str, true
		}
		return matchEnum(str, f.Enum)

	case TypeInteger:
		n, ok := toInt(v)
		if !ok {
			return nil, false
		}
		if !f.inBounds(n) {
			return nil, false
		}
		return n, true

	case TypeBoolean:
		switch vv := v.(type) {
		case bool:
			return vv, true
		case string:
			b, err := strconv.ParseBool(strings.ToLower(vv))
			if err != nil {
				return nil, false
			}
			return b, true
		}
		return nil, false

	case TypeArray:
		var items []string
		switch vv := v.(type) {
		case []any:
			for _, it := range vv {
				items = append(items, strings.TrimSpace(fmt.Sprint(it)))
			}
		case []string:
			items = vv
		case string:
			items = strings.Split(vv, ",")
		default:
			return nil, false
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			it = strings.TrimSpace(it)
			if it == "" {
				continue
			}
			if len(f.Enum) > 0 {
				m, ok := matchEnum(it, f.Enum)
				if !ok {
					continue
				}
				it = m.(string)
			}
			out = append(out, it)
		}
		return lo.Uniq(out), true
	}
	return v, true
}

func toInt(v any) (int, bool) {
	switch vv := v.(type) {
	case int:
		return vv, true
	case int64:
		return int(vv), true
	case float64:
		if math.IsNaN(vv) || math.IsInf(vv, 0) {
			return 0, false
		}
		return int(math.Round(vv)), true
	case json.Number:
		f, err := vv.Float64()
		if err != nil {
			return 0, false
		}
		return toInt(f)
	case string:
		if n, err := strconv.Atoi(vv); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(vv, 64); err == nil {
			return toInt(f)
		}
	}
	return 0, false
}

func (f Field) inBounds(n int) bool {
	if f.Min != nil && n < *f.Min {
		return false
	}
	return f.Max == nil || n <= *f.Max
}

func canonical(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// minFuzzyLen is the shortest input accepted as an abbreviation of an enum member.
const minFuzzyLen = 3

// matchEnum maps a free-form value onto one enum member: exact canonical match
// first, then a fuzzy subsequence match when the input is long enough and the
// best hit is unambiguous.
func matchEnum(v string, enum []string) (any, bool) {
	c := canonical(v)
	for _, e := range enum {
		if canonical(e) == c {
			return e, true
		}
	}
	if len(c) < minFuzzyLen {
		return nil, false
	}
	ranks := fuzzy.RankFindNormalizedFold(c, enum)
	if len(ranks) == 0 {
		return nil, false
	}
	sort.Sort(ranks)
	if len(ranks) > 1 && ranks[0].Distance == ranks[1].Distance {
		return nil, false
	}
	return ranks[0].Target, true
}
