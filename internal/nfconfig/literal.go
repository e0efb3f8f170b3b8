package nfconfig

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// groovyLiteral renders a cty value as a Groovy literal.
func groovyLiteral(v cty.Value) (string, error) {
	if v.IsNull() {
		return "null", nil
	}
	if !v.IsKnown() {
		return "", fmt.Errorf("value is unknown")
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return strconv.Quote(v.AsString()), nil
	case ty == cty.Number:
		return v.AsBigFloat().Text('f', -1), nil
	case ty == cty.Bool:
		return strconv.FormatBool(v.True()), nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		var items []string
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			s, err := groovyLiteral(elem)
			if err != nil {
				return "", err
			}
			items = append(items, s)
		}
		return "[" + strings.Join(items, ", ") + "]", nil
	case ty.IsMapType() || ty.IsObjectType():
		entries := v.AsValueMap()
		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if len(keys) == 0 {
			return "[:]", nil
		}
		items := make([]string, 0, len(keys))
		for _, k := range keys {
			s, err := groovyLiteral(entries[k])
			if err != nil {
				return "", err
			}
			items = append(items, fmt.Sprintf("%s: %s", strconv.Quote(k), s))
		}
		return "[" + strings.Join(items, ", ") + "]", nil
	default:
		return "", fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}

// closureOrString keeps Groovy closures such as `{ 2.GB * task.attempt }`
// verbatim and quotes everything else.
func closureOrString(s string) string {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		return trimmed
	}
	return strconv.Quote(s)
}
