// File: cypher.go
// Role: Cypher text assembly — literal encoding, parameter substitution,
// reply flattening. Pure functions, testable without a live store.
package store

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// encodeLiteral renders a Go value as a Cypher literal. Strings are
// single-quoted with backslash escaping; nil becomes null. Only the types
// the persisted layout actually stores are accepted.
func encodeLiteral(v interface{}) (string, error) {
	switch x := v.(type) {
	case nil:
		return "null", nil
	case string:
		return quoteString(x), nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case []string:
		parts := make([]string, len(x))
		for i, s := range x {
			parts[i] = quoteString(s)
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	default:
		return "", fmt.Errorf("store: unsupported literal type %T", v)
	}
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\', '\'':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// substituteParams inlines $name placeholders with encoded literals.
// Parameter names are substituted longest-first so $agent_id never
// partially matches inside $agent_id_list. An unreferenced parameter is an
// error: it almost always means a typo'd placeholder.
func substituteParams(cypher string, params map[string]interface{}) (string, error) {
	if len(params) == 0 {
		return cypher, nil
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	out := cypher
	for _, name := range names {
		placeholder := "$" + name
		if !strings.Contains(out, placeholder) {
			return "", fmt.Errorf("store: query does not reference parameter %q", placeholder)
		}
		lit, err := encodeLiteral(params[name])
		if err != nil {
			return "", fmt.Errorf("store: parameter %q: %w", name, err)
		}
		out = strings.ReplaceAll(out, placeholder, lit)
	}
	return out, nil
}

// propsFragment renders a property map as "{k: v, ...}" with keys sorted
// for deterministic query text (stable text keeps server-side query caches
// warm across generations).
func propsFragment(props map[string]interface{}) (string, error) {
	if len(props) == 0 {
		return "{}", nil
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		lit, err := encodeLiteral(props[k])
		if err != nil {
			return "", fmt.Errorf("store: property %q: %w", k, err)
		}
		parts = append(parts, k+": "+lit)
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}

// parseReply flattens a GRAPH.QUERY RESP reply into rows. FalkorDB replies
// are a three-element array [header, result rows, statistics]; write-only
// queries reply with statistics alone, which parse as zero rows.
func parseReply(reply interface{}) ([]Row, error) {
	top, ok := reply.([]interface{})
	if !ok {
		return nil, fmt.Errorf("store: unexpected reply shape %T", reply)
	}
	if len(top) < 3 {
		return nil, nil
	}
	rawRows, ok := top[1].([]interface{})
	if !ok {
		return nil, fmt.Errorf("store: unexpected result-set shape %T", top[1])
	}
	rows := make([]Row, 0, len(rawRows))
	for _, raw := range rawRows {
		cols, ok := raw.([]interface{})
		if !ok {
			return nil, fmt.Errorf("store: unexpected row shape %T", raw)
		}
		rows = append(rows, Row(cols))
	}
	return rows, nil
}
