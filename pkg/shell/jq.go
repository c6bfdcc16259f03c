package shell

import (
	"context"
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// jq evaluates a minimal JSON query language: .field steps, [] iteration,
// [N] indexing, select(.field OP literal), map(filter), and the terminal
// reducers keys, values and length. -r emits bare strings, -c emits
// single-line JSON, default output is pretty-printed.
func cmdJq(ctx context.Context, args []string, cc *commandContext) Result {
	raw := false
	compact := false
	var positional []string
	for _, a := range args {
		switch a {
		case "-r":
			raw = true
		case "-c":
			compact = true
		default:
			positional = append(positional, a)
		}
	}
	if len(positional) == 0 {
		return errResult("jq: missing filter")
	}
	filter := positional[0]

	var input string
	if len(positional) > 1 {
		content, found, err := cc.fs.Read(ctx, positional[1])
		if err != nil {
			return errResult("jq: %v", err)
		}
		if !found {
			return errResult("jq: %s: no such file", positional[1])
		}
		input = content
	} else {
		input = cc.stdin
	}

	var root interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(input)), &root); err != nil {
		return errResult("jq: invalid JSON input: %v", err)
	}

	state, err := evalJqFilter(filter, root)
	if err != nil {
		return errResult("jq: %v", err)
	}

	var outputs []string
	for _, v := range state.vals {
		s, err := renderJq(v, raw, compact)
		if err != nil {
			return errResult("jq: %v", err)
		}
		outputs = append(outputs, s)
	}
	if len(outputs) == 0 {
		return okResult("")
	}
	return okResult(strings.Join(outputs, "\n") + "\n")
}

type jqState struct {
	vals   []interface{}
	stream bool
}

func evalJqFilter(filter string, root interface{}) (jqState, error) {
	state := jqState{vals: []interface{}{root}}
	for _, step := range splitJqSteps(filter) {
		next, err := evalJqStep(step, state)
		if err != nil {
			return jqState{}, err
		}
		state = next
	}
	return state, nil
}

// splitJqSteps cuts a filter into pipeline-like steps at "|" and at each
// "." that occurs at zero bracket/paren depth, so select(.a == ".") is not
// mis-split.
func splitJqSteps(filter string) []string {
	var steps []string
	var cur strings.Builder
	depth := 0
	var quote byte

	flush := func() {
		s := strings.TrimSpace(cur.String())
		if s != "" {
			steps = append(steps, s)
		}
		cur.Reset()
	}

	for i := 0; i < len(filter); i++ {
		c := filter[i]
		if quote != 0 {
			cur.WriteByte(c)
			if c == quote && filter[i-1] != '\\' {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
			cur.WriteByte(c)
		case '(', '[':
			depth++
			cur.WriteByte(c)
		case ')', ']':
			depth--
			cur.WriteByte(c)
		case '|':
			if depth == 0 {
				flush()
			} else {
				cur.WriteByte(c)
			}
		case '.':
			if depth == 0 && strings.TrimSpace(cur.String()) != "" {
				flush()
			}
			cur.WriteByte(c)
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return steps
}

func evalJqStep(step string, state jqState) (jqState, error) {
	switch {
	case step == ".":
		return state, nil
	case step == "keys":
		return mapJqVals(state, jqKeys)
	case step == "values":
		return mapJqVals(state, jqValues)
	case step == "length":
		return mapJqVals(state, jqLength)
	case strings.HasPrefix(step, "select(") && strings.HasSuffix(step, ")"):
		return evalJqSelect(step[len("select("):len(step)-1], state)
	case strings.HasPrefix(step, "map(") && strings.HasSuffix(step, ")"):
		return evalJqMap(step[len("map("):len(step)-1], state)
	case strings.HasPrefix(step, ".") || strings.HasPrefix(step, "["):
		return evalJqPath(step, state)
	}
	return jqState{}, errf("unrecognized filter step: %s", step)
}

func mapJqVals(state jqState, fn func(interface{}) (interface{}, error)) (jqState, error) {
	out := jqState{stream: state.stream}
	for _, v := range state.vals {
		r, err := fn(v)
		if err != nil {
			return jqState{}, err
		}
		out.vals = append(out.vals, r)
	}
	return out, nil
}

// evalJqPath handles a ".field" step with optional "[N]" / "[]" suffixes,
// and bare "[N]" / "[]" steps.
func evalJqPath(step string, state jqState) (jqState, error) {
	field := ""
	rest := step
	if strings.HasPrefix(step, ".") {
		end := strings.IndexByte(step, '[')
		if end < 0 {
			end = len(step)
		}
		field = step[1:end]
		rest = step[end:]
	}

	if field != "" {
		next, err := mapJqVals(state, func(v interface{}) (interface{}, error) {
			return jqField(v, field)
		})
		if err != nil {
			return jqState{}, err
		}
		state = next
	}

	for rest != "" {
		if !strings.HasPrefix(rest, "[") {
			return jqState{}, errf("unexpected trailing filter text: %s", rest)
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return jqState{}, errf("unterminated index in filter: %s", rest)
		}
		inner := rest[1:end]
		rest = rest[end+1:]

		if inner == "" {
			expanded := jqState{stream: true}
			for _, v := range state.vals {
				arr, ok := v.([]interface{})
				if !ok {
					return jqState{}, errf("cannot iterate over %s", jqTypeName(v))
				}
				expanded.vals = append(expanded.vals, arr...)
			}
			state = expanded
			continue
		}

		idx, err := strconv.Atoi(inner)
		if err != nil {
			return jqState{}, errf("invalid array index: %s", inner)
		}
		next, err := mapJqVals(state, func(v interface{}) (interface{}, error) {
			arr, ok := v.([]interface{})
			if !ok {
				return nil, errf("cannot index %s with number", jqTypeName(v))
			}
			i := idx
			if i < 0 {
				i += len(arr)
			}
			if i < 0 || i >= len(arr) {
				return nil, nil
			}
			return arr[i], nil
		})
		if err != nil {
			return jqState{}, err
		}
		state = next
	}
	return state, nil
}

func jqField(v interface{}, field string) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, errf("cannot index %s with %q", jqTypeName(v), field)
	}
	return obj[field], nil
}

func evalJqSelect(cond string, state jqState) (jqState, error) {
	test, err := parseJqCondition(cond)
	if err != nil {
		return jqState{}, err
	}

	if state.stream {
		out := jqState{stream: true}
		for _, v := range state.vals {
			keep, err := test(v)
			if err != nil {
				return jqState{}, err
			}
			if keep {
				out.vals = append(out.vals, v)
			}
		}
		return out, nil
	}

	out := jqState{}
	for _, v := range state.vals {
		if arr, ok := v.([]interface{}); ok {
			var kept []interface{}
			for _, elem := range arr {
				keep, err := test(elem)
				if err != nil {
					return jqState{}, err
				}
				if keep {
					kept = append(kept, elem)
				}
			}
			if kept == nil {
				kept = []interface{}{}
			}
			out.vals = append(out.vals, kept)
			continue
		}
		keep, err := test(v)
		if err != nil {
			return jqState{}, err
		}
		if keep {
			out.vals = append(out.vals, v)
		}
	}
	return out, nil
}

func evalJqMap(sub string, state jqState) (jqState, error) {
	return mapJqVals(state, func(v interface{}) (interface{}, error) {
		arr, ok := v.([]interface{})
		if !ok {
			return nil, errf("map requires an array, got %s", jqTypeName(v))
		}
		mapped := make([]interface{}, 0, len(arr))
		for _, elem := range arr {
			res, err := evalJqFilter(sub, elem)
			if err != nil {
				return nil, err
			}
			switch len(res.vals) {
			case 0:
				mapped = append(mapped, nil)
			case 1:
				mapped = append(mapped, res.vals[0])
			default:
				mapped = append(mapped, res.vals)
			}
		}
		return mapped, nil
	})
}

var jqCondRe = regexp.MustCompile(`^\s*\.([A-Za-z0-9_.]+)\s*(==|!=|>=|<=|>|<)\s*(.+?)\s*$`)

// parseJqCondition handles select's ".field OP literal" grammar. Literals
// may be a quoted string, true/false/null, or a number.
func parseJqCondition(cond string) (func(interface{}) (bool, error), error) {
	m := jqCondRe.FindStringSubmatch(cond)
	if m == nil {
		return nil, errf("invalid select condition: %s", cond)
	}
	path := strings.Split(m[1], ".")
	op := m[2]
	lit, err := parseJqLiteral(m[3])
	if err != nil {
		return nil, err
	}

	return func(v interface{}) (bool, error) {
		cur := v
		for _, p := range path {
			field, err := jqField(cur, p)
			if err != nil {
				return false, err
			}
			cur = field
		}
		return compareJq(cur, op, lit)
	}, nil
}

func parseJqLiteral(s string) (interface{}, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "true":
		return true, nil
	case s == "false":
		return false, nil
	case s == "null":
		return nil, nil
	case len(s) >= 2 && (s[0] == '"' || s[0] == '\''):
		if s[len(s)-1] != s[0] {
			return nil, errf("unterminated string literal: %s", s)
		}
		return s[1 : len(s)-1], nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errf("invalid literal: %s", s)
	}
	return n, nil
}

func compareJq(v interface{}, op string, lit interface{}) (bool, error) {
	switch op {
	case "==":
		return jqEqual(v, lit), nil
	case "!=":
		return !jqEqual(v, lit), nil
	}

	vn, vok := v.(float64)
	ln, lok := lit.(float64)
	if vok && lok {
		switch op {
		case ">":
			return vn > ln, nil
		case "<":
			return vn < ln, nil
		case ">=":
			return vn >= ln, nil
		case "<=":
			return vn <= ln, nil
		}
	}

	vs, vok2 := v.(string)
	ls, lok2 := lit.(string)
	if vok2 && lok2 {
		switch op {
		case ">":
			return vs > ls, nil
		case "<":
			return vs < ls, nil
		case ">=":
			return vs >= ls, nil
		case "<=":
			return vs <= ls, nil
		}
	}

	return false, errf("cannot compare %s with %s", jqTypeName(v), jqTypeName(lit))
}

func jqEqual(a, b interface{}) bool {
	if an, ok := a.(float64); ok {
		bn, ok2 := b.(float64)
		return ok2 && an == bn
	}
	return a == b
}

func jqKeys(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]interface{}, len(keys))
		for i, k := range keys {
			out[i] = k
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(t))
		for i := range t {
			out[i] = float64(i)
		}
		return out, nil
	}
	return nil, errf("keys requires an object or array, got %s", jqTypeName(v))
}

func jqValues(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]interface{}, len(keys))
		for i, k := range keys {
			out[i] = t[k]
		}
		return out, nil
	case []interface{}:
		return t, nil
	}
	return nil, errf("values requires an object or array, got %s", jqTypeName(v))
}

func jqLength(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case map[string]interface{}:
		return float64(len(t)), nil
	case []interface{}:
		return float64(len(t)), nil
	case string:
		return float64(len(t)), nil
	case nil:
		return float64(0), nil
	}
	return nil, errf("length has no meaning for %s", jqTypeName(v))
}

func jqTypeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	}
	return "value"
}

func renderJq(v interface{}, raw, compact bool) (string, error) {
	if raw {
		if s, ok := v.(string); ok {
			return s, nil
		}
	}
	if compact {
		data, err := json.Marshal(v)
		return string(data), err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	return string(data), err
}
