package shell

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

func cmdSort(ctx context.Context, args []string, cc *commandContext) Result {
	reverse, numeric, unique := false, false, false
	var files []string
	for _, a := range args {
		switch a {
		case "-r":
			reverse = true
		case "-n":
			numeric = true
		case "-u":
			unique = true
		case "-rn", "-nr":
			reverse = true
			numeric = true
		default:
			if strings.HasPrefix(a, "-") {
				return errResult("sort: invalid option: %s", a)
			}
			files = append(files, a)
		}
	}

	content, err := readInput(ctx, cc, files, "sort")
	if err != nil {
		return errResult("%v", err)
	}
	lines := splitLines(content)
	if len(lines) == 0 {
		return okResult("")
	}

	if numeric {
		sort.SliceStable(lines, func(i, j int) bool {
			return numericValue(lines[i]) < numericValue(lines[j])
		})
	} else {
		sort.Strings(lines)
	}
	if reverse {
		for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
			lines[i], lines[j] = lines[j], lines[i]
		}
	}
	if unique {
		out := lines[:0]
		var prev string
		for i, l := range lines {
			if i == 0 || l != prev {
				out = append(out, l)
			}
			prev = l
		}
		lines = out
	}
	return okResult(strings.Join(lines, "\n") + "\n")
}

// numericValue parses the leading numeric portion of a line the way sort -n
// does: a line with no leading number sorts as zero.
func numericValue(line string) float64 {
	s := strings.TrimSpace(line)
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || c == '.' || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}

func cmdUniq(ctx context.Context, args []string, cc *commandContext) Result {
	counted := false
	var files []string
	for _, a := range args {
		if a == "-c" {
			counted = true
			continue
		}
		files = append(files, a)
	}

	content, err := readInput(ctx, cc, files, "uniq")
	if err != nil {
		return errResult("%v", err)
	}
	lines := splitLines(content)
	if len(lines) == 0 {
		return okResult("")
	}

	var sb strings.Builder
	prev := lines[0]
	count := 1
	emit := func() {
		if counted {
			fmt.Fprintf(&sb, "%7d %s\n", count, prev)
		} else {
			sb.WriteString(prev + "\n")
		}
	}
	for _, l := range lines[1:] {
		if l == prev {
			count++
			continue
		}
		emit()
		prev = l
		count = 1
	}
	emit()
	return okResult(sb.String())
}

func cmdCut(ctx context.Context, args []string, cc *commandContext) Result {
	delim := "\t"
	var fieldSpec string
	var files []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-d":
			if i+1 >= len(args) {
				return errResult("cut: -d requires a value")
			}
			delim = args[i+1]
			i++
		case strings.HasPrefix(a, "-d"):
			delim = a[2:]
		case a == "-f":
			if i+1 >= len(args) {
				return errResult("cut: -f requires a value")
			}
			fieldSpec = args[i+1]
			i++
		case strings.HasPrefix(a, "-f"):
			fieldSpec = a[2:]
		default:
			files = append(files, a)
		}
	}
	if fieldSpec == "" {
		return errResult("cut: you must specify fields with -f")
	}
	fields, err := parseFieldSpec(fieldSpec)
	if err != nil {
		return errResult("cut: %v", err)
	}

	content, rerr := readInput(ctx, cc, files, "cut")
	if rerr != nil {
		return errResult("%v", rerr)
	}

	var sb strings.Builder
	for _, line := range splitLines(content) {
		cols := strings.Split(line, delim)
		var picked []string
		for _, f := range fields {
			if f-1 < len(cols) {
				picked = append(picked, cols[f-1])
			}
		}
		sb.WriteString(strings.Join(picked, delim) + "\n")
	}
	return okResult(sb.String())
}

// parseFieldSpec parses cut's 1-based field list: "1,3" and "2-4" forms.
func parseFieldSpec(spec string) ([]int, error) {
	var fields []int
	for _, part := range strings.Split(spec, ",") {
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			from, err1 := strconv.Atoi(lo)
			to, err2 := strconv.Atoi(hi)
			if err1 != nil || err2 != nil || from < 1 || to < from {
				return nil, errf("invalid field range: %s", part)
			}
			for f := from; f <= to; f++ {
				fields = append(fields, f)
			}
			continue
		}
		f, err := strconv.Atoi(part)
		if err != nil || f < 1 {
			return nil, errf("invalid field: %s", part)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func cmdTr(ctx context.Context, args []string, cc *commandContext) Result {
	deleteMode := false
	var sets []string
	for _, a := range args {
		if a == "-d" {
			deleteMode = true
			continue
		}
		sets = append(sets, a)
	}

	if deleteMode {
		if len(sets) != 1 {
			return errResult("tr: -d expects one set")
		}
		set := expandTrSet(sets[0])
		var sb strings.Builder
		for _, r := range cc.stdin {
			if !strings.ContainsRune(set, r) {
				sb.WriteRune(r)
			}
		}
		return okResult(sb.String())
	}

	if len(sets) != 2 {
		return errResult("tr: expected two sets")
	}
	from := expandTrSet(sets[0])
	to := expandTrSet(sets[1])
	if len(to) == 0 {
		return errResult("tr: empty replacement set")
	}

	var sb strings.Builder
	for _, r := range cc.stdin {
		if idx := strings.IndexRune(from, r); idx >= 0 {
			if idx >= len(to) {
				idx = len(to) - 1
			}
			sb.WriteByte(to[idx])
		} else {
			sb.WriteRune(r)
		}
	}
	return okResult(sb.String())
}

// expandTrSet expands a-z style ranges into their member characters.
func expandTrSet(set string) string {
	var sb strings.Builder
	for i := 0; i < len(set); i++ {
		if i+2 < len(set) && set[i+1] == '-' && set[i+2] >= set[i] {
			for c := set[i]; c <= set[i+2]; c++ {
				sb.WriteByte(c)
			}
			i += 2
			continue
		}
		sb.WriteByte(set[i])
	}
	return sb.String()
}
