package shell

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// nowFunc is the clock; tests pin it.
var nowFunc = time.Now

// date formats an instant with a strftime-style format string. -u selects
// UTC, -d accepts a parseable date string in place of "now", and a +FORMAT
// argument selects the output format.
func cmdDate(ctx context.Context, args []string, cc *commandContext) Result {
	utc := false
	dateStr := ""
	format := "%a %b %e %H:%M:%S %Z %Y"

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-u":
			utc = true
		case a == "-d":
			if i+1 >= len(args) {
				return errResult("date: -d requires a value")
			}
			dateStr = args[i+1]
			i++
		case strings.HasPrefix(a, "+"):
			format = a[1:]
		default:
			return errResult("date: invalid argument: %s", a)
		}
	}

	t := nowFunc()
	if dateStr != "" {
		parsed, err := parseDate(dateStr)
		if err != nil {
			return errResult("date: invalid date: %s", dateStr)
		}
		t = parsed
	}
	if utc {
		t = t.UTC()
	}

	return okResult(strftime(t, format) + "\n")
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
	time.UnixDate,
	"Jan 2 2006",
	"Jan 2, 2006",
	"01/02/2006",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "@") {
		secs, err := strconv.ParseInt(s[1:], 10, 64)
		if err == nil {
			return time.Unix(secs, 0), nil
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errf("unparseable date: %s", s)
}

// strftime maps the supported %-directives onto t. Unknown directives pass
// through literally, matching how coreutils date leaves them visible so the
// caller can spot the typo.
func strftime(t time.Time, format string) string {
	var sb strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch format[i] {
		case 'Y':
			sb.WriteString(fmt.Sprintf("%04d", t.Year()))
		case 'y':
			sb.WriteString(fmt.Sprintf("%02d", t.Year()%100))
		case 'm':
			sb.WriteString(fmt.Sprintf("%02d", int(t.Month())))
		case 'd':
			sb.WriteString(fmt.Sprintf("%02d", t.Day()))
		case 'e':
			sb.WriteString(fmt.Sprintf("%2d", t.Day()))
		case 'H':
			sb.WriteString(fmt.Sprintf("%02d", t.Hour()))
		case 'I':
			h := t.Hour() % 12
			if h == 0 {
				h = 12
			}
			sb.WriteString(fmt.Sprintf("%02d", h))
		case 'M':
			sb.WriteString(fmt.Sprintf("%02d", t.Minute()))
		case 'S':
			sb.WriteString(fmt.Sprintf("%02d", t.Second()))
		case 'j':
			sb.WriteString(fmt.Sprintf("%03d", t.YearDay()))
		case 'a':
			sb.WriteString(t.Format("Mon"))
		case 'A':
			sb.WriteString(t.Weekday().String())
		case 'b', 'h':
			sb.WriteString(t.Format("Jan"))
		case 'B':
			sb.WriteString(t.Month().String())
		case 'p':
			if t.Hour() < 12 {
				sb.WriteString("AM")
			} else {
				sb.WriteString("PM")
			}
		case 'z':
			sb.WriteString(t.Format("-0700"))
		case 'Z':
			sb.WriteString(t.Format("MST"))
		case 's':
			sb.WriteString(strconv.FormatInt(t.Unix(), 10))
		case 'F':
			sb.WriteString(t.Format("2006-01-02"))
		case 'T':
			sb.WriteString(t.Format("15:04:05"))
		case 'R':
			sb.WriteString(t.Format("15:04"))
		case 'D':
			sb.WriteString(t.Format("01/02/06"))
		case 'r':
			sb.WriteString(t.Format("03:04:05 PM"))
		case 'c':
			sb.WriteString(t.Format("Mon Jan  2 15:04:05 2006"))
		case 'n':
			sb.WriteString("\n")
		case 't':
			sb.WriteString("\t")
		case '%':
			sb.WriteString("%")
		default:
			sb.WriteByte('%')
			sb.WriteByte(format[i])
		}
	}
	return sb.String()
}
