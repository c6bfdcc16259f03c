package shell

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// env lists variables visible to expansion. Runtime-assigned variables show
// their real values; provider-sourced variables are secrets and are always
// masked.
func cmdEnv(ctx context.Context, args []string, cc *commandContext) Result {
	var sb strings.Builder

	names := make([]string, 0, len(cc.env))
	for k := range cc.env {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(&sb, "%s=%s\n", k, cc.env[k])
	}

	if cc.provider != nil {
		keys := cc.provider.Keys()
		sort.Strings(keys)
		for _, k := range keys {
			if _, shadowed := cc.env[k]; shadowed {
				continue
			}
			fmt.Fprintf(&sb, "%s=***\n", k)
		}
	}

	return okResult(sb.String())
}
