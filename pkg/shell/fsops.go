package shell

import (
	"context"
	"fmt"
	"path"
	"strings"
)

func errf(format string, a ...any) error {
	return fmt.Errorf(format, a...)
}

func wrapVerb(verb string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", verb, err)
}

// ls lists the immediate children of a directory, directories marked with a
// trailing "/". Recursive discovery goes through find or an explicit **
// glob, never through ls.
func cmdLs(ctx context.Context, args []string, cc *commandContext) Result {
	target := "."
	for _, a := range args {
		if strings.HasPrefix(a, "-") {
			continue // presentation flags like -l are accepted and ignored
		}
		target = a
	}

	exists, err := cc.fs.Exists(ctx, target)
	if err != nil {
		return errResult("ls: %v", err)
	}
	if !exists && target != "." {
		return errResult("ls: %s: no such file or directory", target)
	}

	isDir, err := cc.fs.IsDirectory(ctx, target)
	if err != nil {
		return errResult("ls: %v", err)
	}
	if !isDir {
		return okResult(target + "\n")
	}

	entries, err := cc.fs.List(ctx, target)
	if err != nil {
		return errResult("ls: %v", err)
	}
	if len(entries) == 0 {
		return okResult("")
	}
	return okResult(strings.Join(entries, "\n") + "\n")
}

// pwd reports the workspace root; all paths are relative to it.
func cmdPwd(ctx context.Context, args []string, cc *commandContext) Result {
	return okResult(".\n")
}

func cmdMkdir(ctx context.Context, args []string, cc *commandContext) Result {
	parents := false
	var dirs []string
	for _, a := range args {
		if a == "-p" {
			parents = true
			continue
		}
		dirs = append(dirs, a)
	}
	if len(dirs) == 0 {
		return errResult("mkdir: missing operand")
	}

	for _, d := range dirs {
		exists, err := cc.fs.Exists(ctx, d)
		if err != nil {
			return errResult("mkdir: %v", err)
		}
		if exists {
			if parents {
				continue // -p is idempotent
			}
			return errResult("mkdir: %s: file exists", d)
		}
		if !parents {
			parent := path.Dir(strings.TrimSuffix(d, "/"))
			if parent != "." && parent != "/" {
				ok, err := cc.fs.IsDirectory(ctx, parent)
				if err != nil {
					return errResult("mkdir: %v", err)
				}
				if !ok {
					return errResult("mkdir: %s: no such file or directory", parent)
				}
			}
		}
		if err := cc.fs.Mkdir(ctx, d); err != nil {
			return errResult("mkdir: %v", err)
		}
	}
	return okResult("")
}

func cmdRm(ctx context.Context, args []string, cc *commandContext) Result {
	recursive := false
	force := false
	var targets []string
	for _, a := range args {
		switch a {
		case "-r", "-R":
			recursive = true
		case "-f":
			force = true
		case "-rf", "-fr":
			recursive = true
			force = true
		default:
			targets = append(targets, a)
		}
	}
	if len(targets) == 0 {
		return errResult("rm: missing operand")
	}

	for _, t := range targets {
		isDir, err := cc.fs.IsDirectory(ctx, t)
		if err != nil {
			return errResult("rm: %v", err)
		}
		if isDir && !recursive {
			return errResult("rm: %s: is a directory (use -r)", t)
		}
		deleted, err := cc.fs.Delete(ctx, t)
		if err != nil {
			return errResult("rm: %v", err)
		}
		if !deleted && !force {
			return errResult("rm: %s: no such file or directory", t)
		}
	}
	return okResult("")
}

func cmdTouch(ctx context.Context, args []string, cc *commandContext) Result {
	if len(args) == 0 {
		return errResult("touch: missing operand")
	}
	for _, t := range args {
		exists, err := cc.fs.Exists(ctx, t)
		if err != nil {
			return errResult("touch: %v", err)
		}
		if exists {
			continue // the workspace tracks no timestamps to bump
		}
		if err := cc.fs.Write(ctx, t, ""); err != nil {
			return errResult("touch: %v", err)
		}
	}
	return okResult("")
}

func cmdCp(ctx context.Context, args []string, cc *commandContext) Result {
	recursive := false
	var paths []string
	for _, a := range args {
		if a == "-r" || a == "-R" {
			recursive = true
			continue
		}
		paths = append(paths, a)
	}
	if len(paths) != 2 {
		return errResult("cp: expected source and destination")
	}
	src, dst := paths[0], paths[1]

	if err := copyPath(ctx, cc, src, dst, recursive, "cp"); err != nil {
		return errResult("%v", err)
	}
	return okResult("")
}

func cmdMv(ctx context.Context, args []string, cc *commandContext) Result {
	if len(args) != 2 {
		return errResult("mv: expected source and destination")
	}
	src, dst := args[0], args[1]

	if err := copyPath(ctx, cc, src, dst, true, "mv"); err != nil {
		return errResult("%v", err)
	}
	if _, err := cc.fs.Delete(ctx, src); err != nil {
		return errResult("mv: %v", err)
	}
	return okResult("")
}

// copyPath copies a file or (recursively) a directory. A destination that is
// an existing directory receives the source under its own basename, matching
// coreutils behavior.
func copyPath(ctx context.Context, cc *commandContext, src, dst string, recursive bool, verb string) error {
	srcIsDir, err := cc.fs.IsDirectory(ctx, src)
	if err != nil {
		return wrapVerb(verb, err)
	}

	if srcIsDir {
		if !recursive {
			return wrapVerb(verb, errf("%s: is a directory (use -r)", src))
		}
		matches, err := cc.fs.Glob(ctx, src+"/**/*")
		if err != nil {
			return wrapVerb(verb, err)
		}
		base := path.Base(strings.TrimSuffix(src, "/"))
		dstRoot := dst
		if dstIsDir, _ := cc.fs.IsDirectory(ctx, dst); dstIsDir {
			dstRoot = path.Join(dst, base)
		}
		for _, m := range matches {
			content, found, err := cc.fs.Read(ctx, m)
			if err != nil {
				return wrapVerb(verb, err)
			}
			if !found {
				continue // directory entry
			}
			prefix := strings.TrimSuffix(strings.TrimPrefix(src, "./"), "/")
			rel := strings.TrimPrefix(m, prefix+"/")
			if err := cc.fs.Write(ctx, path.Join(dstRoot, rel), content); err != nil {
				return wrapVerb(verb, err)
			}
		}
		return nil
	}

	content, found, err := cc.fs.Read(ctx, src)
	if err != nil {
		return wrapVerb(verb, err)
	}
	if !found {
		return wrapVerb(verb, errf("%s: no such file", src))
	}

	target := dst
	if dstIsDir, _ := cc.fs.IsDirectory(ctx, dst); dstIsDir {
		target = path.Join(dst, path.Base(src))
	}
	return wrapVerb(verb, cc.fs.Write(ctx, target, content))
}
