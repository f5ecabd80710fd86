package main

import "strings"

// legacyFlags maps the single-dash spellings of the original toolchain to
// cobra long flags. -n and -p are already valid shorthands.
var legacyFlags = map[string]string{
	"-nomc":  "--nomc",
	"-novar": "--novar",
}

// normalizeArgs rewrites legacy invocations:
//
//	nova -n a.nova          -> nova compile -n a.nova
//	nova -p root            -> nova compile -p root
//	nova -nomc a.nomc x y   -> nova run --nomc a.nomc -- x y
//	nova app.novar x        -> nova run --novar app.novar -- x
//
// Arguments after the unit of a run belong to the program, so a "--" is
// inserted in front of them.
func normalizeArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	out := make([]string, 0, len(args)+2)
	switch first := args[0]; {
	case first == "-n" || first == "-p":
		out = append(out, "compile")
	case first == "-nomc" || first == "-novar" || first == "--nomc" || first == "--novar":
		out = append(out, "run")
	case !strings.HasPrefix(first, "-") && (strings.HasSuffix(first, ".novar") || strings.HasSuffix(first, ".nomc")):
		flag := "--novar"
		if strings.HasSuffix(first, ".nomc") {
			flag = "--nomc"
		}
		out = append(out, "run", flag, first)
		return appendProgramArgs(out, args[1:])
	}

	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			return append(out, args[i:]...)
		}
		if long, ok := legacyFlags[a]; ok {
			a = long
		}
		out = append(out, a)
		if (a == "--nomc" || a == "--novar") && i+1 < len(args) {
			out = append(out, args[i+1])
			return appendProgramArgs(out, args[i+2:])
		}
	}
	return out
}

func appendProgramArgs(out, rest []string) []string {
	if len(rest) == 0 {
		return out
	}
	if rest[0] != "--" {
		out = append(out, "--")
	}
	return append(out, rest...)
}
