package vm

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/NovaVoxel/NovaLang/internal/nomc"
)

// graphemes splits s into NFC-normalised characters so a base letter and
// its combining marks count as one.
func graphemes(s string) []string {
	s = norm.NFC.String(s)
	out := make([]string, 0, utf8.RuneCountInString(s))
	var it norm.Iter
	it.InitString(norm.NFC, s)
	for !it.Done() {
		out = append(out, string(it.Next()))
	}
	return out
}

func containsString(s, sub string) bool {
	return strings.Contains(norm.NFC.String(s), norm.NFC.String(sub))
}

func charAt(s string, i Value) (Value, error) {
	chars := graphemes(s)
	k, err := index(i, len(chars), "string")
	if err != nil {
		return Value{}, err
	}
	return StrValue(chars[k]), nil
}

var stringIntrinsics = map[string]intrinsic{
	nomc.RtStrConcat: func(_ *machine, args []Value) (Value, error) {
		if err := want(args, 2, nomc.RtStrConcat); err != nil {
			return Value{}, err
		}
		for _, a := range args {
			if a.Kind == VKError {
				return Value{}, kindTrap("concat", a)
			}
		}
		return StrValue(args[0].String() + args[1].String()), nil
	},
	nomc.RtStrLen: func(_ *machine, args []Value) (Value, error) {
		if err := want(args, 1, nomc.RtStrLen); err != nil {
			return Value{}, err
		}
		if args[0].Kind != VKString {
			return Value{}, kindTrap("strlen", args[0])
		}
		return IntValue(int64(len(graphemes(args[0].Str)))), nil
	},
	nomc.RtStrGet: func(_ *machine, args []Value) (Value, error) {
		if err := want(args, 2, nomc.RtStrGet); err != nil {
			return Value{}, err
		}
		if args[0].Kind != VKString {
			return Value{}, kindTrap("charat", args[0])
		}
		return charAt(args[0].Str, args[1])
	},
}
