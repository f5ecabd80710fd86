package vm

import (
	"github.com/NovaVoxel/NovaLang/internal/nomc"
)

var listIntrinsics = map[string]intrinsic{
	nomc.RtListNew: func(_ *machine, args []Value) (Value, error) {
		if err := want(args, 0, nomc.RtListNew); err != nil {
			return Value{}, err
		}
		return ListValue(nil), nil
	},
	nomc.RtListAppend: func(_ *machine, args []Value) (Value, error) {
		if err := want(args, 2, nomc.RtListAppend); err != nil {
			return Value{}, err
		}
		if args[0].Kind != VKList {
			return Value{}, kindTrap("append", args[0])
		}
		l := args[0].list()
		l.Items = append(l.Items, args[1])
		return args[0], nil
	},
	nomc.RtListGet: listGet,
	nomc.RtListSet: listSet,
	nomc.RtListLen: func(_ *machine, args []Value) (Value, error) {
		if err := want(args, 1, nomc.RtListLen); err != nil {
			return Value{}, err
		}
		return length(args[0])
	},
}

// listGet is the polymorphic subscript: lists and strings by position,
// maps by key.
func listGet(_ *machine, args []Value) (Value, error) {
	if err := want(args, 2, nomc.RtListGet); err != nil {
		return Value{}, err
	}
	c, k := args[0], args[1]
	switch c.Kind {
	case VKList:
		items := c.list().Items
		i, err := index(k, len(items), "list")
		if err != nil {
			return Value{}, err
		}
		return items[i], nil
	case VKMap:
		return mapGet(c.dict(), k)
	case VKString:
		return charAt(c.Str, k)
	}
	return Value{}, kindTrap("subscript", c)
}

func listSet(_ *machine, args []Value) (Value, error) {
	if err := want(args, 3, nomc.RtListSet); err != nil {
		return Value{}, err
	}
	c, k, v := args[0], args[1], args[2]
	switch c.Kind {
	case VKList:
		items := c.list().Items
		i, err := index(k, len(items), "list")
		if err != nil {
			return Value{}, err
		}
		items[i] = v
		return NilValue(), nil
	case VKMap:
		if !c.dict().Set(k, v) {
			return Value{}, trapf(TrapUnhashable, "unhashable map key kind %s", k.Kind)
		}
		return NilValue(), nil
	}
	return Value{}, kindTrap("item assignment", c)
}

func length(v Value) (Value, error) {
	switch v.Kind {
	case VKList:
		return IntValue(int64(len(v.list().Items))), nil
	case VKMap:
		return IntValue(int64(v.dict().Len())), nil
	case VKString:
		return IntValue(int64(len(graphemes(v.Str)))), nil
	}
	return Value{}, kindTrap("len", v)
}
