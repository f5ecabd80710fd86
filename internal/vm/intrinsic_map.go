package vm

import (
	"github.com/NovaVoxel/NovaLang/internal/nomc"
)

var mapIntrinsics = map[string]intrinsic{
	nomc.RtMapNew: func(_ *machine, args []Value) (Value, error) {
		if err := want(args, 0, nomc.RtMapNew); err != nil {
			return Value{}, err
		}
		return MapValue(NewMap()), nil
	},
	nomc.RtMapGet: func(_ *machine, args []Value) (Value, error) {
		if err := want(args, 2, nomc.RtMapGet); err != nil {
			return Value{}, err
		}
		if args[0].Kind != VKMap {
			return Value{}, kindTrap("map get", args[0])
		}
		return mapGet(args[0].dict(), args[1])
	},
	nomc.RtMapSet: func(m *machine, args []Value) (Value, error) {
		if err := want(args, 3, nomc.RtMapSet); err != nil {
			return Value{}, err
		}
		if args[0].Kind != VKMap {
			return Value{}, kindTrap("map set", args[0])
		}
		return listSet(m, args)
	},
	nomc.RtMapHas: func(_ *machine, args []Value) (Value, error) {
		if err := want(args, 2, nomc.RtMapHas); err != nil {
			return Value{}, err
		}
		switch c := args[0]; c.Kind {
		case VKMap:
			_, ok, hashable := c.dict().Get(args[1])
			if !hashable {
				return Value{}, trapf(TrapUnhashable, "unhashable map key kind %s", args[1].Kind)
			}
			return BoolValue(ok), nil
		case VKList:
			for _, x := range c.list().Items {
				if Equal(x, args[1]) {
					return BoolValue(true), nil
				}
			}
			return BoolValue(false), nil
		case VKString:
			if args[1].Kind != VKString {
				return Value{}, kindTrap("has", args[1])
			}
			return BoolValue(containsString(c.Str, args[1].Str)), nil
		}
		return Value{}, kindTrap("has", args[0])
	},
	nomc.RtMapKeys: func(_ *machine, args []Value) (Value, error) {
		if err := want(args, 1, nomc.RtMapKeys); err != nil {
			return Value{}, err
		}
		if args[0].Kind != VKMap {
			return Value{}, kindTrap("keys", args[0])
		}
		return ListValue(args[0].dict().Keys()), nil
	},
	nomc.RtMapValues: func(_ *machine, args []Value) (Value, error) {
		if err := want(args, 1, nomc.RtMapValues); err != nil {
			return Value{}, err
		}
		if args[0].Kind != VKMap {
			return Value{}, kindTrap("values", args[0])
		}
		return ListValue(args[0].dict().Values()), nil
	},
}

func mapGet(m *Map, k Value) (Value, error) {
	v, ok, hashable := m.Get(k)
	if !hashable {
		return Value{}, trapf(TrapUnhashable, "unhashable map key kind %s", k.Kind)
	}
	if !ok {
		return Value{}, trapf(TrapMissingKey, "key %s not found", k.Repr())
	}
	return v, nil
}
