package vm

import (
	"github.com/NovaVoxel/NovaLang/internal/nomc"
)

// Iter walks a snapshot taken when the loop starts.
type Iter struct {
	items []Value
	pos   int
}

func (it *Iter) String() string { return "<iterator>" }

func newIter(v Value) (*Iter, error) {
	switch v.Kind {
	case VKList:
		return &Iter{items: append([]Value(nil), v.list().Items...)}, nil
	case VKMap:
		return &Iter{items: v.dict().Keys()}, nil
	case VKString:
		chars := graphemes(v.Str)
		items := make([]Value, len(chars))
		for i, c := range chars {
			items[i] = StrValue(c)
		}
		return &Iter{items: items}, nil
	case VKIter:
		return v.Ref.(*Iter), nil
	}
	return nil, trapf(TrapNotIterable, "%s is not iterable", v.Kind)
}

// newPairIter yields [key, value] lists: index and item for lists and
// strings, key and value for maps.
func newPairIter(v Value) (*Iter, error) {
	switch v.Kind {
	case VKMap:
		d := v.dict()
		keys, vals := d.Keys(), d.Values()
		items := make([]Value, len(keys))
		for i := range keys {
			items[i] = ListValue([]Value{keys[i], vals[i]})
		}
		return &Iter{items: items}, nil
	case VKList, VKString:
		it, err := newIter(v)
		if err != nil {
			return nil, err
		}
		for i, x := range it.items {
			it.items[i] = ListValue([]Value{IntValue(int64(i)), x})
		}
		return it, nil
	}
	return nil, trapf(TrapNotIterable, "%s has no key/value pairs", v.Kind)
}

var iterIntrinsics = map[string]intrinsic{
	nomc.RtIterMake: func(_ *machine, args []Value) (Value, error) {
		if err := want(args, 1, nomc.RtIterMake); err != nil {
			return Value{}, err
		}
		it, err := newIter(args[0])
		if err != nil {
			return Value{}, err
		}
		return iterValue(it), nil
	},
	nomc.RtIterPairs: func(_ *machine, args []Value) (Value, error) {
		if err := want(args, 1, nomc.RtIterPairs); err != nil {
			return Value{}, err
		}
		it, err := newPairIter(args[0])
		if err != nil {
			return Value{}, err
		}
		return iterValue(it), nil
	},
	nomc.RtIterHasNext: func(_ *machine, args []Value) (Value, error) {
		it, err := iterArg(args, nomc.RtIterHasNext)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(it.pos < len(it.items)), nil
	},
	nomc.RtIterNext: func(_ *machine, args []Value) (Value, error) {
		it, err := iterArg(args, nomc.RtIterNext)
		if err != nil {
			return Value{}, err
		}
		if it.pos >= len(it.items) {
			return Value{}, trapf(TrapIterExhausted, "iterator exhausted")
		}
		v := it.items[it.pos]
		it.pos++
		return v, nil
	},
}

func iterArg(args []Value, name string) (*Iter, error) {
	if err := want(args, 1, name); err != nil {
		return nil, err
	}
	if args[0].Kind != VKIter {
		return nil, kindTrap(name, args[0])
	}
	return args[0].Ref.(*Iter), nil
}
