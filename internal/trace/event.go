package trace

import "time"

// Kind is the type of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	}
	return "unknown"
}

// Scope is the granularity of an event; lower values are coarser.
type Scope uint8

const (
	ScopeCommand Scope = iota + 1 // one CLI invocation
	ScopePhase                    // parse, build, lower, pack, launch
	ScopeUnit                     // one source file or compiled unit
	ScopeFunc                     // one VM function call
)

func (s Scope) String() string {
	switch s {
	case ScopeCommand:
		return "command"
	case ScopePhase:
		return "phase"
	case ScopeUnit:
		return "unit"
	case ScopeFunc:
		return "func"
	}
	return "unknown"
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string // "parse", "unit:bin/main.nomc"
	Detail   string
	Elapsed  time.Duration // set on span end
	Extra    map[string]string
}
