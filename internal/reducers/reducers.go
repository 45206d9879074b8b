// Package reducers provides reference base reducers over value.Value state.
// The conformance harness and the CLI select them by name.
package reducers

import (
	"fmt"
	"slices"
	"sort"

	"github.com/roach88/undoable/history"
	"github.com/roach88/undoable/value"
)

// Reducer is a base reducer over payload values.
type Reducer = history.Reducer[value.Value]

var registry = map[string]Reducer{
	"counter": Counter,
	"list":    List,
}

// Lookup returns the reducer registered under name.
func Lookup(name string) (Reducer, error) {
	r, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown reducer %q: must be one of %v", name, Names())
	}
	return r, nil
}

// Names returns the registered reducer names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Counter keeps an Int. Default 0.
//
//	INCREMENT  adds payload.by (default 1)
//	DECREMENT  subtracts payload.by (default 1)
//	RESET      sets 0
//
// Any other action returns the state it was given.
func Counter(state value.Value, action history.Action) value.Value {
	n, ok := state.(value.Int)
	if !ok {
		return value.Int(0)
	}

	by := int64(1)
	if v, ok := action.Payload.Int("by"); ok {
		by = v
	}

	switch action.Type {
	case "INCREMENT":
		return n + value.Int(by)
	case "DECREMENT":
		return n - value.Int(by)
	case "RESET":
		return value.Int(0)
	}
	return state
}

// List keeps an Array. Default empty.
//
//	PUSH   appends payload.item
//	POP    drops the last item
//	CLEAR  empties the list
//
// The array given is never modified; no-ops return it as is.
func List(state value.Value, action history.Action) value.Value {
	items, ok := state.(value.Array)
	if !ok {
		return value.Array{}
	}

	switch action.Type {
	case "PUSH":
		item := action.Payload.Get("item")
		if item == nil {
			return state
		}
		return append(slices.Clip(items), item)
	case "POP":
		if len(items) == 0 {
			return state
		}
		return slices.Clip(items[:len(items)-1])
	case "CLEAR":
		if len(items) == 0 {
			return state
		}
		return value.Array{}
	}
	return state
}
