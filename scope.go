package bindata

import (
	"context"
	"sync"

	"github.com/Velocidex/ordereddict"
	"www.velocidex.com/golang/vfilter"
)

var (
	scope_once sync.Once
	root_scope vfilter.Scope
)

// evalScope is the shared scope lambdas are reduced in. All state
// flows through the lambda argument, so one scope serves every
// evaluation.
func evalScope() vfilter.Scope {
	scope_once.Do(func() {
		root_scope = MakeScope()
	})
	return root_scope
}

// MakeScope builds a vfilter scope that understands the node model:
// lazy environments, structs, arrays and byte strings all participate
// in the associative protocol so deferred expressions can walk
// decoded trees.
func MakeScope() vfilter.Scope {
	result := vfilter.NewScope()
	result.AddProtocolImpl(
		&LazyEnvAssociative{}, &StructAssociative{},
		&ArrayAssociative{}, &ArrayIterator{},
		&StringAssociative{},
	)

	return result
}

type LazyEnvAssociative struct{}

func (self LazyEnvAssociative) Applicable(a vfilter.Any, b vfilter.Any) bool {
	_, ok := a.(*lazyEnv)
	if !ok {
		return false
	}
	_, ok = b.(string)
	return ok
}

func (self LazyEnvAssociative) Associative(scope vfilter.Scope,
	a vfilter.Any, b vfilter.Any) (vfilter.Any, bool) {
	lhs, ok := a.(*lazyEnv)
	if !ok {
		return vfilter.Null{}, false
	}

	rhs, ok := b.(string)
	if !ok {
		return vfilter.Null{}, false
	}

	result, pres := lhs.Resolve(rhs)
	if !pres {
		return vfilter.Null{}, false
	}
	return result, true
}

func (self LazyEnvAssociative) GetMembers(scope vfilter.Scope, a vfilter.Any) []string {
	return nil
}

type StructAssociative struct{}

func (self StructAssociative) Applicable(a vfilter.Any, b vfilter.Any) bool {
	switch a.(type) {
	case *Struct:
		_, ok := b.(string)
		return ok
	}
	return false
}

func (self StructAssociative) Associative(scope vfilter.Scope,
	a vfilter.Any, b vfilter.Any) (vfilter.Any, bool) {
	lhs, ok := a.(*Struct)
	if !ok {
		return vfilter.Null{}, false
	}

	rhs, ok := b.(string)
	if !ok {
		return vfilter.Null{}, false
	}

	switch rhs {
	case "num_bytes":
		size, err := lhs.NumBytes()
		if err != nil {
			return vfilter.Null{}, false
		}
		return size, true

	case "offset":
		offset, err := lhs.Offset()
		if err != nil {
			return vfilter.Null{}, false
		}
		return offset, true

	default:
		value, found, err := lhs.resolveLocal(rhs)
		if err != nil || !found {
			return vfilter.Null{}, false
		}
		return value, true
	}
}

func (self StructAssociative) GetMembers(scope vfilter.Scope, a vfilter.Any) []string {
	lhs, ok := a.(*Struct)
	if !ok {
		return nil
	}
	return lhs.FieldNames()
}

type ArrayAssociative struct{}

func (self ArrayAssociative) Applicable(a vfilter.Any, b vfilter.Any) bool {
	switch a.(type) {
	case *Array:
		switch b.(type) {
		case string, int64, int, uint64:
			return true
		}
	}
	return false
}

func (self ArrayAssociative) Associative(scope vfilter.Scope,
	a vfilter.Any, b vfilter.Any) (vfilter.Any, bool) {
	lhs, ok := a.(*Array)
	if !ok {
		return vfilter.Null{}, false
	}

	idx, ok := to_int64(b)
	if ok {
		element, err := lhs.At(idx)
		if err != nil {
			return vfilter.Null{}, false
		}
		return element_value(element), true
	}

	rhs, ok := b.(string)
	if !ok {
		return vfilter.Null{}, false
	}

	switch rhs {
	case "length", "size":
		return lhs.Len(), true

	case "num_bytes":
		size, err := lhs.NumBytes()
		if err != nil {
			return vfilter.Null{}, false
		}
		return size, true

	default:
		// Fall back to associative over the element values.
		snapshot, err := lhs.Snapshot()
		if err != nil {
			return vfilter.Null{}, false
		}
		return scope.Associative(snapshot, b)
	}
}

func (self ArrayAssociative) GetMembers(scope vfilter.Scope, a vfilter.Any) []string {
	return nil
}

// Arrays also participate in the iterator protocol so foreach style
// expressions can walk them.
type ArrayIterator struct{}

func (self ArrayIterator) Applicable(a vfilter.Any) bool {
	_, ok := a.(*Array)
	return ok
}

func (self ArrayIterator) Iterate(
	ctx context.Context, scope vfilter.Scope, a vfilter.Any) <-chan vfilter.Row {
	output_chan := make(chan vfilter.Row)

	go func() {
		defer close(output_chan)

		obj, ok := a.(*Array)
		if !ok {
			return
		}

		for _, element := range obj.elements {
			var item vfilter.Any

			switch t := element.(type) {
			case *Struct:
				item = t
			default:
				value, err := element.Snapshot()
				if err != nil {
					return
				}
				item = ordereddict.NewDict().Set("_value", value)
			}

			select {
			case <-ctx.Done():
				return

			case output_chan <- item:
			}
		}
	}()

	return output_chan
}

// StringAssociative gives byte strings a length member so
// expressions like "x => x.data.length" work on decoded strings.
type StringAssociative struct{}

func (self StringAssociative) Applicable(a vfilter.Any, b vfilter.Any) bool {
	switch a.(type) {
	case string, []byte:
		rhs, ok := b.(string)
		return ok && (rhs == "length" || rhs == "size")
	}
	return false
}

func (self StringAssociative) Associative(scope vfilter.Scope,
	a vfilter.Any, b vfilter.Any) (vfilter.Any, bool) {
	switch t := a.(type) {
	case string:
		return int64(len(t)), true
	case []byte:
		return int64(len(t)), true
	}
	return vfilter.Null{}, false
}

func (self StringAssociative) GetMembers(scope vfilter.Scope, a vfilter.Any) []string {
	return nil
}

// element_value projects a node into expression space: primitives
// yield their value, containers yield themselves so member access can
// continue.
func element_value(n Node) interface{} {
	switch n.(type) {
	case *Struct, *Array:
		return n
	}

	value, err := n.Snapshot()
	if err != nil {
		return vfilter.Null{}
	}
	return value
}
