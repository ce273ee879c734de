package bindata

import (
	"context"
	"fmt"

	"github.com/Velocidex/ordereddict"
	"www.velocidex.com/golang/vfilter"
)

// LazyEvaluator resolves parameter values against a live node's
// parent chain. A value is either a literal (returned as is), a Sym
// naming a binding somewhere up the chain, a compiled vfilter lambda,
// or a DeferredFunc. Symbols and deferred expressions recurse until a
// literal is produced; each hop ascends one level, so recursion depth
// is bounded by the ancestor chain.
type LazyEvaluator struct {
	// The node whose parameter is being evaluated. Supplies the
	// offset and index special resolvers.
	node Node

	// The context in which symbols are looked up; normally the
	// node's parent.
	target Node

	// Literal bindings consulted before any chain walk.
	overrides *ordereddict.Dict
}

func NewLazyEvaluator(node Node, overrides *ordereddict.Dict) *LazyEvaluator {
	result := &LazyEvaluator{
		node:      node,
		overrides: overrides,
	}
	if node != nil {
		result.target = node.Parent()
	}
	return result
}

// evaluatorIn builds an evaluator whose symbol lookups happen
// directly on the given container. Used for record methods, whose
// bare names see the record's own fields.
func evaluatorIn(container Node) *LazyEvaluator {
	return &LazyEvaluator{
		node:   container,
		target: container,
	}
}

func (self *LazyEvaluator) Eval(value interface{}) (interface{}, error) {
	switch t := value.(type) {
	case Sym:
		return self.ResolveName(string(t))

	case *vfilter.Lambda:
		env := &lazyEnv{ev: self}
		result := t.Reduce(context.Background(), evalScope(),
			[]vfilter.Any{env})
		return normalize_value(result), nil

	case DeferredFunc:
		result, err := t(self)
		if err != nil {
			return nil, err
		}
		return self.Eval(result)
	}

	return value, nil
}

// ResolveName binds a bare name in this evaluator's context. The
// special names index, parent and offset resolve against the node
// itself; anything else is searched up the parent chain, first as a
// parameter, then as a field or callable method of a record.
func (self *LazyEvaluator) ResolveName(name string) (interface{}, error) {
	if self.overrides != nil {
		value, pres := self.overrides.Get(name)
		if pres {
			// Overrides are literal - no recursion.
			return value, nil
		}
	}

	switch name {
	case "index":
		return self.Index()

	case "parent":
		return self.ParentEnv()

	case "offset":
		return self.Offset()
	}

	for target := self.target; target != nil; target = target.Parent() {
		value, pres := target.Params().Get(name)
		if pres {
			// Parameter found: its value is evaluated in the
			// owner's own context, one level up.
			up := &LazyEvaluator{node: target, target: target.Parent()}
			return up.Eval(value)
		}

		resolver, ok := target.(local_resolver)
		if ok {
			value, found, err := resolver.resolveLocal(name)
			if err != nil {
				return nil, err
			}
			if found {
				return value, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %v", UnresolvedSymbolError, name)
}

// Index is the position of the nearest containing array element.
func (self *LazyEvaluator) Index() (interface{}, error) {
	child := self.node
	if child == nil {
		return nil, fmt.Errorf("%w: index outside an array", UnresolvedSymbolError)
	}

	for parent := child.Parent(); parent != nil; parent = parent.Parent() {
		array, ok := parent.(*Array)
		if ok {
			idx := array.IndexOf(child)
			if idx >= 0 {
				return idx, nil
			}
		}
		child = parent
	}

	return nil, fmt.Errorf("%w: index outside an array", UnresolvedSymbolError)
}

// Offset is the byte offset from the root at the current field.
func (self *LazyEvaluator) Offset() (interface{}, error) {
	if self.node == nil {
		return int64(0), nil
	}

	offset, err := self.node.Offset()
	return offset, err
}

// ParentEnv exposes the evaluator bound to the node's parent, so
// expressions can reach explicitly up the chain: names resolve as if
// evaluated on the parent itself.
func (self *LazyEvaluator) ParentEnv() (interface{}, error) {
	if self.target == nil {
		return nil, fmt.Errorf("%w: parent at root", UnresolvedSymbolError)
	}
	return &lazyEnv{ev: NewLazyEvaluator(self.target, nil)}, nil
}

// lazyEnv is the value handed to vfilter lambdas as their argument.
// Member access on it resolves through the evaluator, so an
// expression like "x => x.len + 1" sees the same bindings a Sym
// would.
type lazyEnv struct {
	ev *LazyEvaluator
}

func (self *lazyEnv) Resolve(name string) (interface{}, bool) {
	result, err := self.ev.ResolveName(name)
	if err != nil {
		return nil, false
	}
	return result, true
}
