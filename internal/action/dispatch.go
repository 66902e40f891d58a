package action

import "fmt"

type variant struct {
	descriptor Descriptor
	parse      func(args []string) (Action, error)
}

func lift[A Action](parse func([]string) (A, error)) func([]string) (Action, error) {
	return func(args []string) (Action, error) {
		a, err := parse(args)
		if err != nil {
			return nil, err
		}
		return a, nil
	}
}

var registry = []variant{
	{descriptor: initDescriptor, parse: lift(ParseInit)},
	{descriptor: addDescriptor, parse: lift(ParseAdd)},
	{descriptor: listDescriptor, parse: lift(ParseList)},
	{descriptor: removeDescriptor, parse: lift(ParseRemove)},
	{descriptor: availableDescriptor, parse: lift(ParseAvailable)},
	{descriptor: depsDescriptor, parse: lift(ParseDependencies)},
	{descriptor: publishDescriptor, parse: lift(ParsePublish)},
}

// Catalog returns every known action in registration order.
func Catalog() []Descriptor {
	out := make([]Descriptor, 0, len(registry))
	for _, v := range registry {
		out = append(out, v.descriptor)
	}
	return out
}

// Resolve selects an action by its first argument and builds it from the
// rest. Selection failures return *SelectionError; argument failures return
// the action's *ParseError.
func Resolve(args []string) (Action, error) {
	if len(args) == 0 {
		return nil, &SelectionError{Reason: "an action name is required", Catalog: Catalog()}
	}
	name := args[0]
	for _, v := range registry {
		if v.descriptor.Name == name {
			return v.parse(args[1:])
		}
	}
	return nil, &SelectionError{Reason: fmt.Sprintf("invalid action name '%s'", name), Catalog: Catalog()}
}

// Handlers holds at most one handler per action. A nil handler means the
// caller does not act on that variant.
type Handlers struct {
	Init         func(Init) error
	Add          func(Add) error
	List         func(List) error
	Remove       func(Remove) error
	Available    func(Available) error
	Dependencies func(Dependencies) error
	Publish      func(Publish) error
}

// Dispatch runs the handler registered for a's variant and reports whether
// one was run.
func Dispatch(a Action, h Handlers) (bool, error) {
	switch a := a.(type) {
	case Init:
		if h.Init == nil {
			return false, nil
		}
		return true, h.Init(a)
	case Add:
		if h.Add == nil {
			return false, nil
		}
		return true, h.Add(a)
	case List:
		if h.List == nil {
			return false, nil
		}
		return true, h.List(a)
	case Remove:
		if h.Remove == nil {
			return false, nil
		}
		return true, h.Remove(a)
	case Available:
		if h.Available == nil {
			return false, nil
		}
		return true, h.Available(a)
	case Dependencies:
		if h.Dependencies == nil {
			return false, nil
		}
		return true, h.Dependencies(a)
	case Publish:
		if h.Publish == nil {
			return false, nil
		}
		return true, h.Publish(a)
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("unhandled action %T", a)
	}
}
