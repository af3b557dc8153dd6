package event

import (
	"fmt"

	"github.com/keshon/slashkit/pkg/decl"
)

// Binding is one method bound to its owning instance, ready to attach.
type Binding struct {
	Name    string
	Once    bool
	Method  string
	Owner   any
	Handler any
}

type handlerEntry struct {
	instance any
	index    map[string]int
	events   []Binding
}

// Registry holds one instance per handler class and the events its methods
// listen to.
type Registry struct {
	order    []decl.Key
	handlers map[decl.Key]*handlerEntry
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[decl.Key]*handlerEntry)}
}

// RegisterHandler instantiates class unless it is already registered.
func (r *Registry) RegisterHandler(class decl.Class) error {
	if _, ok := r.handlers[class.Key]; ok {
		return nil
	}
	if class.New == nil {
		return fmt.Errorf("%w: class %q has no constructor", ErrMalformedDeclaration, class.Key)
	}
	inst := class.New()
	if inst == nil {
		return fmt.Errorf("%w: class %q constructed nil", ErrMalformedDeclaration, class.Key)
	}
	r.order = append(r.order, class.Key)
	r.handlers[class.Key] = &handlerEntry{instance: inst, index: make(map[string]int)}
	return nil
}

// RegisterEvent binds method of a registered handler to info. Registering
// the same method again replaces its binding.
func (r *Registry) RegisterEvent(owner decl.Key, method string, info Info) error {
	entry, ok := r.handlers[owner]
	if !ok {
		return fmt.Errorf("%w: event %q on %s", ErrOutsideOwner, info.Name, owner)
	}
	if info.Name == "" || info.bind == nil {
		return fmt.Errorf("%w: method %s.%s", ErrMalformedDeclaration, owner, method)
	}
	handler, ok := info.bind(entry.instance)
	if !ok || handler == nil {
		return fmt.Errorf("%w: method %s.%s cannot be bound to %T", ErrMalformedDeclaration, owner, method, entry.instance)
	}

	b := Binding{
		Name:    info.Name,
		Once:    info.Once,
		Method:  method,
		Owner:   entry.instance,
		Handler: handler,
	}
	if i, exists := entry.index[method]; exists {
		entry.events[i] = b
		return nil
	}
	entry.index[method] = len(entry.events)
	entry.events = append(entry.events, b)
	return nil
}

func (r *Registry) IsRegistered(key decl.Key) bool {
	_, ok := r.handlers[key]
	return ok
}

// Bindings flattens the registry in registration order.
func (r *Registry) Bindings() []Binding {
	var out []Binding
	for _, key := range r.order {
		out = append(out, r.handlers[key].events...)
	}
	return out
}
