// Package event binds methods of declared handler classes to a live event
// source. A class is marked with DeclareHandler, each listening method with
// DeclareOn; Load instantiates every class once and Attach hands the bound
// methods to the source.
package event

import (
	"github.com/keshon/slashkit/pkg/decl"
)

// Declaration kinds used in decl.Store.
const (
	KindHandler decl.Kind = "eventHandler"
	KindOn      decl.Kind = "onEvent"
)

type handlerMark struct{}

// Info declares that a method listens to the event Name. Build it with
// Method so the handler is taken from the owning instance.
type Info struct {
	Name string
	Once bool

	bind func(owner any) (any, bool)
}

// Method returns an Info for event name whose handler is produced by method
// from the owning *H, typically a method value such as h.OnReady.
func Method[H any](name string, method func(h *H) any) Info {
	return Info{
		Name: name,
		bind: func(owner any) (any, bool) {
			h, ok := owner.(*H)
			if !ok {
				return nil, false
			}
			return method(h), true
		},
	}
}

// OnlyOnce makes the binding fire at most one time.
func (i Info) OnlyOnce() Info {
	i.Once = true
	return i
}

// DeclareHandler marks class as an event handler.
func DeclareHandler(s *decl.Store, class decl.Class) {
	s.Define(KindHandler, class.Key, handlerMark{})
}

// DeclareOn attaches an event declaration to the method of class.
func DeclareOn(s *decl.Store, class decl.Class, method string, info Info) {
	s.DefineMember(KindOn, class.Key, method, info)
}
