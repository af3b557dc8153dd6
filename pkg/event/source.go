package event

import "fmt"

// Source is a live event emitter, e.g. a gateway session.
type Source interface {
	On(name string, handler any) error
	Once(name string, handler any) error
}

// Attach subscribes every binding to src.
func Attach(src Source, bindings []Binding) error {
	for _, b := range bindings {
		attach := src.On
		if b.Once {
			attach = src.Once
		}
		if err := attach(b.Name, b.Handler); err != nil {
			return fmt.Errorf("attach %s (%T.%s): %w", b.Name, b.Owner, b.Method, err)
		}
	}
	return nil
}
