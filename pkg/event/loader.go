package event

import (
	"fmt"

	"github.com/keshon/slashkit/pkg/decl"
)

// Load registers every class in classes and the events declared on its
// methods. The first error aborts loading.
func Load(s *decl.Store, classes []decl.Class) (*Registry, error) {
	r := NewRegistry()
	for _, class := range classes {
		rec, ok := s.Lookup(KindHandler, class.Key)
		if !ok {
			return nil, fmt.Errorf("%w: unmarked handler %q", ErrMissingDeclaration, class.Key)
		}
		if _, ok := rec.(handlerMark); !ok {
			return nil, fmt.Errorf("%w: handler %q carries %T", ErrMalformedDeclaration, class.Key, rec)
		}
		if err := r.RegisterHandler(class); err != nil {
			return nil, err
		}

		for _, m := range s.Members(KindOn, class.Key) {
			info, ok := m.Record.(Info)
			if !ok {
				return nil, fmt.Errorf("%w: method %s.%s carries %T", ErrMalformedDeclaration, class.Key, m.Name, m.Record)
			}
			if err := r.RegisterEvent(class.Key, m.Name, info); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}
