package cmd

import (
	"fmt"

	"github.com/keshon/slashkit/pkg/decl"
)

// Load reads the declarations of roots and their subcommands and groups from
// s and returns a populated registry. Parents are always registered before
// their children. The first structural error aborts loading and no registry
// is returned.
func Load(s *decl.Store, roots []decl.Class) (*Registry, error) {
	r := NewRegistry()
	for _, root := range roots {
		if err := loadCommand(s, r, root); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func loadCommand(s *decl.Store, r *Registry, class decl.Class) error {
	info, err := lookup[CommandInfo](s, KindCommand, class)
	if err != nil {
		return err
	}
	inst, err := instantiate(class)
	if err != nil {
		return err
	}

	r.RegisterCommand(class, info)

	for _, m := range s.Members(KindOption, class.Key) {
		opt, err := optionRecord(class, m, inst)
		if err != nil {
			return err
		}
		if err := r.RegisterOption(class.Key, m.Name, opt); err != nil {
			return err
		}
	}

	for _, sub := range info.Subcommands {
		if err := loadSubcommand(s, r, class.Key, sub); err != nil {
			return err
		}
	}
	for _, group := range info.Groups {
		if err := loadGroup(s, r, class.Key, group); err != nil {
			return err
		}
	}
	return nil
}

func loadSubcommand(s *decl.Store, r *Registry, command decl.Key, class decl.Class) error {
	info, inst, err := subcommandDeclaration(s, class)
	if err != nil {
		return err
	}
	if err := r.RegisterSubcommand(command, class, info); err != nil {
		return err
	}
	for _, m := range s.Members(KindOption, class.Key) {
		opt, err := optionRecord(class, m, inst)
		if err != nil {
			return err
		}
		if err := r.RegisterSubcommandOption(command, class.Key, m.Name, opt); err != nil {
			return err
		}
	}
	return nil
}

func loadGroup(s *decl.Store, r *Registry, command decl.Key, class decl.Class) error {
	info, err := lookup[GroupInfo](s, KindGroup, class)
	if err != nil {
		return err
	}
	if err := r.RegisterGroup(command, class, info); err != nil {
		return err
	}

	for _, sub := range info.Subcommands {
		subInfo, inst, err := subcommandDeclaration(s, sub)
		if err != nil {
			return err
		}
		if err := r.RegisterGroupSubcommand(command, class.Key, sub, subInfo); err != nil {
			return err
		}
		for _, m := range s.Members(KindOption, sub.Key) {
			opt, err := optionRecord(sub, m, inst)
			if err != nil {
				return err
			}
			if err := r.RegisterGroupSubcommandOption(command, class.Key, sub.Key, m.Name, opt); err != nil {
				return err
			}
		}
	}
	return nil
}

func subcommandDeclaration(s *decl.Store, class decl.Class) (SubcommandInfo, any, error) {
	info, err := lookup[SubcommandInfo](s, KindSubcommand, class)
	if err != nil {
		return info, nil, err
	}
	inst, err := instantiate(class)
	if err != nil {
		return info, nil, err
	}
	if _, ok := inst.(Executor); !ok {
		return info, nil, fmt.Errorf("%w: subcommand %s (%T)", ErrNoExecute, class.Key, inst)
	}
	return info, inst, nil
}

func lookup[T any](s *decl.Store, kind decl.Kind, class decl.Class) (T, error) {
	var zero T
	rec, ok := s.Lookup(kind, class.Key)
	if !ok {
		return zero, fmt.Errorf("%w: unmarked %s %q", ErrMissingDeclaration, kind, class.Key)
	}
	info, ok := rec.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s %q carries %T", ErrMalformedDeclaration, kind, class.Key, rec)
	}
	return info, nil
}

func instantiate(class decl.Class) (any, error) {
	if class.New == nil {
		return nil, fmt.Errorf("%w: class %q has no constructor", ErrMalformedDeclaration, class.Key)
	}
	inst := class.New()
	if inst == nil {
		return nil, fmt.Errorf("%w: class %q constructed nil", ErrMalformedDeclaration, class.Key)
	}
	return inst, nil
}

func optionRecord(class decl.Class, m decl.Member, inst any) (OptionInfo, error) {
	opt, ok := m.Record.(OptionInfo)
	if !ok {
		return opt, fmt.Errorf("%w: option %q of %s carries %T", ErrMalformedDeclaration, m.Name, class.Key, m.Record)
	}
	if err := checkBinding(inst, m.Name, opt); err != nil {
		return opt, err
	}
	if err := checkRange(m.Name, opt); err != nil {
		return opt, err
	}
	return opt, nil
}

// checkRange rejects bounds the wire schema cannot carry.
func checkRange(name string, opt OptionInfo) error {
	if opt.Max == nil {
		return nil
	}
	if *opt.Max == 0 {
		return fmt.Errorf("%w: option %q has a zero max, which Discord omits", ErrMalformedDeclaration, name)
	}
	if opt.Min != nil && *opt.Min > *opt.Max {
		return fmt.Errorf("%w: option %q has min %v above max %v", ErrMalformedDeclaration, name, *opt.Min, *opt.Max)
	}
	return nil
}

func checkBinding(inst any, name string, opt OptionInfo) error {
	if !opt.Bound() {
		return fmt.Errorf("%w: option %q has no field binding", ErrBinding, name)
	}
	if !opt.bind.accepts(inst) {
		return fmt.Errorf("%w: option %q cannot be assigned on %T", ErrBinding, name, inst)
	}
	return nil
}
