package cmd

import "fmt"

// OptionResolver copies the values supplied with one interaction onto a
// handler instance.
type OptionResolver struct {
	args Arguments
}

// NewOptionResolver returns a resolver reading from args.
func NewOptionResolver(args Arguments) *OptionResolver {
	return &OptionResolver{args: args}
}

// Resolve assigns every supplied option onto target through the option's
// field binding. Options absent from the interaction leave their field as
// the constructor set it.
func (r *OptionResolver) Resolve(target any, options []NamedOption) error {
	for _, opt := range options {
		value, ok, err := r.value(opt.Name, opt.Type)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if !opt.Bound() {
			return fmt.Errorf("%w: option %q has no field binding", ErrBinding, opt.Name)
		}
		if err := opt.bind.assign(target, value); err != nil {
			return fmt.Errorf("option %q: %w", opt.Name, err)
		}
	}
	return nil
}

func (r *OptionResolver) value(name string, t OptionType) (any, bool, error) {
	switch t {
	case OptionString:
		v, ok := r.args.String(name)
		return v, ok, nil
	case OptionNumber:
		v, ok := r.args.Number(name)
		return v, ok, nil
	case OptionInteger:
		v, ok := r.args.Integer(name)
		return v, ok, nil
	case OptionBoolean:
		v, ok := r.args.Boolean(name)
		return v, ok, nil
	case OptionUser:
		v, ok := r.args.User(name)
		return v, ok, nil
	case OptionChannel:
		v, ok := r.args.Channel(name)
		return v, ok, nil
	case OptionRole:
		v, ok := r.args.Role(name)
		return v, ok, nil
	case OptionMentionable:
		v, ok := r.args.Mentionable(name)
		return v, ok, nil
	case OptionAttachment:
		v, ok := r.args.Attachment(name)
		return v, ok, nil
	default:
		return nil, false, fmt.Errorf("%w: %s (option %q)", ErrUnknownOptionType, t, name)
	}
}
