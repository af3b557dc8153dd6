package cmd

import (
	"fmt"

	"github.com/keshon/slashkit/pkg/decl"
)

// Registry accumulates command declarations into a tree keyed by class.
// It is mutable while loading; Build turns it into immutable Commands.
type Registry struct {
	commands *ordered[decl.Key, *commandNode]
}

type commandNode struct {
	class       decl.Class
	info        CommandInfo
	options     *ordered[string, OptionInfo]
	subcommands *ordered[decl.Key, *subcommandNode]
	groups      *ordered[decl.Key, *groupNode]
}

type subcommandNode struct {
	class   decl.Class
	info    SubcommandInfo
	options *ordered[string, OptionInfo]
}

type groupNode struct {
	class       decl.Class
	info        GroupInfo
	subcommands *ordered[decl.Key, *subcommandNode]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: newOrdered[decl.Key, *commandNode]()}
}

// RegisterCommand creates the node for class, or replaces the declaration of
// an existing node while keeping its options and children.
func (r *Registry) RegisterCommand(class decl.Class, info CommandInfo) {
	if node, ok := r.commands.get(class.Key); ok {
		node.class = class
		node.info = info
		return
	}
	r.commands.set(class.Key, &commandNode{
		class:       class,
		info:        info,
		options:     newOrdered[string, OptionInfo](),
		subcommands: newOrdered[decl.Key, *subcommandNode](),
		groups:      newOrdered[decl.Key, *groupNode](),
	})
}

// RegisterOption adds an option to a registered command.
func (r *Registry) RegisterOption(command decl.Key, name string, opt OptionInfo) error {
	node, ok := r.commands.get(command)
	if !ok {
		return fmt.Errorf("%w: option %q outside of a command (%s)", ErrOutsideOwner, name, command)
	}
	node.options.set(name, opt)
	return nil
}

// RegisterSubcommand adds a subcommand directly under a registered command.
func (r *Registry) RegisterSubcommand(command decl.Key, sub decl.Class, info SubcommandInfo) error {
	node, ok := r.commands.get(command)
	if !ok {
		return fmt.Errorf("%w: subcommand %s is no part of a registered command (%s)", ErrOutsideOwner, sub.Key, command)
	}
	node.subcommands.set(sub.Key, newSubcommandNode(sub, info))
	return nil
}

// RegisterSubcommandOption adds an option to a subcommand of a command.
func (r *Registry) RegisterSubcommandOption(command, sub decl.Key, name string, opt OptionInfo) error {
	node, ok := r.commands.get(command)
	if !ok {
		return fmt.Errorf("%w: subcommand %s is no part of a registered command (%s)", ErrOutsideOwner, sub, command)
	}
	subNode, ok := node.subcommands.get(sub)
	if !ok {
		return fmt.Errorf("%w: option %q outside of a subcommand (%s/%s)", ErrOutsideOwner, name, command, sub)
	}
	subNode.options.set(name, opt)
	return nil
}

// RegisterGroup adds a subcommand group under a registered command.
func (r *Registry) RegisterGroup(command decl.Key, group decl.Class, info GroupInfo) error {
	node, ok := r.commands.get(command)
	if !ok {
		return fmt.Errorf("%w: group %s is no part of a registered command (%s)", ErrOutsideOwner, group.Key, command)
	}
	node.groups.set(group.Key, &groupNode{
		class:       group,
		info:        info,
		subcommands: newOrdered[decl.Key, *subcommandNode](),
	})
	return nil
}

// RegisterGroupSubcommand adds a subcommand to a registered group.
func (r *Registry) RegisterGroupSubcommand(command, group decl.Key, sub decl.Class, info SubcommandInfo) error {
	groupNode, err := r.group(command, group)
	if err != nil {
		return err
	}
	groupNode.subcommands.set(sub.Key, newSubcommandNode(sub, info))
	return nil
}

// RegisterGroupSubcommandOption adds an option to a subcommand of a group.
func (r *Registry) RegisterGroupSubcommandOption(command, group, sub decl.Key, name string, opt OptionInfo) error {
	groupNode, err := r.group(command, group)
	if err != nil {
		return err
	}
	subNode, ok := groupNode.subcommands.get(sub)
	if !ok {
		return fmt.Errorf("%w: option %q outside of a group subcommand (%s/%s/%s)", ErrOutsideOwner, name, command, group, sub)
	}
	subNode.options.set(name, opt)
	return nil
}

// IsRegistered reports whether a command node exists for key.
func (r *Registry) IsRegistered(key decl.Key) bool {
	_, ok := r.commands.get(key)
	return ok
}

// Len returns the number of registered commands.
func (r *Registry) Len() int { return r.commands.len() }

// Build materializes every command into its schema and runtime entry. It is
// the single point where registry state becomes dispatch state.
func (r *Registry) Build() (*Commands, error) {
	out := newCommands()
	err := r.commands.each(func(_ decl.Key, node *commandNode) error {
		inst, err := instantiate(node.class)
		if err != nil {
			return err
		}
		built, err := build(inst, node)
		if err != nil {
			return err
		}
		if _, dup := out.byName.get(built.Name()); dup {
			return fmt.Errorf("%w: %q", ErrDuplicateName, built.Name())
		}
		out.byName.set(built.Name(), built)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Registry) group(command, group decl.Key) (*groupNode, error) {
	node, ok := r.commands.get(command)
	if !ok {
		return nil, fmt.Errorf("%w: group %s is no part of a registered command (%s)", ErrOutsideOwner, group, command)
	}
	g, ok := node.groups.get(group)
	if !ok {
		return nil, fmt.Errorf("%w: group %s is no part of command %s", ErrOutsideOwner, group, command)
	}
	return g, nil
}

func newSubcommandNode(class decl.Class, info SubcommandInfo) *subcommandNode {
	return &subcommandNode{class: class, info: info, options: newOrdered[string, OptionInfo]()}
}
