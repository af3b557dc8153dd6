package cmd

import "errors"

// Load-time errors. They are returned from Load and Build and are meant to
// stop the process before any interaction is dispatched.
var (
	ErrMissingDeclaration   = errors.New("missing declaration")
	ErrMalformedDeclaration = errors.New("malformed declaration")
	ErrOutsideOwner         = errors.New("declaration outside of its owner")
	ErrUnknownOptionType    = errors.New("unknown option type")
	ErrDuplicateName        = errors.New("duplicate command name")
	ErrBinding              = errors.New("option binding does not fit handler")
)

// Dispatch-time errors. The router contains them; they never escape Dispatch.
// ErrNoExecute is also returned at load time for subcommands.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrNoExecute      = errors.New("handler is missing an execute method")
	ErrPanic          = errors.New("handler panicked")
)
