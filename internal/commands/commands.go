// Package commands declares the commands and event handlers the bot ships
// with.
package commands

import (
	"github.com/keshon/slashkit/internal/storage"
	"github.com/keshon/slashkit/pkg/decl"
	"github.com/rs/zerolog"
)

// Deps are the services handlers are constructed with.
type Deps struct {
	Storage    *storage.Storage
	Developers []string
	Log        zerolog.Logger
}

// Declare records every shipped command and event handler in s and returns
// the root command classes and the event handler classes to load.
func Declare(s *decl.Store, deps Deps) (roots, events []decl.Class) {
	roots = []decl.Class{
		declarePing(s),
		declareRoll(s),
		declareConfig(s, deps.Storage, deps.Developers),
		declareHistory(s, deps.Storage),
	}
	events = []decl.Class{
		declareLifecycle(s, deps.Log),
	}
	return roots, events
}
