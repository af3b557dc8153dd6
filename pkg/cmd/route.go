package cmd

import (
	"context"
	"strings"
)

// Route names the node an interaction was dispatched to.
type Route struct {
	Command    string
	Group      string
	Subcommand string
}

// String returns the route as typed by the user, e.g. "config perm set".
func (r Route) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{r.Command, r.Group, r.Subcommand} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

type routeKey struct{}

func withRoute(ctx context.Context, r Route) context.Context {
	return context.WithValue(ctx, routeKey{}, r)
}

// RouteFrom returns the route the router stored in ctx.
func RouteFrom(ctx context.Context) (Route, bool) {
	r, ok := ctx.Value(routeKey{}).(Route)
	return r, ok
}
