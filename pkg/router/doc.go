// Package router bridges a history source into typed navigation state
// for a component tree.
//
// A Router owns the history subscription and the currently active
// target. On every location change it re-parses the path with the
// application-supplied parser; when the resulting target differs from
// the stored one, it republishes its contexts and signals subscribers.
// Navigation requests render the requested target back to a path and
// push it onto the history, which completes the loop through the same
// listener.
//
// Two context values are published to the mounted subtree:
//
//   - NavScope: the navigation callback alone, for components that
//     only navigate and should not track the active target.
//   - Context: the active target plus navigation.
//
// Descendants read them through From and ScopeFrom with their scope
// node; no parameter threading through intermediate layers is needed.
//
// Example:
//
//	hist := history.NewMemory("/users/42")
//	r := router.New(hist, parseAppRoute, router.WithDefault(Home{}))
//	node := r.Mount(root)
//
//	ctx, _ := router.From[AppRoute](node)
//	ctx.Go(ViewUser{ID: "7"})
package router
