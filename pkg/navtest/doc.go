// Package navtest provides testing helpers for router-driven
// applications.
//
// The navtest package reduces boilerplate when testing navigation by
// providing a fluent harness builder and assertions over the active
// target.
//
// # Quick Start
//
//	func TestUserPage(t *testing.T) {
//	    h := navtest.New(parseRoute).WithPath("/users/42").Build()
//	    defer h.Close()
//	    navtest.ExpectActive(t, h, viewUser("42"))
//	}
//
// # Fluent Harness Builder
//
// The builder allows chaining setup before the router is created:
//
//	h := navtest.New(parseRoute).
//	    WithPath("/settings").
//	    WithDefault(notFound()).
//	    Build()
//
// # Driving Navigation
//
// The harness exposes both sides of a navigation: typed targets going
// out and raw paths coming in, plus history traversal:
//
//	h.Go(viewUser("7"))     // application-originated
//	h.Navigate("/users/9")  // browser-originated
//	h.Back()
//
// # Assertions
//
//	navtest.ExpectActive(t, h, viewUser("7"))
//	navtest.ExpectNoActive(t, h)
//	navtest.ExpectPath(t, h, "/users/7")
package navtest
