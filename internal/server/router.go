package server

import (
	"net/http"

	"Vaultium/internal/view"
)

// BuildFunc fills in the page-specific part of a page. It may change the
// status code by returning a non-zero value.
type BuildFunc func(r *http.Request, p *view.Page) int

// Route is a page reachable by GET.
type Route struct {
	Name  string
	Build BuildFunc
}

// Router maps request paths to page routes.
type Router struct {
	routes map[string]Route
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{routes: make(map[string]Route)}
}

// Handle registers a route under one or more paths.
func (rt *Router) Handle(name string, build BuildFunc, paths ...string) {
	for _, p := range paths {
		rt.routes[p] = Route{Name: name, Build: build}
	}
}

// Lookup returns the route for path. Unknown paths have no route.
func (rt *Router) Lookup(path string) (Route, bool) {
	r, ok := rt.routes[path]
	return r, ok
}
