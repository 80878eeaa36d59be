package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// Group is one area of the API: a path prefix, the guards every route in it
// passes through, its routes and nested groups.
type Group struct {
	Name     string
	prefix   string
	guards   []gin.HandlerFunc
	routes   []route
	children []*Group
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewGroup creates a group. guards run before each route's handlers,
// typically a role gate.
func NewGroup(name, prefix string, guards ...gin.HandlerFunc) *Group {
	return &Group{Name: name, prefix: prefix, guards: guards}
}

// Handle adds a route relative to the group prefix
func (g *Group) Handle(method, relativePath string, handlers ...gin.HandlerFunc) *Group {
	g.routes = append(g.routes, route{method: method, path: relativePath, handlers: handlers})
	return g
}

func (g *Group) GET(p string, h ...gin.HandlerFunc) *Group    { return g.Handle(http.MethodGet, p, h...) }
func (g *Group) POST(p string, h ...gin.HandlerFunc) *Group   { return g.Handle(http.MethodPost, p, h...) }
func (g *Group) PUT(p string, h ...gin.HandlerFunc) *Group    { return g.Handle(http.MethodPut, p, h...) }
func (g *Group) PATCH(p string, h ...gin.HandlerFunc) *Group  { return g.Handle(http.MethodPatch, p, h...) }
func (g *Group) DELETE(p string, h ...gin.HandlerFunc) *Group { return g.Handle(http.MethodDelete, p, h...) }

// Sub nests a group under g. It inherits g's guards.
func (g *Group) Sub(name, prefix string, guards ...gin.HandlerFunc) *Group {
	child := NewGroup(name, prefix, guards...)
	g.children = append(g.children, child)
	return child
}

func (g *Group) mount(parent *gin.RouterGroup) {
	rg := parent.Group(g.prefix, g.guards...)
	for _, r := range g.routes {
		rg.Handle(r.method, r.path, r.handlers...)
	}
	for _, child := range g.children {
		child.mount(rg)
	}
}

// Table lists "METHOD /path" for every route under base, nested groups last
func (g *Group) Table(base string) []string {
	prefix := joinPath(base, g.prefix)
	out := make([]string, 0, len(g.routes))
	for _, r := range g.routes {
		out = append(out, r.method+" "+joinPath(prefix, r.path))
	}
	for _, child := range g.children {
		out = append(out, child.Table(prefix)...)
	}
	return out
}

// joinPath keeps a trailing-slash-free result, matching gin's route paths
func joinPath(base, rel string) string {
	if rel == "" {
		return base
	}
	return path.Join(base, rel)
}

// API mounts groups under /api/<version>. middleware runs before any group guard.
func API(engine *gin.Engine, version string, middleware []gin.HandlerFunc, groups ...*Group) *gin.RouterGroup {
	api := engine.Group("/api/"+version, middleware...)
	for _, g := range groups {
		g.mount(api)
	}
	return api
}
