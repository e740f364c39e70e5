package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/virasat-labs/heritage-archive/internal/handler" // handlers implementing the endpoint logic
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// The /healthz endpoint is used by load balancers and monitoring
	// systems to verify that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated archive browse endpoints.
// These serve approved material only (an admin bearer token widens the
// visible statuses inside the handler).  The dropdown sources sit behind
// the shared Redis response cache passed in as middleware; pass nil to
// serve them uncached.
func RegisterPublic(e *echo.Echo, b *handler.BrowseHandler, cache echo.MiddlewareFunc) {
	// Public archive search with filters and pagination.
	e.GET("/api/submissions", b.List)

	// Explore surface over the published copies.
	e.GET("/api/approved", b.Explore)
	e.GET("/api/approved/:id", b.ExploreItem)

	// Dropdown sources.  Each filter combination caches separately; the
	// TTL is the only invalidation.
	if cache != nil {
		e.GET("/api/submissions/tribes", b.Tribes, cache)
		e.GET("/api/submissions/villages", b.Villages, cache)
		e.GET("/api/taxonomy", b.Taxonomy, cache)
		e.GET("/api/reference/villages", b.ReferenceVillages, cache)
	} else {
		e.GET("/api/submissions/tribes", b.Tribes)
		e.GET("/api/submissions/villages", b.Villages)
		e.GET("/api/taxonomy", b.Taxonomy)
		e.GET("/api/reference/villages", b.ReferenceVillages)
	}
}
