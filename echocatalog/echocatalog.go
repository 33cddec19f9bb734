// Package echocatalog mounts the API catalog on an echo instance or group.
package echocatalog

import (
	"github.com/labstack/echo/v4"

	"github.com/alecgard/apicatalog/catalog"
)

// Router is satisfied by *echo.Echo and *echo.Group.
type Router interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	HEAD(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// Register adds GET and HEAD routes for /.well-known/api-catalog to r.
func Register(r Router, cfg *catalog.Config) error {
	c, err := catalog.New(cfg)
	if err != nil {
		return err
	}
	r.GET(catalog.WellKnownPath, GetHandler(c))
	r.HEAD(catalog.WellKnownPath, HeadHandler(c))
	return nil
}

// GetHandler returns an echo handler writing the catalog document.
func GetHandler(c *catalog.Catalog) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		origin := c.ResolveOrigin(catalog.HTTPRequest(ctx.Request()))
		resp, err := catalog.GetResponse(c.BuildForOrigin(origin.Origin), origin.Origin)
		if err != nil {
			return err
		}
		for k, v := range resp.Header {
			ctx.Response().Header().Set(k, v)
		}
		return ctx.Blob(resp.Status, catalog.LinksetContentType, resp.Body)
	}
}

// HeadHandler returns an echo handler writing only the catalog headers.
func HeadHandler(c *catalog.Catalog) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		origin := c.ResolveOrigin(catalog.HTTPRequest(ctx.Request()))
		resp := catalog.HeadResponse(origin.Origin)
		for k, v := range resp.Header {
			ctx.Response().Header().Set(k, v)
		}
		return ctx.NoContent(resp.Status)
	}
}
