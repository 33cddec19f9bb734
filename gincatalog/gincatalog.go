// Package gincatalog mounts the API catalog on a gin engine or group.
package gincatalog

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alecgard/apicatalog/catalog"
)

// Register adds GET and HEAD routes for /.well-known/api-catalog to r.
func Register(r gin.IRoutes, cfg *catalog.Config) error {
	c, err := catalog.New(cfg)
	if err != nil {
		return err
	}
	r.GET(catalog.WellKnownPath, GetHandler(c))
	r.HEAD(catalog.WellKnownPath, HeadHandler(c))
	return nil
}

// GetHandler returns a gin handler writing the catalog document.
func GetHandler(c *catalog.Catalog) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		origin := c.ResolveOrigin(catalog.HTTPRequest(ctx.Request))
		resp, err := catalog.GetResponse(c.BuildForOrigin(origin.Origin), origin.Origin)
		if err != nil {
			slog.Error("rendering api catalog", "error", err)
			ctx.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		for k, v := range resp.Header {
			ctx.Header(k, v)
		}
		ctx.Data(resp.Status, catalog.LinksetContentType, resp.Body)
	}
}

// HeadHandler returns a gin handler writing only the catalog headers.
func HeadHandler(c *catalog.Catalog) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		origin := c.ResolveOrigin(catalog.HTTPRequest(ctx.Request))
		resp := catalog.HeadResponse(origin.Origin)
		for k, v := range resp.Header {
			ctx.Header(k, v)
		}
		ctx.Status(resp.Status)
	}
}
