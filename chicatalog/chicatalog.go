// Package chicatalog mounts the API catalog on a chi router.
package chicatalog

import (
	"github.com/go-chi/chi/v5"

	"github.com/alecgard/apicatalog/catalog"
	"github.com/alecgard/apicatalog/httpcatalog"
)

// Register adds GET and HEAD routes for /.well-known/api-catalog to r.
func Register(r chi.Router, cfg *catalog.Config, opts ...httpcatalog.Option) error {
	s, err := httpcatalog.New(cfg, opts...)
	if err != nil {
		return err
	}
	Mount(r, s)
	return nil
}

// Mount adds the routes for an already constructed server.
func Mount(r chi.Router, s *httpcatalog.Server) {
	r.Get(catalog.WellKnownPath, s.ServeGet)
	r.Head(catalog.WellKnownPath, s.ServeHead)
}
