package catalog

// Catalog pairs a config with its normalized origin strategy. It is
// immutable and safe for concurrent use.
type Catalog struct {
	cfg      *Config
	strategy OriginStrategy
}

// New returns a Catalog for cfg. A nil cfg is an error; a nil strategy
// becomes DefaultStrategy.
func New(cfg *Config) (*Catalog, error) {
	if cfg == nil {
		return nil, ErrNoConfig
	}
	strategy := cfg.Origin
	if strategy == nil {
		strategy = DefaultStrategy()
	}
	return &Catalog{cfg: cfg, strategy: strategy}, nil
}

// Config returns the underlying configuration.
func (c *Catalog) Config() *Config { return c.cfg }

// Strategy returns the origin strategy in effect.
func (c *Catalog) Strategy() OriginStrategy { return c.strategy }

// ResolveOrigin resolves the public origin of req.
func (c *Catalog) ResolveOrigin(req Request) OriginResult {
	return ResolveOrigin(c.strategy, req)
}

// Build resolves the origin of req and builds the document against it.
func (c *Catalog) Build(req Request) (Linkset, OriginResult) {
	origin := c.ResolveOrigin(req)
	return c.BuildForOrigin(origin.Origin), origin
}

// BuildForOrigin builds the document for an origin the caller already knows.
func (c *Catalog) BuildForOrigin(origin string) Linkset {
	return buildLinkset(c.cfg, origin, c.strategy.PathPrefix())
}
