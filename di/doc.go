// Package di provides a key-based dependency resolver for wirekit applications.
//
// A Resolver maps string keys to one of four strategies: a shared value, a
// class (new instance per lookup), a singleton (built once, then cached) or a
// view (a constructor whose instances can listen and dispatch on the owning
// context). Consumers declare the keys they need and the resolver assigns
// the resolved objects onto them before their own initialization runs.
//
// # Registration
//
//	r := di.NewResolver()
//	r.WireValue("config", cfg)
//	r.WireSingleton("repo", di.ClassOf[Repository]())
//	r.WireClass("handler", di.ClassOf[Handler](), di.WithWiring(di.Fields(map[string]string{
//	    "Repo": "repo",
//	})))
//
// # Declaring dependencies
//
//	type Handler struct {
//	    Repo   *Repository
//	    Config *Config `wire:"config"`
//	}
//
//	func (h *Handler) Wiring() di.Declaration { return di.Keys("repo", "config") }
//
//	func (h *Handler) Initialize(args ...any) error {
//	    // h.Repo and h.Config are already set here
//	    return nil
//	}
//
// # Resolution
//
//	h := di.MustGet[*Handler](r, "handler")
//
// A resolver created WithParent falls back to its parent for keys it does not
// wire itself. The parent builds such objects; the child never mutates the
// parent's registry. HasWiring only reports local keys.
package di
