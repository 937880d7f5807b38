package modkit

import (
	"net/http"

	phttp "tubeport/internal/platform/net/http"
	str "tubeport/internal/platform/strings"
)

// Spec is the resolved set of options a module constructor was given
type Spec struct {
	Name   string
	Prefix string // empty mounts at the parent router
	Mw     []func(http.Handler) http.Handler

	extra []func(phttp.Router)
}

// Option adjusts a Spec
type Option func(*Spec)

// WithName overrides the module name
func WithName(name string) Option { return func(s *Spec) { s.Name = name } }

// WithPrefix overrides the route prefix
func WithPrefix(prefix string) Option { return func(s *Spec) { s.Prefix = prefix } }

// WithMiddlewares appends middleware scoped to the module's routes
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(s *Spec) { s.Mw = append(s.Mw, mw...) }
}

// WithRegister adds routes after the module's own
func WithRegister(fn func(phttp.Router)) Option {
	return func(s *Spec) { s.extra = append(s.extra, fn) }
}

// Build applies defaults, then opts; later options win
func Build(defaults []Option, opts ...Option) Spec {
	var s Spec
	for _, o := range append(append([]Option(nil), defaults...), opts...) {
		o(&s)
	}
	s.Mw = append([]func(http.Handler) http.Handler(nil), s.Mw...)
	return s
}

// Mount registers own plus any WithRegister routes on r, scoped under the
// prefix and middleware of s
func (s Spec) Mount(r phttp.Router, own func(phttp.Router)) {
	body := func(rr phttp.Router) {
		if len(s.Mw) > 0 {
			rr.Use(s.Mw...)
		}
		own(rr)
		for _, fn := range s.extra {
			fn(rr)
		}
	}
	if s.Prefix == "" {
		r.Group(body)
		return
	}
	r.Route(str.MustPrefix(s.Prefix), body)
}
