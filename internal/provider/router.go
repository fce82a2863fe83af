package provider

import "sort"

// Router maps a resolved country onto the providers that can answer
// for it. Global providers apply everywhere; country providers only
// run when reverse geocoding agrees.
type Router struct {
	global    []LayerProvider
	byCountry map[string][]LayerProvider
}

func NewRouter(global []LayerProvider, byCountry map[string][]LayerProvider) *Router {
	return &Router{global: global, byCountry: byCountry}
}

// For returns the providers applicable to country. An empty or unknown
// country degrades to the global set only.
func (r *Router) For(country string) []LayerProvider {
	providers := make([]LayerProvider, 0, len(r.global)+4)
	providers = append(providers, r.global...)
	if country != "" {
		providers = append(providers, r.byCountry[country]...)
	}
	return providers
}

// AllIDs lists every registered layer id, sorted. Used to report which
// layers were skipped for a given country.
func (r *Router) AllIDs() []string {
	ids := make([]string, 0, len(r.global)+4)
	for _, p := range r.global {
		ids = append(ids, p.ID())
	}
	for _, set := range r.byCountry {
		for _, p := range set {
			ids = append(ids, p.ID())
		}
	}
	sort.Strings(ids)
	return ids
}

// SkippedFor returns the layer ids that will not run for country.
func (r *Router) SkippedFor(country string) []string {
	active := make(map[string]struct{})
	for _, p := range r.For(country) {
		active[p.ID()] = struct{}{}
	}
	skipped := make([]string, 0)
	for _, id := range r.AllIDs() {
		if _, ok := active[id]; !ok {
			skipped = append(skipped, id)
		}
	}
	return skipped
}
