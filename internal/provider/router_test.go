package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/landuse-microservice/internal/domain"
)

type stubProvider struct {
	id string
}

func (s *stubProvider) ID() string   { return s.id }
func (s *stubProvider) Name() string { return s.id }
func (s *stubProvider) Query(ctx context.Context, in QueryInput) domain.LayerResult {
	return found(s.id, s.id, nil)
}

func idsOf(providers []LayerProvider) []string {
	ids := make([]string, 0, len(providers))
	for _, p := range providers {
		ids = append(ids, p.ID())
	}
	return ids
}

func newTestRouter() *Router {
	return NewRouter(
		[]LayerProvider{&stubProvider{id: LayerAdmin}, &stubProvider{id: LayerElevation}},
		map[string][]LayerProvider{
			domain.CountryPT: {&stubProvider{id: LayerCadastrePT}, &stubProvider{id: LayerZoning}},
			domain.CountryES: {&stubProvider{id: LayerCadastreES}},
		},
	)
}

func TestRouter_For(t *testing.T) {
	router := newTestRouter()

	t.Run("portugal gets global plus PT providers", func(t *testing.T) {
		ids := idsOf(router.For(domain.CountryPT))
		assert.ElementsMatch(t, []string{LayerAdmin, LayerElevation, LayerCadastrePT, LayerZoning}, ids)
		assert.NotContains(t, ids, LayerCadastreES)
	})

	t.Run("spain gets global plus ES providers", func(t *testing.T) {
		ids := idsOf(router.For(domain.CountryES))
		assert.ElementsMatch(t, []string{LayerAdmin, LayerElevation, LayerCadastreES}, ids)
	})

	t.Run("unknown country degrades to global set", func(t *testing.T) {
		ids := idsOf(router.For("FR"))
		assert.ElementsMatch(t, []string{LayerAdmin, LayerElevation}, ids)
	})

	t.Run("empty country degrades to global set", func(t *testing.T) {
		ids := idsOf(router.For(""))
		assert.ElementsMatch(t, []string{LayerAdmin, LayerElevation}, ids)
	})
}

func TestRouter_AllIDs(t *testing.T) {
	router := newTestRouter()
	assert.Equal(t,
		[]string{LayerAdmin, LayerCadastreES, LayerCadastrePT, LayerZoning, LayerElevation},
		router.AllIDs())
}

func TestRouter_SkippedFor(t *testing.T) {
	router := newTestRouter()

	assert.Equal(t, []string{LayerCadastreES}, router.SkippedFor(domain.CountryPT))
	assert.ElementsMatch(t, []string{LayerCadastrePT, LayerZoning}, router.SkippedFor(domain.CountryES))
	assert.ElementsMatch(t,
		[]string{LayerCadastrePT, LayerCadastreES, LayerZoning},
		router.SkippedFor(""))
}
