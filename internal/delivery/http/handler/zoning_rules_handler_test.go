package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/landuse-microservice/internal/delivery/http/handler"
	"github.com/landuse-microservice/internal/domain"
	"github.com/landuse-microservice/internal/usecase"
)

// fakeMunicipalities serves a fixed municipality set.
type fakeMunicipalities struct {
	byID map[string]*domain.Municipality
}

func (f *fakeMunicipalities) ListWithoutWebsite(ctx context.Context, limit int) ([]*domain.Municipality, error) {
	return nil, nil
}

func (f *fakeMunicipalities) GetByID(ctx context.Context, id string) (*domain.Municipality, error) {
	return f.byID[id], nil
}

func (f *fakeMunicipalities) UpdateWebsite(ctx context.Context, id, website, country string) error {
	return nil
}

// fakeRulesStore is an in-memory ZoningRulesRepository.
type fakeRulesStore struct {
	rows map[string]*domain.ZoningRules
}

func (f *fakeRulesStore) GetByMunicipality(ctx context.Context, id string) (*domain.ZoningRules, error) {
	return f.rows[id], nil
}

func (f *fakeRulesStore) Upsert(ctx context.Context, rules *domain.ZoningRules) error {
	f.rows[rules.MunicipalityID] = rules
	return nil
}

func (f *fakeRulesStore) Delete(ctx context.Context, id string) error {
	delete(f.rows, id)
	return nil
}

type fakeFetcher struct{ text string }

func (f *fakeFetcher) FetchText(ctx context.Context, url string) (string, error) {
	return f.text, nil
}

type fakeExtractor struct{ rules string }

func (f *fakeExtractor) ExtractRules(ctx context.Context, documentText string) (string, error) {
	return f.rules, nil
}

func newZoningApp(t *testing.T) (*fiber.App, *fakeRulesStore) {
	t.Helper()

	store := &fakeRulesStore{rows: make(map[string]*domain.ZoningRules)}
	store.rows["porto"] = &domain.ZoningRules{
		MunicipalityID: "porto",
		Rules:          "cached rules",
		DocumentHash:   "h1",
		CachedAt:       time.Now(),
	}

	municipalities := &fakeMunicipalities{byID: map[string]*domain.Municipality{
		"lisboa": {ID: "lisboa", Name: "Lisboa", PDMDocumentURL: "https://example.com/pdm.txt"},
		"porto":  {ID: "porto", Name: "Porto", PDMDocumentURL: "https://example.com/pdm-porto.txt"},
	}}

	uc := usecase.NewZoningRulesUseCase(
		municipalities,
		store,
		&fakeFetcher{text: "planning document"},
		&fakeExtractor{rules: "derived rules"},
		zap.NewNop(),
	)

	h := handler.NewZoningRulesHandler(uc, zap.NewNop())

	app := fiber.New()
	app.Get("/zoning-rules/:municipality_id", h.GetRules)
	app.Post("/zoning-rules/:municipality_id/invalidate", h.Invalidate)
	return app, store
}

func TestZoningRulesHandler_GetRules(t *testing.T) {
	app, _ := newZoningApp(t)

	t.Run("cached artifact", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/zoning-rules/porto", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		envelope := decodeEnvelope(t, resp)
		data := envelope["data"].(map[string]any)
		assert.Equal(t, "cached rules", data["rules"])
		assert.Equal(t, "cache", data["source"])
	})

	t.Run("derives on first request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/zoning-rules/lisboa", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		envelope := decodeEnvelope(t, resp)
		data := envelope["data"].(map[string]any)
		assert.Equal(t, "derived rules", data["rules"])
		assert.Equal(t, "derived", data["source"])
	})

	t.Run("unknown municipality", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/zoning-rules/atlantis", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		envelope := decodeEnvelope(t, resp)
		errObj := envelope["error"].(map[string]any)
		assert.Equal(t, "MUNICIPALITY_NOT_FOUND", errObj["code"])
	})
}

func TestZoningRulesHandler_Invalidate(t *testing.T) {
	app, store := newZoningApp(t)

	req := httptest.NewRequest(http.MethodPost, "/zoning-rules/porto/invalidate", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, true, data["invalidated"])
	assert.Nil(t, store.rows["porto"], "artifact must be gone")

	var check map[string]any
	raw := httptest.NewRequest(http.MethodGet, "/zoning-rules/porto", nil)
	resp2, err := app.Test(raw, -1)
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&check))
	data2 := check["data"].(map[string]any)
	assert.Equal(t, "derived", data2["source"], "next read re-derives")
}
