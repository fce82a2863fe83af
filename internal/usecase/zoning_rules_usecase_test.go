package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/landuse-microservice/internal/domain"
	"github.com/landuse-microservice/internal/pkg/errors"
	"github.com/landuse-microservice/internal/usecase"
)

func newZoningFixture() (*usecase.ZoningRulesUseCase, *MockMunicipalityRepository, *MockZoningRulesRepository, *MockDocumentFetcher, *MockRulesExtractor) {
	mockMunicipalities := &MockMunicipalityRepository{}
	mockRules := &MockZoningRulesRepository{}
	mockFetcher := &MockDocumentFetcher{}
	mockExtractor := &MockRulesExtractor{}
	uc := usecase.NewZoningRulesUseCase(mockMunicipalities, mockRules, mockFetcher, mockExtractor, zap.NewNop())
	return uc, mockMunicipalities, mockRules, mockFetcher, mockExtractor
}

func TestZoningRulesUseCase_GetRules_CacheHit(t *testing.T) {
	uc, mockMunicipalities, mockRules, _, mockExtractor := newZoningFixture()

	mockRules.On("GetByMunicipality", mock.Anything, "lisboa").Return(&domain.ZoningRules{
		MunicipalityID: "lisboa",
		Rules:          "cached rules",
		DocumentHash:   "h1",
		CachedAt:       time.Now(),
	}, nil)
	mockMunicipalities.On("GetByID", mock.Anything, "lisboa").Return(&domain.Municipality{
		ID: "lisboa", Name: "Lisboa", PDMDocumentURL: "https://example.com/pdm.txt",
	}, nil)

	resp, err := uc.GetRules(context.Background(), "lisboa")
	require.NoError(t, err)

	assert.Equal(t, "cached rules", resp.Rules)
	assert.Equal(t, "cache", resp.Source)
	assert.Equal(t, "Lisboa", resp.Municipality)
	mockExtractor.AssertNotCalled(t, "ExtractRules", mock.Anything, mock.Anything)
}

func TestZoningRulesUseCase_GetRules_DerivesOnMiss(t *testing.T) {
	uc, mockMunicipalities, mockRules, mockFetcher, mockExtractor := newZoningFixture()

	mockRules.On("GetByMunicipality", mock.Anything, "porto").Return(nil, nil)
	mockMunicipalities.On("GetByID", mock.Anything, "porto").Return(&domain.Municipality{
		ID: "porto", Name: "Porto", PDMDocumentURL: "https://example.com/pdm-porto.txt",
	}, nil)
	mockFetcher.On("FetchText", mock.Anything, "https://example.com/pdm-porto.txt").
		Return("planning document text", nil)
	mockExtractor.On("ExtractRules", mock.Anything, "planning document text").
		Return("derived rules", nil)
	mockRules.On("Upsert", mock.Anything, mock.MatchedBy(func(r *domain.ZoningRules) bool {
		return r.MunicipalityID == "porto" && r.Rules == "derived rules" && r.DocumentHash != ""
	})).Return(nil)

	resp, err := uc.GetRules(context.Background(), "porto")
	require.NoError(t, err)

	assert.Equal(t, "derived rules", resp.Rules)
	assert.Equal(t, "derived", resp.Source)
	assert.NotEmpty(t, resp.DocumentHash)
	mockRules.AssertCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestZoningRulesUseCase_GetRules_MunicipalityNotFound(t *testing.T) {
	uc, mockMunicipalities, mockRules, _, _ := newZoningFixture()

	mockRules.On("GetByMunicipality", mock.Anything, "atlantis").Return(nil, nil)
	mockMunicipalities.On("GetByID", mock.Anything, "atlantis").Return(nil, nil)

	_, err := uc.GetRules(context.Background(), "atlantis")
	assert.ErrorIs(t, err, errors.ErrMunicipalityNotFound)
}

func TestZoningRulesUseCase_GetRules_NoDocument(t *testing.T) {
	uc, mockMunicipalities, mockRules, _, _ := newZoningFixture()

	mockRules.On("GetByMunicipality", mock.Anything, "faro").Return(nil, nil)
	mockMunicipalities.On("GetByID", mock.Anything, "faro").Return(&domain.Municipality{
		ID: "faro", Name: "Faro",
	}, nil)

	_, err := uc.GetRules(context.Background(), "faro")
	assert.ErrorIs(t, err, errors.ErrZoningRulesUnavailable)
}

func TestZoningRulesUseCase_GetRules_FetchFailure(t *testing.T) {
	uc, mockMunicipalities, mockRules, mockFetcher, _ := newZoningFixture()

	mockRules.On("GetByMunicipality", mock.Anything, "braga").Return(nil, nil)
	mockMunicipalities.On("GetByID", mock.Anything, "braga").Return(&domain.Municipality{
		ID: "braga", Name: "Braga", PDMDocumentURL: "https://example.com/pdm.txt",
	}, nil)
	mockFetcher.On("FetchText", mock.Anything, mock.Anything).
		Return("", fmt.Errorf("connection refused"))

	_, err := uc.GetRules(context.Background(), "braga")
	assert.ErrorIs(t, err, errors.ErrZoningRulesUnavailable)
}

func TestZoningRulesUseCase_Invalidate(t *testing.T) {
	uc, mockMunicipalities, mockRules, _, _ := newZoningFixture()

	mockMunicipalities.On("GetByID", mock.Anything, "lisboa").Return(&domain.Municipality{
		ID: "lisboa", Name: "Lisboa",
	}, nil)
	mockRules.On("Delete", mock.Anything, "lisboa").Return(nil)

	resp, err := uc.Invalidate(context.Background(), "lisboa")
	require.NoError(t, err)

	assert.True(t, resp.Invalidated)
	mockRules.AssertCalled(t, "Delete", mock.Anything, "lisboa")
}

func TestZoningRulesUseCase_Invalidate_NotFound(t *testing.T) {
	uc, mockMunicipalities, _, _, _ := newZoningFixture()

	mockMunicipalities.On("GetByID", mock.Anything, "atlantis").Return(nil, nil)

	_, err := uc.Invalidate(context.Background(), "atlantis")
	assert.ErrorIs(t, err, errors.ErrMunicipalityNotFound)
}
