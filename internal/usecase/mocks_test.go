package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/landuse-microservice/internal/domain"
)

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) GetEnrichment(ctx context.Context, key string) (*domain.EnrichmentResponse, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EnrichmentResponse), args.Error(1)
}

func (m *MockCacheRepository) SetEnrichment(ctx context.Context, key string, resp *domain.EnrichmentResponse, ttl time.Duration) error {
	args := m.Called(ctx, key, resp, ttl)
	return args.Error(0)
}

// MockGeocoderRepository is a mock of GeocoderRepository
type MockGeocoderRepository struct {
	mock.Mock
}

func (m *MockGeocoderRepository) CountryAt(ctx context.Context, lat, lng float64) (string, error) {
	args := m.Called(ctx, lat, lng)
	return args.String(0), args.Error(1)
}

// MockEnrichmentRepository is a mock of EnrichmentRepository
type MockEnrichmentRepository struct {
	mock.Mock
}

func (m *MockEnrichmentRepository) Upsert(ctx context.Context, resp *domain.EnrichmentResponse) error {
	args := m.Called(ctx, resp)
	return args.Error(0)
}

// MockMunicipalityRepository is a mock of MunicipalityRepository
type MockMunicipalityRepository struct {
	mock.Mock
}

func (m *MockMunicipalityRepository) ListWithoutWebsite(ctx context.Context, limit int) ([]*domain.Municipality, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Municipality), args.Error(1)
}

func (m *MockMunicipalityRepository) GetByID(ctx context.Context, id string) (*domain.Municipality, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Municipality), args.Error(1)
}

func (m *MockMunicipalityRepository) UpdateWebsite(ctx context.Context, id, website, country string) error {
	args := m.Called(ctx, id, website, country)
	return args.Error(0)
}

// MockZoningRulesRepository is a mock of ZoningRulesRepository
type MockZoningRulesRepository struct {
	mock.Mock
}

func (m *MockZoningRulesRepository) GetByMunicipality(ctx context.Context, municipalityID string) (*domain.ZoningRules, error) {
	args := m.Called(ctx, municipalityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ZoningRules), args.Error(1)
}

func (m *MockZoningRulesRepository) Upsert(ctx context.Context, rules *domain.ZoningRules) error {
	args := m.Called(ctx, rules)
	return args.Error(0)
}

func (m *MockZoningRulesRepository) Delete(ctx context.Context, municipalityID string) error {
	args := m.Called(ctx, municipalityID)
	return args.Error(0)
}

// MockDocumentFetcher is a mock of DocumentFetcher
type MockDocumentFetcher struct {
	mock.Mock
}

func (m *MockDocumentFetcher) FetchText(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

// MockRulesExtractor is a mock of RulesExtractor
type MockRulesExtractor struct {
	mock.Mock
}

func (m *MockRulesExtractor) ExtractRules(ctx context.Context, documentText string) (string, error) {
	args := m.Called(ctx, documentText)
	return args.String(0), args.Error(1)
}

// MockSearchRepository is a mock of SearchRepository
type MockSearchRepository struct {
	mock.Mock
}

func (m *MockSearchRepository) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SearchResult), args.Error(1)
}
