package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"go.uber.org/zap"

	"github.com/landuse-microservice/internal/domain"
	"github.com/landuse-microservice/internal/domain/repository"
	"github.com/landuse-microservice/internal/pkg/errors"
	"github.com/landuse-microservice/internal/usecase/dto"
)

// ZoningRulesUseCase serves general zoning rules per municipality with
// a permanent read-through cache: derive once, store forever, replace
// only on explicit invalidation.
type ZoningRulesUseCase struct {
	municipalityRepo repository.MunicipalityRepository
	rulesRepo        repository.ZoningRulesRepository
	fetcher          repository.DocumentFetcher
	extractor        repository.RulesExtractor
	logger           *zap.Logger
}

func NewZoningRulesUseCase(
	municipalityRepo repository.MunicipalityRepository,
	rulesRepo repository.ZoningRulesRepository,
	fetcher repository.DocumentFetcher,
	extractor repository.RulesExtractor,
	logger *zap.Logger,
) *ZoningRulesUseCase {
	return &ZoningRulesUseCase{
		municipalityRepo: municipalityRepo,
		rulesRepo:        rulesRepo,
		fetcher:          fetcher,
		extractor:        extractor,
		logger:           logger,
	}
}

// GetRules returns the zoning rules for a municipality, deriving and
// persisting them on the first request.
func (uc *ZoningRulesUseCase) GetRules(ctx context.Context, municipalityID string) (*dto.ZoningRulesResponse, error) {
	if municipalityID == "" {
		return nil, errors.ErrInvalidRequest
	}

	cached, err := uc.rulesRepo.GetByMunicipality(ctx, municipalityID)
	if err != nil {
		return nil, err
	}

	municipality, err := uc.municipalityRepo.GetByID(ctx, municipalityID)
	if err != nil {
		return nil, err
	}
	if municipality == nil {
		return nil, errors.ErrMunicipalityNotFound
	}

	if cached != nil {
		return toZoningResponse(cached, municipality.Name, "cache"), nil
	}

	derived, err := uc.derive(ctx, municipality)
	if err != nil {
		return nil, err
	}
	return toZoningResponse(derived, municipality.Name, "derived"), nil
}

// Invalidate drops the stored artifact so the next read re-derives it.
func (uc *ZoningRulesUseCase) Invalidate(ctx context.Context, municipalityID string) (*dto.InvalidateResponse, error) {
	if municipalityID == "" {
		return nil, errors.ErrInvalidRequest
	}

	municipality, err := uc.municipalityRepo.GetByID(ctx, municipalityID)
	if err != nil {
		return nil, err
	}
	if municipality == nil {
		return nil, errors.ErrMunicipalityNotFound
	}

	if err := uc.rulesRepo.Delete(ctx, municipalityID); err != nil {
		return nil, err
	}

	uc.logger.Info("Zoning rules invalidated", zap.String("municipality_id", municipalityID))
	return &dto.InvalidateResponse{MunicipalityID: municipalityID, Invalidated: true}, nil
}

// derive fetches the municipality's planning document, extracts general
// rules from it and stores the artifact permanently.
func (uc *ZoningRulesUseCase) derive(ctx context.Context, municipality *domain.Municipality) (*domain.ZoningRules, error) {
	if municipality.PDMDocumentURL == "" {
		return nil, errors.ErrZoningRulesUnavailable
	}

	text, err := uc.fetcher.FetchText(ctx, municipality.PDMDocumentURL)
	if err != nil {
		uc.logger.Error("Failed to fetch planning document",
			zap.String("municipality_id", municipality.ID),
			zap.String("url", municipality.PDMDocumentURL),
			zap.Error(err))
		return nil, errors.ErrZoningRulesUnavailable
	}

	rules, err := uc.extractor.ExtractRules(ctx, text)
	if err != nil {
		uc.logger.Error("Failed to extract zoning rules",
			zap.String("municipality_id", municipality.ID),
			zap.Error(err))
		return nil, errors.ErrZoningRulesUnavailable
	}

	hash := sha256.Sum256([]byte(text))
	artifact := &domain.ZoningRules{
		MunicipalityID: municipality.ID,
		Rules:          rules,
		DocumentHash:   hex.EncodeToString(hash[:]),
	}

	if err := uc.rulesRepo.Upsert(ctx, artifact); err != nil {
		// Derivation succeeded; serve the result even if the write failed.
		uc.logger.Error("Failed to store zoning rules",
			zap.String("municipality_id", municipality.ID),
			zap.Error(err))
	}

	return artifact, nil
}

func toZoningResponse(rules *domain.ZoningRules, municipalityName, source string) *dto.ZoningRulesResponse {
	return &dto.ZoningRulesResponse{
		MunicipalityID: rules.MunicipalityID,
		Municipality:   municipalityName,
		Rules:          rules.Rules,
		DocumentHash:   rules.DocumentHash,
		CachedAt:       rules.CachedAt,
		Source:         source,
	}
}
