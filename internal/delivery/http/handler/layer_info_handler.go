package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/landuse-microservice/internal/pkg/errors"
	"github.com/landuse-microservice/internal/pkg/utils"
	"github.com/landuse-microservice/internal/pkg/validator"
	"github.com/landuse-microservice/internal/usecase"
	"github.com/landuse-microservice/internal/usecase/dto"
)

// layerInfoCacheControl allows proxies to cache fused responses for the
// same window as the server-side cache.
const layerInfoCacheControl = "public, max-age=300"

// LayerInfoHandler serves the land-use enrichment endpoints.
type LayerInfoHandler struct {
	enrichmentUC *usecase.EnrichmentUseCase
	logger       *zap.Logger
}

// NewLayerInfoHandler creates a LayerInfoHandler.
func NewLayerInfoHandler(enrichmentUC *usecase.EnrichmentUseCase, logger *zap.Logger) *LayerInfoHandler {
	return &LayerInfoHandler{
		enrichmentUC: enrichmentUC,
		logger:       logger,
	}
}

// GetLayerInfo godoc
// @Summary Enrich a point with land-use layers
// @Description Fuses administrative, cadastral, zoning, land-cover, elevation and amenity layers for a WGS84 point. Providers for other countries are pruned from the response.
// @Tags LayerInfo
// @Produce json
// @Param lat query number true "Latitude in [-90, 90]"
// @Param lng query number true "Longitude in [-180, 180]"
// @Param country query string false "ISO country code (PT, ES); reverse geocoded when omitted"
// @Param area query number false "Plot area in square meters"
// @Success 200 {object} utils.SuccessResponse{data=domain.EnrichmentResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /layer-info [get]
func (h *LayerInfoHandler) GetLayerInfo(c *fiber.Ctx) error {
	// Missing and non-numeric parameters are rejected here: QueryFloat
	// would silently read them as 0, a valid coordinate.
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidCoordinates)
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidCoordinates)
	}

	query := dto.LayerInfoQuery{
		Lat:     lat,
		Lng:     lng,
		Country: c.Query("country"),
	}
	if raw := c.Query("area"); raw != "" {
		area, err := strconv.ParseFloat(raw, 64)
		if err != nil || area <= 0 {
			return utils.SendError(c, errors.ErrInvalidArea)
		}
		query.AreaM2 = area
	}

	req, err := h.enrichmentUC.ResolveQuery(query)
	if err != nil {
		return utils.SendError(c, err)
	}

	resp, err := h.enrichmentUC.Enrich(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Set(fiber.HeaderCacheControl, layerInfoCacheControl)
	return utils.SendSuccess(c, resp, nil)
}

// PostLayerInfo godoc
// @Summary Enrich a point or plot polygon with land-use layers
// @Description Accepts either a point or a GeoJSON polygon. With a polygon, the coordinate becomes the ring centroid and missing area is computed from the ring. Set persist to store the dossier durably.
// @Tags LayerInfo
// @Accept json
// @Produce json
// @Param request body dto.LayerInfoRequest true "Point or polygon to enrich"
// @Success 200 {object} utils.SuccessResponse{data=domain.EnrichmentResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /layer-info [post]
func (h *LayerInfoHandler) PostLayerInfo(c *fiber.Ctx) error {
	var body dto.LayerInfoRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&body); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	req, err := h.enrichmentUC.ResolveBody(body)
	if err != nil {
		return utils.SendError(c, err)
	}

	resp, err := h.enrichmentUC.Enrich(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Set(fiber.HeaderCacheControl, layerInfoCacheControl)
	return utils.SendSuccess(c, resp, nil)
}
