package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/landuse-microservice/internal/pkg/utils"
	"github.com/landuse-microservice/internal/usecase"
)

// ZoningRulesHandler serves the per-municipality zoning rules cache.
type ZoningRulesHandler struct {
	zoningUC *usecase.ZoningRulesUseCase
	logger   *zap.Logger
}

// NewZoningRulesHandler creates a ZoningRulesHandler.
func NewZoningRulesHandler(zoningUC *usecase.ZoningRulesUseCase, logger *zap.Logger) *ZoningRulesHandler {
	return &ZoningRulesHandler{
		zoningUC: zoningUC,
		logger:   logger,
	}
}

// GetRules godoc
// @Summary Get general zoning rules for a municipality
// @Description Returns the zoning rules derived from the municipality's planning document. The artifact is cached permanently: derived once, replaced only on explicit invalidation.
// @Tags ZoningRules
// @Produce json
// @Param municipality_id path string true "Municipality identifier"
// @Success 200 {object} utils.SuccessResponse{data=dto.ZoningRulesResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /zoning-rules/{municipality_id} [get]
func (h *ZoningRulesHandler) GetRules(c *fiber.Ctx) error {
	resp, err := h.zoningUC.GetRules(c.Context(), c.Params("municipality_id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, resp, nil)
}

// Invalidate godoc
// @Summary Invalidate cached zoning rules
// @Description Drops the stored artifact for a municipality so the next read re-derives it from the current planning document.
// @Tags ZoningRules
// @Produce json
// @Param municipality_id path string true "Municipality identifier"
// @Success 200 {object} utils.SuccessResponse{data=dto.InvalidateResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /zoning-rules/{municipality_id}/invalidate [post]
func (h *ZoningRulesHandler) Invalidate(c *fiber.Ctx) error {
	resp, err := h.zoningUC.Invalidate(c.Context(), c.Params("municipality_id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, resp, nil)
}
