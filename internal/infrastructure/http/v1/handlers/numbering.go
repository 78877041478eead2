package handlers

import (
	"github.com/gin-gonic/gin"

	corenumbering "fieldops/internal/core/numbering"
	"fieldops/internal/domain/numbering"
	"fieldops/internal/infrastructure/http/v1/dto"
)

// NumberingHandler serves number format settings and number generation.
type NumberingHandler struct {
	*BaseHandler
	service *numbering.Service
}

// NewNumberingHandler creates a numbering handler.
func NewNumberingHandler(base *BaseHandler, service *numbering.Service) *NumberingHandler {
	return &NumberingHandler{BaseHandler: base, service: service}
}

// GetFormats returns the effective numbering configuration for the tenant.
// Stored settings win; built-in defaults fill the gaps.
// GET /api/v1/settings/number-formats
func (h *NumberingHandler) GetFormats(c *gin.Context) {
	formats, err := h.service.GetFormats(c.Request.Context(), h.GetTenantID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromFormatMap(formats))
}

// UpdateFormats replaces configuration for the number types present in the
// request body and returns the full effective configuration.
// PUT /api/v1/settings/number-formats
func (h *NumberingHandler) UpdateFormats(c *gin.Context) {
	var req dto.UpdateFormatsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	formats, err := h.service.UpdateFormats(c.Request.Context(), h.GetTenantID(c), req.ToFormatMap())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromFormatMap(formats))
}

// Defaults returns the built-in numbering configuration.
// GET /api/v1/settings/number-formats/defaults
func (h *NumberingHandler) Defaults(c *gin.Context) {
	h.OK(c, dto.FromFormatMap(h.service.Defaults()))
}

// Preview renders a format template with a sample counter without
// touching any stored state.
// POST /api/v1/settings/number-formats/preview
func (h *NumberingHandler) Preview(c *gin.Context) {
	var req dto.PreviewRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.OK(c, dto.PreviewResponse{
		Preview: h.service.PreviewFormat(req.Format, req.Counter, req.Padding),
	})
}

// Generate issues the next number for the given type.
// POST /api/v1/numbers/:type
func (h *NumberingHandler) Generate(c *gin.Context) {
	numberType := corenumbering.Type(c.Param("type"))

	number, err := h.service.Generate(c.Request.Context(), h.GetTenantID(c), numberType)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.GenerateResponse{
		Type:   string(numberType),
		Number: number,
	})
}
