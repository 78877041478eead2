package dto

import (
	"time"

	"fieldops/internal/core/numbering"
)

// FormatConfigPayload is one numbering configuration in a PUT request.
// Counter, padding and resetPeriod may be omitted; the service fills
// sensible defaults for the number type.
type FormatConfigPayload struct {
	Format      string `json:"format" binding:"required"`
	Counter     int64  `json:"counter"`
	Padding     int    `json:"padding"`
	ResetPeriod string `json:"resetPeriod"`
}

// UpdateFormatsRequest maps number type to its new configuration.
// Types absent from the request keep their current configuration.
type UpdateFormatsRequest map[string]FormatConfigPayload

// ToFormatMap converts the request into the domain representation.
func (r UpdateFormatsRequest) ToFormatMap() numbering.FormatMap {
	formats := make(numbering.FormatMap, len(r))
	for rawType, p := range r {
		formats[numbering.Type(rawType)] = numbering.FormatConfig{
			Format:      p.Format,
			Counter:     p.Counter,
			Padding:     p.Padding,
			ResetPeriod: numbering.ResetPeriod(p.ResetPeriod),
		}
	}
	return formats
}

// FormatConfigResponse is one numbering configuration in a response.
type FormatConfigResponse struct {
	Format      string    `json:"format"`
	Counter     int64     `json:"counter"`
	Padding     int       `json:"padding"`
	ResetPeriod string    `json:"resetPeriod"`
	LastReset   time.Time `json:"lastReset"`
}

// FormatsResponse maps number type to its effective configuration.
type FormatsResponse map[string]FormatConfigResponse

// FromFormatMap converts the domain representation into a response.
func FromFormatMap(formats numbering.FormatMap) FormatsResponse {
	resp := make(FormatsResponse, len(formats))
	for t, cfg := range formats {
		resp[string(t)] = FormatConfigResponse{
			Format:      cfg.Format,
			Counter:     cfg.Counter,
			Padding:     cfg.Padding,
			ResetPeriod: string(cfg.ResetPeriod),
			LastReset:   cfg.LastReset,
		}
	}
	return resp
}

// PreviewRequest asks to render a format template without touching counters.
type PreviewRequest struct {
	Format  string `json:"format" binding:"required"`
	Counter int64  `json:"counter"`
	Padding int    `json:"padding"`
}

// PreviewResponse contains the rendered sample number.
type PreviewResponse struct {
	Preview string `json:"preview"`
}

// GenerateResponse contains a freshly issued number.
type GenerateResponse struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}
