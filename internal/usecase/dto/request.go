package dto

import (
	"github.com/landuse-microservice/internal/domain"
)

// LayerInfoQuery holds the GET /layer-info query parameters.
type LayerInfoQuery struct {
	Lat     float64 `query:"lat" validate:"min=-90,max=90"`
	Lng     float64 `query:"lng" validate:"min=-180,max=180"`
	Country string  `query:"country" validate:"omitempty,len=2"`
	AreaM2  float64 `query:"area"`
}

// LayerInfoRequest is the POST /layer-info body. Either a point or a
// GeoJSON polygon must be present; with a polygon, coordinate and area
// are derived from its outer ring.
type LayerInfoRequest struct {
	Lat     *float64               `json:"lat" validate:"omitempty,min=-90,max=90"`
	Lng     *float64               `json:"lng" validate:"omitempty,min=-180,max=180"`
	Polygon *domain.GeoJSONPolygon `json:"polygon"`
	Country string                 `json:"country" validate:"omitempty,len=2"`
	AreaM2  float64                `json:"area_m2"`
	Persist bool                   `json:"persist"`
}
