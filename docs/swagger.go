// Package docs Land Use Microservice API.
//
// Microservice for enriching geographic coordinates and plot polygons with
// land-use context from public geospatial services. Aggregates administrative
// divisions, cadastral parcels, municipal zoning classifications, land cover,
// elevation and nearby amenities into a single response.
//
// Main capabilities:
// - Point and polygon enrichment across country-aware provider layers
// - Municipal zoning classification resolved through OGC API collections
// - Cadastral parcel lookup for Portugal and Spain (INSPIRE WFS)
// - Permanent zoning-rules cache derived from municipal planning documents
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs
