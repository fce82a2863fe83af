package errors

import "net/http"

var (
	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates: lat must be in [-90, 90] and lng in [-180, 180]",
		http.StatusBadRequest,
	)

	ErrInvalidArea = New(
		"INVALID_AREA",
		"Invalid area: must be a positive number of square meters",
		http.StatusBadRequest,
	)

	ErrInvalidCountry = New(
		"INVALID_COUNTRY",
		"Invalid country: must be one of PT, ES",
		http.StatusBadRequest,
	)

	ErrInvalidPolygon = New(
		"INVALID_POLYGON",
		"Invalid polygon: expected a GeoJSON Polygon with at least 3 distinct vertices",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrMunicipalityNotFound = New(
		"MUNICIPALITY_NOT_FOUND",
		"Municipality not found",
		http.StatusNotFound,
	)

	ErrZoningRulesUnavailable = New(
		"ZONING_RULES_UNAVAILABLE",
		"Zoning rules could not be derived for this municipality",
		http.StatusNotFound,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
