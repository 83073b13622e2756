package dto

// CatalogNamesResponse lists the distinct hardware names in the catalog
type CatalogNamesResponse struct {
	Message string   `json:"message"`
	Names   []string `json:"names"`
}

// CatalogModelsResponse lists the models recorded under one hardware name
type CatalogModelsResponse struct {
	Message string   `json:"message"`
	Name    string   `json:"name"`
	Models  []string `json:"models"`
}

// AvailabilityResponse reports whether the requested quantity is on hand
type AvailabilityResponse struct {
	Message    string `json:"message"`
	Name       string `json:"name"`
	Requested  int64  `json:"requested"`
	Available  int64  `json:"available"`
	Sufficient bool   `json:"sufficient"`
}

// FreeUnitsResponse reports how many units of a name+model pool are free
type FreeUnitsResponse struct {
	Message   string   `json:"message"`
	Name      string   `json:"name"`
	Model     *string  `json:"model,omitempty"`
	FreeCount int      `json:"free_count"`
	FreeUnits []string `json:"free_units"`
}
