package advisory

// MandiQuote is the response shape of a fallback price.
type MandiQuote struct {
	District  string  `json:"district"`
	Crop      string  `json:"crop"`
	Price     float64 `json:"price"`
	UpdatedAt string  `json:"updatedAt"`
}

// FallbackMandiPrices is served when a district has no stored prices. The
// quotes are not persisted.
func FallbackMandiPrices(district, updatedAt string) []MandiQuote {
	return []MandiQuote{
		{District: district, Crop: "Wheat", Price: 1850, UpdatedAt: updatedAt},
		{District: district, Crop: "Rice", Price: 2100, UpdatedAt: updatedAt},
	}
}
