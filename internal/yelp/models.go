package yelp

// Business is a raw business record as returned by the Fusion search endpoint.
type Business struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Rating      float64     `json:"rating"`
	ReviewCount int         `json:"review_count"`
	Price       string      `json:"price,omitempty"`
	URL         string      `json:"url"`
	Distance    float64     `json:"distance"` // meters from the query location
	Coordinates Coordinates `json:"coordinates"`
	Location    Location    `json:"location"`
}

// Coordinates is a business's geographic position.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location holds the display address fields of a business.
type Location struct {
	Address1       string   `json:"address1"`
	City           string   `json:"city"`
	ZipCode        string   `json:"zip_code"`
	DisplayAddress []string `json:"display_address"`
}

// searchResponse is the wire shape of /businesses/search.
type searchResponse struct {
	Businesses []Business `json:"businesses"`
	Total      int        `json:"total"`
}
