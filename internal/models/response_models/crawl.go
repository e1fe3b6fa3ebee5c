package response_models

// CrawlPlaceResponse mirrors the crawler's full-crawl envelope.
type CrawlPlaceResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    *CrawlPlaceData `json:"data"`
}

type CrawlPlaceData struct {
	Images              []string                   `json:"images"`
	Reviews             []string                   `json:"reviews"`
	BusinessHours       map[string]CrawledDayHours `json:"business_hours"`
	LastOrderMinutes    *int                       `json:"last_order_minutes"`
	OriginalDescription string                     `json:"original_description"`
	AISummary           []string                   `json:"ai_summary"`
	SocialLinks         map[string]string          `json:"social_links"`
	ParkingAvailable    *bool                      `json:"parking_available"`
	PetFriendly         *bool                      `json:"pet_friendly"`
}

type CrawledDayHours struct {
	Open        string `json:"open"`
	Close       string `json:"close"`
	Description string `json:"description"`
	IsOperating bool   `json:"is_operating"`
}

type CrawlImagesResponse struct {
	Images []string `json:"images"`
}

type CrawlMenusResponse struct {
	Menus []CrawledMenu `json:"menus"`
}

type CrawledMenu struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	IsPopular   bool   `json:"is_popular"`
}

// SavedImage pairs a crawled URL with the path it was stored under.
type SavedImage struct {
	SourceURL string `json:"source_url"`
	Path      string `json:"path"`
}
