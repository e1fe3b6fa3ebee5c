package request_models

// CrawlPlaceRequest is the body sent to the crawler's full-crawl endpoint.
type CrawlPlaceRequest struct {
	SearchQuery string `json:"search_query"`
	PlaceName   string `json:"place_name"`
}

// CrawlTargetRequest is used by the narrower image and menu endpoints.
type CrawlTargetRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// DescriptionPrompt is the input of a description generator.
type DescriptionPrompt struct {
	PlaceName           string
	AISummary           string
	ReviewSnippet       string
	OriginalDescription string
	Category            string
	PetFriendly         bool
}
