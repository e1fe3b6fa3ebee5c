package response_models

type RefreshResult struct {
	PlaceID   string `json:"place_id"`
	PlaceName string `json:"place_name"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`

	ImagesStored        int  `json:"images_stored"`
	NewReviews          int  `json:"new_reviews"`
	TotalReviews        int  `json:"total_reviews"`
	BusinessHoursStored int  `json:"business_hours_stored"`
	MenusStored         int  `json:"menus_stored"`
	MenusWithImage      int  `json:"menus_with_image"`
	DescriptionUpdated  bool `json:"description_updated"`

	NewImages      []string `json:"new_images"`
	NewReviewTexts []string `json:"new_reviews_list"`
	NewMenus       []string `json:"new_menus"`
}

type PlaceRefreshOutcome struct {
	PlaceID        string `json:"place_id"`
	PlaceName      string `json:"place_name"`
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	ImagesStored   int    `json:"images_stored"`
	NewReviews     int    `json:"new_reviews"`
	MenusStored    int    `json:"menus_stored"`
	MenusWithImage int    `json:"menus_with_image"`
}

type BatchRefreshResult struct {
	Total         int                   `json:"total"`
	SuccessCount  int                   `json:"success_count"`
	FailureCount  int                   `json:"failure_count"`
	ElapsedMillis int64                 `json:"elapsed_ms"`
	Results       []PlaceRefreshOutcome `json:"results"`
}
