package dto

type RouteSummaryResponse struct {
	Index           int     `json:"index"`
	Duration        string  `json:"duration"`
	Distance        string  `json:"distance"`
	DurationSeconds float64 `json:"duration_seconds"`
	DistanceMeters  float64 `json:"distance_meters"`
	Fastest         bool    `json:"fastest"`
	Active          bool    `json:"active"`
}

type RoutesResponse struct {
	Loading       bool                   `json:"loading"`
	Outcome       string                 `json:"outcome"`
	SelectedIndex *int                   `json:"selected_index"`
	RenderOrder   []int                  `json:"render_order"`
	Routes        []RouteSummaryResponse `json:"routes"`
}

type SelectRequest struct {
	Index *int `json:"index"`
}

type ClickRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}
