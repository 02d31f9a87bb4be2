package api

type GeoPhoto struct {
	ID           int64    `json:"id"`
	URI          string   `json:"uri"`
	TakenAt      string   `json:"taken_at"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	City         *string  `json:"city"`
	Region       *string  `json:"region"`
	Country      *string  `json:"country"`
	Note         *string  `json:"note"`
	MediaAssetID *string  `json:"media_asset_id"`
}

type NoteUpdate struct {
	Note string `json:"note"`
}

type CaptureResponse struct {
	ID          int64    `json:"id"`
	URI         string   `json:"uri"`
	MediaSaved  bool     `json:"media_saved"`
	RecordSaved bool     `json:"record_saved"`
	Warnings    []string `json:"warnings,omitempty"`
}

type DeleteResponse struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

type LocationStatus struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Accuracy  *float64 `json:"accuracy"`
	City      *string  `json:"city"`
	Region    *string  `json:"region"`
	Country   *string  `json:"country"`
	Loading   bool     `json:"loading"`
	Error     string   `json:"error,omitempty"`
}
