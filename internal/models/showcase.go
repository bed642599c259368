package models

// Feature is one entry of the feature grid rendered by the UI
type Feature struct {
	Title       string `json:"title"`
	Icon        string `json:"icon"` // Material icon name
	Description string `json:"description"`
}

// Stats holds the headline numbers shown on the landing page
type Stats struct {
	Performance string `json:"performance"`
	Support     string `json:"support"`
	Users       string `json:"users"`
	Rating      string `json:"rating"`
}

// TimeInfo is the server's view of the current date and time
type TimeInfo struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Time     string `json:"time"` // HH:MM
	Timezone string `json:"timezone"`
}
