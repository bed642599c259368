// Package showcase serves the static content of the demo landing page.
package showcase

import (
	"time"

	"worldmandia-web/internal/models"
)

// Catalog provides the landing page content
type Catalog struct {
	now      func() time.Time
	location *time.Location
}

// NewCatalog creates a catalog reporting times in loc (local time when nil)
func NewCatalog(loc *time.Location) *Catalog {
	if loc == nil {
		loc = time.Local
	}
	return &Catalog{now: time.Now, location: loc}
}

// Features returns the feature grid entries
func (c *Catalog) Features() []models.Feature {
	return []models.Feature{
		{Title: "Performance", Icon: "speed", Description: "Lightning fast with Wasm"},
		{Title: "Design", Icon: "palette", Description: "Material Design 3"},
		{Title: "Responsive", Icon: "devices", Description: "All screen sizes"},
		{Title: "Type Safe", Icon: "security", Description: "Typed end to end"},
	}
}

// Stats returns the headline numbers
func (c *Catalog) Stats() models.Stats {
	return models.Stats{
		Performance: "99%",
		Support:     "24/7",
		Users:       "1M+",
		Rating:      "5 stars",
	}
}

// Time returns today's date and the current wall clock time
func (c *Catalog) Time() models.TimeInfo {
	now := c.now().In(c.location)
	return models.TimeInfo{
		Date:     now.Format(time.DateOnly),
		Time:     now.Format("15:04"),
		Timezone: c.location.String(),
	}
}
