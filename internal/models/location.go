package models

import "database/sql"

// Location is a stored location post as it lives in the database.
// PostedAt and ModifiedAt are epoch milliseconds; rendering to zoned text
// happens at listing time. Latitude/longitude of exactly (0, 0) means
// "no coordinates".
type Location struct {
	ID               int
	Name             string
	Description      string
	City             string
	Country          string
	StreetAddress    string
	PostedAt         int64
	Latitude         float64
	Longitude        float64
	Nickname         string
	UpdateReason     sql.NullString
	ModifiedAt       sql.NullInt64
	TimesVisited     int
	WeatherRequested bool
}

// HasCoordinates reports whether the location carries a real coordinate pair.
func (l Location) HasCoordinates() bool {
	return l.Latitude != 0.0 && l.Longitude != 0.0
}

// HasEdit reports whether the location carries an edit annotation.
// update_reason and modified_at are written together, so either suffices.
func (l Location) HasEdit() bool {
	return l.UpdateReason.Valid
}

// LocationEntry is the wire shape of one listing entry. Coordinates appear
// only when both are non-zero; weather only when requested and the lookup
// succeeded; updatereason/modified only when the post was edited.
type LocationEntry struct {
	ID            int      `json:"locationID"`
	Name          string   `json:"locationName"`
	Description   string   `json:"locationDescription"`
	City          string   `json:"locationCity"`
	Country       string   `json:"locationCountry"`
	StreetAddress string   `json:"locationStreetAddress"`
	Poster        string   `json:"originalPoster"`
	PostingTime   string   `json:"originalPostingTime"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Weather       *int     `json:"weather,omitempty"`
	UpdateReason  string   `json:"updatereason,omitempty"`
	Modified      string   `json:"modified,omitempty"`
}

// TopLocation is one row of the most-visited ranking.
type TopLocation struct {
	ID           int    `json:"locationID"`
	Name         string `json:"locationName"`
	TimesVisited int    `json:"timesVisited"`
}
