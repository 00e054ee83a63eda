// Package intake classifies inbound message payloads and drives the location
// repository. A payload is exactly one of three things, decided in priority
// order: a visit (locationID + locationVisitor), an edit (locationID +
// updatereason), or a new post (everything else).
package intake

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/okarhu/locboard/internal/metrics"
	"github.com/okarhu/locboard/internal/models"
	"github.com/okarhu/locboard/internal/timeutil"
)

// LocationStore is the slice of the repository the intake service drives.
type LocationStore interface {
	Insert(ctx context.Context, loc models.Location) (int, error)
	Update(ctx context.Context, id int, loc models.Location, reason string, editEpoch int64) (bool, error)
	IncrementVisit(ctx context.Context, id int) (bool, error)
	ListAll(ctx context.Context) ([]models.Location, error)
}

// NicknameResolver maps an authenticated username to its display name.
type NicknameResolver interface {
	ResolveNickname(ctx context.Context, username string) (string, error)
}

// WeatherLookup fetches a temperature code for a coordinate pair.
type WeatherLookup interface {
	Lookup(ctx context.Context, latitude, longitude float64) (int, error)
}

// Service wires the classification logic to its collaborators.
// Weather may be nil, which disables enrichment.
type Service struct {
	Locations LocationStore
	Users     NicknameResolver
	Weather   WeatherLookup
}

func NewService(locations LocationStore, users NicknameResolver, weather WeatherLookup) *Service {
	return &Service{Locations: locations, Users: users, Weather: weather}
}

// payload is the decoded request body. Pointer fields make key presence
// explicit so classification never has to re-probe the raw JSON. Weather is
// kept raw because presence of the key — not its value — sets the flag.
type payload struct {
	LocationID      *int            `json:"locationID"`
	LocationVisitor *string         `json:"locationVisitor"`
	UpdateReason    *string         `json:"updatereason"`
	Name            string          `json:"locationName"`
	Description     string          `json:"locationDescription"`
	City            string          `json:"locationCity"`
	Country         string          `json:"locationCountry"`
	StreetAddress   string          `json:"locationStreetAddress"`
	PostingTime     string          `json:"originalPostingTime"`
	Latitude        float64         `json:"latitude"`
	Longitude       float64         `json:"longitude"`
	Weather         json.RawMessage `json:"weather"`
}

// hasRequiredFields checks the fields every post and edit must carry.
func (p *payload) hasRequiredFields() bool {
	return p.Name != "" && p.Description != "" && p.City != "" &&
		p.Country != "" && p.StreetAddress != "" && p.PostingTime != "" &&
		timeutil.IsValid(p.PostingTime)
}

// Handle classifies raw against the three payload kinds and performs the
// single store mutation the kind calls for. The boolean is the validation
// outcome; a non-nil error means the store itself failed and the request
// should be reported as a server-side fault. No branch mutates anything
// before all of its validation has passed.
func (s *Service) Handle(ctx context.Context, raw []byte, username string) (bool, error) {
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return false, nil
	}

	switch {
	case p.LocationID != nil && p.LocationVisitor != nil:
		ok, err := s.visit(ctx, &p, username)
		metrics.IncMessage("visit", ok && err == nil)
		return ok, err
	case p.LocationID != nil && p.UpdateReason != nil:
		ok, err := s.edit(ctx, &p, username)
		metrics.IncMessage("edit", ok && err == nil)
		return ok, err
	default:
		ok, err := s.post(ctx, &p, username)
		metrics.IncMessage("post", ok && err == nil)
		return ok, err
	}
}

// visit increments the visit counter. Succeeds iff the location exists.
func (s *Service) visit(ctx context.Context, p *payload, username string) (bool, error) {
	nickname, err := s.Users.ResolveNickname(ctx, username)
	if err != nil {
		return false, err
	}
	if nickname == "" {
		return false, nil
	}

	return s.Locations.IncrementVisit(ctx, *p.LocationID)
}

// edit overwrites the descriptive fields of an existing location and stamps
// the edit annotation with the current time. The author and original posting
// time stay untouched.
func (s *Service) edit(ctx context.Context, p *payload, username string) (bool, error) {
	if !p.hasRequiredFields() {
		return false, nil
	}

	nickname, err := s.Users.ResolveNickname(ctx, username)
	if err != nil {
		return false, err
	}
	if nickname == "" {
		return false, nil
	}

	loc := models.Location{
		Name:          p.Name,
		Description:   p.Description,
		City:          p.City,
		Country:       p.Country,
		StreetAddress: p.StreetAddress,
		Latitude:      p.Latitude,
		Longitude:     p.Longitude,
	}

	return s.Locations.Update(ctx, *p.LocationID, loc, *p.UpdateReason, timeutil.NowEpoch())
}

// post inserts a new location. The weather flag is set by mere presence of
// the "weather" key; its value is ignored.
func (s *Service) post(ctx context.Context, p *payload, username string) (bool, error) {
	if !p.hasRequiredFields() {
		return false, nil
	}

	nickname, err := s.Users.ResolveNickname(ctx, username)
	if err != nil {
		return false, err
	}
	if nickname == "" {
		return false, nil
	}

	postedAt, err := timeutil.ParseZonedTime(p.PostingTime)
	if err != nil {
		return false, nil
	}

	loc := models.Location{
		Name:             p.Name,
		Description:      p.Description,
		City:             p.City,
		Country:          p.Country,
		StreetAddress:    p.StreetAddress,
		PostedAt:         postedAt,
		Latitude:         p.Latitude,
		Longitude:        p.Longitude,
		Nickname:         nickname,
		WeatherRequested: len(p.Weather) > 0,
	}

	if _, err := s.Locations.Insert(ctx, loc); err != nil {
		return false, err
	}
	return true, nil
}

// ListEntries renders every stored location for the listing response.
// Coordinates appear only when both are non-zero; inside that branch a
// requested weather annotation is attempted and any lookup failure is logged
// and swallowed so the listing always succeeds.
func (s *Service) ListEntries(ctx context.Context) ([]models.LocationEntry, error) {
	locations, err := s.Locations.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]models.LocationEntry, 0, len(locations))
	for _, loc := range locations {
		entry := models.LocationEntry{
			ID:            loc.ID,
			Name:          loc.Name,
			Description:   loc.Description,
			City:          loc.City,
			Country:       loc.Country,
			StreetAddress: loc.StreetAddress,
			Poster:        loc.Nickname,
			PostingTime:   timeutil.FormatEpoch(loc.PostedAt),
		}

		if loc.HasCoordinates() {
			lat, lon := loc.Latitude, loc.Longitude
			entry.Latitude = &lat
			entry.Longitude = &lon

			if loc.WeatherRequested && s.Weather != nil {
				temp, err := s.Weather.Lookup(ctx, lat, lon)
				if err != nil {
					metrics.IncWeatherLookup(false)
					slog.Warn("weather lookup failed",
						"location_id", loc.ID,
						"error", err)
				} else {
					metrics.IncWeatherLookup(true)
					entry.Weather = &temp
				}
			}
		}

		if loc.HasEdit() {
			entry.UpdateReason = loc.UpdateReason.String
			entry.Modified = timeutil.FormatEpoch(loc.ModifiedAt.Int64)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
