// Package cinema provides the read-only movie catalog backed by a JSON file.
package cinema

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	coreconfig "github.com/aarthigrand/cinebot/core/config"
	"github.com/aarthigrand/cinebot/core/logger"
	"log/slog"
)

// Movie describes a single catalog entry.
type Movie struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    int      `json:"duration"`
	Showtimes   []string `json:"showtimes"`
	Price       float64  `json:"price"`
	SpecialShow bool     `json:"special_show"`
	// TriggerCode is the user-facing "#<code>" chat command for a special
	// show; it defaults to the movie id when absent.
	TriggerCode string `json:"trigger_code,omitempty"`
	Location    string `json:"location,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Trigger returns the lowercased chat command code for the movie.
func (m Movie) Trigger() string {
	code := m.TriggerCode
	if strings.TrimSpace(code) == "" {
		code = m.ID
	}
	return strings.ToLower(strings.TrimSpace(code))
}

// Catalog holds the loaded movie set together with the configured cinema.
// All lookups are read-only after Load.
type Catalog struct {
	cinema   coreconfig.CinemaConfig
	movies   map[string]Movie
	triggers map[string]Movie
}

// Load reads the catalog file and builds the in-memory index.
func Load(cfg coreconfig.CinemaConfig) (*Catalog, error) {
	data, err := os.ReadFile(cfg.MoviesFile)
	if err != nil {
		return nil, fmt.Errorf("read movie catalog: %w", err)
	}
	var entries []Movie
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse movie catalog: %w", err)
	}

	movies := make(map[string]Movie, len(entries))
	triggers := make(map[string]Movie)
	for _, m := range entries {
		if strings.TrimSpace(m.ID) == "" {
			continue
		}
		movies[m.ID] = m
		if code := m.Trigger(); code != "" {
			triggers[code] = m
		}
	}

	logger.Info(context.Background(), "cinema", "catalog.loaded",
		slog.Int("movies", len(movies)),
		slog.String("location", cfg.Location),
	)

	return &Catalog{cinema: cfg, movies: movies, triggers: triggers}, nil
}

// CinemaName returns the configured cinema complex name.
func (c *Catalog) CinemaName() string {
	return c.cinema.Name
}

// SingleLocation returns the single configured location.
func (c *Catalog) SingleLocation() string {
	return c.cinema.Location
}

// IsSpecialShow reports whether the token is the trigger code of a
// restricted special show. Matching is case-insensitive.
func (c *Catalog) IsSpecialShow(token string) bool {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return false
	}
	m, ok := c.triggers[token]
	return ok && m.SpecialShow
}

// SpecialShowCodes returns the trigger codes of all special shows, for
// "#<code>" token matching. The minimal flow has exactly one.
func (c *Catalog) SpecialShowCodes() []string {
	var codes []string
	for code, m := range c.triggers {
		if m.SpecialShow {
			codes = append(codes, code)
		}
	}
	return codes
}

// MoviesByLocation returns the movies playing at the given location.
// Movies without an explicit location play everywhere.
func (c *Catalog) MoviesByLocation(location string) []Movie {
	if !strings.EqualFold(location, c.cinema.Location) {
		return nil
	}
	var out []Movie
	for _, m := range c.movies {
		if m.Location == "" || strings.EqualFold(m.Location, location) {
			out = append(out, m)
		}
	}
	return out
}

// SpecialShows returns all special shows at the given location; an empty
// location returns every special show.
func (c *Catalog) SpecialShows(location string) []Movie {
	var out []Movie
	for _, m := range c.movies {
		if !m.SpecialShow {
			continue
		}
		if location != "" && m.Location != "" && !strings.EqualFold(m.Location, location) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Showtimes returns the showtimes of a movie at a location, or nil when the
// movie is unknown or not playing there.
func (c *Catalog) Showtimes(movieID, location string) []string {
	m, ok := c.movies[movieID]
	if !ok {
		return nil
	}
	if m.Location != "" && !strings.EqualFold(m.Location, location) {
		return nil
	}
	return m.Showtimes
}

// sampleCatalog seeds a first-run catalog with the single special show.
var sampleCatalog = []Movie{
	{
		ID:          "wretro1",
		Title:       "Women's FDFS-RETRO",
		Description: "Special show for women only",
		Duration:    180,
		Showtimes:   []string{"9:00 AM"},
		Price:       150.0,
		SpecialShow: true,
		TriggerCode: "wretro",
	},
}

// EnsureSampleData writes a sample catalog file when none exists yet.
func EnsureSampleData(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat movie catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := json.MarshalIndent(sampleCatalog, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sample catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write sample catalog: %w", err)
	}
	logger.Info(context.Background(), "cinema", "catalog.sample_created",
		slog.String("path", path),
	)
	return nil
}
