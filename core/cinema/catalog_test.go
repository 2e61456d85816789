package cinema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/aarthigrand/cinebot/core/config"
)

const testCatalog = `[
  {
    "id": "wretro1",
    "title": "Women's FDFS-RETRO",
    "duration": 180,
    "showtimes": ["9:00 AM"],
    "price": 150.0,
    "special_show": true,
    "trigger_code": "wretro"
  },
  {
    "id": "regular1",
    "title": "Weekend Feature",
    "duration": 150,
    "showtimes": ["11:00 AM", "3:00 PM"],
    "price": 120.0,
    "special_show": false
  }
]`

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movies.json")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))

	cat, err := Load(coreconfig.CinemaConfig{
		Name:       "Aarthi Grand Cineplex",
		Location:   "Dindigul",
		MoviesFile: path,
	})
	require.NoError(t, err)
	return cat
}

func TestLoadAndLookups(t *testing.T) {
	cat := loadTestCatalog(t)

	assert.Equal(t, "Aarthi Grand Cineplex", cat.CinemaName())
	assert.Equal(t, "Dindigul", cat.SingleLocation())

	assert.True(t, cat.IsSpecialShow("wretro"))
	assert.True(t, cat.IsSpecialShow("WRETRO"))
	assert.False(t, cat.IsSpecialShow("regular1"))
	assert.False(t, cat.IsSpecialShow("missing"))
	assert.False(t, cat.IsSpecialShow(""))

	assert.Equal(t, []string{"wretro"}, cat.SpecialShowCodes())
}

func TestTriggerDefaultsToMovieID(t *testing.T) {
	assert.Equal(t, "wretro", Movie{ID: "wretro1", TriggerCode: "WRetro"}.Trigger())
	assert.Equal(t, "regular1", Movie{ID: "regular1"}.Trigger())
}

func TestMoviesByLocation(t *testing.T) {
	cat := loadTestCatalog(t)

	assert.Len(t, cat.MoviesByLocation("Dindigul"), 2)
	assert.Len(t, cat.MoviesByLocation("dindigul"), 2)
	assert.Empty(t, cat.MoviesByLocation("Madurai"))
}

func TestSpecialShows(t *testing.T) {
	cat := loadTestCatalog(t)

	shows := cat.SpecialShows("Dindigul")
	require.Len(t, shows, 1)
	assert.Equal(t, "wretro1", shows[0].ID)

	assert.Len(t, cat.SpecialShows(""), 1)
}

func TestShowtimes(t *testing.T) {
	cat := loadTestCatalog(t)

	assert.Equal(t, []string{"9:00 AM"}, cat.Showtimes("wretro1", "Dindigul"))
	assert.Nil(t, cat.Showtimes("missing", "Dindigul"))
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(coreconfig.CinemaConfig{MoviesFile: filepath.Join(t.TempDir(), "absent.json")})
	assert.Error(t, err)
}

func TestEnsureSampleData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "movies.json")

	require.NoError(t, EnsureSampleData(path))

	cat, err := Load(coreconfig.CinemaConfig{Name: "Test", Location: "Dindigul", MoviesFile: path})
	require.NoError(t, err)
	require.Equal(t, []string{"wretro"}, cat.SpecialShowCodes())
	assert.True(t, cat.IsSpecialShow("wretro"))

	// A second call must not clobber the existing file.
	require.NoError(t, EnsureSampleData(path))
}
