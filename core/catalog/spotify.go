// Package catalog queries an external music catalog for candidate tracks
// matching a name/artist pair.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

// Track is one candidate from the catalog, with its contributor names and
// the album's image variants.
type Track struct {
	Artists []string
	Images  []Image
}

// Image is one cover-art variant.
type Image struct {
	Height int
	Width  int
	URL    string
}

// Search finds candidate tracks for a name/artist pair, ranked by the
// catalog's own relevance.
type Search interface {
	SearchTrack(ctx context.Context, name, artist string) ([]Track, error)
}

const (
	searchMarket = "ES"
	searchLimit  = 20
)

// SpotifyClient implements Search against the Spotify web API using the
// client-credentials flow. The API client is built once and reused; the
// underlying oauth2 transport refreshes the token as needed.
type SpotifyClient struct {
	clientID string
	secret   string

	mu  sync.Mutex
	api *spotify.Client
}

// NewSpotify creates a Spotify-backed catalog search.
func NewSpotify(clientID, secret string) *SpotifyClient {
	return &SpotifyClient{clientID: clientID, secret: secret}
}

// SearchTrack queries the track search endpoint and maps the result set.
func (c *SpotifyClient) SearchTrack(ctx context.Context, name, artist string) ([]Track, error) {
	api, err := c.client()
	if err != nil {
		return nil, fmt.Errorf("building spotify client: %w", err)
	}

	query := fmt.Sprintf("track:%s artist:%s",
		strings.ReplaceAll(name, " ", "-"),
		strings.ReplaceAll(artist, " ", "-"),
	)

	results, err := api.Search(ctx, query, spotify.SearchTypeTrack,
		spotify.Market(searchMarket), spotify.Limit(searchLimit))
	if err != nil {
		return nil, fmt.Errorf("spotify search %q: %w", query, err)
	}

	if results.Tracks == nil {
		return nil, nil
	}

	tracks := make([]Track, 0, len(results.Tracks.Tracks))
	for _, ft := range results.Tracks.Tracks {
		t := Track{}
		for _, a := range ft.Artists {
			t.Artists = append(t.Artists, a.Name)
		}
		for _, img := range ft.Album.Images {
			t.Images = append(t.Images, Image{
				Height: int(img.Height),
				Width:  int(img.Width),
				URL:    img.URL,
			})
		}
		tracks = append(tracks, t)
	}

	return tracks, nil
}

func (c *SpotifyClient) client() (*spotify.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.api != nil {
		return c.api, nil
	}

	if c.clientID == "" || c.secret == "" {
		return nil, fmt.Errorf("spotify credentials are not configured")
	}

	cfg := &clientcredentials.Config{
		ClientID:     c.clientID,
		ClientSecret: c.secret,
		TokenURL:     spotifyauth.TokenURL,
	}
	// The token client outlives any single request, so it is not tied to
	// a caller's context.
	c.api = spotify.New(cfg.Client(context.Background()))
	return c.api, nil
}
