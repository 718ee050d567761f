package source

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"bnfm/logger"
	"bnfm/model"
)

// CentovaSource polls the Centova "now playing" JSON endpoint.
type CentovaSource struct {
	url    string
	client *http.Client
}

// NewCentova creates a Centova polling source.
func NewCentova(url string) *CentovaSource {
	return &CentovaSource{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type centovaResponse struct {
	Data []struct {
		Title  string `json:"title"`
		Artist string `json:"artist"`
	} `json:"data"`
}

// CurrentTrack fetches the endpoint and maps the first entry of the data
// array to a track.
func (s *CentovaSource) CurrentTrack(ctx context.Context) (model.Track, bool) {
	if s.url == "" {
		logger.Warn("centova URL is not set")
		return model.Track{}, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		logger.Error("building centova request", logger.ErrorField(err))
		return model.Track{}, false
	}

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Warn("fetching current track from centova", logger.ErrorField(err))
		return model.Track{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("centova returned non-OK status", logger.Int("status", resp.StatusCode))
		return model.Track{}, false
	}

	var body centovaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		logger.Warn("decoding centova response", logger.ErrorField(err))
		return model.Track{}, false
	}

	if len(body.Data) == 0 {
		return model.Track{}, false
	}

	return model.Track{Name: body.Data[0].Title, Artist: body.Data[0].Artist}, true
}
