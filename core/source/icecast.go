package source

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"bnfm/core/track"
	"bnfm/logger"
	"bnfm/model"
)

// streamTitleRe extracts the StreamTitle value from an ICY metadata block.
var streamTitleRe = regexp.MustCompile(`StreamTitle='([^']*)'`)

// defaultReadTimeout bounds how long one metadata read may hold the stream
// open.
const defaultReadTimeout = 10 * time.Second

// IcecastSource reads the first ICY metadata block off the live audio
// stream and parses its StreamTitle. The stream is cancelled as soon as
// one block has been decoded; audio bytes are discarded.
type IcecastSource struct {
	streamURL string
	client    *http.Client
	timeout   time.Duration
	fallback  Source
}

// NewIcecast creates an icecast metadata source. fallback may be nil; when
// set it is consulted whenever the stream yields no track.
func NewIcecast(streamURL string, fallback Source) *IcecastSource {
	return &IcecastSource{
		streamURL: streamURL,
		client:    &http.Client{},
		timeout:   defaultReadTimeout,
		fallback:  fallback,
	}
}

// CurrentTrack reads one metadata block and parses it into a track. On any
// failure (timeout, missing icy-metaint, truncated block, unparseable
// title) it falls back to the secondary source, or reports no track.
func (s *IcecastSource) CurrentTrack(ctx context.Context) (model.Track, bool) {
	if title, ok := s.readStreamTitle(ctx); ok {
		if t, ok := track.ParseStreamTitle(title); ok {
			return t, true
		}
		logger.Info("stream title has no recognized separator", logger.String("title", title))
	}

	if s.fallback != nil {
		logger.Warn("no track found in metadata stream, falling back to centova")
		return s.fallback.CurrentTrack(ctx)
	}

	return model.Track{}, false
}

// readStreamTitle performs the ICY handshake and demultiplexes the byte
// stream: icy-metaint audio bytes, one length byte L, then L*16 bytes of
// metadata.
func (s *IcecastSource) readStreamTitle(ctx context.Context) (string, bool) {
	if s.streamURL == "" {
		logger.Warn("stream URL is not set")
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.streamURL, nil)
	if err != nil {
		logger.Error("building stream request", logger.ErrorField(err))
		return "", false
	}
	req.Header.Set("Icy-MetaData", "1")
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Warn("opening metadata stream", logger.ErrorField(err))
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("metadata stream returned non-OK status", logger.Int("status", resp.StatusCode))
		return "", false
	}

	metaInt, err := strconv.Atoi(resp.Header.Get("icy-metaint"))
	if err != nil || metaInt <= 0 {
		logger.Warn("stream does not support metadata",
			logger.String("icy-metaint", resp.Header.Get("icy-metaint")))
		return "", false
	}

	br := bufio.NewReader(resp.Body)

	// Discard the audio chunk preceding the first metadata block.
	if _, err := io.CopyN(io.Discard, br, int64(metaInt)); err != nil {
		logger.Warn("stream ended before metadata", logger.ErrorField(err))
		return "", false
	}

	lengthByte, err := br.ReadByte()
	if err != nil {
		logger.Warn("stream ended before metadata length byte", logger.ErrorField(err))
		return "", false
	}

	metaLen := int(lengthByte) * 16
	meta := make([]byte, metaLen)
	if _, err := io.ReadFull(br, meta); err != nil {
		logger.Warn("stream ended before full metadata block", logger.ErrorField(err))
		return "", false
	}

	metaString := strings.TrimRight(string(meta), "\x00 ")
	m := streamTitleRe.FindStringSubmatch(metaString)
	if m == nil || m[1] == "" {
		return "", false
	}

	return m[1], true
}
