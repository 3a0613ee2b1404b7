package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/princekumarofficial/tubely-service/internal/types/video"
)

var ErrNoVideoStream = errors.New("no video stream found in the file")

// FFProbe reads stream geometry with ffprobe.
type FFProbe struct {
	Path    string
	Timeout time.Duration
}

var _ Prober = (*FFProbe)(nil)

func NewFFProbe(path string, timeout time.Duration) *FFProbe {
	if path == "" {
		path = "ffprobe"
	}
	return &FFProbe{Path: path, Timeout: timeout}
}

func (p *FFProbe) Probe(ctx context.Context, path string) (Geometry, error) {
	out, err := run(ctx, "ffprobe", p.Path, p.Timeout,
		"-v", "error",
		"-print_format", "json",
		"-show_streams",
		path,
	)
	if err != nil {
		return Geometry{}, err
	}

	return parseProbeOutput(out)
}

type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

// parseProbeOutput returns the geometry of the first video stream.
func parseProbeOutput(data []byte) (Geometry, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return Geometry{}, fmt.Errorf("couldn't parse ffprobe output: %w", err)
	}

	for _, s := range out.Streams {
		if s.CodecType == "video" {
			return Geometry{Width: s.Width, Height: s.Height}, nil
		}
	}

	return Geometry{}, ErrNoVideoStream
}

// Orientation classifies g by its width/height ratio rounded half up to two
// decimals: 1.78 is landscape (16:9), 0.56 is portrait (9:16).
func Orientation(g Geometry) string {
	if g.Width <= 0 || g.Height <= 0 {
		return video.OrientationOther
	}

	// floor(100*w/h + 1/2) in integers so ties like 0.565 round the same way
	w, h := int64(g.Width), int64(g.Height)
	hundredths := (200*w + h) / (2 * h)
	switch hundredths {
	case 178:
		return video.OrientationLandscape
	case 56:
		return video.OrientationPortrait
	default:
		return video.OrientationOther
	}
}
