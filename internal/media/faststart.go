package media

import (
	"context"
	"os"
	"time"
)

// FFmpeg moves the moov atom to the front of an MP4 without re-encoding.
type FFmpeg struct {
	Path    string
	Timeout time.Duration
}

var _ Repackager = (*FFmpeg)(nil)

func NewFFmpeg(path string, timeout time.Duration) *FFmpeg {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpeg{Path: path, Timeout: timeout}
}

func (f *FFmpeg) Repackage(ctx context.Context, path string) (string, error) {
	outputPath := path + ".processed.mp4"

	_, err := run(ctx, "ffmpeg", f.Path, f.Timeout,
		"-y",
		"-i", path,
		"-movflags", "faststart",
		"-map_metadata", "0",
		"-codec", "copy",
		"-f", "mp4",
		outputPath,
	)
	if err != nil {
		// ffmpeg may leave a partial file behind
		os.Remove(outputPath)
		return "", err
	}

	return outputPath, nil
}
