package media

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const defaultProbeTimeout = 30 * time.Second

// Prober reads the playback duration of a media file, in seconds.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// FFProbe shells out to ffprobe.
type FFProbe struct {
	timeout time.Duration
}

func NewFFProbe(timeout time.Duration) *FFProbe {
	return &FFProbe{timeout: timeout}
}

func (p *FFProbe) Duration(ctx context.Context, path string) (float64, error) {
	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return 0, context.DeadlineExceeded
	}

	out, err := ffmpeg.ProbeWithTimeout(path, timeout, ffmpeg.KwArgs{})
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return parseProbeDuration(out)
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseProbeDuration(raw string) (float64, error) {
	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return 0, fmt.Errorf("decode ffprobe output: %w", err)
	}
	if out.Format.Duration == "" {
		return 0, fmt.Errorf("ffprobe output has no duration")
	}
	d, err := strconv.ParseFloat(out.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", out.Format.Duration, err)
	}
	return d, nil
}

// NoopProber reports a zero duration for every file.
type NoopProber struct{}

func (NoopProber) Duration(context.Context, string) (float64, error) { return 0, nil }
