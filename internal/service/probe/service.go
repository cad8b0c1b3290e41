package probe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/GintGld/video-baker/internal/lib/logger/sl"
	"github.com/GintGld/video-baker/internal/service"
)

// sniffLen is how much of the link is read for detection.
const sniffLen = 3 << 10

type Probe struct {
	log     *slog.Logger
	client  *http.Client
	enabled bool
}

func New(
	log *slog.Logger,
	enabled bool,
	timeout time.Duration,
) *Probe {
	return &Probe{
		log:     log,
		client:  &http.Client{Timeout: timeout},
		enabled: enabled,
	}
}

// Probe checks that link serves video content.
// Disabled probe accepts every link.
func (p *Probe) Probe(ctx context.Context, link string) error {
	const op = "Probe.Probe"

	if !p.enabled {
		return nil
	}

	log := p.log.With(
		slog.String("op", op),
		slog.String("link", link),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		log.Debug("invalid link", sl.Err(err))
		return fmt.Errorf("%s: %w: invalid link: %w", op, service.ErrValidation, err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", sniffLen-1))

	resp, err := p.client.Do(req)
	if err != nil {
		log.Warn("failed to fetch link", sl.Err(err))
		return fmt.Errorf("%s: %w: link unreachable: %w", op, service.ErrValidation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		log.Warn("unexpected status", slog.Int("status", resp.StatusCode))
		return fmt.Errorf("%s: %w: link responded with %d", op, service.ErrValidation, resp.StatusCode)
	}

	mime, err := mimetype.DetectReader(io.LimitReader(resp.Body, sniffLen))
	if err != nil {
		log.Warn("failed to read link", sl.Err(err))
		return fmt.Errorf("%s: %w: %w", op, service.ErrValidation, err)
	}

	if !strings.HasPrefix(mime.String(), "video/") {
		log.Info("not a video", slog.String("mime", mime.String()))
		return fmt.Errorf("%s: %w: unsupported mime-type %s", op, service.ErrValidation, mime.String())
	}

	log.Debug("link is a video", slog.String("mime", mime.String()))

	return nil
}
