package videos

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/GintGld/video-baker/internal/lib/logger/sl"
	"github.com/GintGld/video-baker/internal/models"
	"github.com/GintGld/video-baker/internal/service"
	"github.com/GintGld/video-baker/internal/store"
)

type Videos struct {
	log         *slog.Logger
	registry    Registry
	store       *store.Store
	maxInFlight int
	maxVideos   uint64
	partial     bool
}

type Registry interface {
	VideosLength(ctx context.Context) (uint64, error)
	Video(ctx context.Context, index uint64) (models.Video, error)
	ContractOwner(ctx context.Context) (common.Address, error)
}

func New(
	log *slog.Logger,
	registry Registry,
	store *store.Store,
	maxInFlight int,
	maxVideos uint64,
	partial bool,
) *Videos {
	return &Videos{
		log:         log,
		registry:    registry,
		store:       store,
		maxInFlight: maxInFlight,
		maxVideos:   maxVideos,
		partial:     partial,
	}
}

// Refresh reloads the whole video list from the registry.
//
// The result is dropped if another refresh was requested meanwhile.
func (v *Videos) Refresh(ctx context.Context) error {
	const op = "Videos.Refresh"

	gen := v.store.Dispatch(store.VideosRequested{}).Feed.Requested

	log := v.log.With(
		slog.String("op", op),
		slog.Uint64("generation", gen),
	)

	log.Info("refreshing videos")

	n, err := v.registry.VideosLength(ctx)
	if err != nil {
		log.Error("failed to get videos length", sl.Err(err))
		return v.fail(op, gen, fmt.Errorf("%s: %w: %w", op, service.ErrNetworkRead, err))
	}

	if n > v.maxVideos {
		log.Error("registry length exceeds limit", slog.Uint64("length", n), slog.Uint64("limit", v.maxVideos))
		return v.fail(op, gen, fmt.Errorf("%s: %w: registry reports %d videos, limit %d", op, service.ErrNetworkRead, n, v.maxVideos))
	}

	videos, missing, err := fetchAll(ctx, v.registry, n, v.maxInFlight, v.partial)
	if err != nil {
		log.Error("failed to fetch videos", slog.Uint64("length", n), sl.Err(err))
		return v.fail(op, gen, fmt.Errorf("%s: %w: %w", op, service.ErrNetworkRead, err))
	}

	st := v.store.Dispatch(store.VideosLoaded{
		Generation: gen,
		Videos:     videos,
		Missing:    missing,
		At:         time.Now(),
	})

	if st.Feed.Applied != gen {
		log.Info("stale videos dropped", slog.Uint64("latest", st.Feed.Requested))
		return nil
	}

	if len(missing) > 0 {
		log.Warn("some videos are missing", slog.Int("missing", len(missing)))
	}

	log.Info("videos loaded", slog.Int("count", len(videos)))

	return nil
}

// LoadAdmin reads registry admin address.
func (v *Videos) LoadAdmin(ctx context.Context) error {
	const op = "Videos.LoadAdmin"

	log := v.log.With(
		slog.String("op", op),
	)

	admin, err := v.registry.ContractOwner(ctx)
	if err != nil {
		log.Error("failed to get contract owner", sl.Err(err))
		err = fmt.Errorf("%s: %w: %w", op, service.ErrNetworkRead, err)
		v.store.Dispatch(store.Failed{Failure: service.Failure(op, err)})
		return err
	}

	v.store.Dispatch(store.AdminLoaded{Admin: admin})

	log.Info("admin loaded", slog.String("admin", admin.Hex()))

	return nil
}

// Video returns video by index from the current list.
func (v *Videos) Video(index uint64) (models.VideoView, error) {
	const op = "Videos.Video"

	st := v.store.State()

	for _, video := range st.Feed.Videos {
		if video.Index == index {
			return models.NewVideoView(video, st), nil
		}
	}

	return models.VideoView{}, fmt.Errorf("%s: %w", op, service.ErrVideoNotFound)
}

// Search filters the current list. With a title or description
// query videos are ranked by edit distance, otherwise the
// registry order is kept.
func (v *Videos) Search(filter models.VideoFilter) []models.VideoView {
	const op = "Videos.Search"

	log := v.log.With(
		slog.String("op", op),
	)

	st := v.store.State()
	lib := st.Feed.Videos

	var out []models.Video
	if filter.Title == "" && filter.Description == "" {
		out = make([]models.Video, 0, len(lib))
		for _, video := range lib {
			if !filter.VerifiedOnly || video.Verified {
				out = append(out, video)
			}
		}
	} else {
		ranked := filterRank(lib, filter)
		out = make([]models.Video, 0, len(ranked))
		for _, r := range ranked {
			out = append(out, r.video)
		}
	}

	if filter.MaxRespLen > 0 && len(out) > filter.MaxRespLen {
		out = out[:filter.MaxRespLen]
	}

	log.Debug("search done", slog.Int("found", len(out)))

	views := make([]models.VideoView, 0, len(out))
	for _, video := range out {
		views = append(views, models.NewVideoView(video, st))
	}

	return views
}

func (v *Videos) fail(op string, gen uint64, err error) error {
	v.store.Dispatch(store.VideosFailed{Generation: gen})
	v.store.Dispatch(store.Failed{Failure: service.Failure(op, err)})
	return err
}
