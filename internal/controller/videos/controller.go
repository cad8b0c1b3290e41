package videos

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	jwtController "github.com/GintGld/video-baker/internal/controller/jwt"
	"github.com/GintGld/video-baker/internal/controller/reply"
	"github.com/GintGld/video-baker/internal/models"
)

// New returns an fiber.App serving the video list
// and the actions changing it.
//
// voteTimeout bounds like and dislike, which wait
// for two receipts: the approval and the vote.
func New(
	timeout time.Duration,
	txTimeout time.Duration,
	voteTimeout time.Duration,
	videos Videos,
	actions Actions,
	jwtC *jwtController.JWT,
) *fiber.App {
	videosCtr := videosController{
		timeout:     timeout,
		txTimeout:   txTimeout,
		voteTimeout: voteTimeout,
		videos:      videos,
		actions:     actions,
	}

	app := fiber.New()

	app.Get("/", videosCtr.search)
	app.Get("/:index", videosCtr.video)
	app.Post("/refresh", videosCtr.refresh)

	app.Post("/", jwtC.AuthRequired(), videosCtr.submit)
	app.Post("/:index/like", jwtC.AuthRequired(), videosCtr.like)
	app.Post("/:index/dislike", jwtC.AuthRequired(), videosCtr.dislike)
	app.Post("/:index/verify", jwtC.AuthRequired(), videosCtr.verify)

	return app
}

type videosController struct {
	timeout     time.Duration
	txTimeout   time.Duration
	voteTimeout time.Duration
	videos      Videos
	actions     Actions
}

type Videos interface {
	Refresh(ctx context.Context) error
	Video(index uint64) (models.VideoView, error)
	Search(filter models.VideoFilter) []models.VideoView
}

type Actions interface {
	SubmitVideo(ctx context.Context, video models.VideoIn) (models.Receipt, error)
	LikeVideo(ctx context.Context, index uint64) (models.Receipt, error)
	DislikeVideo(ctx context.Context, index uint64) (models.Receipt, error)
	VerifyVideo(ctx context.Context, index uint64) (models.Receipt, error)
}

// search returns videos filtered by query params.
func (videosCtr *videosController) search(c *fiber.Ctx) error {
	var filter models.VideoFilter

	filter.Title = c.Query("title")
	filter.Description = c.Query("description")

	if v := c.Query("verified"); v != "" {
		verified, err := strconv.ParseBool(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "bad verified",
			})
		}
		filter.VerifiedOnly = verified
	}

	if v := c.Query("res_len"); v != "" {
		resLen, err := strconv.Atoi(v)
		if err != nil || resLen < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "bad res_len",
			})
		}
		filter.MaxRespLen = resLen
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"videos": videosCtr.videos.Search(filter),
	})
}

func (videosCtr *videosController) video(c *fiber.Ctx) error {
	index, err := strconv.ParseUint(c.Params("index"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "bad index",
		})
	}

	video, err := videosCtr.videos.Video(index)
	if err != nil {
		return reply.Error(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"video": video,
	})
}

func (videosCtr *videosController) refresh(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), videosCtr.timeout)
	defer cancel()

	if err := videosCtr.videos.Refresh(ctx); err != nil {
		return reply.Error(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"videos": videosCtr.videos.Search(models.VideoFilter{}),
	})
}

// submit adds new video
func (videosCtr *videosController) submit(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), videosCtr.txTimeout)
	defer cancel()

	type request struct {
		Video models.VideoIn `json:"video"`
	}

	req := new(request)

	if err := c.BodyParser(req); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	receipt, err := videosCtr.actions.SubmitVideo(ctx, req.Video)
	if err != nil {
		return reply.Error(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"receipt": receipt,
	})
}

func (videosCtr *videosController) like(c *fiber.Ctx) error {
	return videosCtr.indexed(c, videosCtr.voteTimeout, videosCtr.actions.LikeVideo)
}

func (videosCtr *videosController) dislike(c *fiber.Ctx) error {
	return videosCtr.indexed(c, videosCtr.voteTimeout, videosCtr.actions.DislikeVideo)
}

func (videosCtr *videosController) verify(c *fiber.Ctx) error {
	return videosCtr.indexed(c, videosCtr.txTimeout, videosCtr.actions.VerifyVideo)
}

func (videosCtr *videosController) indexed(
	c *fiber.Ctx,
	timeout time.Duration,
	action func(context.Context, uint64) (models.Receipt, error),
) error {
	index, err := strconv.ParseUint(c.Params("index"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "bad index",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	receipt, err := action(ctx, index)
	if err != nil {
		return reply.Error(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"receipt": receipt,
	})
}
