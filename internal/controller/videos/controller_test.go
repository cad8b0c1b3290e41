package videos_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gavv/httpexpect/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwtController "github.com/GintGld/video-baker/internal/controller/jwt"
	videosCtr "github.com/GintGld/video-baker/internal/controller/videos"
	"github.com/GintGld/video-baker/internal/models"
	"github.com/GintGld/video-baker/internal/service"
	jwtService "github.com/GintGld/video-baker/internal/service/jwt"
)

var (
	secret  = []byte("secret")
	session = models.Session{
		Address:   common.HexToAddress("0x00000000000000000000000000000000000000a1"),
		Connected: true,
	}
)

type fakeSessions struct{}

func (fakeSessions) Current() models.Session { return session }

type fakeVideos struct {
	list       []models.VideoView
	lastFilter models.VideoFilter
	refreshErr error
	refreshed  int
}

func (f *fakeVideos) Refresh(ctx context.Context) error {
	f.refreshed++
	return f.refreshErr
}

func (f *fakeVideos) Video(index uint64) (models.VideoView, error) {
	if index >= uint64(len(f.list)) {
		return models.VideoView{}, fmt.Errorf("Videos.Video: %w", service.ErrVideoNotFound)
	}
	return f.list[index], nil
}

func (f *fakeVideos) Search(filter models.VideoFilter) []models.VideoView {
	f.lastFilter = filter
	return f.list
}

type fakeActions struct {
	calls []string
	err   error
	// budgets holds the time left until the deadline per call.
	budgets map[string]time.Duration
}

func (f *fakeActions) do(ctx context.Context, name string) (models.Receipt, error) {
	f.calls = append(f.calls, name)
	if deadline, ok := ctx.Deadline(); ok {
		if f.budgets == nil {
			f.budgets = make(map[string]time.Duration)
		}
		f.budgets[name] = time.Until(deadline)
	}
	if f.err != nil {
		return models.Receipt{}, f.err
	}
	return models.Receipt{TxHash: common.BytesToHash([]byte(name)), BlockNumber: 10}, nil
}

func (f *fakeActions) SubmitVideo(ctx context.Context, video models.VideoIn) (models.Receipt, error) {
	if video.Title == "" {
		return models.Receipt{}, service.ErrValidation
	}
	return f.do(ctx, "add")
}

func (f *fakeActions) LikeVideo(ctx context.Context, index uint64) (models.Receipt, error) {
	return f.do(ctx, fmt.Sprintf("like %d", index))
}

func (f *fakeActions) DislikeVideo(ctx context.Context, index uint64) (models.Receipt, error) {
	return f.do(ctx, fmt.Sprintf("dislike %d", index))
}

func (f *fakeActions) VerifyVideo(ctx context.Context, index uint64) (models.Receipt, error) {
	return f.do(ctx, fmt.Sprintf("verify %d", index))
}

func randomVideos(n int) []models.VideoView {
	out := make([]models.VideoView, 0, n)
	for i := 0; i < n; i++ {
		verified := gofakeit.Bool()
		out = append(out, models.VideoView{
			Video: models.Video{
				Index:       uint64(i),
				Owner:       common.BytesToAddress([]byte(gofakeit.LetterN(20))),
				Link:        gofakeit.URL(),
				Title:       gofakeit.MovieName(),
				Description: gofakeit.Sentence(4),
				Likes:       uint64(gofakeit.Uint8()),
				Verified:    verified,
				CreatedAt:   gofakeit.Date(),
			},
			CanVote:   verified,
			CanVerify: !verified,
		})
	}
	return out
}

func newExpect(t *testing.T, videos *fakeVideos, actions *fakeActions) (*httpexpect.Expect, string) {
	app := fiber.New()
	app.Mount("/videos", videosCtr.New(
		time.Second,
		time.Second,
		3*time.Second,
		videos,
		actions,
		jwtController.New(secret, fakeSessions{}),
	))

	token, err := jwtService.New(secret).NewToken(session, time.Hour)
	require.NoError(t, err)

	return httpexpect.WithConfig(httpexpect.Config{
		BaseURL:  "http://example.com",
		Client:   &http.Client{Transport: httpexpect.NewFastBinder(app.Handler())},
		Reporter: httpexpect.NewAssertReporter(t),
	}), token
}

func TestSearch(t *testing.T) {
	videos := &fakeVideos{list: randomVideos(3)}
	e, _ := newExpect(t, videos, &fakeActions{})

	json := e.GET("/videos").
		WithQuery("title", "matrix").
		WithQuery("verified", "true").
		WithQuery("res_len", 2).
		Expect().
		Status(http.StatusOK).
		JSON()

	json.Object().Keys().ContainsOnly("videos")
	json.Path("$.videos").Array().Length().IsEqual(3)
	json.Path("$.videos[0]").Object().Keys().ContainsOnly(
		"index", "owner", "link", "title", "description",
		"likes", "dislikes", "verified", "createdAt",
		"canVote", "canVerify",
	)
	for i, v := range videos.list {
		json.Path(fmt.Sprintf("$.videos[%d].canVote", i)).Boolean().IsEqual(v.CanVote)
		json.Path(fmt.Sprintf("$.videos[%d].canVerify", i)).Boolean().IsEqual(v.CanVerify)
	}

	assert.Equal(t, models.VideoFilter{Title: "matrix", VerifiedOnly: true, MaxRespLen: 2}, videos.lastFilter)

	e.GET("/videos").WithQuery("res_len", "many").Expect().Status(http.StatusBadRequest)
	e.GET("/videos").WithQuery("verified", "maybe").Expect().Status(http.StatusBadRequest)
}

func TestVideo(t *testing.T) {
	videos := &fakeVideos{list: randomVideos(2)}
	e, _ := newExpect(t, videos, &fakeActions{})

	video := e.GET("/videos/{index}", 1).
		Expect().
		Status(http.StatusOK).
		JSON().
		Path("$.video").
		Object()

	video.Value("title").String().IsEqual(videos.list[1].Title)
	video.Value("canVote").Boolean().IsEqual(videos.list[1].CanVote)
	video.Value("canVerify").Boolean().IsEqual(videos.list[1].CanVerify)

	e.GET("/videos/{index}", 5).Expect().Status(http.StatusNotFound)
	e.GET("/videos/{index}", "abc").Expect().Status(http.StatusBadRequest)
}

func TestRefresh(t *testing.T) {
	videos := &fakeVideos{list: randomVideos(1)}
	e, _ := newExpect(t, videos, &fakeActions{})

	e.POST("/videos/refresh").Expect().Status(http.StatusOK)
	assert.Equal(t, 1, videos.refreshed)

	videos.refreshErr = fmt.Errorf("Videos.Refresh: %w", service.ErrNetworkRead)
	e.POST("/videos/refresh").Expect().Status(http.StatusBadGateway)
}

func TestActions(t *testing.T) {
	actions := &fakeActions{}
	e, token := newExpect(t, &fakeVideos{}, actions)

	e.POST("/videos").
		WithJSON(fiber.Map{"video": models.VideoIn{Link: "l", Title: "t", Description: "d"}}).
		Expect().
		Status(http.StatusUnauthorized)

	e.POST("/videos").
		WithHeader("Authorization", "Bearer "+token).
		WithJSON(fiber.Map{"video": models.VideoIn{Link: "l", Title: "t", Description: "d"}}).
		Expect().
		Status(http.StatusOK).
		JSON().
		Path("$.receipt.blockNumber").
		Number().
		IsEqual(10)

	e.POST("/videos").
		WithHeader("Authorization", "Bearer "+token).
		WithJSON(fiber.Map{"video": models.VideoIn{Link: "l"}}).
		Expect().
		Status(http.StatusBadRequest)

	for _, action := range []string{"like", "dislike", "verify"} {
		e.POST("/videos/{index}/"+action, 4).
			WithHeader("Authorization", "Bearer "+token).
			Expect().
			Status(http.StatusOK)
	}

	assert.Equal(t, []string{"add", "like 4", "dislike 4", "verify 4"}, actions.calls)

	// votes wait for the approval and the vote receipts
	assert.Greater(t, actions.budgets["like 4"], 2*time.Second)
	assert.Greater(t, actions.budgets["dislike 4"], 2*time.Second)
	assert.LessOrEqual(t, actions.budgets["add"], time.Second)
	assert.LessOrEqual(t, actions.budgets["verify 4"], time.Second)

	actions.err = fmt.Errorf("Actions.LikeVideo: %w", service.ErrTransaction)
	e.POST("/videos/{index}/like", 4).
		WithHeader("Authorization", "Bearer "+token).
		Expect().
		Status(http.StatusBadGateway)

	e.POST("/videos/{index}/like", "x").
		WithHeader("Authorization", "Bearer "+token).
		Expect().
		Status(http.StatusBadRequest)
}
