package txs_test

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gavv/httpexpect/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	jwtController "github.com/GintGld/video-baker/internal/controller/jwt"
	txsCtr "github.com/GintGld/video-baker/internal/controller/txs"
	"github.com/GintGld/video-baker/internal/models"
	jwtService "github.com/GintGld/video-baker/internal/service/jwt"
	"github.com/GintGld/video-baker/internal/storage/sqlite"
)

var (
	secret = []byte("secret")
	alice  = models.Session{Address: common.HexToAddress("0xa1"), Connected: true}
	bob    = common.HexToAddress("0xb2")
)

type fakeSessions struct{}

func (fakeSessions) Current() models.Session { return alice }

func TestTxs(t *testing.T) {
	storage, err := sqlite.New(filepath.Join(t.TempDir(), "baker.db"))
	require.NoError(t, err)
	defer storage.Stop()

	ctx := context.Background()
	for _, tx := range []models.TxRecord{
		{Account: alice.Address, Kind: models.TxApprove, Status: models.TxDangling},
		{Account: alice.Address, Kind: models.TxLike, Status: models.TxFailed},
		{Account: bob, Kind: models.TxApprove, Status: models.TxDangling},
		{Account: alice.Address, Kind: models.TxAdd, Status: models.TxConfirmed},
	} {
		_, err := storage.SaveTx(ctx, tx)
		require.NoError(t, err)
	}

	jwtC := jwtController.New(secret, fakeSessions{})

	app := fiber.New()
	app.Mount("/txs", txsCtr.New(time.Second, storage, fakeSessions{}, jwtC))

	e := httpexpect.WithConfig(httpexpect.Config{
		BaseURL:  "http://example.com",
		Client:   &http.Client{Transport: httpexpect.NewFastBinder(app.Handler())},
		Reporter: httpexpect.NewAssertReporter(t),
	})

	token, err := jwtService.New(secret).NewToken(alice, time.Hour)
	require.NoError(t, err)

	e.GET("/txs").Expect().Status(http.StatusUnauthorized)

	json := e.GET("/txs").
		WithHeader("Authorization", "Bearer "+token).
		Expect().
		Status(http.StatusOK).
		JSON()
	json.Path("$.txs").Array().Length().IsEqual(3)
	json.Path("$.txs[0].kind").String().IsEqual("add")

	e.GET("/txs").
		WithHeader("Authorization", "Bearer "+token).
		WithQuery("limit", 1).
		Expect().
		Status(http.StatusOK).
		JSON().
		Path("$.txs").
		Array().
		Length().
		IsEqual(1)

	e.GET("/txs").
		WithHeader("Authorization", "Bearer "+token).
		WithQuery("limit", "zero").
		Expect().
		Status(http.StatusBadRequest)

	json = e.GET("/txs/dangling").
		WithHeader("Authorization", "Bearer "+token).
		Expect().
		Status(http.StatusOK).
		JSON()
	json.Path("$.txs").Array().Length().IsEqual(1)
	json.Path("$.txs[0].kind").String().IsEqual("approve")
}

func TestTx(t *testing.T) {
	storage, err := sqlite.New(filepath.Join(t.TempDir(), "baker.db"))
	require.NoError(t, err)
	defer storage.Stop()

	ctx := context.Background()
	own, err := storage.SaveTx(ctx, models.TxRecord{Account: alice.Address, Kind: models.TxVerify, Status: models.TxConfirmed})
	require.NoError(t, err)
	foreign, err := storage.SaveTx(ctx, models.TxRecord{Account: bob, Kind: models.TxAdd, Status: models.TxPending})
	require.NoError(t, err)

	jwtC := jwtController.New(secret, fakeSessions{})

	app := fiber.New()
	app.Mount("/txs", txsCtr.New(time.Second, storage, fakeSessions{}, jwtC))

	e := httpexpect.WithConfig(httpexpect.Config{
		BaseURL:  "http://example.com",
		Client:   &http.Client{Transport: httpexpect.NewFastBinder(app.Handler())},
		Reporter: httpexpect.NewAssertReporter(t),
	})

	token, err := jwtService.New(secret).NewToken(alice, time.Hour)
	require.NoError(t, err)

	e.GET("/txs/{id}", own).Expect().Status(http.StatusUnauthorized)

	testCases := []struct {
		desc   string
		id     any
		status int
	}{
		{
			desc:   "own tx",
			id:     own,
			status: http.StatusOK,
		},
		{
			desc:   "other account",
			id:     foreign,
			status: http.StatusNotFound,
		},
		{
			desc:   "missing",
			id:     foreign + 100,
			status: http.StatusNotFound,
		},
		{
			desc:   "bad id",
			id:     "abc",
			status: http.StatusBadRequest,
		},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			e.GET("/txs/{id}", tC.id).
				WithHeader("Authorization", "Bearer "+token).
				Expect().
				Status(tC.status)
		})
	}

	json := e.GET("/txs/{id}", own).
		WithHeader("Authorization", "Bearer "+token).
		Expect().
		Status(http.StatusOK).
		JSON()
	json.Path("$.tx.id").Number().IsEqual(own)
	json.Path("$.tx.kind").String().IsEqual("verify")
	json.Path("$.tx.status").String().IsEqual("confirmed")
}
