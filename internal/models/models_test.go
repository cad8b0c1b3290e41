package models_test

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GintGld/video-baker/internal/models"
)

func TestFormatUnits(t *testing.T) {
	testCases := []struct {
		desc   string
		amount string
		expect string
	}{
		{desc: "round down", amount: "1234500000000000000", expect: "1.23"},
		{desc: "round half up", amount: "1235000000000000000", expect: "1.24"},
		{desc: "zero", amount: "0", expect: "0.00"},
		{desc: "below display precision", amount: "4999999999999999", expect: "0.00"},
		{desc: "rounds to cent", amount: "5000000000000000", expect: "0.01"},
		{desc: "whole tokens", amount: "2000000000000000000", expect: "2.00"},
		{desc: "large", amount: "123456789000000000000000", expect: "123456.79"},
		{desc: "carry", amount: "999999999999999999", expect: "1.00"},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			amount, ok := new(big.Int).SetString(tC.amount, 10)
			require.True(t, ok)

			assert.Equal(t, tC.expect, models.FormatUnits(amount, 18, models.DisplayDecimals))
		})
	}
}

func TestParseUnits(t *testing.T) {
	testCases := []struct {
		desc   string
		in     string
		expect string
		err    bool
	}{
		{desc: "integer", in: "2", expect: "2000000000000000000"},
		{desc: "fraction", in: "0.5", expect: "500000000000000000"},
		{desc: "spaces", in: " 1.25 ", expect: "1250000000000000000"},
		{desc: "empty", in: "", err: true},
		{desc: "negative", in: "-1", err: true},
		{desc: "garbage", in: "two", err: true},
		{desc: "too precise", in: "0.0000000000000000001", err: true},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			out, err := models.ParseUnits(tC.in, 18)
			if tC.err {
				require.ErrorIs(t, err, models.ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tC.expect, out.String())
		})
	}
}

func TestBalanceMarshal(t *testing.T) {
	b := models.NewBalance(big.NewInt(1234500000000000000), 18)

	res, err := json.Marshal(b)
	require.NoError(t, err)

	require.JSONEq(t, `{"raw":"1234500000000000000","display":"1.23"}`, string(res))
}

func TestVideoMarshal(t *testing.T) {
	ti := time.Unix(1700000000, 0).UTC()
	owner := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	v := models.Video{
		Index:       3,
		Owner:       owner,
		Link:        "https://example.com/v.mp4",
		Title:       "title",
		Description: "description",
		Likes:       2,
		Dislikes:    1,
		Verified:    true,
		CreatedAt:   ti,
	}

	res, err := json.Marshal(v)
	require.NoError(t, err)

	expect := fmt.Sprintf(
		`{"index":3,"owner":"%s","link":"https://example.com/v.mp4","title":"title","description":"description","likes":2,"dislikes":1,"verified":true,"createdAt":"%s"}`,
		strings.ToLower(owner.Hex()), ti.Format(models.TimeFormat),
	)

	require.JSONEq(t, expect, string(res))
}

func TestIsAdmin(t *testing.T) {
	admin := common.HexToAddress("0x01")
	other := common.HexToAddress("0x02")

	st := models.ViewState{Admin: admin}
	assert.False(t, st.IsAdmin())

	st.Session = models.Session{Address: other, Connected: true}
	assert.False(t, st.IsAdmin())

	st.Session.Address = admin
	assert.True(t, st.IsAdmin())
}

func TestNewVideoView(t *testing.T) {
	admin := common.HexToAddress("0x01")
	user := common.HexToAddress("0x02")

	testCases := []struct {
		desc       string
		session    models.Session
		verified   bool
		wantVote   bool
		wantVerify bool
	}{
		{
			desc:       "admin, unverified",
			session:    models.Session{Address: admin, Connected: true},
			verified:   false,
			wantVote:   false,
			wantVerify: true,
		},
		{
			desc:       "admin, verified",
			session:    models.Session{Address: admin, Connected: true},
			verified:   true,
			wantVote:   true,
			wantVerify: false,
		},
		{
			desc:       "user, unverified",
			session:    models.Session{Address: user, Connected: true},
			verified:   false,
			wantVote:   false,
			wantVerify: false,
		},
		{
			desc:       "user, verified",
			session:    models.Session{Address: user, Connected: true},
			verified:   true,
			wantVote:   true,
			wantVerify: false,
		},
		{
			desc:       "no session",
			verified:   false,
			wantVote:   false,
			wantVerify: false,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			st := models.ViewState{Admin: admin, Session: tC.session}

			view := models.NewVideoView(models.Video{Index: 1, Verified: tC.verified}, st)

			assert.Equal(t, tC.wantVote, view.CanVote)
			assert.Equal(t, tC.wantVerify, view.CanVerify)

			res, err := json.Marshal(view)
			require.NoError(t, err)

			var out map[string]any
			require.NoError(t, json.Unmarshal(res, &out))
			assert.Equal(t, tC.wantVote, out["canVote"])
			assert.Equal(t, tC.wantVerify, out["canVerify"])
			assert.Equal(t, float64(1), out["index"])
			assert.Contains(t, out, "createdAt")
		})
	}
}
