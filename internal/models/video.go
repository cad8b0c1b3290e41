package models

import (
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Video is a record stored in the registry contract.
// Index is its position in contract storage.
type Video struct {
	Index       uint64         `json:"index"`
	Owner       common.Address `json:"owner"`
	Link        string         `json:"link"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Likes       uint64         `json:"likes"`
	Dislikes    uint64         `json:"dislikes"`
	Verified    bool           `json:"verified"`
	CreatedAt   time.Time      `json:"createdAt"`
}

type VideoIn struct {
	Link        string `json:"link"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type VideoFilter struct {
	Title        string
	Description  string
	VerifiedOnly bool
	MaxRespLen   int
}

// specify custom time marshalling since
// time package is not stable.
const TimeFormat = "2006-01-02T15:04:05.999999999-07:00"

type videoJSON Video

type videoOut struct {
	videoJSON
	CreatedAt string `json:"createdAt"`
}

func (v Video) out() videoOut {
	return videoOut{
		videoJSON: videoJSON(v),
		CreatedAt: v.CreatedAt.Format(TimeFormat),
	}
}

func (v Video) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.out())
}

// VideoView is a video as seen by the current session.
// CanVote and CanVerify are visibility hints only,
// the registry contract enforces the rules.
type VideoView struct {
	Video
	CanVote   bool
	CanVerify bool
}

// NewVideoView applies the rating rules of st to video:
// only verified videos are rated and only the admin
// verifies the unverified ones.
func NewVideoView(video Video, st ViewState) VideoView {
	return VideoView{
		Video:     video,
		CanVote:   video.Verified,
		CanVerify: st.IsAdmin() && !video.Verified,
	}
}

func (v VideoView) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		videoOut
		CanVote   bool `json:"canVote"`
		CanVerify bool `json:"canVerify"`
	}{
		videoOut:  v.Video.out(),
		CanVote:   v.CanVote,
		CanVerify: v.CanVerify,
	})
}
