package store

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/GintGld/video-baker/internal/models"
)

// Action describes a single state transition.
type Action interface {
	action()
}

type SessionEstablished struct {
	Session models.Session
}

type SessionClosed struct{}

type BalanceLoaded struct {
	Balance models.Balance
}

type ContractBound struct {
	Registry common.Address
	Token    common.Address
}

type AdminLoaded struct {
	Admin common.Address
}

// VideosRequested hands out a new feed generation.
type VideosRequested struct{}

// VideosLoaded replaces the feed when Generation
// is still the latest requested one.
type VideosLoaded struct {
	Generation uint64
	Videos     []models.Video
	Missing    []uint64
	At         time.Time
}

type VideosFailed struct {
	Generation uint64
}

type Failed struct {
	Failure models.Failure
}

type FailureCleared struct{}

func (SessionEstablished) action() {}
func (SessionClosed) action()      {}
func (BalanceLoaded) action()      {}
func (ContractBound) action()      {}
func (AdminLoaded) action()        {}
func (VideosRequested) action()    {}
func (VideosLoaded) action()       {}
func (VideosFailed) action()       {}
func (Failed) action()             {}
func (FailureCleared) action()     {}
