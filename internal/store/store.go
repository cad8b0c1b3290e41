package store

import (
	"context"
	"slices"
	"sync"

	chans "github.com/GintGld/video-baker/internal/lib/utils/channels"
	"github.com/GintGld/video-baker/internal/models"
)

// Store keeps the view-state and applies actions
// one at a time through Reduce.
type Store struct {
	mutex *sync.Mutex
	state models.ViewState

	subs    map[int]chan models.ViewState
	nextSub int
}

func New(initial models.ViewState) *Store {
	if initial.Feed.Videos == nil {
		initial.Feed.Videos = []models.Video{}
	}

	return &Store{
		mutex: &sync.Mutex{},
		state: initial,
		subs:  make(map[int]chan models.ViewState),
	}
}

// State returns a copy of the current state.
func (s *Store) State() models.ViewState {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return clone(s.state)
}

// Dispatch applies action and returns the resulting state.
func (s *Store) Dispatch(a Action) models.ViewState {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.state = Reduce(s.state, a)
	s.state.Revision++

	out := clone(s.state)
	for _, ch := range s.subs {
		chans.Replace(ch, clone(s.state))
	}

	return out
}

// Subscribe returns channel receiving the latest state after
// every dispatch. Slow readers only see the newest state.
func (s *Store) Subscribe() (<-chan models.ViewState, func()) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	id := s.nextSub
	s.nextSub++

	ch := make(chan models.ViewState, 1)
	s.subs[id] = ch

	return ch, func() {
		s.mutex.Lock()
		defer s.mutex.Unlock()
		delete(s.subs, id)
	}
}

// WaitAfter blocks until state revision exceeds revision
// or ctx is done.
func (s *Store) WaitAfter(ctx context.Context, revision uint64) (models.ViewState, error) {
	ch, cancel := s.Subscribe()
	defer cancel()

	if st := s.State(); st.Revision > revision {
		return st, nil
	}

	for {
		select {
		case st := <-ch:
			if st.Revision > revision {
				return st, nil
			}
		case <-ctx.Done():
			return s.State(), ctx.Err()
		}
	}
}

func clone(st models.ViewState) models.ViewState {
	st.Feed.Videos = slices.Clone(st.Feed.Videos)
	st.Feed.Missing = slices.Clone(st.Feed.Missing)
	if st.Balance != nil {
		b := models.NewBalance(st.Balance.Raw, st.Balance.Decimals)
		st.Balance = &b
	}
	if st.Failure != nil {
		f := *st.Failure
		st.Failure = &f
	}
	return st
}
