package store

import "github.com/GintGld/video-baker/internal/models"

// Reduce returns the state after applying a.
// It never mutates st.
func Reduce(st models.ViewState, a Action) models.ViewState {
	switch a := a.(type) {
	case SessionEstablished:
		if st.Session.Address != a.Session.Address {
			st.Balance = nil
		}
		st.Session = a.Session
	case SessionClosed:
		st.Session = models.Session{}
		st.Balance = nil
	case BalanceLoaded:
		b := models.NewBalance(a.Balance.Raw, a.Balance.Decimals)
		st.Balance = &b
	case ContractBound:
		st.Registry = a.Registry
		st.Token = a.Token
		st.Bound = true
	case AdminLoaded:
		st.Admin = a.Admin
	case VideosRequested:
		st.Feed.Requested++
		st.Feed.Loading = true
	case VideosLoaded:
		if a.Generation != st.Feed.Requested {
			return st
		}
		st.Feed = models.Feed{
			Videos:    a.Videos,
			Requested: st.Feed.Requested,
			Applied:   a.Generation,
			Loading:   false,
			Missing:   a.Missing,
			UpdatedAt: a.At,
		}
	case VideosFailed:
		if a.Generation == st.Feed.Requested {
			st.Feed.Loading = false
		}
	case Failed:
		f := a.Failure
		st.Failure = &f
	case FailureCleared:
		st.Failure = nil
	}

	return st
}
