package models

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ViewState is the whole client state exposed to the presentation layer.
type ViewState struct {
	Revision uint64         `json:"revision"`
	Session  Session        `json:"session"`
	Balance  *Balance       `json:"balance,omitempty"`
	Registry common.Address `json:"registry"`
	Token    common.Address `json:"token"`
	Bound    bool           `json:"bound"`
	Admin    common.Address `json:"admin"`
	Feed     Feed           `json:"feed"`
	Failure  *Failure       `json:"failure,omitempty"`
}

// IsAdmin reports whether the session account is the registry admin.
// It is a visibility hint only.
func (s ViewState) IsAdmin() bool {
	return s.Session.Connected && s.Admin != (common.Address{}) && s.Session.Address == s.Admin
}

// Feed holds the last applied video list.
//
// Requested is the latest generation handed out to a fetch,
// Applied is the generation the Videos came from.
type Feed struct {
	Videos    []Video   `json:"videos"`
	Requested uint64    `json:"requested"`
	Applied   uint64    `json:"applied"`
	Loading   bool      `json:"loading"`
	Missing   []uint64  `json:"missing,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type FailureKind string

const (
	KindProviderUnavailable FailureKind = "provider_unavailable"
	KindAuthorizationDenied FailureKind = "authorization_denied"
	KindNetworkRead         FailureKind = "network_read"
	KindTransaction         FailureKind = "transaction"
	KindValidation          FailureKind = "validation"
	KindNoSession           FailureKind = "no_session"
	KindNotFound            FailureKind = "not_found"
	KindUnknown             FailureKind = "unknown"
)

type Failure struct {
	Kind    FailureKind `json:"kind"`
	Op      string      `json:"op"`
	Message string      `json:"message"`
	At      time.Time   `json:"at"`
}
