package service_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GintGld/video-baker/internal/models"
	"github.com/GintGld/video-baker/internal/service"
)

func TestKindOf(t *testing.T) {
	testCases := []struct {
		desc   string
		err    error
		expect models.FailureKind
	}{
		{desc: "provider", err: service.ErrProviderUnavailable, expect: models.KindProviderUnavailable},
		{desc: "wrapped auth", err: fmt.Errorf("Session.Connect: %w", service.ErrAuthorizationDenied), expect: models.KindAuthorizationDenied},
		{desc: "no session", err: service.ErrNoSession, expect: models.KindNoSession},
		{desc: "validation", err: service.ErrValidation, expect: models.KindValidation},
		{desc: "transaction", err: fmt.Errorf("op: %w", service.ErrTransaction), expect: models.KindTransaction},
		{desc: "network", err: service.ErrNetworkRead, expect: models.KindNetworkRead},
		{desc: "not found", err: service.ErrVideoNotFound, expect: models.KindNotFound},
		{desc: "unknown", err: errors.New("boom"), expect: models.KindUnknown},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.expect, service.KindOf(tC.err))
		})
	}
}
