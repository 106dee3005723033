package moderation

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyxmakerx/saga/internal/adventures"
	"github.com/keyxmakerx/saga/internal/apperror"
	"github.com/keyxmakerx/saga/internal/backend"
	"github.com/keyxmakerx/saga/internal/backend/backendtest"
	"github.com/keyxmakerx/saga/internal/plugins/auth"
)

const (
	queueURL     = "/api/adventures/moderation/queue/"
	publishedURL = "/api/adventures/moderation/published/"
)

func newTestService() (ModerationService, *backendtest.Router, auth.Actor) {
	router := backendtest.NewRouter()
	return NewModerationService(), router, auth.Actor{SessionID: "s1", UserID: 2, Level: 1, Requester: router}
}

func TestLists(t *testing.T) {
	svc, router, actor := newTestService()
	router.
		JSON(http.MethodGet, queueURL, []adventures.QueueEntry{{AdventureID: 1, Title: "Лес"}}).
		JSON(http.MethodGet, publishedURL, []adventures.PublishedEntry{{AdventureID: 2}, {AdventureID: 3}})

	l, err := svc.Lists(context.Background(), actor)
	require.NoError(t, err)
	assert.Len(t, l.Queue, 1)
	assert.Len(t, l.Published, 2)
	assert.Empty(t, l.QueueError)
	assert.Empty(t, l.PublishedError)
}

func TestLists_PartialFailure(t *testing.T) {
	svc, router, actor := newTestService()
	router.JSON(http.MethodGet, publishedURL, []adventures.PublishedEntry{{AdventureID: 2}})

	l, err := svc.Lists(context.Background(), actor)
	require.NoError(t, err)
	assert.Empty(t, l.Queue)
	assert.Equal(t, msgQueueFailed, l.QueueError)
	assert.Len(t, l.Published, 1)
}

func TestLists_ExpiredSession(t *testing.T) {
	svc, router, actor := newTestService()
	router.Handle(http.MethodGet, queueURL, func(backend.Request) (*backend.Response, error) {
		return nil, backend.ErrUnauthorized
	})

	_, err := svc.Lists(context.Background(), actor)
	assert.Equal(t, http.StatusUnauthorized, apperror.SafeCode(err))
}

func TestDecide(t *testing.T) {
	svc, router, actor := newTestService()
	router.JSON(http.MethodPost, "/api/adventures/moderation/7/publish/", map[string]string{"status": "published"})
	ctx := context.Background()

	require.NoError(t, svc.Decide(ctx, actor, 7, adventures.DecisionPublish))
	assert.True(t, router.Called(http.MethodPost, "/api/adventures/moderation/7/publish/"))

	err := svc.Decide(ctx, actor, 7, "archive")
	assert.Equal(t, http.StatusBadRequest, apperror.SafeCode(err))

	err = svc.Decide(ctx, actor, 7, adventures.DecisionReject)
	assert.Equal(t, msgDecisionFailed, apperror.SafeMessage(err))
}
