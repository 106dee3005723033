package moderation

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/keyxmakerx/saga/internal/adventures"
	"github.com/keyxmakerx/saga/internal/apperror"
	"github.com/keyxmakerx/saga/internal/backend"
	"github.com/keyxmakerx/saga/internal/plugins/auth"
)

// ModerationService defines the moderation operations.
type ModerationService interface {
	Lists(ctx context.Context, actor auth.Actor) (*Lists, error)
	Decide(ctx context.Context, actor auth.Actor, adventureID int, decision string) error
}

type moderationService struct{}

// NewModerationService creates the moderation service.
func NewModerationService() ModerationService {
	return &moderationService{}
}

func fetch[T any](ctx context.Context, r backend.Requester, url string) ([]T, error) {
	resp, err := r.Do(ctx, backend.Request{Method: http.MethodGet, URL: url})
	if err != nil {
		return nil, err
	}
	var list []T
	if err := resp.Decode(&list); err != nil {
		return nil, err
	}
	return list, nil
}

// Lists loads the queue and the published list concurrently.
func (s *moderationService) Lists(ctx context.Context, actor auth.Actor) (*Lists, error) {
	var (
		l                    Lists
		queueErr, publishErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l.Queue, queueErr = fetch[adventures.QueueEntry](gctx, actor.Requester, adventures.Collection("moderation/queue/"))
		return nil
	})
	g.Go(func() error {
		l.Published, publishErr = fetch[adventures.PublishedEntry](gctx, actor.Requester, adventures.Collection("moderation/published/"))
		return nil
	})
	_ = g.Wait()

	for _, err := range []error{queueErr, publishErr} {
		if errors.Is(err, backend.ErrUnauthorized) {
			return nil, apperror.FromBackend(err, "")
		}
	}
	if queueErr != nil {
		slog.Warn("loading moderation queue", slog.Any("error", queueErr))
		l.QueueError = msgQueueFailed
	}
	if publishErr != nil {
		slog.Warn("loading published adventures", slog.Any("error", publishErr))
		l.PublishedError = msgPublishedFailed
	}
	return &l, nil
}

// Decide publishes or rejects a template.
func (s *moderationService) Decide(ctx context.Context, actor auth.Actor, adventureID int, decision string) error {
	if decision != adventures.DecisionPublish && decision != adventures.DecisionReject {
		return apperror.NewBadRequest("Неизвестное решение.")
	}
	_, err := actor.Requester.Do(ctx, backend.Request{
		Method: http.MethodPost,
		URL:    adventures.Collection("moderation/" + strconv.Itoa(adventureID) + "/" + decision + "/"),
	})
	if err != nil {
		ae := apperror.FromBackend(err, msgDecisionFailed)
		if ae.Code == http.StatusUnprocessableEntity {
			ae.Message = msgDecisionFailed
		}
		return ae
	}
	slog.Info("moderation decision",
		slog.Int("adventure_id", adventureID),
		slog.String("decision", decision),
		slog.Int("moderator_id", actor.UserID),
	)
	return nil
}
