package play

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/keyxmakerx/saga/internal/adventures"
	"github.com/keyxmakerx/saga/internal/apperror"
	"github.com/keyxmakerx/saga/internal/backend"
	"github.com/keyxmakerx/saga/internal/plugins/auth"
)

// PlayService defines the play screen operations. Story operations on one
// run are serialized; a concurrent one fails with a 409.
type PlayService interface {
	State(ctx context.Context, actor auth.Actor, runID int) (*State, error)
	Send(ctx context.Context, actor auth.Actor, runID int, content string, asHero bool) error
	Next(ctx context.Context, actor auth.Actor, runID int) error
	Rollback(ctx context.Context, actor auth.Actor, runID, entryID int) error
	Regenerate(ctx context.Context, actor auth.Actor, runID int) error
	PDF(ctx context.Context, actor auth.Actor, runID int) (*PDF, error)
}

type playService struct {
	locks *locker
}

// NewPlayService creates the play service.
func NewPlayService() PlayService {
	return &playService{locks: newLocker()}
}

func historyURL(runID int, path string) string {
	return adventures.Endpoint(adventures.ScopeRuns, runID, "history/"+path)
}

// State fetches the party, the history and the run concurrently.
func (s *playService) State(ctx context.Context, actor auth.Actor, runID int) (*State, error) {
	var st State
	get := func(ctx context.Context, url string, v any) error {
		resp, err := actor.Requester.Do(ctx, backend.Request{Method: http.MethodGet, URL: url})
		if err != nil {
			return err
		}
		return resp.Decode(v)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return get(gctx, adventures.Endpoint(adventures.ScopeRuns, runID, "characters/party/"), &st.Party)
	})
	g.Go(func() error {
		return get(gctx, historyURL(runID, ""), &st.History)
	})
	g.Go(func() error {
		return get(gctx, adventures.Base(adventures.ScopeRuns, runID), &st.Run)
	})
	if err := g.Wait(); err != nil {
		return nil, apperror.FromBackend(err, msgLoadFailed)
	}
	return &st, nil
}

// story runs op while holding the run's story lock.
func (s *playService) story(actor auth.Actor, runID int, fallback string, op func() error) error {
	release, ok := s.locks.TryAcquire(actor.SessionID + ":" + strconv.Itoa(runID))
	if !ok {
		return apperror.NewConflict(msgBusy)
	}
	defer release()

	if err := op(); err != nil {
		ae := apperror.FromBackend(err, fallback)
		// Backend field errors are not meaningful on this screen.
		if ae.Code == http.StatusUnprocessableEntity {
			ae.Message = fallback
		}
		return ae
	}
	return nil
}

func (s *playService) post(ctx context.Context, actor auth.Actor, url string, body any) error {
	_, err := actor.Requester.Do(ctx, backend.Request{Method: http.MethodPost, URL: url, Body: body})
	return err
}

type contentBody struct {
	Content string `json:"content"`
}

// Send adds the player's line to the story. As the hero, the backend also
// answers as narrator. Blank content is ignored.
func (s *playService) Send(ctx context.Context, actor auth.Actor, runID int, content string, asHero bool) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	return s.story(actor, runID, msgSendFailed, func() error {
		if asHero {
			resp, err := actor.Requester.Do(ctx, backend.Request{
				Method: http.MethodPost,
				URL:    historyURL(runID, "hero/"),
				Body:   contentBody{Content: content},
			})
			if err != nil {
				return err
			}
			var turn adventures.HeroTurn
			if err := resp.Decode(&turn); err != nil {
				return err
			}
			if turn.AIEntry == nil {
				slog.Warn("hero turn without narrator reply", slog.Int("run_id", runID))
			}
			return nil
		}
		return s.post(ctx, actor, historyURL(runID, ""), contentBody{Content: content})
	})
}

func (s *playService) Next(ctx context.Context, actor auth.Actor, runID int) error {
	return s.story(actor, runID, msgNextFailed, func() error {
		return s.post(ctx, actor, historyURL(runID, "next/"), nil)
	})
}

func (s *playService) Rollback(ctx context.Context, actor auth.Actor, runID, entryID int) error {
	return s.story(actor, runID, msgRollbackFailed, func() error {
		return s.post(ctx, actor, historyURL(runID, strconv.Itoa(entryID)+"/rollback/"), nil)
	})
}

func (s *playService) Regenerate(ctx context.Context, actor auth.Actor, runID int) error {
	return s.story(actor, runID, msgRegenerateFailed, func() error {
		return s.post(ctx, actor, historyURL(runID, "last/regenerate/"), nil)
	})
}

// PDF proxies the history export. It is locked apart from the story
// operations.
func (s *playService) PDF(ctx context.Context, actor auth.Actor, runID int) (*PDF, error) {
	release, ok := s.locks.TryAcquire(actor.SessionID + ":" + strconv.Itoa(runID) + ":pdf")
	if !ok {
		return nil, apperror.NewConflict(msgBusy)
	}
	defer release()

	resp, err := actor.Requester.Do(ctx, backend.Request{Method: http.MethodGet, URL: historyURL(runID, "pdf/")})
	if err != nil {
		return nil, apperror.FromBackend(err, msgPDFFailed)
	}
	return &PDF{Filename: pdfFilename(runID), Body: resp.Body}, nil
}
