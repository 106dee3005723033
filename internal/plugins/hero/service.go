package hero

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/keyxmakerx/saga/internal/adventures"
	"github.com/keyxmakerx/saga/internal/apperror"
	"github.com/keyxmakerx/saga/internal/backend"
	"github.com/keyxmakerx/saga/internal/herosetup"
	"github.com/keyxmakerx/saga/internal/plugins/auth"
)

// HeroService defines the wizard operations.
type HeroService interface {
	Wizard(ctx context.Context, actor auth.Actor, runID int) (*Wizard, error)
	Create(ctx context.Context, actor auth.Actor, runID int, setup adventures.HeroSetup, form herosetup.Form) error
}

type heroService struct{}

// NewHeroService creates the wizard service.
func NewHeroService() HeroService {
	return &heroService{}
}

// Wizard fetches the run and its bootstrap data concurrently.
func (s *heroService) Wizard(ctx context.Context, actor auth.Actor, runID int) (*Wizard, error) {
	var w Wizard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := actor.Requester.Do(gctx, backend.Request{Method: http.MethodGet, URL: adventures.Base(adventures.ScopeRuns, runID)})
		if err != nil {
			return err
		}
		return resp.Decode(&w.Run)
	})
	g.Go(func() error {
		resp, err := actor.Requester.Do(gctx, backend.Request{
			Method: http.MethodGet,
			URL:    adventures.Endpoint(adventures.ScopeRuns, runID, "bootstrap/"),
		})
		if err != nil {
			return err
		}
		return resp.Decode(&w.Bootstrap)
	})
	if err := g.Wait(); err != nil {
		return nil, apperror.FromBackend(err, msgLoadFailed)
	}
	return &w, nil
}

// Create validates the form against the setup and creates the hero.
func (s *heroService) Create(ctx context.Context, actor auth.Actor, runID int, setup adventures.HeroSetup, form herosetup.Form) error {
	if err := herosetup.Validate(setup, form); err != nil {
		return err
	}

	_, err := actor.Requester.Do(ctx, backend.Request{
		Method: http.MethodPost,
		URL:    adventures.Endpoint(adventures.ScopeRuns, runID, "hero/"),
		Body:   herosetup.Resolve(setup, form),
	})
	if err != nil {
		ae := apperror.FromBackend(err, msgCreateFailed)
		if ae.Code == http.StatusUnprocessableEntity {
			ae.Message = msgCreateFailed
		}
		return ae
	}

	slog.Info("hero created", slog.Int("run_id", runID), slog.Int("user_id", actor.UserID))
	return nil
}
