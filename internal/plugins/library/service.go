package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/keyxmakerx/saga/internal/adventures"
	"github.com/keyxmakerx/saga/internal/apperror"
	"github.com/keyxmakerx/saga/internal/backend"
	"github.com/keyxmakerx/saga/internal/collection"
	"github.com/keyxmakerx/saga/internal/plugins/auth"
)

// LibraryService defines the library operations.
type LibraryService interface {
	Overview(ctx context.Context, actor auth.Actor) (*Overview, error)
	Create(ctx context.Context, actor auth.Actor, draft adventures.TemplateDraft) (*adventures.Adventure, error)
	DeleteTemplate(ctx context.Context, actor auth.Actor, id int, confirmer collection.Confirmer) error
	DeleteRun(ctx context.Context, actor auth.Actor, id int, confirmer collection.Confirmer) error
	Start(ctx context.Context, actor auth.Actor, templateID int) (*adventures.Adventure, error)
	Import(ctx context.Context, actor auth.Actor, raw []byte) (*adventures.Adventure, error)
}

type libraryService struct {
	registry *collection.Registry
}

// NewLibraryService creates a library service over the controller registry.
func NewLibraryService(registry *collection.Registry) LibraryService {
	return &libraryService{registry: registry}
}

func ownerKey(actor auth.Actor) string {
	return "user:" + strconv.Itoa(actor.UserID)
}

func (s *libraryService) templates(actor auth.Actor) *collection.Controller[adventures.Adventure, adventures.TemplateDraft] {
	return collection.Obtain(s.registry, actor.SessionID, slotTemplates, collection.Config[adventures.Adventure, adventures.TemplateDraft]{
		OwnerKey:     ownerKey(actor),
		Endpoint:     adventures.Collection("templates/"),
		Requester:    actor.Requester,
		InitialDraft: adventures.InitialTemplateDraft,
		ToDraft:      adventures.TemplateToDraft,
		ToPayload:    collection.PayloadOf(adventures.TemplateToPayload),
	})
}

func (s *libraryService) runs(actor auth.Actor) *collection.Controller[adventures.Adventure, adventures.RunDraft] {
	return collection.Obtain(s.registry, actor.SessionID, slotRuns, collection.Config[adventures.Adventure, adventures.RunDraft]{
		OwnerKey:  ownerKey(actor),
		Endpoint:  adventures.Collection("runs/"),
		Requester: actor.Requester,
		ToDraft:   adventures.RunToDraft,
		ToPayload: collection.PayloadOf(adventures.RunToPayload),
	})
}

// Overview loads the three lists concurrently. Every list is fail-soft: a
// list that cannot be fetched is shown empty.
func (s *libraryService) Overview(ctx context.Context, actor auth.Actor) (*Overview, error) {
	templates := s.templates(actor)
	runs := s.runs(actor)

	var (
		published []adventures.PublishedEntry
		loadErrs  [3]error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loadErrs[0] = templates.Load(gctx)
		return nil
	})
	g.Go(func() error {
		loadErrs[1] = runs.Load(gctx)
		return nil
	})
	g.Go(func() error {
		published, loadErrs[2] = fetchPublished(gctx, actor.Requester)
		return nil
	})
	_ = g.Wait()

	for _, err := range loadErrs {
		if err == nil {
			continue
		}
		// An expired session ends the page; anything else leaves a list empty.
		if errors.Is(err, backend.ErrUnauthorized) {
			return nil, apperror.FromBackend(err, "")
		}
		slog.Warn("loading library list", slog.Any("error", err))
	}

	return &Overview{
		Templates: templates.Items(),
		Runs:      runs.Items(),
		Published: published,
	}, nil
}

func fetchPublished(ctx context.Context, r backend.Requester) ([]adventures.PublishedEntry, error) {
	resp, err := r.Do(ctx, backend.Request{Method: http.MethodGet, URL: adventures.Collection("moderation/published/")})
	if err != nil {
		return nil, err
	}
	var list []adventures.PublishedEntry
	if err := resp.Decode(&list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *libraryService) Create(ctx context.Context, actor auth.Actor, draft adventures.TemplateDraft) (*adventures.Adventure, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, apperror.NewValidation(msgTitleRequired)
	}

	ctrl := s.templates(actor)
	ctrl.CancelEdit()
	ctrl.SetDraft(draft)
	created, err := ctrl.SubmitEntity(ctx)
	if err != nil {
		return nil, apperror.FromBackend(err, msgCreateFailed)
	}

	slog.Info("template created", slog.Int("adventure_id", created.ID), slog.Int("user_id", actor.UserID))
	return &created, nil
}

func (s *libraryService) DeleteTemplate(ctx context.Context, actor auth.Actor, id int, confirmer collection.Confirmer) error {
	return s.remove(ctx, s.templates(actor).Remove, id, confirmer)
}

func (s *libraryService) DeleteRun(ctx context.Context, actor auth.Actor, id int, confirmer collection.Confirmer) error {
	return s.remove(ctx, s.runs(actor).Remove, id, confirmer)
}

func (s *libraryService) remove(ctx context.Context, remove func(context.Context, int, collection.Confirmer) error, id int, confirmer collection.Confirmer) error {
	if err := remove(ctx, id, confirmer); err != nil {
		if errors.Is(err, collection.ErrDeclined) {
			return err
		}
		return apperror.FromBackend(err, msgDeleteFailed)
	}
	return nil
}

func (s *libraryService) Start(ctx context.Context, actor auth.Actor, templateID int) (*adventures.Adventure, error) {
	resp, err := actor.Requester.Do(ctx, backend.Request{
		Method: http.MethodPost,
		URL:    adventures.Base(adventures.ScopeTemplates, templateID) + "start/",
	})
	if err != nil {
		return nil, apperror.FromBackend(err, msgStartFailed)
	}
	var run adventures.Adventure
	if err := resp.Decode(&run); err != nil {
		return nil, apperror.NewBadGateway(msgStartFailed, err)
	}

	slog.Info("run started",
		slog.Int("template_id", templateID),
		slog.Int("run_id", run.ID),
		slog.Int("user_id", actor.UserID),
	)
	return &run, nil
}

func (s *libraryService) Import(ctx context.Context, actor auth.Actor, raw []byte) (*adventures.Adventure, error) {
	if len(raw) == 0 || !json.Valid(raw) {
		return nil, apperror.NewValidation(msgImportFailed)
	}

	resp, err := actor.Requester.Do(ctx, backend.Request{
		Method: http.MethodPost,
		URL:    adventures.Collection("templates/import/"),
		Body:   json.RawMessage(raw),
	})
	if err != nil {
		ae := apperror.FromBackend(err, msgImportFailed)
		if ae.Code == http.StatusUnprocessableEntity {
			ae.Message = msgImportFailed
		}
		return nil, ae
	}
	var imported adventures.Adventure
	if err := resp.Decode(&imported); err != nil {
		return nil, apperror.NewBadGateway(msgImportFailed, fmt.Errorf("decoding imported template: %w", err))
	}
	return &imported, nil
}
