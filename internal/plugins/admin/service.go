package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/keyxmakerx/saga/internal/apperror"
	"github.com/keyxmakerx/saga/internal/backend"
	"github.com/keyxmakerx/saga/internal/collection"
	"github.com/keyxmakerx/saga/internal/plugins/auth"
)

const adminsEndpoint = "/api/users/admins/"

// AdminService manages the administrators collection.
type AdminService interface {
	List(ctx context.Context, actor auth.Actor) ([]Administrator, error)
	Add(ctx context.Context, actor auth.Actor, draft AdminDraft) error
	Remove(ctx context.Context, actor auth.Actor, id int, confirmer collection.Confirmer) error
	SetLevel(ctx context.Context, actor auth.Actor, id int, level string) error
}

type adminService struct {
	registry *collection.Registry
}

// NewAdminService creates an admin service over the controller registry.
func NewAdminService(registry *collection.Registry) AdminService {
	return &adminService{registry: registry}
}

func (s *adminService) admins(actor auth.Actor) *collection.Controller[Administrator, AdminDraft] {
	return collection.Obtain(s.registry, actor.SessionID, slotAdmins, collection.Config[Administrator, AdminDraft]{
		OwnerKey:  "admins",
		Endpoint:  adminsEndpoint,
		Requester: actor.Requester,
		ToDraft:   toDraft,
		ToPayload: collection.PayloadOf(toPayload),
	})
}

// List loads the administrators. Unlike the entity tabs, a failed load is
// reported so the page can say so.
func (s *adminService) List(ctx context.Context, actor auth.Actor) ([]Administrator, error) {
	ctrl := s.admins(actor)
	if err := ctrl.Load(ctx); err != nil {
		return nil, apperror.FromBackend(err, msgLoadFailed)
	}
	return ctrl.Items(), nil
}

func parseLevel(raw string, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > max {
		return 0, apperror.NewValidation(msgLevelRange(max))
	}
	return n, nil
}

func (s *adminService) Add(ctx context.Context, actor auth.Actor, draft AdminDraft) error {
	if actor.Level < 2 {
		return apperror.NewForbidden(msgNoRights)
	}
	draft.Username = strings.TrimSpace(draft.Username)
	if draft.Username == "" {
		return apperror.NewValidation(msgUsernameMissing)
	}
	if _, err := parseLevel(draft.Level, actor.Level-1); err != nil {
		return err
	}

	ctrl := s.admins(actor)
	ctrl.CancelEdit()
	ctrl.SetDraft(draft)
	if err := ctrl.Submit(ctx); err != nil {
		return apperror.FromBackend(err, msgCreateFailed)
	}
	// Refresh so the list follows the server order.
	if err := ctrl.Load(ctx); err != nil {
		slog.Warn("reloading administrators", slog.Any("error", err))
	}

	slog.Info("administrator added",
		slog.String("username", draft.Username),
		slog.String("level", draft.Level),
		slog.Int("by_user_id", actor.UserID),
	)
	return nil
}

// target finds an administrator the actor outranks.
func (s *adminService) target(ctx context.Context, actor auth.Actor, id int, denied string) (*collection.Controller[Administrator, AdminDraft], error) {
	ctrl := s.admins(actor)
	a, ok := ctrl.Find(id)
	if !ok {
		if err := ctrl.Load(ctx); err != nil {
			return nil, apperror.FromBackend(err, msgLoadFailed)
		}
		if a, ok = ctrl.Find(id); !ok {
			return nil, apperror.NewNotFound(msgEmpty)
		}
	}
	if actor.Level <= a.Level {
		return nil, apperror.NewForbidden(denied)
	}
	return ctrl, nil
}

func (s *adminService) Remove(ctx context.Context, actor auth.Actor, id int, confirmer collection.Confirmer) error {
	ctrl, err := s.target(ctx, actor, id, msgRemoveDenied)
	if err != nil {
		return err
	}
	if err := ctrl.Remove(ctx, id, confirmer); err != nil {
		if errors.Is(err, collection.ErrDeclined) {
			return err
		}
		return apperror.FromBackend(err, msgRemoveFailed)
	}
	slog.Info("administrator removed", slog.Int("admin_id", id), slog.Int("by_user_id", actor.UserID))
	return nil
}

func (s *adminService) SetLevel(ctx context.Context, actor auth.Actor, id int, level string) error {
	if actor.Level < 2 {
		return apperror.NewForbidden(msgLevelFailed)
	}
	n, err := parseLevel(level, actor.Level-1)
	if err != nil {
		return err
	}
	ctrl, err := s.target(ctx, actor, id, msgLevelFailed)
	if err != nil {
		return err
	}

	_, err = actor.Requester.Do(ctx, backend.Request{
		Method: http.MethodPatch,
		URL:    adminsEndpoint + strconv.Itoa(id) + "/",
		Body:   levelPayload{Level: n},
	})
	if err != nil {
		return apperror.FromBackend(err, msgLevelFailed)
	}
	if err := ctrl.Load(ctx); err != nil {
		slog.Warn("reloading administrators", slog.Any("error", err))
	}
	return nil
}
