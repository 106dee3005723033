package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gosimple/slug"
	"golang.org/x/sync/errgroup"

	"github.com/keyxmakerx/saga/internal/adventures"
	"github.com/keyxmakerx/saga/internal/apperror"
	"github.com/keyxmakerx/saga/internal/backend"
	"github.com/keyxmakerx/saga/internal/collection"
	"github.com/keyxmakerx/saga/internal/herosetup"
	"github.com/keyxmakerx/saga/internal/plugins/auth"
)

// Target addresses one adventure and, on the characters tab, the active
// character.
type Target struct {
	Scope       adventures.Scope
	AdventureID int
	Character   int
}

// Export is a downloadable template file.
type Export struct {
	Filename string
	Body     []byte
}

// EditorService defines the editor operations.
type EditorService interface {
	Page(ctx context.Context, actor auth.Actor, req PageRequest) (*PageView, error)
	SaveGeneral(ctx context.Context, actor auth.Actor, t Target, draft adventures.GeneralDraft) error
	SaveHeroSetup(ctx context.Context, actor auth.Actor, templateID int, draft adventures.HeroSetupDraft) error

	// SaveEntity submits the posted form of an entity tab and returns the id
	// of the saved entity. editingID is the entity the form was editing, or 0.
	SaveEntity(ctx context.Context, actor auth.Actor, t Target, tab string, editingID int, bind func(any) error) (int, error)
	BeginEdit(ctx context.Context, actor auth.Actor, t Target, tab string, id int) error
	Cancel(ctx context.Context, actor auth.Actor, t Target, tab string) error
	Remove(ctx context.Context, actor auth.Actor, t Target, tab string, id int, confirmer collection.Confirmer) error

	Export(ctx context.Context, actor auth.Actor, templateID int) (*Export, error)
}

type editorService struct {
	registry *collection.Registry
}

// NewEditorService creates an editor service over the controller registry.
func NewEditorService(registry *collection.Registry) EditorService {
	return &editorService{registry: registry}
}

func (s *editorService) workspace(actor auth.Actor, t Target) *workspace {
	return openWorkspace(s.registry, actor, t.Scope, t.AdventureID, t.Character)
}

func (s *editorService) entityTab(ctx context.Context, actor auth.Actor, t Target, name string) (*workspace, Tab, error) {
	ws := s.workspace(actor, t)
	// Character sub-tabs need the active character in the list.
	if name == TabCharacterSystems || name == TabCharacterTechniques {
		if _, ok := ws.characters.Find(t.Character); !ok && t.Character != 0 {
			if err := ws.characters.Load(ctx); err != nil {
				return nil, nil, apperror.FromBackend(err, msgLoadFailed)
			}
		}
	}
	tab, ok := ws.tab(name)
	if !ok {
		return nil, nil, apperror.NewNotFound("Вкладка не найдена.")
	}
	return ws, tab, nil
}

func fetchAdventure(ctx context.Context, r backend.Requester, scope adventures.Scope, id int) (*adventures.Adventure, error) {
	resp, err := r.Do(ctx, backend.Request{Method: http.MethodGet, URL: adventures.Base(scope, id)})
	if err != nil {
		return nil, err
	}
	var a adventures.Adventure
	if err := resp.Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

func fetchHeroSetup(ctx context.Context, r backend.Requester, templateID int) (*adventures.HeroSetup, error) {
	resp, err := r.Do(ctx, backend.Request{
		Method: http.MethodGet,
		URL:    adventures.Endpoint(adventures.ScopeTemplates, templateID, "hero-setup/"),
	})
	if err != nil {
		return nil, err
	}
	var h adventures.HeroSetup
	if err := resp.Decode(&h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Page loads the adventure, its hero setup and every collection
// concurrently, then renders the requested tab.
func (s *editorService) Page(ctx context.Context, actor auth.Actor, req PageRequest) (*PageView, error) {
	if req.Tab == "" {
		req.Tab = TabGeneral
	}
	t := Target{Scope: req.Scope, AdventureID: req.AdventureID, Character: req.Character}
	ws := s.workspace(actor, t)
	isTemplate := req.Scope == adventures.ScopeTemplates

	var (
		adventure *adventures.Adventure
		setup     *adventures.HeroSetup
		advErr    error
		setupErr  error
		listErr   error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		adventure, advErr = fetchAdventure(gctx, actor.Requester, req.Scope, req.AdventureID)
		return nil
	})
	if isTemplate {
		g.Go(func() error {
			setup, setupErr = fetchHeroSetup(gctx, actor.Requester, req.AdventureID)
			return nil
		})
	}
	g.Go(func() error {
		listErr = ws.loadAll(gctx)
		return nil
	})
	_ = g.Wait()

	if advErr != nil {
		return nil, apperror.FromBackend(advErr, msgLoadFailed)
	}
	if errors.Is(listErr, backend.ErrUnauthorized) {
		return nil, apperror.FromBackend(listErr, msgLoadFailed)
	}

	// A character that no longer exists deselects itself.
	if _, ok := ws.characters.Find(ws.character); !ok {
		ws.character = 0
	}

	view := &PageView{
		Title:           adventure.Title,
		IsTemplate:      isTemplate,
		Base:            ws.base,
		BackURL:         "/adventures",
		Active:          req.Tab,
		ActiveCharacter: ws.character,
	}
	for _, tl := range tabOrder {
		view.Tabs = append(view.Tabs, TabLink{
			Name:   tl.Name,
			Label:  tl.Label,
			URL:    pageURL(ws.scope, ws.id, tl.Name, ws.character),
			Active: tl.Name == req.Tab,
		})
	}

	if req.Tab == TabGeneral {
		view.General = s.generalView(ws, *adventure, setup, setupErr, req)
		return view, nil
	}

	tab, ok := ws.tab(req.Tab)
	if !ok || req.Tab == TabCharacterSystems || req.Tab == TabCharacterTechniques {
		return nil, apperror.NewNotFound("Вкладка не найдена.")
	}
	entity := tab.View(req.Errors[req.Tab])
	view.Entity = &entity

	if req.Tab == TabCharacters {
		sys, _ := ws.tab(TabCharacterSystems)
		tech, _ := ws.tab(TabCharacterTechniques)
		sv := sys.View(req.Errors[TabCharacterSystems])
		tv := tech.View(req.Errors[TabCharacterTechniques])
		view.CharacterSystems = &sv
		view.CharacterTechniques = &tv
	}
	return view, nil
}

func (s *editorService) generalView(ws *workspace, a adventures.Adventure, setup *adventures.HeroSetup, setupErr error, req PageRequest) *GeneralView {
	draft := adventures.GeneralToDraft(a)
	if req.General != nil {
		draft = *req.General
	}

	var heroes []adventures.Character
	for _, c := range ws.characters.Items() {
		if c.IsPlayer {
			heroes = append(heroes, c)
		}
	}
	gv := &GeneralView{
		Fields: fill([]Field{
			titleField("Название"),
			descriptionField(3),
			{Name: "spec_instructions", Label: "Специальные инструкции к ИИ", Kind: KindTextarea, Rows: 3},
			{Name: "intro", Label: "Интро", Kind: KindTextarea, Rows: 4},
			{Name: "primary_hero", Label: "Главный герой", Kind: KindSelect, Empty: "Сгенерировать перед приключением", Options: titleOptions(heroes)},
		}, draft),
		Error:         req.Errors[TabGeneral],
		ShowHeroSetup: ws.scope == adventures.ScopeTemplates,
	}
	if !gv.ShowHeroSetup {
		return gv
	}
	gv.ExportURL = ws.base + "/export"

	setupDraft := adventures.InitialHeroSetupDraft
	switch {
	case req.HeroSetup != nil:
		setupDraft = *req.HeroSetup
	case setup != nil:
		setupDraft = adventures.HeroSetupToDraft(*setup)
	}
	if setupErr != nil {
		slog.Warn("loading hero setup", slog.Int("adventure_id", ws.id), slog.Any("error", setupErr))
		gv.HeroSetupError = msgHeroSetupLoadFailed
	}
	if msg := req.Errors[sectionHeroSetup]; msg != "" {
		gv.HeroSetupError = msg
	}

	races := ws.races.Items()
	locations := ws.locations.Items()
	gv.HeroSetup = fill([]Field{
		{Name: "default_location", Label: herosetup.LabelLocation, Kind: KindSelect, Empty: "Создать новую при старте", Options: titleOptions(locations)},
		{Name: "require_race", Label: "Выбирать расу при старте", Kind: KindCheckbox},
		{Name: "default_race", Label: "Раса по умолчанию", Kind: KindSelect, Empty: "Не задана", Options: titleOptions(races)},
		{Name: "require_age", Label: "Выбирать возраст при старте", Kind: KindCheckbox},
		{Name: "default_age", Label: "Возраст по умолчанию", Kind: KindNumber, Min: "0"},
		{Name: "require_body_power", Label: "Выбирать силу тела при старте", Kind: KindCheckbox},
		{Name: "default_body_power", Label: "Сила тела по умолчанию", Kind: KindNumber, Min: "0"},
		{Name: "require_mind_power", Label: "Выбирать силу разума при старте", Kind: KindCheckbox},
		{Name: "default_mind_power", Label: "Сила разума по умолчанию", Kind: KindNumber, Min: "0"},
		{Name: "require_will_power", Label: "Выбирать силу воли при старте", Kind: KindCheckbox},
		{Name: "default_will_power", Label: "Сила воли по умолчанию", Kind: KindNumber, Min: "0"},
	}, setupDraft)

	if !a.HasHero() {
		summary := herosetup.Summarize(setupDraft, races, locations)
		gv.Summary = &summary
	}
	return gv
}

func (s *editorService) SaveGeneral(ctx context.Context, actor auth.Actor, t Target, draft adventures.GeneralDraft) error {
	if strings.TrimSpace(draft.Title) == "" {
		return apperror.NewValidation("Введите название приключения.")
	}
	_, err := actor.Requester.Do(ctx, backend.Request{
		Method: http.MethodPut,
		URL:    adventures.Base(t.Scope, t.AdventureID),
		Body:   adventures.GeneralToPayload(draft),
	})
	if err != nil {
		return apperror.FromBackend(err, msgSaveFailed)
	}
	return nil
}

func (s *editorService) SaveHeroSetup(ctx context.Context, actor auth.Actor, templateID int, draft adventures.HeroSetupDraft) error {
	_, err := actor.Requester.Do(ctx, backend.Request{
		Method: http.MethodPut,
		URL:    adventures.Endpoint(adventures.ScopeTemplates, templateID, "hero-setup/"),
		Body:   adventures.HeroSetupToPayload(draft),
	})
	if err != nil {
		return apperror.FromBackend(err, msgHeroSetupSaveFailed)
	}
	return nil
}

func (s *editorService) SaveEntity(ctx context.Context, actor auth.Actor, t Target, name string, editingID int, bind func(any) error) (int, error) {
	_, tab, err := s.entityTab(ctx, actor, t, name)
	if err != nil {
		return 0, err
	}
	saved, err := tab.Save(ctx, editingID, bind)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return 0, appErr
		}
		return 0, apperror.FromBackend(err, msgSaveFailed)
	}
	return saved, nil
}

func (s *editorService) BeginEdit(ctx context.Context, actor auth.Actor, t Target, name string, id int) error {
	_, tab, err := s.entityTab(ctx, actor, t, name)
	if err != nil {
		return err
	}
	if !tab.BeginEdit(ctx, id) {
		return apperror.NewNotFound(msgEntryNotFound)
	}
	return nil
}

func (s *editorService) Cancel(ctx context.Context, actor auth.Actor, t Target, name string) error {
	_, tab, err := s.entityTab(ctx, actor, t, name)
	if err != nil {
		return err
	}
	tab.Cancel()
	return nil
}

func (s *editorService) Remove(ctx context.Context, actor auth.Actor, t Target, name string, id int, confirmer collection.Confirmer) error {
	_, tab, err := s.entityTab(ctx, actor, t, name)
	if err != nil {
		return err
	}
	if err := tab.Remove(ctx, id, confirmer); err != nil {
		if errors.Is(err, collection.ErrDeclined) {
			return err
		}
		return apperror.FromBackend(err, msgDeleteFailed)
	}
	return nil
}

// Export downloads a template as indented JSON named after its title.
func (s *editorService) Export(ctx context.Context, actor auth.Actor, templateID int) (*Export, error) {
	var (
		adventure *adventures.Adventure
		raw       []byte
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := fetchAdventure(gctx, actor.Requester, adventures.ScopeTemplates, templateID)
		adventure = a
		return err
	})
	g.Go(func() error {
		resp, err := actor.Requester.Do(gctx, backend.Request{
			Method: http.MethodGet,
			URL:    adventures.Endpoint(adventures.ScopeTemplates, templateID, "export/"),
		})
		if err != nil {
			return err
		}
		raw = resp.Body
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, apperror.FromBackend(err, msgExportFailed)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, apperror.NewBadGateway(msgExportFailed, fmt.Errorf("indenting export: %w", err))
	}

	name := slug.Make(adventure.Title)
	if name == "" {
		name = "adventure"
	}
	return &Export{Filename: name + ".json", Body: buf.Bytes()}, nil
}
