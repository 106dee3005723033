// Package play is the play screen of a run: the party, the story so far,
// and the actions that advance or rewind it.
package play

import (
	"strconv"

	"github.com/keyxmakerx/saga/internal/adventures"
)

const (
	msgLoadFailed       = "Не удалось загрузить приключение."
	msgSendFailed       = "Не удалось отправить сообщение."
	msgNextFailed       = "Не удалось получить продолжение."
	msgRollbackFailed   = "Не удалось откатить историю."
	msgRegenerateFailed = "Не удалось перегенерировать сообщение."
	msgPDFFailed        = "Не удалось сохранить историю в PDF."
	msgBusy             = "Дождитесь завершения предыдущего действия."
)

// State is everything the play screen shows.
type State struct {
	Run     adventures.Adventure
	Party   []adventures.Character
	History []adventures.HistoryEntry
}

// PDF is a downloadable history export.
type PDF struct {
	Filename string
	Body     []byte
}

// EntryView is one history entry with the actions it offers.
type EntryView struct {
	adventures.HistoryEntry
	CanRollback   bool
	CanRegenerate bool
}

// PageView is the play page.
type PageView struct {
	RunID   int
	Title   string
	Party   []adventures.Character
	History []EntryView
	Error   string
	Prompt  string
	AsHero  bool
	Base    string
}

// NewPageView builds the page. Rollback is offered on every entry but the
// last one, from the run's rollback floor on; regenerate only on the last.
func NewPageView(s State, errMsg, prompt string, asHero bool) PageView {
	v := PageView{
		RunID:  s.Run.ID,
		Title:  s.Run.Title,
		Party:  s.Party,
		Error:  errMsg,
		Prompt: prompt,
		AsHero: asHero,
		Base:   playPath(s.Run.ID),
	}
	last := len(s.History) - 1
	floor := s.Run.RollbackMinHistoryID
	for i, e := range s.History {
		v.History = append(v.History, EntryView{
			HistoryEntry:  e,
			CanRollback:   i != last && (floor == nil || e.ID >= *floor),
			CanRegenerate: i == last,
		})
	}
	return v
}

func playPath(runID int) string { return "/adventures/" + strconv.Itoa(runID) + "/play" }
func heroPath(runID int) string { return "/adventures/" + strconv.Itoa(runID) + "/hero" }

func pdfFilename(runID int) string {
	return "adventure_" + strconv.Itoa(runID) + "_history.pdf"
}
