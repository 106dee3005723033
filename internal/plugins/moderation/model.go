// Package moderation lists templates awaiting review and the published
// ones, and records publish or reject decisions. Moderators only.
package moderation

import "github.com/keyxmakerx/saga/internal/adventures"

const (
	msgQueueFailed     = "Не удалось загрузить очередь модерации."
	msgPublishedFailed = "Не удалось загрузить опубликованные приключения."
	msgDecisionFailed  = "Не удалось выполнить действие модерации."
)

// Lists is the moderation page content. A list that failed to load is
// empty and has its error set.
type Lists struct {
	Queue          []adventures.QueueEntry
	Published      []adventures.PublishedEntry
	QueueError     string
	PublishedError string
}

// PageView is the moderation page.
type PageView struct {
	Lists
	Error string
}
