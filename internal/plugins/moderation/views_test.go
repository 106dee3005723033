package moderation

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyxmakerx/saga/internal/adventures"
)

func TestModerationPage(t *testing.T) {
	v := PageView{Lists: Lists{
		Queue:          []adventures.QueueEntry{{AdventureID: 9, Title: "Пещера", AuthorUsername: "bob"}},
		PublishedError: "Не удалось загрузить опубликованные приключения.",
	}}

	var buf bytes.Buffer
	require.NoError(t, moderationPage(v).Render(context.Background(), &buf))

	html := buf.String()
	assert.Contains(t, html, "<td>Пещера</td><td>bob</td>")
	assert.Contains(t, html, `action="/moderation/9/publish"`)
	assert.Contains(t, html, `action="/moderation/9/reject"`)
	assert.Contains(t, html, `<button type="submit" class="danger">Отклонить</button>`)
	assert.Contains(t, html, "Не удалось загрузить опубликованные приключения.")
	assert.NotContains(t, html, "Опубликованных приключений пока нет.")
}

func TestModerationPage_EmptyQueue(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, moderationPage(PageView{}).Render(context.Background(), &buf))

	html := buf.String()
	assert.Contains(t, html, "Очередь модерации пуста.")
	assert.Contains(t, html, "Опубликованных приключений пока нет.")
}
