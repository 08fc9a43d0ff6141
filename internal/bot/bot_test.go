package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"super-tasks/internal/model"
	"super-tasks/internal/repository"
	"super-tasks/internal/service"
	"super-tasks/internal/testutil"
)

type fakeSender struct {
	sent     []tgbotapi.MessageConfig
	requests []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

type fixture struct {
	bot     *Bot
	sender  *fakeSender
	mentor  *repository.MentorRepository
	user    *model.User
	overdue *model.MentorTaskLog
}

const linkedChat int64 = 42

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	ctx := context.Background()
	users := repository.NewUserRepository(db)
	mentor := repository.NewMentorRepository(db)

	user := &model.User{Name: "Ann", Email: "ann@example.com", PasswordDigest: "x", TelegramChatID: testutil.Ptr(linkedChat)}
	require.NoError(t, users.Create(ctx, user))
	require.NoError(t, users.Create(ctx, &model.User{Email: "nochat@example.com", PasswordDigest: "x"}))

	task := &model.MentorTask{Name: "Read RFC"}
	require.NoError(t, mentor.CreateTask(ctx, task))
	overdue := &model.MentorTaskLog{UserID: user.ID, MentorTaskID: task.ID, Deadline: testutil.Ptr(testutil.Time(t, "2024-09-09T10:00:00Z"))}
	require.NoError(t, mentor.CreateLog(ctx, overdue))
	today := &model.MentorTaskLog{UserID: user.ID, MentorTaskID: task.ID, Deadline: testutil.Ptr(testutil.Time(t, "2024-09-10T18:00:00Z"))}
	require.NoError(t, mentor.CreateLog(ctx, today))

	sender := &fakeSender{}
	b := NewWithSender(sender, users,
		service.NewReminderService(mentor, nil),
		service.NewMentorService(mentor, nil),
		time.UTC, testutil.Logger())
	fixed := testutil.Time(t, "2024-09-10T12:00:00Z")
	b.now = func() time.Time { return fixed }

	return &fixture{bot: b, sender: sender, mentor: mentor, user: user, overdue: overdue}
}

func command(chatID int64, text string) tgbotapi.Update {
	name := strings.Fields(text)[0]
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID, Type: "private"},
		From:     &tgbotapi.User{ID: chatID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}}
}

func TestStartShowsChatID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.bot.HandleUpdate(ctx, command(99, "/start"))
	assert.Contains(t, f.sender.last(t).Text, "<code>99</code>")
	assert.Equal(t, tgbotapi.ModeHTML, f.sender.last(t).ParseMode)

	f.bot.HandleUpdate(ctx, command(linkedChat, "/start"))
	assert.Contains(t, f.sender.last(t).Text, "Hi, Ann!")
}

func TestCommandsRequireLinkedChat(t *testing.T) {
	f := newFixture(t)
	f.bot.HandleUpdate(context.Background(), command(7, "/today"))
	assert.Contains(t, f.sender.last(t).Text, "not linked")
}

func TestTodayAndOverdue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.bot.HandleUpdate(ctx, command(linkedChat, "/today"))
	today := f.sender.last(t)
	assert.Equal(t, linkedChat, today.ChatID)
	assert.Contains(t, today.Text, "<b>Today</b>")
	assert.Equal(t, 1, strings.Count(today.Text, "⏰"))

	f.bot.HandleUpdate(ctx, command(linkedChat, "/overdue"))
	overdue := f.sender.last(t)
	assert.Contains(t, overdue.Text, "<b>overdue</b>")
	markup, ok := overdue.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	require.NotNil(t, markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "complete:1", *markup.InlineKeyboard[0][0].CallbackData)
}

func TestCompleteCommand(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.bot.HandleUpdate(ctx, command(linkedChat, "/complete abc"))
	assert.Contains(t, f.sender.last(t).Text, "/complete 3")

	f.bot.HandleUpdate(ctx, command(linkedChat, "/complete 999"))
	assert.Contains(t, f.sender.last(t).Text, "#999 not found")

	f.bot.HandleUpdate(ctx, command(linkedChat, "/done #1"))
	assert.Contains(t, f.sender.last(t).Text, "<b>#1</b> marked done")

	log, err := f.mentor.FindLog(ctx, f.user.ID, f.overdue.ID)
	require.NoError(t, err)
	assert.True(t, log.Completed)
	require.NotNil(t, log.ExecutedAt)
	assert.True(t, log.ExecutedAt.Equal(testutil.Time(t, "2024-09-10T12:00:00Z")))
}

func TestCompleteCallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.bot.HandleUpdate(ctx, tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		Data:    "complete:1",
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: linkedChat, Type: "private"}},
	}})

	require.Len(t, f.sender.requests, 1)
	ack, ok := f.sender.requests[0].(tgbotapi.CallbackConfig)
	require.True(t, ok)
	assert.Equal(t, "Done", ack.Text)
	assert.Contains(t, f.sender.last(t).Text, "marked done")

	log, err := f.mentor.FindLog(ctx, f.user.ID, f.overdue.ID)
	require.NoError(t, err)
	assert.True(t, log.Completed)
}

func TestIgnoresGroupChatsAndPlainText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	group := command(linkedChat, "/today")
	group.Message.Chat.Type = "group"
	f.bot.HandleUpdate(ctx, group)
	assert.Empty(t, f.sender.sent)

	f.bot.HandleUpdate(ctx, tgbotapi.Update{Message: &tgbotapi.Message{
		Text: "hello",
		Chat: &tgbotapi.Chat{ID: linkedChat, Type: "private"},
		From: &tgbotapi.User{ID: linkedChat},
	}})
	assert.Contains(t, f.sender.last(t).Text, "/help")
}

func TestSendDailyReports(t *testing.T) {
	f := newFixture(t)

	sent, err := f.bot.SendDailyReports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, f.sender.sent, 1)
	report := f.sender.sent[0]
	assert.Equal(t, linkedChat, report.ChatID)
	assert.Contains(t, report.Text, "<b>Daily report</b>")
	assert.Contains(t, report.Text, "Read RFC")
}

func TestSendDailyReportsStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sent, err := f.bot.SendDailyReports(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, sent)
}

func TestStartWithoutAPI(t *testing.T) {
	f := newFixture(t)
	assert.Error(t, f.bot.Start(context.Background()))
}
