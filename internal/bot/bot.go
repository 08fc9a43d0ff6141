package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"super-tasks/internal/model"
	"super-tasks/internal/repository"
	"super-tasks/internal/service"
)

const (
	cbCompletePrefix = "complete:"
	maxButtons       = 8
)

// Sender is the subset of the Bot API used to write to chats.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot answers commands in private chats and pushes daily reports to linked users.
type Bot struct {
	api       *tgbotapi.BotAPI
	sender    Sender
	users     *repository.UserRepository
	reminders *service.ReminderService
	mentor    *service.MentorService
	loc       *time.Location
	now       func() time.Time
	logger    *log.Entry
}

// New authorizes against the Bot API with token.
func New(token string, users *repository.UserRepository, reminders *service.ReminderService, mentor *service.MentorService, loc *time.Location, logger *log.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	b := NewWithSender(api, users, reminders, mentor, loc, logger)
	b.api = api
	b.logger.WithField("account", api.Self.UserName).Info("bot authorized")
	return b, nil
}

// NewWithSender builds a bot that cannot poll; used for outgoing reports and tests.
func NewWithSender(sender Sender, users *repository.UserRepository, reminders *service.ReminderService, mentor *service.MentorService, loc *time.Location, logger *log.Logger) *Bot {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Bot{
		sender:    sender,
		users:     users,
		reminders: reminders,
		mentor:    mentor,
		loc:       loc,
		now:       time.Now,
		logger:    logger.WithField("component", "bot"),
	}
}

// Start polls updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if b.api == nil {
		return errors.New("bot has no api connection")
	}
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.logger.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		b.HandleUpdate(ctx, update)
	}
	return nil
}

// HandleUpdate dispatches one update. Errors are logged, never returned.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
			b.logger.WithError(err).Warn("handle callback")
		}
	case update.Message != nil:
		if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			return
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			b.logger.WithError(err).WithField("chat_id", update.Message.Chat.ID).Warn("handle message")
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}
	if !msg.IsCommand() {
		return b.sendText(msg.Chat.ID, "I only understand commands. Try /help.")
	}

	b.logger.WithFields(log.Fields{"chat_id": msg.Chat.ID, "command": msg.Command()}).Debug("command")
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.sendText(msg.Chat.ID, helpText)
	case "today":
		return b.withUser(ctx, msg.Chat.ID, func(user *model.User, now time.Time) (string, error) {
			return b.reminders.Today(ctx, user.ID, now, b.loc)
		})
	case "overdue":
		return b.handleOverdue(ctx, msg)
	case "report":
		return b.withUser(ctx, msg.Chat.ID, func(user *model.User, now time.Time) (string, error) {
			return b.reminders.DailySummary(ctx, *user, now, b.loc)
		})
	case "complete", "done":
		return b.handleComplete(ctx, msg)
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

const helpText = "ℹ️ <b>Commands</b>\n" +
	"• /today · deadlines on today's date\n" +
	"• /overdue · pending items past their deadline\n" +
	"• /report · the daily report right now\n" +
	"• /complete &lt;id&gt; · mark an item done\n" +
	"• /start · show this chat's id for linking"

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	user, err := b.users.FindByTelegramChatID(ctx, chatID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if user != nil {
		name := strings.TrimSpace(user.Name)
		if name == "" {
			name = user.Email
		}
		return b.sendText(chatID, fmt.Sprintf("👋 Hi, %s! This chat is linked and receives daily reports.\n\n%s", escape(name), helpText))
	}
	return b.sendText(chatID, fmt.Sprintf(
		"👋 Hi! Your chat id is <code>%d</code>.\nLink it from the app with PUT /api/me/telegram {\"chat_id\": %d} to get daily reports.",
		chatID, chatID,
	))
}

// withUser resolves the linked user and replies with render's text.
func (b *Bot) withUser(ctx context.Context, chatID int64, render func(*model.User, time.Time) (string, error)) error {
	user, err := b.linkedUser(ctx, chatID)
	if err != nil || user == nil {
		return err
	}
	text, err := render(user, b.now())
	if err != nil {
		b.logger.WithError(err).WithField("user_id", user.ID).Error("render reply")
		return b.sendText(chatID, "Could not build the list, try again later.")
	}
	return b.sendText(chatID, text)
}

// linkedUser returns nil after telling the chat how to link when no user owns it.
func (b *Bot) linkedUser(ctx context.Context, chatID int64) (*model.User, error) {
	user, err := b.users.FindByTelegramChatID(ctx, chatID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, b.sendText(chatID, fmt.Sprintf("This chat is not linked yet. Send /start to see its id (%d).", chatID))
	}
	return user, err
}

func (b *Bot) handleOverdue(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	user, err := b.linkedUser(ctx, chatID)
	if err != nil || user == nil {
		return err
	}
	now := b.now()
	text, err := b.reminders.Overdue(ctx, user.ID, now, b.loc)
	if err != nil {
		return err
	}
	digest, err := b.reminders.Collect(ctx, user.ID, now, b.loc)
	if err != nil {
		return err
	}
	if len(digest.Overdue) == 0 {
		return b.sendText(chatID, text)
	}
	return b.sendWithReplyMarkup(chatID, text, completeKeyboard(digest.Overdue))
}

func (b *Bot) handleComplete(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	id, err := parseLogID(msg.CommandArguments())
	if err != nil {
		return b.sendText(chatID, "Give the item number, for example /complete 3")
	}
	user, err := b.linkedUser(ctx, chatID)
	if err != nil || user == nil {
		return err
	}
	text, err := b.complete(ctx, user.ID, id)
	if err != nil {
		return err
	}
	return b.sendText(chatID, text)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb.Message == nil || cb.Message.Chat == nil || !strings.HasPrefix(cb.Data, cbCompletePrefix) {
		return b.answer(cb.ID, "")
	}
	chatID := cb.Message.Chat.ID
	id, err := parseLogID(strings.TrimPrefix(cb.Data, cbCompletePrefix))
	if err != nil {
		return b.answer(cb.ID, "Unknown item")
	}
	user, err := b.linkedUser(ctx, chatID)
	if err != nil || user == nil {
		return errors.Join(err, b.answer(cb.ID, ""))
	}
	text, err := b.complete(ctx, user.ID, id)
	if err != nil {
		return errors.Join(err, b.answer(cb.ID, "Failed"))
	}
	if err := b.answer(cb.ID, "Done"); err != nil {
		return err
	}
	return b.sendText(chatID, text)
}

func (b *Bot) complete(ctx context.Context, userID, id uint) (string, error) {
	view, err := b.mentor.Complete(ctx, userID, id, b.now())
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Sprintf("Item #%d not found.", id), nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Item <b>#%d</b> marked done.", view.ID), nil
}

// SendDailyReports sends a summary to every user with a linked chat and
// returns how many were delivered.
func (b *Bot) SendDailyReports(ctx context.Context) (int, error) {
	users, err := b.users.ListWithTelegram(ctx)
	if err != nil {
		return 0, err
	}
	now := b.now()
	sent := 0
	for _, user := range users {
		select {
		case <-ctx.Done():
			return sent, ctx.Err()
		default:
		}
		if user.TelegramChatID == nil {
			continue
		}
		entry := b.logger.WithFields(log.Fields{"user_id": user.ID, "chat_id": *user.TelegramChatID})
		text, err := b.reminders.DailySummary(ctx, user, now, b.loc)
		if err != nil {
			entry.WithError(err).Error("build summary")
			continue
		}
		if err := b.sendText(*user.TelegramChatID, text); err != nil {
			entry.WithError(err).Warn("send summary")
			continue
		}
		sent++
	}
	b.logger.WithFields(log.Fields{"users": len(users), "sent": sent}).Info("daily reports sent")
	return sent, nil
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.sender.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.sender.Send(msg)
	return err
}

// answer acknowledges a callback; Send cannot decode the boolean result.
func (b *Bot) answer(callbackID, text string) error {
	_, err := b.sender.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}

func completeKeyboard(logs []model.MentorTaskLog) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, l := range logs {
		if i == maxButtons {
			break
		}
		label := fmt.Sprintf("✅ #%d", l.ID)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, cbCompletePrefix+strconv.FormatUint(uint64(l.ID), 10)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func parseLogID(raw string) (uint, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "#")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}

func escape(s string) string {
	return html.EscapeString(s)
}
