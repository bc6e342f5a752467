// Package bot binds the conversation engine to the Telegram transport. All
// domain decisions live in the services; handlers decode updates, route them
// to the right dialog or menu action, and render replies.
package bot

import (
	"context"
	"errors"

	"meetup_bot/internal/config"
	"meetup_bot/internal/model"
	"meetup_bot/internal/service"
	"meetup_bot/internal/session"
	"meetup_bot/internal/util"
	"meetup_bot/pkg/logger"
	"meetup_bot/pkg/monitoring"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	searchResultLimit = 10
	inviteLimit       = 20
)

type Bot struct {
	tb  *tele.Bot
	cfg *config.Config

	users       *service.UserService
	profiles    *service.ProfileService
	events      *service.EventService
	eventDialog *service.EventDialogService
	friends     *service.FriendshipService
	search      *service.SearchService
	refs        *service.ReferenceService
	reports     *service.ReportService
	sessions    session.Store
}

func New(
	cfg *config.Config,
	users *service.UserService,
	profiles *service.ProfileService,
	events *service.EventService,
	eventDialog *service.EventDialogService,
	friends *service.FriendshipService,
	search *service.SearchService,
	refs *service.ReferenceService,
	reports *service.ReportService,
	sessions session.Store,
) (*Bot, error) {
	tb, err := tele.NewBot(tele.Settings{
		Token:  cfg.Bot.Token,
		Poller: &tele.LongPoller{Timeout: cfg.Bot.PollTimeout},
		OnError: func(err error, c tele.Context) {
			chatID := int64(0)
			if c != nil && c.Chat() != nil {
				chatID = c.Chat().ID
			}
			logger.Log.Error("unhandled bot error", zap.Int64("chat_id", chatID), zap.Error(err))
		},
	})
	if err != nil {
		return nil, err
	}

	b := &Bot{
		tb:          tb,
		cfg:         cfg,
		users:       users,
		profiles:    profiles,
		events:      events,
		eventDialog: eventDialog,
		friends:     friends,
		search:      search,
		refs:        refs,
		reports:     reports,
		sessions:    sessions,
	}
	b.registerHandlers()
	return b, nil
}

// Start blocks polling for updates until Stop is called.
func (b *Bot) Start() {
	logger.Log.Info("bot polling started")
	b.tb.Start()
}

func (b *Bot) Stop() {
	b.tb.Stop()
	logger.Log.Info("bot polling stopped")
}

const userKey = "resolved_user"

// currentUser returns the sender's profile resolved by the middleware, or
// nil for an unknown chat.
func currentUser(c tele.Context) *model.User {
	user, _ := c.Get(userKey).(*model.User)
	return user
}

// handle wraps a handler with sender resolution, metrics and error logging.
// Handler errors are logged and swallowed so one broken update never stops
// the poller.
func (b *Bot) handle(name string, fn tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		user, err := b.users.ByChatID(c.Chat().ID)
		if err != nil {
			logger.Log.Error("resolving sender failed", zap.Int64("chat_id", c.Chat().ID), zap.Error(err))
			monitoring.CountUpdate(name, "error")
			return nil
		}
		c.Set(userKey, user)

		if err := fn(c); err != nil {
			logger.Log.Error("handler failed",
				zap.String("handler", name),
				zap.Int64("chat_id", c.Chat().ID),
				zap.Error(err))
			monitoring.CountUpdate(name, "error")
			return nil
		}
		monitoring.CountUpdate(name, "ok")
		return nil
	}
}

func (b *Bot) registerHandlers() {
	b.tb.Handle("/start", b.handle("start", b.onStart))
	b.tb.Handle("/cancel", b.handle("cancel", b.onCancel))
	b.tb.Handle(tele.OnContact, b.handle("contact", b.onContact))
	b.tb.Handle(tele.OnText, b.handle("text", b.onText))
	b.tb.Handle(tele.OnPhoto, b.handle("photo", b.onPhoto))
	b.tb.Handle(tele.OnDocument, b.handle("document", b.onDocument))
	b.tb.Handle(tele.OnLocation, b.handle("location", b.onLocation))

	callbacks := map[string]tele.HandlerFunc{
		cbInterest:      b.onInterestToggle,
		cbDone:          b.onInterestsDone,
		cbKeepCurrent:   b.onInterestsKeep,
		cbSkipInterests: b.onInterestsSkip,

		cbEditProfile:   b.onEditProfile,
		cbBackToProfile: b.onBackToProfile,
		cbEditField:     b.onEditField,

		cbAddFriend:     b.onAddFriend,
		cbFriendAccept:  b.onFriendAccept,
		cbFriendDecline: b.onFriendDecline,
		cbRemoveFriend:  b.onRemoveFriend,

		cbJoinEvent:        b.onJoinEvent,
		cbLeaveEvent:       b.onLeaveEvent,
		cbViewMap:          b.onViewMap,
		cbViewParticipants: b.onViewParticipants,
		cbInviteToEvent:    b.onInviteToEvent,
		cbInviteAccept:     b.onInviteAccept,
		cbInviteDecline:    b.onInviteDecline,
		cbRemovePart:       b.onRemoveParticipant,
	}
	for unique, handler := range callbacks {
		btn := tele.Btn{Unique: unique}
		b.tb.Handle(&btn, b.handle("cb_"+unique, handler))
	}
}

// onText routes plain text: an open dialog consumes it first, otherwise it
// is matched against the menu buttons.
func (b *Bot) onText(c tele.Context) error {
	ctx := context.Background()
	text := c.Text()
	chatID := c.Chat().ID

	switch text {
	case btnCancel, btnCancelRu:
		return b.onCancel(c)
	case btnCancelCreate:
		return b.cancelEventCreation(c)
	}

	if _, err := b.profiles.Current(ctx, chatID); err == nil {
		return b.profileDialogText(c)
	} else if !errors.Is(err, util.ErrDraftNotFound) {
		return err
	}

	if _, err := b.eventDialog.Current(ctx, chatID); err == nil {
		return b.eventDialogText(c)
	} else if !errors.Is(err, util.ErrDraftNotFound) {
		return err
	}

	if draft, err := b.sessions.GetSearch(ctx, chatID); err == nil {
		return b.searchDialogText(c, draft)
	} else if !errors.Is(err, util.ErrDraftNotFound) {
		return err
	}

	return b.menuText(c, text)
}

func (b *Bot) menuText(c tele.Context, text string) error {
	switch text {
	case btnLaunch:
		return b.onLaunch(c)
	case btnResume:
		return b.onResume(c)
	case btnBack:
		return c.Send("Главное меню", mainMenu())
	case btnProfile:
		return b.showProfile(c)
	case btnHelp:
		return b.showHelp(c)
	case btnComm:
		return c.Send("Меню общения", communicationMenu())
	case btnFriends:
		return b.showFriends(c)
	case btnRequests:
		return b.showIncomingRequests(c)
	case btnSearch:
		return c.Send("Выберите режим поиска:", searchModeMenu())
	case btnSearchInterests:
		return b.searchByInterests(c)
	case btnSearchAdvanced:
		return b.startAdvancedSearch(c)
	case btnEvents:
		return c.Send("Выберите действие:", eventsMenu())
	case btnFriendsEvents:
		return b.showFriendsEvents(c)
	case btnMyEvents:
		return b.showMyEvents(c)
	case btnCreateEvent:
		return b.startEventCreation(c)
	case btnAdminUpload:
		return b.adminAskUpload(c)
	case btnAdminUsersReport:
		return b.adminUsersReport(c)
	case btnAdminEventsReport:
		return b.adminEventsReport(c)
	}
	return nil
}

// onCancel discards whatever dialog is open. Nothing was persisted by an
// unfinished dialog, so dropping the draft is the whole rollback.
func (b *Bot) onCancel(c tele.Context) error {
	ctx := context.Background()
	chatID := c.Chat().ID

	_ = b.profiles.Cancel(ctx, chatID)
	_ = b.eventDialog.Cancel(ctx, chatID)
	_ = b.cancelSearch(ctx, chatID)

	return c.Send("Действие отменено.", mainMenu())
}
