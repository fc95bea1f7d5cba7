package notify

import (
	"fmt"
	"log/slog"

	"festreg/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

// Notifier pushes short announcements to the organizers' Telegram chats.
// It only sends; there is no command surface.
type Notifier struct {
	log     *slog.Logger
	api     *tgbotapi.Bot
	chatIds []int64
}

func New(token string, chatIds []int64, log *slog.Logger) (*Notifier, error) {
	api, err := tgbotapi.NewBot(token, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	return &Notifier{
		log:     log.With(sl.Module("notify")),
		api:     api,
		chatIds: chatIds,
	}, nil
}

// Send delivers a plain-text message to every configured chat.
func (n *Notifier) Send(text string) {
	if text == "" {
		return
	}
	for _, chatId := range n.chatIds {
		_, err := n.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{})
		if err != nil {
			n.log.With(slog.Int64("id", chatId)).Warn("sending message", sl.Err(err))
		}
	}
}

// SoloRegistered announces a new solo registration.
func (n *Notifier) SoloRegistered(eventName, userName string) {
	n.Send(fmt.Sprintf("New solo registration for %s: %s", eventName, userName))
}

// TeamCreated announces a new team with its join code.
func (n *Notifier) TeamCreated(eventName, teamName, teamCode string) {
	n.Send(fmt.Sprintf("New team for %s: %s (code %s)", eventName, teamName, teamCode))
}

// MemberJoined announces a join, with the member count after the join.
func (n *Notifier) MemberJoined(teamName, userName string, members int) {
	n.Send(fmt.Sprintf("%s joined team %s (%d members)", userName, teamName, members))
}
