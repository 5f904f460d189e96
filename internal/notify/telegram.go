// Package notify tells the operator how each pass ended.
package notify

import (
	"errors"
	"fmt"
	"github.com/asaskevich/EventBus"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/boss-harvester/internal/domain/events"
	"github.com/maxaizer/boss-harvester/internal/harvest"
	"github.com/maxaizer/boss-harvester/internal/logger"
	log "github.com/sirupsen/logrus"
	"strings"
	"time"
)

type sender interface {
	Send(c botApi.Chattable) (botApi.Message, error)
}

type Telegram struct {
	api    sender
	chatID int64
}

func NewTelegram(token string, chatID int64, bus EventBus.Bus) (*Telegram, error) {

	api, err := botApi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Infof("Authorized on account %s", api.Self.UserName)

	return newTelegram(api, chatID, bus)
}

func newTelegram(api sender, chatID int64, bus EventBus.Bus) (*Telegram, error) {
	if bus == nil {
		return nil, errors.New("bus is nil")
	}

	t := &Telegram{api: api, chatID: chatID}
	if err := bus.Subscribe(events.RunFinishedTopic, t.onRunFinished); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Telegram) onRunFinished(event events.RunFinished) {
	msg := botApi.NewMessage(t.chatID, FormatRunFinished(event))
	if _, err := t.api.Send(msg); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeNotify).Errorf("error occurred while sending message: %v", err)
	}
}

func FormatRunFinished(event events.RunFinished) string {
	summary := fmt.Sprintf("%s @ %s: %d harvested, %d descriptions, %d skipped in %s",
		event.Keyword, event.City, event.Harvested, event.Descriptions, event.Skipped,
		event.FinishedAt.Sub(event.StartedAt).Round(time.Second))

	switch {
	case event.Status == events.RunOK:
		return "✅ " + summary
	case event.Status == events.RunInterrupted:
		return "⏸ " + summary + " (interrupted, progress saved)"
	case strings.Contains(event.Error, harvest.ErrAccessDenied.Error()):
		return "⛔ ACCESS DENIED, harvesting stopped. " + summary + "\n" + event.Error
	default:
		return "❌ " + summary + "\n" + event.Error
	}
}
