package notify

import (
	"github.com/asaskevich/EventBus"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/boss-harvester/internal/domain/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
	"time"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(c botApi.Chattable) (botApi.Message, error) {
	args := m.Called(c)
	return botApi.Message{}, args.Error(0)
}

func finishedEvent(status events.RunStatus, errText string) events.RunFinished {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return events.RunFinished{
		Keyword: "储能工程师", City: "北京",
		StartedAt: start, FinishedAt: start.Add(90 * time.Second),
		Harvested: 25, Descriptions: 10, Skipped: 1,
		Status: status, Error: errText,
	}
}

func Test_Telegram_RunFinished_ShouldSendToConfiguredChat(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", mock.MatchedBy(func(c botApi.Chattable) bool {
		msg, ok := c.(botApi.MessageConfig)
		return ok && msg.ChatID == 42 && strings.HasPrefix(msg.Text, "✅ 储能工程师 @ 北京: 25 harvested")
	})).Return(nil).Once()

	bus := EventBus.New()
	_, err := newTelegram(sender, 42, bus)
	require.NoError(t, err)

	bus.Publish(events.RunFinishedTopic, finishedEvent(events.RunOK, ""))

	sender.AssertExpectations(t)
}

func Test_Telegram_SendFails_ShouldNotPanic(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", mock.Anything).Return(assert.AnError)

	bus := EventBus.New()
	_, err := newTelegram(sender, 42, bus)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		bus.Publish(events.RunFinishedTopic, finishedEvent(events.RunFailed, "boom"))
	})
}

func Test_FormatRunFinished(t *testing.T) {
	tests := []struct {
		name   string
		event  events.RunFinished
		prefix string
	}{
		{"ok", finishedEvent(events.RunOK, ""), "✅"},
		{"interrupted", finishedEvent(events.RunInterrupted, ""), "⏸"},
		{"denied", finishedEvent(events.RunFailed, "page contains \"异常\": access denied by source"), "⛔ ACCESS DENIED"},
		{"failed", finishedEvent(events.RunFailed, "failed to navigate"), "❌"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := FormatRunFinished(tt.event)
			assert.True(t, strings.HasPrefix(text, tt.prefix), text)
			assert.Contains(t, text, "1m30s")
		})
	}
}

func Test_NewTelegram_NilBus_ShouldFail(t *testing.T) {
	_, err := newTelegram(&mockSender{}, 1, nil)

	assert.Error(t, err)
}
