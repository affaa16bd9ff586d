package notify

import (
	"fmt"
	"time"

	"go-autofill-automation/internal/strategy"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramReporter pushes run summaries to a Telegram chat.
type TelegramReporter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramReporter(token string, chatID int64) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &TelegramReporter{bot: bot, chatID: chatID}, nil
}

func (t *TelegramReporter) send(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML" //use HTML for bold/italic
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramReporter) RunSummary(res *strategy.Result, pageURL string) error {
	status := "✅ Autofill succeeded"
	if !res.Success {
		status = "❌ Autofill failed"
	} else if len(res.FieldErrors) > 0 {
		status = "⚠️ Autofill partially succeeded"
	}

	text := fmt.Sprintf(
		"%s\n"+
			"🏷 Platform: <b>%s</b>\n"+
			"📝 Fields filled: %d\n"+
			"⏱ Elapsed: %s\n"+
			"🔗 %s",
		status, res.Platform, res.FieldsFilled, res.Elapsed.Round(time.Millisecond), pageURL,
	)
	if res.Message != "" {
		text += "\n💬 " + res.Message
	}
	return t.send(text)
}

func (t *TelegramReporter) RunError(errReq error) error {
	return t.send(fmt.Sprintf("⚠️ <b>Autofill Error</b>:\n%v", errReq))
}
