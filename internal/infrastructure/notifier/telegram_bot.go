package notifier

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"p2p_market/internal/domain/entity"
	"p2p_market/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Run запускает отправку алертов из канала. Ошибка отправки одного алерта не
// останавливает цикл.
func (b *TelegramBot) Run(ctx context.Context, alerts <-chan entity.SpreadAlert) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case alert, ok := <-alerts:
			if !ok {
				return nil
			}

			if err := b.SendAlert(ctx, alert); err != nil {
				logger(ctx).Error("failed to send alert", "error", err)
			}
		}
	}
}

func (b *TelegramBot) SendAlert(ctx context.Context, alert entity.SpreadAlert) error {
	text := fmt.Sprintf(
		"<b>Wide price spread on the %s side</b>\n\n"+
			"<b>Min:</b> %.2f\n"+
			"<b>Max:</b> %.2f\n"+
			"<b>Spread:</b> %.2f (%.1f%%)\n"+
			"<b>Verified advertisers:</b> %d",
		alert.Direction,
		alert.Statistics.Min,
		alert.Statistics.Max,
		alert.Statistics.Spread,
		alert.SpreadPercent,
		alert.Statistics.VerifiedCount,
	)

	msg := tu.Message(
		tu.ID(b.chatID),
		text,
	).WithParseMode(telego.ModeHTML)

	_, err := b.bot.SendMessage(ctx, msg)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	_, err := b.bot.SendMessage(ctx, msg)

	return err
}
