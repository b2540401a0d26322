package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xaenox/eldric/internal/dialogue"
	"go.uber.org/zap"
)

// Responder produces the reply to a chat message.
type Responder interface {
	HandleMessage(ctx context.Context, req dialogue.Request) (dialogue.Reply, error)
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api       *tgbotapi.BotAPI
	sender    sender
	responder Responder
	logger    *zap.Logger
}

func New(token string, responder Responder, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:       api,
		sender:    api,
		responder: responder,
		logger:    logger,
	}, nil
}

// Start long-polls Telegram until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info("Bot started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func userID(message *tgbotapi.Message) string {
	return fmt.Sprintf("tg:%d", message.From.ID)
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil {
		return
	}

	text := message.Text
	if message.IsCommand() {
		switch message.Command() {
		case "start":
			text = "saludo inicial"
		case "reset":
			text = "reiniciar"
		case "help":
			b.handleHelp(message)
			return
		default:
			b.sendMessage(message.Chat.ID, "Comando desconocido. Usa /help para ver las opciones.")
			return
		}
	}
	if strings.TrimSpace(text) == "" {
		return
	}

	reply, err := b.responder.HandleMessage(ctx, dialogue.Request{
		UserID:   userID(message),
		Message:  text,
		Language: message.From.LanguageCode,
	})
	if err != nil {
		b.logger.Error("Failed to handle message",
			zap.Error(err),
			zap.Int64("user_id", message.From.ID))
		b.sendErrorMessage(message.Chat.ID, "Lo siento, no pude responder ahora. Inténtalo de nuevo en un momento.")
		return
	}

	b.sendReply(message.Chat.ID, reply)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	help := `Comandos disponibles:
/start - Ver el menú de bienvenida
/reset - Empezar de nuevo
/help - Mostrar esta ayuda

También puedes escribirme lo que sientes y conversamos.`

	b.sendMessage(message.Chat.ID, help)
}

func (b *Bot) sendReply(chatID int64, reply dialogue.Reply) {
	if reply.Kind == dialogue.FreeForm {
		b.sendMessage(chatID, reply.Text)
		return
	}

	msg := tgbotapi.NewMessage(chatID, toTelegramHTML(reply.Text))
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send scripted reply",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "⚠️ "+text)
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}
