package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "beach-vision/internal/application"
	"beach-vision/internal/domain/entity"
	"beach-vision/internal/logger"
)

const (
	msgStart = `👋 Привет! Я показываю, что видит робот-уборщик пляжа.

📸 Пришлите снимок пляжа, и я найду банки, контейнеры, препятствия и край воды.

📋 Команды:
/check — проверить снимок
/status — последний кадр с камеры робота
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте /check и снимок пляжа
2️⃣ Бот прогонит его через восприятие робота
3️⃣ Вы получите сводку и снимок с разметкой

🟢 зелёная рамка — органика (банка с жёлтой полосой)
🔴 красная рамка — неорганика
🟠 оранжевая рамка — препятствие и зона объезда

📋 Команды:
/check — проверить снимок
/status — последний кадр с камеры
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте снимок пляжа для проверки."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendPhoto       = "📸 Сначала отправьте /check, затем снимок пляжа."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgBusy            = "⏳ Предыдущий снимок ещё обрабатывается."
	msgNoLiveReport    = "📭 Живой цикл ещё не выдал ни одного кадра."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте другой снимок."
)

const downloadTimeout = 30 * time.Second

// LatestFunc последний отчёт живого цикла
type LatestFunc func() *entity.DetectionReport

// Bot представляет Telegram-бота
type Bot struct {
	api        *tgbotapi.BotAPI
	operators  *app.OperatorService
	inspection *app.InspectionService
	latest     LatestFunc
	logger     *logger.Logger
	http       *http.Client
}

// NewBot создаёт нового бота
func NewBot(token string, operators *app.OperatorService, inspection *app.InspectionService, latest LatestFunc, log *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Info("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:        api,
		operators:  operators,
		inspection: inspection,
		latest:     latest,
		logger:     log,
		http:       &http.Client{Timeout: downloadTimeout},
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	op, err := b.operators.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.logger.Error("Error getting operator: %v", err)
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 && op.State == entity.StateAwaitingPhoto {
		b.handlePhoto(ctx, msg)
		return
	}
	if len(msg.Photo) > 0 && op.Busy() {
		b.sendMessage(msg.Chat.ID, msgBusy)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	opID, chatID := msg.From.ID, msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.setState(ctx, opID, chatID, entity.StateMainMenu)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "check":
		if _, err := b.operators.BeginCheck(ctx, opID, chatID); err != nil {
			b.logger.Error("Error starting check: %v", err)
		}
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "status":
		b.handleStatus(chatID)

	case "cancel":
		b.setState(ctx, opID, chatID, entity.StateMainMenu)
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

func (b *Bot) handleStatus(chatID int64) {
	var report *entity.DetectionReport
	if b.latest != nil {
		report = b.latest()
	}
	if report == nil {
		b.sendMessage(chatID, msgNoLiveReport)
		return
	}
	age := time.Since(report.FrameTimestamp).Round(time.Second)
	b.sendMessage(chatID, fmt.Sprintf("%s\nкадр снят %s назад", app.Summarize(report), age))
}

// handlePhoto обрабатывает входящее фото
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		b.logger.Error("Error downloading photo: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		b.setState(ctx, msg.From.ID, msg.Chat.ID, entity.StateMainMenu)
		return
	}
	b.logger.Debug("Received image: %d bytes", len(imageData))

	out, err := b.inspection.ProcessPhoto(ctx, msg.From.ID, msg.Chat.ID, imageData)
	switch {
	case errors.Is(err, app.ErrBusy):
		b.sendMessage(msg.Chat.ID, msgBusy)
		return
	case err != nil:
		b.logger.Error("Error inspecting photo: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	if len(out.Overlay) == 0 {
		b.sendMessage(msg.Chat.ID, out.Summary)
		return
	}
	b.sendPhoto(msg.Chat.ID, out.Overlay, out.Summary)
}

func (b *Bot) setState(ctx context.Context, operatorID, chatID int64, state entity.OperatorState) {
	if _, err := b.operators.SetState(ctx, operatorID, chatID, state); err != nil {
		b.logger.Error("Error saving operator state: %v", err)
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Error sending message: %v", err)
	}
}

// sendPhoto отправляет снимок с разметкой; подпись Telegram ограничивает 1024 символами
func (b *Bot) sendPhoto(chatID int64, jpeg []byte, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "report.jpg", Bytes: jpeg})
	if len([]rune(caption)) <= 1024 {
		photo.Caption = caption
	}
	if _, err := b.api.Send(photo); err != nil {
		b.logger.Error("Error sending photo: %v", err)
		return
	}
	if photo.Caption == "" {
		b.sendMessage(chatID, caption)
	}
}
