package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"beach-vision/config"
	telegram "beach-vision/internal/api"
	"beach-vision/internal/container"
	"beach-vision/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg := logger.New(logger.ParseLevel(cfg.LogLevel))

	// Собираем сервисы приложения
	appContainer, err := container.New(cfg, lg)
	if err != nil {
		log.Fatalf("Failed to build services: %v", err)
	}
	defer appContainer.Close()

	if appContainer.PerceptionService == nil && cfg.TelegramToken == "" {
		log.Fatal("FRAME_SOURCE or TELEGRAM_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				lg.Error("%s stopped: %v", name, err)
			}
			// любой остановившийся компонент завершает процесс целиком
			stop()
		}()
	}

	run("http server", func(ctx context.Context) error {
		return appContainer.Server.Run(ctx, cfg.HTTPAddr)
	})

	if appContainer.PerceptionService != nil {
		lg.Info("Perception loop is running on %s", cfg.FrameSource)
		run("perception loop", appContainer.PerceptionService.Run)
	}

	if cfg.TelegramToken != "" {
		// Создаём бота
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer.OperatorService, appContainer.InspectionService, appContainer.Latest, lg)
		if err != nil {
			log.Fatalf("Failed to create bot: %v", err)
		}
		lg.Info("Bot is running...")
		run("bot", bot.Run)
	}

	<-ctx.Done()
	wg.Wait()

	if svc := appContainer.PerceptionService; svc != nil {
		s := svc.Stats()
		lg.Info("Stopped: frames=%d failed=%d publish_errors=%d", s.Frames, s.FailedFrames, s.PublishErrors)
	}
}
