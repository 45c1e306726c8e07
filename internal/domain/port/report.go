package port

import (
	"context"
	"image"

	"beach-vision/internal/domain/entity"
)

// ReportPublisher отправляет отчёт потребителям (навигация, сбор, визуализация)
type ReportPublisher interface {
	Publish(ctx context.Context, report *entity.DetectionReport) error
}

// JournalEntry отчёт, сохранённый в журнале
type JournalEntry struct {
	ID     int64
	Report entity.DetectionReport
}

// ReportJournal журнал отчётов для разбора заездов
type ReportJournal interface {
	ReportPublisher

	// Recent возвращает последние limit отчётов, новые первыми
	Recent(ctx context.Context, limit int) ([]JournalEntry, error)
}

// ReportRenderer рисует отчёт поверх кадра
type ReportRenderer interface {
	// Render возвращает JPEG с отмеченными находками
	Render(img image.Image, report *entity.DetectionReport) ([]byte, error)
}
