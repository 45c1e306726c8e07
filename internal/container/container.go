package container

import (
	"errors"
	"fmt"
	"io"

	"beach-vision/config"
	app "beach-vision/internal/application"
	"beach-vision/internal/domain/entity"
	"beach-vision/internal/domain/perception"
	"beach-vision/internal/domain/port"
	"beach-vision/internal/infrastructure/camera"
	"beach-vision/internal/infrastructure/storage"
	"beach-vision/internal/infrastructure/stream"
	"beach-vision/internal/infrastructure/vision"
	"beach-vision/internal/logger"
)

type Container struct {
	OperatorService   *app.OperatorService
	InspectionService *app.InspectionService
	// PerceptionService nil, если FRAME_SOURCE не задан
	PerceptionService *app.PerceptionService
	Hub               *stream.Hub
	Server            *stream.Server

	closers []io.Closer
}

func New(cfg *config.Config, log *logger.Logger) (_ *Container, err error) {
	c := &Container{}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	perceptionCfg, err := config.LoadPerception(cfg.PerceptionConfig)
	if err != nil {
		return nil, fmt.Errorf("perception config: %w", err)
	}

	imaging, err := vision.NewImaging(cfg.ImagingBackend)
	if err != nil {
		return nil, err
	}
	decoder := vision.NewDecoder(cfg.MaxFrameSide, perceptionCfg.Preprocess.MedianRadius)

	// разовые проверки идут через отдельный конвейер без подавления дребезга
	inspectPipeline, err := perception.NewPipeline(imaging, perceptionCfg)
	if err != nil {
		return nil, err
	}

	c.OperatorService = app.NewOperatorService(storage.NewMemoryOperatorRepository())
	c.InspectionService = app.NewInspectionService(c.OperatorService, decoder, inspectPipeline, vision.NewRenderer())

	codec, err := stream.NewCodec()
	if err != nil {
		return nil, err
	}
	c.Hub = stream.NewHub(codec, log)
	publishers := []app.Publisher{{Name: "websocket", ReportPublisher: c.Hub}}

	var journal port.ReportJournal
	if cfg.JournalPath != "" {
		j, err := storage.NewSQLiteJournal(cfg.JournalPath)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, j)
		journal = j
		publishers = append(publishers, app.Publisher{Name: "journal", ReportPublisher: j})
	}

	if cfg.ZMQEndpoint != "" {
		zmq, err := stream.NewZMQPublisher(codec, cfg.ZMQEndpoint)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, zmq)
		publishers = append(publishers, app.Publisher{Name: "zmq", ReportPublisher: zmq})
	}

	if cfg.FrameSource != "" {
		source, err := camera.Open(cfg.FrameSource, decoder, cfg.FrameInterval)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, source)

		livePipeline, err := perception.NewPipeline(imaging, perceptionCfg, perception.WithDebounce())
		if err != nil {
			return nil, err
		}
		c.PerceptionService = app.NewPerceptionService(source, livePipeline, log, publishers...)
	}

	c.Server = stream.NewServer(c.Hub, journal, c.Latest, log)
	return c, nil
}

// Latest последний отчёт живого цикла или nil
func (c *Container) Latest() *entity.DetectionReport {
	if c.PerceptionService == nil {
		return nil
	}
	return c.PerceptionService.Latest()
}

// Close освобождает источник кадров, журнал и сокеты в обратном порядке.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i].Close())
	}
	c.closers = nil
	return errors.Join(errs...)
}
