package camera

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"beach-vision/internal/domain/entity"
	"beach-vision/internal/domain/port"
)

// ImageOpener читает снимок с диска (vision.Decoder)
type ImageOpener interface {
	Open(path string) (image.Image, error)
}

// DirSource воспроизводит записанные кадры из каталога в лексикографическом порядке.
type DirSource struct {
	paths    []string
	opener   ImageOpener
	interval time.Duration
	loop     bool
	now      func() time.Time

	mu   sync.Mutex
	next int
	last time.Time
}

var _ port.FrameSource = (*DirSource)(nil)

var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// NewDirSource собирает список кадров; пустой каталог: ошибка.
// interval задаёт темп выдачи (0: без пауз), loop зацикливает запись.
func NewDirSource(dir string, opener ImageOpener, interval time.Duration, loop bool) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frame dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no images in %s", dir)
	}
	sort.Strings(paths)

	return &DirSource{
		paths:    paths,
		opener:   opener,
		interval: interval,
		loop:     loop,
		now:      time.Now,
	}, nil
}

// Len число кадров в записи
func (s *DirSource) Len() int {
	return len(s.paths)
}

func (s *DirSource) Next(ctx context.Context) (entity.Capture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.paths) {
		if !s.loop {
			return entity.Capture{}, entity.ErrNoFrame
		}
		s.next = 0
	}

	if err := s.wait(ctx); err != nil {
		return entity.Capture{}, err
	}

	path := s.paths[s.next]
	s.next++

	img, err := s.opener.Open(path)
	if err != nil {
		return entity.Capture{}, fmt.Errorf("frame %s: %w", filepath.Base(path), err)
	}
	s.last = s.now()
	return entity.Capture{Image: img, Timestamp: s.last}, nil
}

// wait выдерживает интервал от предыдущего кадра
func (s *DirSource) wait(ctx context.Context) error {
	if s.interval <= 0 || s.last.IsZero() {
		return ctx.Err()
	}
	delay := s.interval - s.now().Sub(s.last)
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *DirSource) Close() error { return nil }
