package stream

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"beach-vision/internal/domain/entity"
)

// Format формат кодирования отчёта на проводе
type Format string

const (
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// ParseFormat разбирает ?format=; пустое значение: JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCBOR:
		return FormatCBOR, nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}

// Codec кодирует отчёты. CBOR берёт имена полей из json-тегов.
type Codec struct {
	cbor cbor.EncMode
	dec  cbor.DecMode
}

// NewCodec создаёт кодек; время в CBOR пишется как RFC3339 с наносекундами.
func NewCodec() (*Codec, error) {
	enc, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		return nil, fmt.Errorf("cbor enc mode: %w", err)
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("cbor dec mode: %w", err)
	}
	return &Codec{cbor: enc, dec: dec}, nil
}

// Encode сериализует отчёт в заданном формате.
func (c *Codec) Encode(f Format, report *entity.DetectionReport) ([]byte, error) {
	switch f {
	case FormatCBOR:
		return c.cbor.Marshal(report)
	case FormatJSON:
		return json.Marshal(report)
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
}

// Decode обратная операция, нужна потребителям и тестам.
func (c *Codec) Decode(f Format, data []byte) (*entity.DetectionReport, error) {
	var report entity.DetectionReport
	var err error
	switch f {
	case FormatCBOR:
		err = c.dec.Unmarshal(data, &report)
	case FormatJSON:
		err = json.Unmarshal(data, &report)
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s report: %w", f, err)
	}
	return &report, nil
}
