//go:build zmq

package stream

import (
	"context"
	"fmt"
	"sync"

	"github.com/pebbe/zmq4"

	"beach-vision/internal/domain/entity"
	"beach-vision/internal/domain/port"
)

// ZMQTopic первый кадр multipart-сообщения; подписчики фильтруют по нему
const ZMQTopic = "perception.report"

// ZMQPublisher публикует CBOR-отчёты в PUB-сокет для навигации и захвата.
type ZMQPublisher struct {
	codec  *Codec
	socket *zmq4.Socket
	mu     sync.Mutex
}

var _ port.ReportPublisher = (*ZMQPublisher)(nil)

// NewZMQPublisher открывает PUB-сокет на endpoint (например tcp://*:5556).
func NewZMQPublisher(codec *Codec, endpoint string) (*ZMQPublisher, error) {
	socket, err := zmq4.NewSocket(zmq4.PUB)
	if err != nil {
		return nil, fmt.Errorf("zmq socket: %w", err)
	}
	if err := socket.Bind(endpoint); err != nil {
		_ = socket.Close()
		return nil, fmt.Errorf("zmq bind %s: %w", endpoint, err)
	}
	return &ZMQPublisher{codec: codec, socket: socket}, nil
}

func (p *ZMQPublisher) Publish(ctx context.Context, report *entity.DetectionReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := p.codec.Encode(FormatCBOR, report)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.socket.SendMessageDontwait(ZMQTopic, payload); err != nil {
		return fmt.Errorf("zmq send: %w", err)
	}
	return nil
}

func (p *ZMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.socket.Close()
}
