//go:build !zmq

package stream

import (
	"context"
	"errors"

	"beach-vision/internal/domain/entity"
)

// ZMQTopic первый кадр multipart-сообщения; подписчики фильтруют по нему
const ZMQTopic = "perception.report"

// ZMQPublisher без тега zmq не собирается с libzmq.
type ZMQPublisher struct{}

func NewZMQPublisher(codec *Codec, endpoint string) (*ZMQPublisher, error) {
	return nil, errors.New("zmq build tag is not enabled")
}

func (p *ZMQPublisher) Publish(ctx context.Context, report *entity.DetectionReport) error {
	return errors.New("zmq build tag is not enabled")
}

func (p *ZMQPublisher) Close() error { return nil }
