package bus

import (
	"encoding/json"
	"fmt"

	"github.com/nsqio/go-nsq"
	"github.com/wonderivan/logger"

	"github.com/ftl/sim-toolkit/cat"
	"github.com/ftl/sim-toolkit/sim"
)

const (
	userAgent = "stkd"
	logPrefix = "[bus] "
)

type messagePublisher interface {
	Publish(topic string, body []byte) error
	Stop()
}

// Publisher implements cat.Broadcaster on top of an NSQ producer.
type Publisher struct {
	producer messagePublisher
	topic    string
}

var _ cat.Broadcaster = (*Publisher)(nil)

func NewPublisher(address, topic string) (*Publisher, error) {
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	config := nsq.NewConfig()
	config.UserAgent = userAgent
	producer, err := nsq.NewProducer(address, config)
	if err != nil {
		return nil, fmt.Errorf("cannot create NSQ producer: %w", err)
	}
	producer.SetLogger(nsqLogger{}, nsq.LogLevelWarning)
	return newPublisher(producer, topic), nil
}

func newPublisher(producer messagePublisher, topic string) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
	}
}

func (p *Publisher) BroadcastCommand(slot sim.Slot, cmd *cat.CmdMessage) {
	p.publish(Notification{Slot: slot, Kind: KindCommand, Command: cmd})
}

func (p *Publisher) BroadcastSessionEnd(slot sim.Slot) {
	p.publish(Notification{Slot: slot, Kind: KindSessionEnd})
}

func (p *Publisher) BroadcastRefresh(slot sim.Slot, refresh cat.RefreshType) {
	p.publish(Notification{Slot: slot, Kind: KindRefresh, Refresh: &refresh})
}

func (p *Publisher) publish(notification Notification) {
	body, err := json.Marshal(notification)
	if err != nil {
		logger.Error(logPrefix+"cannot encode %s notification of slot %d: %v", notification.Kind, int(notification.Slot), err)
		return
	}
	err = p.producer.Publish(p.topic, body)
	if err != nil {
		logger.Error(logPrefix+"cannot publish %s notification of slot %d: %v", notification.Kind, int(notification.Slot), err)
		return
	}
	logger.Debug(logPrefix+"published %s", body)
}

// nsqLogger forwards the log output of the NSQ client.
type nsqLogger struct{}

func (nsqLogger) Output(_ int, s string) error {
	logger.Warn(logPrefix+"%s", s)
	return nil
}

func (p *Publisher) Close() {
	if p.producer != nil {
		p.producer.Stop()
	}
}
