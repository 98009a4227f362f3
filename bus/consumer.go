package bus

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nsqio/go-nsq"
	"github.com/wonderivan/logger"

	"github.com/ftl/sim-toolkit/cat"
	"github.com/ftl/sim-toolkit/sim"
)

var ErrEmptyPayload = errors.New("empty payload")

// ResponseSink takes the responses of the applications, cat.Registry is the usual implementation.
type ResponseSink interface {
	OnCmdResponse(slot sim.Slot, response cat.Response) error
	OnEventResponse(slot sim.Slot, response cat.Response) error
}

// Consumer reads the responses of the applications from the response topic.
type Consumer struct {
	consumer *nsq.Consumer
	sink     ResponseSink
}

// NewConsumer connects to the given nsqd and starts consuming.
func NewConsumer(address, topic, channel string, sink ResponseSink) (*Consumer, error) {
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	if channel == "" {
		return nil, fmt.Errorf("channel is required")
	}
	config := nsq.NewConfig()
	config.UserAgent = userAgent
	consumer, err := nsq.NewConsumer(topic, channel, config)
	if err != nil {
		return nil, fmt.Errorf("cannot create NSQ consumer: %w", err)
	}
	consumer.SetLogger(nsqLogger{}, nsq.LogLevelWarning)

	result := &Consumer{
		consumer: consumer,
		sink:     sink,
	}
	consumer.AddHandler(result)

	err = consumer.ConnectToNSQD(address)
	if err != nil {
		consumer.Stop()
		return nil, fmt.Errorf("cannot connect to nsqd %s: %w", address, err)
	}
	logger.Info(logPrefix+"consuming %s/%s from %s", topic, channel, address)
	return result, nil
}

// HandleMessage implements nsq.Handler. Messages that cannot be handled are finished anyway,
// requeuing them would not change the outcome.
func (c *Consumer) HandleMessage(message *nsq.Message) error {
	err := c.handle(message.Body)
	if err != nil {
		logger.Warn(logPrefix+"dropping response %s: %v", message.Body, err)
	}
	return nil
}

func (c *Consumer) handle(body []byte) error {
	if len(body) == 0 {
		return ErrEmptyPayload
	}
	var envelope ResponseEnvelope
	err := json.Unmarshal(body, &envelope)
	if err != nil {
		return fmt.Errorf("invalid response envelope: %w", err)
	}

	switch envelope.Kind {
	case ResponseCommand:
		return c.sink.OnCmdResponse(envelope.Slot, envelope.Response)
	case ResponseEvent:
		return c.sink.OnEventResponse(envelope.Slot, envelope.Response)
	default:
		return fmt.Errorf("unknown response kind %q", envelope.Kind)
	}
}

// Stop stops consuming and waits until all in-flight messages are handled.
func (c *Consumer) Stop() {
	c.consumer.Stop()
	<-c.consumer.StopChan
}
