package com

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const (
	readBufferSize        = 1024
	atSendingQueueTimeout = 500 * time.Millisecond
	readyRetryInterval    = 200 * time.Millisecond
)

var ErrClosed = errors.New("device closed")

// ATError is the final result of a failed AT command.
type ATError struct {
	Request string
	Result  string
}

func (e *ATError) Error() string {
	return fmt.Sprintf("%s: %s", e.Request, e.Result)
}

// NewWithTrace creates a new COM instance that traces all communications to a second writer.
func NewWithTrace(device io.ReadWriter, tracer io.Writer) *COM {
	return newCOM(device, tracer)
}

// New creates a new COM instance using the given io.ReadWriter to communicate with the modem.
func New(device io.ReadWriter) *COM {
	return newCOM(device, nil)
}

func newCOM(device io.ReadWriter, tracer io.Writer) *COM {
	lines := readLoop(device)
	commands := make(chan *command)
	result := &COM{
		commands:    commands,
		closed:      make(chan struct{}),
		tracer:      tracer,
		indications: make(map[string]indicationConfig),
	}

	go func() {
		result.trace("****\n* SESSION START\n****\n")
		defer result.trace("****\n* SESSION END\n****\n")
		defer close(result.closed)

		var activeCommand *command
		var activeIndication *indication
		defer func() {
			if activeCommand != nil {
				activeCommand.Fail(ErrClosed)
			}
		}()

		tick := time.NewTicker(100 * time.Millisecond)
		defer tick.Stop()

		for {
			var commandCancelled <-chan struct{}
			if activeCommand != nil {
				commandCancelled = activeCommand.cancelled
			}

			select {
			case line, valid := <-lines:
				if !valid {
					return
				}
				result.tracef("rx:  %s\n--\n", line)

				switch {
				case activeIndication != nil:
					activeIndication.AddLine(line)
					if activeIndication.Complete() {
						activeIndication.Dispatch()
						activeIndication = nil
					}
				default:
					activeIndication = result.newIndication(line)
					if activeIndication != nil {
						if activeIndication.Complete() {
							activeIndication.Dispatch()
							activeIndication = nil
						}
						break
					}
					if activeCommand == nil {
						result.tracef("dropped: %s\n--\n", line)
						break
					}
					activeCommand.AddLine(line)
					if activeCommand.Complete() {
						activeCommand = nil
					}
				}
			case <-commandCancelled:
				activeCommand = nil
			case <-tick.C:
			}

			if activeCommand == nil {
				select {
				case cmd := <-commands:
					txbytes := make([]byte, 0, len(cmd.request)+1)
					txbytes = append(txbytes, []byte(cmd.request)...)
					txbytes = append(txbytes, '\r')
					result.tracef("tx:  %s\n--\n", cmd.request)
					if _, err := device.Write(txbytes); err != nil {
						cmd.Fail(err)
						break
					}
					activeCommand = cmd
				default:
				}
			}
		}
	}()

	return result
}

// COM allows to communicate with a modem using AT commands. Unsolicited result codes are dispatched to
// the registered indication handlers in the order they are received.
type COM struct {
	commands chan<- *command
	closed   chan struct{}
	tracer   io.Writer

	indicationsLock sync.RWMutex
	indications     map[string]indicationConfig
}

func readLoop(r io.Reader) <-chan string {
	lines := make(chan string, 1)
	go func() {
		defer close(lines)
		buf := make([]byte, readBufferSize)
		currentLine := make([]byte, 0, readBufferSize)
		for {
			n, err := r.Read(buf)
			if err != nil {
				if len(currentLine) > 0 {
					lines <- string(currentLine)
				}
				return
			}

			for _, b := range buf[0:n] {
				switch {
				case b == '\n' || b == '\r':
					if len(currentLine) == 0 {
						continue
					}
					lines <- string(currentLine)
					currentLine = currentLine[:0]
				case b < ' ':
					continue
				default:
					currentLine = append(currentLine, b)
				}
			}
		}
	}()
	return lines
}

func (c *COM) Closed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// WaitUntilClosed blocks until the device was closed.
func (c *COM) WaitUntilClosed() {
	<-c.closed
}

// AddIndication registers a handler for the unsolicited result code with the given prefix. The handler receives
// the line with the prefix and the given number of trailing lines. It is called from the reading goroutine,
// so it must not block and must not send AT commands.
func (c *COM) AddIndication(prefix string, trailingLines int, handler func(lines []string)) error {
	if prefix == "" {
		return fmt.Errorf("empty indication prefix")
	}
	config := indicationConfig{
		prefix:        strings.ToUpper(prefix),
		trailingLines: trailingLines,
		handler:       handler,
	}

	c.indicationsLock.Lock()
	defer c.indicationsLock.Unlock()
	c.indications[config.prefix] = config
	return nil
}

func (c *COM) RemoveIndication(prefix string) {
	c.indicationsLock.Lock()
	defer c.indicationsLock.Unlock()
	delete(c.indications, strings.ToUpper(prefix))
}

func (c *COM) newIndication(line string) *indication {
	c.indicationsLock.RLock()
	defer c.indicationsLock.RUnlock()
	for _, config := range c.indications {
		result := config.NewIfMatches(line)
		if result != nil {
			return result
		}
	}
	return nil
}

// WaitReady sends AT until the modem answers with OK.
func (c *COM) WaitReady(ctx context.Context) error {
	for {
		_, err := c.AT(ctx, "AT")
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrClosed) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(readyRetryInterval):
		}
	}
}

// AT sends the given request and returns the information lines of the response.
func (c *COM) AT(ctx context.Context, request string) ([]string, error) {
	if len(request) == 0 {
		return nil, fmt.Errorf("empty AT request")
	}
	cmd := &command{
		request:   request,
		response:  make(chan []string, 1),
		err:       make(chan error, 1),
		cancelled: ctx.Done(),
		completed: make(chan struct{}),
	}

	select {
	case c.commands <- cmd:
	case <-c.closed:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(atSendingQueueTimeout):
		return nil, fmt.Errorf("AT sending queue timeout")
	}

	select {
	case response := <-cmd.response:
		return response, nil
	case err := <-cmd.err:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Request is the same as AT.
func (c *COM) Request(ctx context.Context, request string) ([]string, error) {
	return c.AT(ctx, request)
}

func (c *COM) ATs(ctx context.Context, requests ...string) error {
	for _, request := range requests {
		_, err := c.AT(ctx, request)
		if err != nil {
			return fmt.Errorf("%s failed: %w", request, err)
		}
	}
	return nil
}

func (c *COM) trace(args ...interface{}) {
	if c.tracer == nil {
		return
	}
	fmt.Fprint(c.tracer, args...)
}

func (c *COM) tracef(format string, args ...interface{}) {
	if c.tracer == nil {
		return
	}
	fmt.Fprintf(c.tracer, format, args...)
}

type indicationConfig struct {
	prefix        string
	trailingLines int
	handler       func(lines []string)
}

func (c indicationConfig) NewIfMatches(line string) *indication {
	if !strings.HasPrefix(strings.ToUpper(line), c.prefix) {
		return nil
	}
	return &indication{
		config: c,
		lines:  []string{line},
	}
}

type indication struct {
	config indicationConfig
	lines  []string
}

func (ind *indication) AddLine(line string) {
	if ind.Complete() {
		return
	}
	ind.lines = append(ind.lines, line)
}

func (ind *indication) Complete() bool {
	return len(ind.lines) >= ind.config.trailingLines+1
}

func (ind *indication) Dispatch() {
	ind.config.handler(ind.lines)
}

type command struct {
	lines     []string
	request   string
	response  chan []string
	err       chan error
	cancelled <-chan struct{}
	completed chan struct{}
}

func (c *command) AddLine(line string) {
	if c.Complete() {
		return
	}

	saniLine := strings.TrimSpace(strings.ToUpper(line))
	switch {
	case saniLine == "OK":
		c.response <- c.lines
		close(c.completed)
	case saniLine == "ERROR",
		saniLine == "NO CARRIER",
		strings.HasPrefix(saniLine, "+CME ERROR"),
		strings.HasPrefix(saniLine, "+CMS ERROR"):
		c.err <- &ATError{Request: c.request, Result: line}
		close(c.completed)
	case strings.ToUpper(line) == strings.ToUpper(c.request):
		// echo
	default:
		c.lines = append(c.lines, line)
	}
}

func (c *command) Fail(err error) {
	if c.Complete() {
		return
	}
	c.err <- err
	close(c.completed)
}

func (c *command) Complete() bool {
	select {
	case <-c.cancelled:
		return true
	case <-c.completed:
		return true
	default:
		return false
	}
}
