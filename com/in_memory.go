package com

import (
	"io"
	"strings"
	"sync"
)

// InMemory simulates a modem in memory. Every request written to it is answered with the response prepared
// for this request, or with OK if there is none.
type InMemory struct {
	lock      sync.Mutex
	pending   []byte
	readBuf   []byte
	requests  []string
	responses map[string][]string
	prefixes  map[string][]string

	readable chan struct{}
	written  chan struct{}
	closed   chan struct{}
	close    sync.Once
}

func NewInMemory() *InMemory {
	return &InMemory{
		responses: make(map[string][]string),
		prefixes:  make(map[string][]string),
		readable:  make(chan struct{}, 1),
		written:   make(chan struct{}, 1),
		closed:    make(chan struct{}),
	}
}

// Respond prepares the lines sent back for the given request. The lines must contain the final result code.
func (m *InMemory) Respond(request string, lines ...string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.responses[strings.ToUpper(request)] = lines
}

// RespondPrefix prepares the lines sent back for all requests starting with the given prefix.
func (m *InMemory) RespondPrefix(prefix string, lines ...string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.prefixes[strings.ToUpper(prefix)] = lines
}

// Inject sends the given lines to the reader, e.g. to simulate an unsolicited result code.
func (m *InMemory) Inject(lines ...string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.queueLines(lines)
}

// Requests returns all requests that were written so far.
func (m *InMemory) Requests() []string {
	m.lock.Lock()
	defer m.lock.Unlock()
	result := make([]string, len(m.requests))
	copy(result, m.requests)
	return result
}

func (m *InMemory) LastRequest() string {
	m.lock.Lock()
	defer m.lock.Unlock()
	if len(m.requests) == 0 {
		return ""
	}
	return m.requests[len(m.requests)-1]
}

// Written signals that a request was written.
func (m *InMemory) Written() <-chan struct{} {
	return m.written
}

func (m *InMemory) Close() error {
	m.close.Do(func() {
		close(m.closed)
	})
	return nil
}

func (m *InMemory) Read(p []byte) (int, error) {
	for {
		m.lock.Lock()
		if len(m.readBuf) > 0 {
			n := copy(p, m.readBuf)
			m.readBuf = m.readBuf[n:]
			m.lock.Unlock()
			return n, nil
		}
		m.lock.Unlock()

		select {
		case <-m.readable:
		case <-m.closed:
			return 0, io.EOF
		}
	}
}

func (m *InMemory) Write(p []byte) (int, error) {
	select {
	case <-m.closed:
		return 0, io.ErrClosedPipe
	default:
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	m.pending = append(m.pending, p...)
	for {
		end := strings.IndexByte(string(m.pending), '\r')
		if end == -1 {
			break
		}
		request := string(m.pending[:end])
		m.pending = m.pending[end+1:]
		m.requests = append(m.requests, request)
		m.queueLines(m.responseFor(request))

		select {
		case m.written <- struct{}{}:
		default:
		}
	}
	return len(p), nil
}

func (m *InMemory) responseFor(request string) []string {
	key := strings.ToUpper(request)
	if lines, ok := m.responses[key]; ok {
		return lines
	}
	for prefix, lines := range m.prefixes {
		if strings.HasPrefix(key, prefix) {
			return lines
		}
	}
	return []string{"OK"}
}

func (m *InMemory) queueLines(lines []string) {
	for _, line := range lines {
		m.readBuf = append(m.readBuf, "\r\n"+line+"\r\n"...)
	}
	select {
	case m.readable <- struct{}{}:
	default:
	}
}
