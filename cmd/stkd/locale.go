package main

import (
	"sync"

	"golang.org/x/text/language"
)

// sessionLocale keeps the language requested by the SIM for the lifetime of the daemon.
type sessionLocale struct {
	lock sync.RWMutex
	tag  language.Tag
}

func newSessionLocale(value string) (*sessionLocale, error) {
	tag, err := language.Parse(value)
	if err != nil {
		return nil, err
	}
	return &sessionLocale{tag: tag}, nil
}

func (l *sessionLocale) Locale() language.Tag {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.tag
}

func (l *sessionLocale) SetLocale(tag language.Tag) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.tag = tag
	return nil
}
