package cat

import (
	"fmt"

	"github.com/wonderivan/logger"

	"github.com/ftl/sim-toolkit/sim"
)

// slotLogger prefixes all log lines with the slot they belong to.
type slotLogger struct {
	prefix string
}

func newSlotLogger(slot sim.Slot) slotLogger {
	return slotLogger{prefix: fmt.Sprintf("[cat:%d] ", int(slot))}
}

func (l slotLogger) Debugf(format string, args ...any) {
	logger.Debug(l.prefix+format, args...)
}

func (l slotLogger) Infof(format string, args ...any) {
	logger.Info(l.prefix+format, args...)
}

func (l slotLogger) Warnf(format string, args ...any) {
	logger.Warn(l.prefix+format, args...)
}

func (l slotLogger) Errorf(format string, args ...any) {
	logger.Error(l.prefix+format, args...)
}
