package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/wonderivan/logger"
	"golang.org/x/sync/errgroup"

	"github.com/ftl/sim-toolkit/bus"
	"github.com/ftl/sim-toolkit/cat"
	"github.com/ftl/sim-toolkit/com"
	"github.com/ftl/sim-toolkit/httpapi"
	"github.com/ftl/sim-toolkit/ril"
	"github.com/ftl/sim-toolkit/serial"
	"github.com/ftl/sim-toolkit/sim"
)

const (
	readyTimeout      = 10 * time.Second
	reconnectInterval = 5 * time.Second
)

func main() {
	config, err := loadConfig(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	err = logger.SetLogger(config.Log.loggerConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot configure logging: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = run(ctx, config)
	if err != nil {
		logger.Error("stkd stopped: %v", err)
		os.Exit(1)
	}
	logger.Info("stkd stopped")
}

func run(ctx context.Context, config *Config) error {
	var broadcaster cat.Broadcaster = logBroadcaster{}
	if config.NSQ.Address != "" {
		publisher, err := bus.NewPublisher(config.NSQ.Address, config.NSQ.CommandTopic)
		if err != nil {
			return err
		}
		defer publisher.Close()
		broadcaster = publisher
	}
	locale, err := newSessionLocale(config.STK.Locale)
	if err != nil {
		return fmt.Errorf("invalid locale %s: %w", config.STK.Locale, err)
	}

	options := config.serviceOptions()
	foreground := config.foreground()
	registry := cat.NewRegistry(func(slot sim.Slot, radio cat.Radio, radioDeps cat.RadioDeps) *cat.Service {
		deps := cat.Collaborators{
			RadioDeps:   radioDeps,
			Broadcaster: broadcaster,
			Locale:      locale,
		}
		if foreground != nil {
			deps.Foreground = foreground
		}
		return cat.New(slot, radio, deps, options)
	})
	defer registry.Close()

	group, ctx := errgroup.WithContext(ctx)
	for i, slotConfig := range config.Slots {
		slot := sim.Slot(i)
		group.Go(func() error {
			return runSlot(ctx, slot, slotConfig, registry)
		})
	}

	if config.NSQ.Address != "" {
		consumer, err := bus.NewConsumer(config.NSQ.Address, config.NSQ.ResponseTopic, config.NSQ.Channel, registry)
		if err != nil {
			return err
		}
		group.Go(func() error {
			<-ctx.Done()
			consumer.Stop()
			return nil
		})
	}

	if config.HTTP.Address != "" {
		var apps httpapi.ForegroundApps
		if foreground != nil {
			apps = foreground
		}
		server := httpapi.NewServer(config.HTTP.Address, registry, apps)
		group.Go(func() error {
			return server.Run(ctx)
		})
	}

	return group.Wait()
}

// runSlot keeps the modem of the slot connected until the context is done. After a reconnect, the service of
// the slot continues with the new radio.
func runSlot(ctx context.Context, slot sim.Slot, config SlotConfig, registry *cat.Registry) error {
	for {
		err := serveSlot(ctx, slot, config, registry)
		if ctx.Err() != nil {
			return nil
		}
		logger.Warn("[ril:%d] modem disconnected: %v", int(slot), err)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(reconnectInterval):
		}
	}
}

func serveSlot(ctx context.Context, slot sim.Slot, config SlotConfig, registry *cat.Registry) error {
	port := config.Port
	if port == "" {
		var err error
		port, err = serial.FindModemPortName(config.Hint)
		if err != nil {
			return err
		}
	}

	device, closer, err := openDevice(port, config)
	if err != nil {
		return err
	}
	defer closer.Close()

	readyCtx, cancel := context.WithTimeout(ctx, readyTimeout)
	err = device.WaitReady(readyCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("modem on %s not ready: %w", port, err)
	}
	err = device.ATs(ctx, "ATE0", "AT+CMEE=1")
	if err != nil {
		return err
	}

	radio, err := ril.New(slot, device)
	if err != nil {
		return err
	}
	defer radio.Close()
	registry.Service(slot, radio, cat.RadioDeps{Telephony: radio, Files: radio})
	logger.Info("[ril:%d] modem connected on %s", int(slot), port)

	closed := make(chan struct{})
	go func() {
		device.WaitUntilClosed()
		close(closed)
	}()

	select {
	case <-ctx.Done():
		return nil
	case <-closed:
		return fmt.Errorf("%s closed", port)
	}
}

func openDevice(port string, config SlotConfig) (*com.COM, io.Closer, error) {
	if config.Trace == "" {
		return serial.Open(port, config.Baud)
	}

	traceFile, err := os.OpenFile(config.Trace, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, nil, err
	}
	device, closer, err := serial.OpenWithTrace(port, config.Baud, traceFile)
	if err != nil {
		traceFile.Close()
		return nil, nil, err
	}
	return device, multiCloser{closer, traceFile}, nil
}

type multiCloser []io.Closer

func (c multiCloser) Close() error {
	var result error
	for _, closer := range c {
		if err := closer.Close(); err != nil && result == nil {
			result = err
		}
	}
	return result
}

// logBroadcaster is used when no message bus is configured.
type logBroadcaster struct{}

func (logBroadcaster) BroadcastCommand(slot sim.Slot, cmd *cat.CmdMessage) {
	logger.Info("[cat:%d] command %s", int(slot), cmd.Type())
}

func (logBroadcaster) BroadcastSessionEnd(slot sim.Slot) {
	logger.Info("[cat:%d] session end", int(slot))
}

func (logBroadcaster) BroadcastRefresh(slot sim.Slot, refresh cat.RefreshType) {
	logger.Info("[cat:%d] refresh %s", int(slot), refresh)
}
