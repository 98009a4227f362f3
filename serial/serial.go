package serial

import (
	"errors"
	"io"

	"github.com/jacobsa/go-serial/serial"

	"github.com/ftl/sim-toolkit/com"
)

const DefaultBaudRate = 115200

var (
	ErrNoModemFound = errors.New("no modem AT port found")
)

// Open the AT port of a modem. A baud rate of 0 selects the DefaultBaudRate.
func Open(portName string, baudRate uint) (*com.COM, io.Closer, error) {
	device, err := openSerial(portName, baudRate)
	if err != nil {
		return nil, nil, err
	}

	return com.New(device), device, nil
}

// OpenWithTrace opens the AT port of a modem and traces the communication to the given writer.
func OpenWithTrace(portName string, baudRate uint, tracer io.Writer) (*com.COM, io.Closer, error) {
	device, err := openSerial(portName, baudRate)
	if err != nil {
		return nil, nil, err
	}

	return com.NewWithTrace(device, tracer), device, nil
}

func openSerial(portName string, baudRate uint) (io.ReadWriteCloser, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	portConfig := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              baudRate,
		DataBits:              8,
		StopBits:              1,
		ParityMode:            serial.PARITY_NONE,
		RTSCTSFlowControl:     false,
		MinimumReadSize:       1,
		InterCharacterTimeout: 100,
	}

	return serial.Open(portConfig)
}
