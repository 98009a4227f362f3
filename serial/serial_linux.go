//go:build linux

package serial

import (
	"strings"

	"github.com/hedhyw/Go-Serial-Detector/pkg/v1/serialdet"
)

// DefaultModemHint matches the description of the usual AT ports of USB modems.
const DefaultModemHint = "modem"

// FindModemPortName returns the path of the first serial device whose description contains the given hint.
func FindModemPortName(hint string) (string, error) {
	if hint == "" {
		hint = DefaultModemHint
	}
	hint = strings.ToLower(hint)

	devices, err := serialdet.List()
	if err != nil {
		return "", err
	}

	for _, device := range devices {
		description := strings.ToLower(device.Description())
		if strings.Contains(description, hint) {
			return device.Path(), nil
		}
	}

	return "", ErrNoModemFound
}
