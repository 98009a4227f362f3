//go:build !linux

package serial

// DefaultModemHint matches the description of the usual AT ports of USB modems.
const DefaultModemHint = "modem"

func FindModemPortName(string) (string, error) {
	// no-op for other OSes
	return "", ErrNoModemFound
}
