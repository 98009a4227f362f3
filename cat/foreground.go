package cat

import "go.uber.org/atomic"

// Foreground holds the application that is currently in the foreground, as reported by the applications.
type Foreground struct {
	app *atomic.String
}

func NewForeground(initial string) *Foreground {
	return &Foreground{app: atomic.NewString(initial)}
}

func (f *Foreground) ForegroundApp() string {
	return f.app.Load()
}

func (f *Foreground) SetForegroundApp(app string) {
	f.app.Store(app)
}
