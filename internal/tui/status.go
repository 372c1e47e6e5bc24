package tui

import (
	"time"

	"github.com/derailed/tview"
)

const statusTimeout = 4 * time.Second

// showStatus puts a transient informational message on the status line.
func (a *App) showStatus(msg string) {
	a.setStatus("[gray]" + tview.Escape(msg) + "[-]")
}

// showError puts a transient error message on the status line. Errors here
// are advisory; the session always stays interactive.
func (a *App) showError(msg string) {
	a.setStatus("[red]✗ " + tview.Escape(msg) + "[-]")
}

// setStatus shows a message and arms the shared expiry timer. Each new
// message resets the timer, so only the latest message is ever cleared.
func (a *App) setStatus(markup string) {
	a.statusView.SetText(markup)
	a.mu.Lock()
	if a.statusTimer == nil {
		a.statusTimer = time.AfterFunc(statusTimeout, a.expireStatus)
	} else {
		a.statusTimer.Reset(statusTimeout)
	}
	a.mu.Unlock()
}

// expireStatus clears the status line when the timer fires. Once the app
// context is canceled the update queue is no longer drained, so expiry must
// not queue anything.
func (a *App) expireStatus() {
	if a.ctx.Err() != nil {
		return
	}
	a.QueueUpdateDraw(func() {
		a.statusView.SetText("")
	})
}

func (a *App) stopStatusTimer() {
	a.mu.Lock()
	if a.statusTimer != nil {
		a.statusTimer.Stop()
	}
	a.mu.Unlock()
}

func (a *App) clearStatus() {
	a.statusView.SetText("")
}
