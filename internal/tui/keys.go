package tui

import (
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// bindKeys installs the global key dispatch. Input fields keep the keyboard
// while focused; panels get single-key actions.
func (a *App) bindKeys() {
	a.Application.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		// The picker owns the keyboard while open.
		if a.reactTarget() != "" {
			switch ev.Key() {
			case tcell.KeyEscape:
				a.closeReactPicker()
				return nil
			case tcell.KeyTab:
				if p := a.reactPicker; p != nil {
					if a.GetFocus() == p.input {
						a.SetFocus(p.list)
					} else {
						a.SetFocus(p.input)
					}
					return nil
				}
			}
			return ev
		}

		// Leave typing alone while a filter field has focus.
		if _, ok := a.GetFocus().(*tview.InputField); ok {
			if ev.Key() == tcell.KeyEscape {
				a.SetFocus(a.focusedList())
				return nil
			}
			return ev
		}

		switch ev.Key() {
		case tcell.KeyEscape:
			if a.screen() == screenContext {
				a.closeContext()
				return nil
			}
		case tcell.KeyEnter:
			if a.screen() != screenStats {
				if msg := a.focusedList().Current(); msg != nil {
					a.viewContext(msg.ID)
				}
				return nil
			}
		case tcell.KeyCtrlQ:
			a.Stop()
			return nil
		}

		switch ev.Rune() {
		case '1':
			if a.screen() == screenContext {
				a.closeContext()
			}
			a.switchScreen(screenSearch)
			return nil
		case '2':
			a.switchScreen(screenStats)
			return nil
		case 'q':
			a.Stop()
			return nil
		}

		if a.screen() == screenStats {
			switch ev.Rune() {
			case 'a':
				a.selectTimeframe("all")
			case 'd':
				a.selectTimeframe("24h")
			case 'w':
				a.selectTimeframe("7d")
			case 'm':
				a.selectTimeframe("30d")
			default:
				return ev
			}
			return nil
		}

		switch ev.Rune() {
		case '/':
			a.SetFocus(a.keywordIn)
			return nil
		case 'u':
			a.SetFocus(a.usernameIn)
			return nil
		}

		// Row actions on the visible panel.
		msg := a.focusedList().Current()
		if msg == nil {
			return ev
		}
		switch ev.Rune() {
		case 'g':
			a.toggleFlag(msg.ID, "green")
			return nil
		case 'r':
			a.toggleFlag(msg.ID, "red")
			return nil
		case 'c':
			a.toggleFlag(msg.ID, "none")
			return nil
		case 'e':
			a.promptReact(msg.ID)
			return nil
		case 'x':
			a.exportVisible()
			return nil
		}
		return ev
	})
}
