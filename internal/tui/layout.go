package tui

import (
	"fmt"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/services"
)

func (a *App) initLayout() {
	a.tabBar = tview.NewTextView().SetDynamicColors(true)
	a.tabBar.SetBackgroundColor(tcell.ColorDefault)

	a.keywordIn = tview.NewInputField().SetLabel("keyword: ").SetFieldWidth(30)
	a.usernameIn = tview.NewInputField().SetLabel("username: ").SetFieldWidth(20)
	a.keywordIn.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			a.searchMessages()
		}
	})
	a.usernameIn.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			a.searchMessages()
		}
	})

	a.searchList = NewMessageList("search", a.renderer)
	a.searchList.SetTitle(" Search Results ")
	a.contextList = NewMessageList("context", a.renderer)
	a.contextList.SetTitle(" Context ")

	a.searchDetail = newDetailView(" Message ")
	a.contextDetail = newDetailView(" Message ")

	a.searchList.SetChangedFunc(func(index int, _, _ string, _ rune) {
		a.renderDetail(a.searchList, a.searchDetail, "")
	})
	a.contextList.SetChangedFunc(func(index int, _, _ string, _ rune) {
		a.renderDetail(a.contextList, a.contextDetail, a.contextTargetID())
	})

	a.statsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	a.statsView.SetBorder(true)
	a.statsView.SetTitle(" Word Frequency ")

	a.statusView = tview.NewTextView().SetDynamicColors(true)

	searchBar := tview.NewFlex().
		AddItem(a.keywordIn, 0, 2, true).
		AddItem(a.usernameIn, 0, 1, false)
	searchScreen := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(searchBar, 1, 0, true).
		AddItem(tview.NewFlex().
			AddItem(a.searchList, 0, 1, false).
			AddItem(a.searchDetail, 0, 1, false), 0, 1, false)

	contextScreen := tview.NewFlex().
		AddItem(a.contextList, 0, 1, true).
		AddItem(a.contextDetail, 0, 1, false)

	a.contentPages = tview.NewPages().
		AddPage(screenSearch, searchScreen, true, true).
		AddPage(screenContext, contextScreen, true, false).
		AddPage(screenStats, a.statsView, true, false)

	main := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.tabBar, 1, 0, false).
		AddItem(a.contentPages, 0, 1, true).
		AddItem(a.statusView, 1, 0, false)

	a.pages = tview.NewPages().AddPage(pageMain, main, true, true)
	a.redrawTabBar()
}

func newDetailView(title string) *tview.TextView {
	tv := tview.NewTextView().SetDynamicColors(true).SetWordWrap(true).SetScrollable(true)
	tv.SetBorder(true)
	tv.SetTitle(title)
	return tv
}

// renderDetail shows the selected row's full message in the side panel.
func (a *App) renderDetail(list *MessageList, detail *tview.TextView, targetID string) {
	msg := list.Current()
	if msg == nil {
		detail.SetText("")
		return
	}
	detail.SetText(a.renderer.Render(msg, targetID != "" && msg.ID == targetID))
	detail.ScrollToBeginning()
}

// redrawTabBar shows the active tab and, on the stats tab, the active
// timeframe.
func (a *App) redrawTabBar() {
	screen := a.screen()
	var b strings.Builder
	tab := func(name, label string) {
		if screen == name || (name == screenSearch && screen == screenContext) {
			fmt.Fprintf(&b, "[black:aqua] %s [-:-] ", label)
		} else {
			fmt.Fprintf(&b, "[aqua] %s [-] ", label)
		}
	}
	tab(screenSearch, "1:Messages")
	tab(screenStats, "2:Stats")
	if screen == screenStats {
		b.WriteString("  timeframe:")
		for _, tf := range services.Timeframes {
			if tf == a.Timeframe() {
				fmt.Fprintf(&b, " [black:green] %s [-:-]", tf)
			} else {
				fmt.Fprintf(&b, " [green]%s[-]", tf)
			}
		}
	}
	a.tabBar.SetText(b.String())
}

// switchScreen flips the visible content panel and refetches stats when the
// stats tab becomes active. Switching away never refetches.
func (a *App) switchScreen(name string) {
	if a.screen() == name {
		if name == screenStats {
			a.fetchStats()
		}
		return
	}
	a.setScreen(name)
	a.contentPages.SwitchToPage(name)
	a.redrawTabBar()
	if name == screenStats {
		a.fetchStats()
	}
}

// selectTimeframe sets the stats timeframe; when the stats tab is already
// showing, the chart refetches immediately.
func (a *App) selectTimeframe(tf string) {
	if !services.ValidTimeframe(tf) {
		return
	}
	changed := a.Timeframe() != tf
	a.setTimeframe(tf)
	a.redrawTabBar()
	if a.screen() == screenStats && changed {
		a.fetchStats()
	}
}
