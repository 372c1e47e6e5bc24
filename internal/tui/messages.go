package tui

import (
	"errors"
	"fmt"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/archive"
	"github.com/DrewBanyai/DiscordAdminHelper/internal/models"
)

// searchMessages runs a search with the current filter inputs and renders
// the result panel. The fetch and its render form one unit: nothing else
// writes to the panel between them.
func (a *App) searchMessages() {
	// Never clobber an open context view; the search panel takes over the
	// screen as a side effect of rendering results.
	if a.screen() == screenContext {
		return
	}
	a.switchScreen(screenSearch)

	keyword := a.keywordIn.GetText()
	username := a.usernameIn.GetText()
	a.showStatus("Loading…")

	go func() {
		msgs, err := a.messageService.Search(a.ctx, keyword, username)
		a.QueueUpdateDraw(func() {
			if err != nil {
				a.logger.Printf("search failed: %v", err)
				a.renderSearchPlaceholder("Error fetching results.")
				a.showError("Search failed")
				return
			}
			if len(msgs) == 0 {
				a.renderSearchPlaceholder("No messages found.")
				a.clearStatus()
				return
			}
			a.renderSearchResults(msgs)
			a.showStatus(fmt.Sprintf("%d message(s)", len(msgs)))
		})
	}()
}

func (a *App) renderSearchResults(msgs []*models.Message) {
	a.searchList.SetMessages(msgs, "")
	a.registry.Bind(a.searchList, "")
	a.searchList.SetCurrentItem(0)
	a.renderDetail(a.searchList, a.searchDetail, "")
	a.SetFocus(a.searchList)
}

func (a *App) renderSearchPlaceholder(text string) {
	a.searchList.ClearMessages()
	a.registry.Unbind(a.searchList)
	a.searchList.AddItem(text, "", 0, nil)
	a.searchDetail.SetText("")
}

// viewContext fetches the window around a message and shows the context
// screen with the target centered.
func (a *App) viewContext(messageID string) {
	if messageID == "" {
		return
	}
	a.showStatus("Loading context…")

	go func() {
		msgs, err := a.messageService.Context(a.ctx, messageID)
		a.QueueUpdateDraw(func() {
			a.setScreen(screenContext)
			a.contentPages.SwitchToPage(screenContext)
			a.redrawTabBar()

			var backendErr *archive.BackendError
			if errors.As(err, &backendErr) {
				a.renderContextPlaceholder(backendErr.Message)
				a.clearStatus()
				return
			}
			if err != nil {
				a.logger.Printf("context fetch failed: %v", err)
				a.renderContextPlaceholder("Error fetching context.")
				a.showError("Context fetch failed")
				return
			}
			a.renderContext(msgs, messageID)
			a.clearStatus()
		})
	}()
}

func (a *App) renderContext(msgs []*models.Message, targetID string) {
	a.setContextTarget(targetID)
	a.contextList.SetMessages(msgs, targetID)
	a.registry.Bind(a.contextList, targetID)

	target := 0
	for i, m := range msgs {
		if m.ID == targetID {
			target = i
			break
		}
	}
	a.SetFocus(a.contextList)

	// Centering needs row geometry, which only exists after this draw
	// completes; select the target in a deferred pass.
	go a.QueueUpdateDraw(func() {
		a.contextList.SetCurrentItem(target)
		a.renderDetail(a.contextList, a.contextDetail, targetID)
	})
}

func (a *App) renderContextPlaceholder(text string) {
	a.setContextTarget("")
	a.contextList.ClearMessages()
	a.registry.Unbind(a.contextList)
	a.contextList.AddItem(text, "", 0, nil)
	a.contextDetail.SetText("")
}

// closeContext returns to the search screen, leaving search results as they
// were.
func (a *App) closeContext() {
	a.setContextTarget("")
	a.registry.Unbind(a.contextList)
	a.contextList.ClearMessages()
	a.setScreen(screenSearch)
	a.contentPages.SwitchToPage(screenSearch)
	a.redrawTabBar()
	a.SetFocus(a.searchList)
}

// toggleFlag writes a new flag value and, on success, patches every panel
// row showing the message. On failure the UI is left exactly as it was; the
// error is logged only, a failed flag write is not worth interrupting the
// operator.
func (a *App) toggleFlag(messageID, value string) {
	if messageID == "" {
		return
	}
	go func() {
		if err := a.flagService.SetFlag(a.ctx, messageID, value); err != nil {
			a.logger.Printf("flag update failed for %s: %v", messageID, err)
			return
		}
		a.QueueUpdateDraw(func() {
			a.applyFlagLocally(messageID, value)
		})
	}()
}

// applyFlagLocally patches the display copies without refetching.
func (a *App) applyFlagLocally(messageID, value string) {
	a.registry.ApplyFlag(messageID, value)
	if msg := a.searchList.Current(); msg != nil && msg.ID == messageID {
		a.renderDetail(a.searchList, a.searchDetail, "")
	}
	if msg := a.contextList.Current(); msg != nil && msg.ID == messageID {
		a.renderDetail(a.contextList, a.contextDetail, a.contextTargetID())
	}
}

// focusedList returns the message panel belonging to the visible screen.
func (a *App) focusedList() *MessageList {
	if a.screen() == screenContext {
		return a.contextList
	}
	return a.searchList
}
