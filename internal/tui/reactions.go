package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/archive"
	msgflag "github.com/DrewBanyai/DiscordAdminHelper/internal/flag"
	"github.com/DrewBanyai/DiscordAdminHelper/internal/models"
)

// reactPicker is the reaction-selection modal. One picker is open at most;
// the app's reactMessageID is non-empty exactly while it shows.
type reactPicker struct {
	content  *tview.Flex
	subtitle *tview.TextView
	list     *tview.List
	input    *tview.InputField
}

// promptReact opens the picker for a message and fetches its live reaction
// candidates.
func (a *App) promptReact(messageID string) {
	if messageID == "" || a.reactTarget() != "" {
		return
	}
	a.setReactTarget(messageID)

	p := &reactPicker{}
	p.subtitle = tview.NewTextView().SetDynamicColors(true)
	p.subtitle.SetText(fmt.Sprintf("React to message [aqua]%s[-]", messageID))

	p.list = tview.NewList().ShowSecondaryText(false)
	p.list.AddItem("Loading reactions…", "", 0, nil)

	p.input = tview.NewInputField().SetLabel("custom emoji: ").SetFieldWidth(24)
	p.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		emoji := strings.TrimSpace(p.input.GetText())
		if emoji == "" {
			return
		}
		a.queueReaction(messageID, emoji)
		a.closeReactPicker()
	})

	p.content = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(p.subtitle, 1, 0, false).
		AddItem(p.list, 0, 1, true).
		AddItem(p.input, 1, 0, false)
	p.content.SetBorder(true)
	p.content.SetTitle(" Add Reaction (Esc to close) ")

	a.reactPicker = p
	a.pages.AddPage(pageReact, a.modalOverlay(p.content, 52, 16), true, true)
	a.SetFocus(p.list)

	go func() {
		opts, err := a.reactionService.ListCandidates(a.ctx, messageID)
		a.QueueUpdateDraw(func() {
			// The picker may have been dismissed while the fetch ran.
			if a.reactTarget() != messageID || a.reactPicker != p {
				return
			}
			p.list.Clear()
			var backendErr *archive.BackendError
			switch {
			case errors.As(err, &backendErr):
				p.list.AddItem("Error: "+tview.Escape(backendErr.Message), "", 0, nil)
			case err != nil:
				a.logger.Printf("reaction candidates failed for %s: %v", messageID, err)
				p.list.AddItem("Error fetching reactions.", "", 0, nil)
			case len(opts) == 0:
				p.list.AddItem("No reactions on this message yet.", "", 0, nil)
			default:
				a.fillReactionList(p, messageID, opts)
			}
		})
	}()
}

func (a *App) fillReactionList(p *reactPicker, messageID string, opts []*models.ReactionOption) {
	for _, opt := range opts {
		opt := opt
		label := fmt.Sprintf("%s  %s (%d)", opt.EmojiStr, tview.Escape(opt.Name), opt.Count)
		p.list.AddItem(label, "", 0, func() {
			a.queueReaction(messageID, opt.EmojiStr)
			a.closeReactPicker()
		})
	}
}

// queueReaction writes the compound pending flag for the chosen emoji and
// patches the visible rows on success.
func (a *App) queueReaction(messageID, emoji string) {
	go func() {
		if err := a.flagService.SetPendingReaction(a.ctx, messageID, emoji); err != nil {
			a.logger.Printf("queue reaction failed for %s: %v", messageID, err)
			return
		}
		value := msgflag.PendingReact(emoji).String()
		a.QueueUpdateDraw(func() {
			a.applyFlagLocally(messageID, value)
		})
	}()
}

// closeReactPicker dismisses the modal and clears its session binding.
func (a *App) closeReactPicker() {
	if a.reactTarget() == "" {
		return
	}
	a.setReactTarget("")
	a.reactPicker = nil
	a.pages.RemovePage(pageReact)
	a.SetFocus(a.focusedList())
}

// modalOverlay centers content over the main screen. A pointer interaction
// on the backdrop dismisses the picker; interactions inside the content do
// not.
func (a *App) modalOverlay(content *tview.Flex, width, height int) tview.Primitive {
	grid := tview.NewGrid().
		SetColumns(0, width, 0).
		SetRows(0, height, 0).
		AddItem(content, 1, 1, 1, 1, 0, 0, true)
	grid.SetMouseCapture(func(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
		if action == tview.MouseLeftDown || action == tview.MouseLeftClick {
			if x, y := event.Position(); !content.InRect(x, y) {
				a.closeReactPicker()
				return action, nil
			}
		}
		return action, event
	})
	return grid
}
