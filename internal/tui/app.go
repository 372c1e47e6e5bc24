// Package tui implements the terminal viewer for the message archive:
// search, context windows, moderation flags, reaction queueing and
// word-frequency statistics.
package tui

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"github.com/derailed/tview"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/archive"
	"github.com/DrewBanyai/DiscordAdminHelper/internal/config"
	"github.com/DrewBanyai/DiscordAdminHelper/internal/render"
	"github.com/DrewBanyai/DiscordAdminHelper/internal/services"
)

// Screen names for the content pages.
const (
	screenSearch  = "search"
	screenContext = "context"
	screenStats   = "stats"
	pageMain      = "main"
	pageReact     = "react"
)

// App encapsulates the terminal UI and the archive backend client.
type App struct {
	*tview.Application

	Config *config.Config

	ctx    context.Context
	cancel context.CancelFunc

	logger  *log.Logger
	logFile *os.File

	// services
	messageService  services.MessageService
	flagService     services.FlagService
	reactionService services.ReactionService
	statsService    services.StatsService
	exportService   services.ExportService

	renderer *render.MessageRenderer

	// layout
	pages         *tview.Pages
	contentPages  *tview.Pages
	searchList    *MessageList
	contextList   *MessageList
	searchDetail  *tview.TextView
	contextDetail *tview.TextView
	statsView     *tview.TextView
	statusView    *tview.TextView
	tabBar        *tview.TextView
	keywordIn     *tview.InputField
	usernameIn    *tview.InputField
	reactPicker   *reactPicker

	registry *Registry

	// session state, only touched from the UI goroutine
	mu             sync.Mutex
	currentScreen  string
	timeframe      string
	reactMessageID string
	contextTarget  string
	statusTimer    *time.Timer
}

// NewApp builds the application and its service stack.
func NewApp(cfg *config.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())

	client := archive.NewClient(cfg.BackendURL)
	app := &App{
		Application:     tview.NewApplication(),
		Config:          cfg,
		ctx:             ctx,
		cancel:          cancel,
		messageService:  services.NewMessageService(client, cfg.SearchLimit),
		flagService:     services.NewFlagService(client),
		reactionService: services.NewReactionService(client),
		statsService:    services.NewStatsService(client),
		exportService:   services.NewExportService(),
		renderer:        render.NewMessageRenderer(),
		registry:        NewRegistry(),
		currentScreen:   screenSearch,
		timeframe:       "all",
	}
	app.initLogger()
	app.initLayout()
	app.bindKeys()
	return app
}

// Run starts the UI event loop.
func (a *App) Run() error {
	defer a.cancel()
	defer a.closeLogger()
	defer a.stopStatusTimer()
	return a.Application.SetRoot(a.pages, true).EnableMouse(true).Run()
}

// Timeframe returns the active stats timeframe.
func (a *App) Timeframe() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.timeframe
}

func (a *App) setTimeframe(tf string) {
	a.mu.Lock()
	a.timeframe = tf
	a.mu.Unlock()
}

// reactTarget returns the message the open picker is bound to, "" when no
// picker is open.
func (a *App) reactTarget() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reactMessageID
}

func (a *App) setReactTarget(id string) {
	a.mu.Lock()
	a.reactMessageID = id
	a.mu.Unlock()
}

func (a *App) screen() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentScreen
}

func (a *App) setScreen(name string) {
	a.mu.Lock()
	a.currentScreen = name
	a.mu.Unlock()
}

func (a *App) contextTargetID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.contextTarget
}

func (a *App) setContextTarget(id string) {
	a.mu.Lock()
	a.contextTarget = id
	a.mu.Unlock()
}
