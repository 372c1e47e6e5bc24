// Package server implements the archive REST backend consumed by the viewer.
package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/db"
	msgflag "github.com/DrewBanyai/DiscordAdminHelper/internal/flag"
	"github.com/DrewBanyai/DiscordAdminHelper/internal/models"
)

// timestampLayout is the on-disk timestamp form written by the scraper; the
// word-frequency cutoff is rendered the same way so plain string comparison
// orders correctly.
const timestampLayout = "2006-01-02T15:04:05.000000"

// Server wires the archive store and the live reaction source into the REST
// surface the viewer consumes.
type Server struct {
	cfg       Config
	store     *db.Store
	reactions ReactionFetcher // nil when no Discord token is configured
	logger    *log.Logger
	now       func() time.Time
}

// New creates a Server. reactions may be nil; the reactions endpoint then
// reports the token as unconfigured.
func New(cfg Config, store *db.Store, reactions ReactionFetcher, logger *log.Logger) *Server {
	return &Server{
		cfg:       cfg,
		store:     store,
		reactions: reactions,
		logger:    logger,
		now:       time.Now,
	}
}

// Handler builds the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/messages", s.handleSearch).Methods(http.MethodGet)
	r.HandleFunc("/messages/{id}/flag", s.handleUpdateFlag).Methods(http.MethodPut)
	r.HandleFunc("/messages/{id}/context", s.handleContext).Methods(http.MethodGet)
	r.HandleFunc("/messages/{id}/reactions", s.handleReactions).Methods(http.MethodGet)
	r.HandleFunc("/stats/word-frequency", s.handleWordFrequency).Methods(http.MethodGet)
	r.PathPrefix("/attachments/").Handler(
		http.StripPrefix("/attachments/", http.FileServer(http.Dir(s.cfg.AttachmentsDir))))

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("write response: %v", err)
	}
}

// writeError reports a logical error the way the viewer expects it: an
// {error} object with a 200 status.
func (s *Server) writeError(w http.ResponseWriter, msg string) {
	s.writeJSON(w, http.StatusOK, map[string]string{"error": msg})
}

// attachMessage fills in attachment URLs and normalizes the flag for one
// outgoing message.
func (s *Server) attachMessage(r *http.Request, m *models.Message) {
	paths, err := s.store.AttachmentPaths(r.Context(), m.ID)
	if err != nil {
		s.logger.Printf("attachments for %s: %v", m.ID, err)
	}
	urls := make([]string, 0, len(paths))
	for _, p := range paths {
		urls = append(urls, s.cfg.PublicBaseURL+"/attachments/"+p)
	}
	m.AttachmentURLs = urls
	if m.Flag == "" {
		m.Flag = "none"
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := intQuery(q.Get("limit"), 100)
	offset := intQuery(q.Get("offset"), 0)

	msgs, err := s.store.SearchMessages(r.Context(), q.Get("keyword"), q.Get("username"), limit, offset)
	if err != nil {
		s.logger.Printf("search: %v", err)
		s.writeError(w, "search failed")
		return
	}
	for _, m := range msgs {
		s.attachMessage(r, m)
	}
	if msgs == nil {
		msgs = []*models.Message{}
	}
	s.writeJSON(w, http.StatusOK, msgs)
}

type flagUpdate struct {
	Flag string `json:"flag"`
}

func (s *Server) handleUpdateFlag(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var upd flagUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		s.writeError(w, "Invalid flag format")
		return
	}
	if !msgflag.Valid(upd.Flag) {
		s.writeError(w, "Invalid flag format")
		return
	}

	if err := s.store.UpdateFlag(r.Context(), id, upd.Flag); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.writeError(w, "Message not found")
			return
		}
		s.logger.Printf("update flag for %s: %v", id, err)
		s.writeError(w, "flag update failed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "success", "flag": upd.Flag})
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	window, err := s.store.ContextWindow(r.Context(), id, s.cfg.ContextRadius)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.writeError(w, "Message not found")
			return
		}
		s.logger.Printf("context for %s: %v", id, err)
		s.writeError(w, "context lookup failed")
		return
	}
	for _, m := range window {
		s.attachMessage(r, m)
	}
	s.writeJSON(w, http.StatusOK, window)
}

func (s *Server) handleReactions(w http.ResponseWriter, r *http.Request) {
	if s.reactions == nil {
		s.writeError(w, "Discord token not configured")
		return
	}
	id := mux.Vars(r)["id"]

	msg, err := s.store.GetMessage(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.writeError(w, "Message not found in database")
			return
		}
		s.logger.Printf("lookup message %s: %v", id, err)
		s.writeError(w, "message lookup failed")
		return
	}

	opts, err := s.reactions.MessageReactions(r.Context(), msg.ChannelID, msg.ID)
	if err != nil {
		s.logger.Printf("reactions for %s: %v", id, err)
		s.writeError(w, err.Error())
		return
	}
	if opts == nil {
		opts = []*models.ReactionOption{}
	}
	s.writeJSON(w, http.StatusOK, opts)
}

func (s *Server) handleWordFrequency(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := intQuery(q.Get("limit"), s.cfg.StatsLimit)

	since := s.timeframeCutoff(q.Get("timeframe"))
	contents, err := s.store.MessageContents(r.Context(), since)
	if err != nil {
		s.logger.Printf("word frequency: %v", err)
		s.writeError(w, "stats query failed")
		return
	}

	counts := WordFrequency(contents, limit)
	if counts == nil {
		counts = []models.WordCount{}
	}
	s.writeJSON(w, http.StatusOK, counts)
}

// timeframeCutoff maps a timeframe token to the inclusive timestamp floor,
// "" meaning no floor. Unknown tokens behave like "all".
func (s *Server) timeframeCutoff(timeframe string) string {
	var d time.Duration
	switch timeframe {
	case "24h":
		d = 24 * time.Hour
	case "7d":
		d = 7 * 24 * time.Hour
	case "30d":
		d = 30 * 24 * time.Hour
	default:
		return ""
	}
	return s.now().UTC().Add(-d).Format(timestampLayout)
}

func intQuery(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
