package models

// Message is one archived Discord message as served by the archive backend.
// IDs are strings end to end: Discord snowflakes overflow float64 and the
// original viewer already stringified them at the API boundary.
type Message struct {
	ID               string   `json:"id"`
	ChannelID        string   `json:"channel_id"`
	GuildID          string   `json:"guild_id"`
	AuthorID         string   `json:"author_id"`
	AuthorName       string   `json:"author_name"`
	Content          string   `json:"content"`
	Timestamp        string   `json:"timestamp"`
	AttachmentsCount int      `json:"attachments_count"`
	AttachmentURLs   []string `json:"attachment_urls"`
	Flag             string   `json:"flag"`
}

// ReactionOption is one reaction candidate offered by the picker for a
// specific message. It only lives for the lifetime of the picker.
type ReactionOption struct {
	Name     string `json:"name"`
	ID       string `json:"id,omitempty"`
	Count    int    `json:"count"`
	EmojiStr string `json:"emoji_str"`
}

// WordCount is one row of the word-frequency statistics.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Guild and Channel mirror the scraper's archive tables.
type Guild struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Channel struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	GuildID string `json:"guild_id"`
}

// Attachment is one downloaded attachment row; LocalPath is relative to the
// attachments directory the server mounts.
type Attachment struct {
	MessageID   string `json:"message_id"`
	Filename    string `json:"filename"`
	LocalPath   string `json:"local_path"`
	ContentType string `json:"content_type"`
}
