package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/models"
)

const messageColumns = "id, channel_id, guild_id, author_id, author_name, content, timestamp, attachments_count, flag"

func scanMessage(rows *sql.Rows) (*models.Message, error) {
	var m models.Message
	var content sql.NullString
	if err := rows.Scan(&m.ID, &m.ChannelID, &m.GuildID, &m.AuthorID, &m.AuthorName,
		&content, &m.Timestamp, &m.AttachmentsCount, &m.Flag); err != nil {
		return nil, err
	}
	m.Content = content.String
	if m.Flag == "" {
		m.Flag = "none"
	}
	return &m, nil
}

// SaveGuild upserts a guild row.
func (s *Store) SaveGuild(ctx context.Context, g models.Guild) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO guilds (id, name) VALUES (?, ?)`, g.ID, g.Name)
	if err != nil {
		return fmt.Errorf("save guild: %w", err)
	}
	return nil
}

// SaveChannel upserts a channel row.
func (s *Store) SaveChannel(ctx context.Context, c models.Channel) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO channels (id, name, guild_id) VALUES (?, ?, ?)`,
		c.ID, c.Name, c.GuildID)
	if err != nil {
		return fmt.Errorf("save channel: %w", err)
	}
	return nil
}

// SaveMessage inserts a message if it is not already archived. Existing rows
// keep their flag.
func (s *Store) SaveMessage(ctx context.Context, m *models.Message) error {
	flag := m.Flag
	if flag == "" {
		flag = "none"
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO messages
  (id, channel_id, guild_id, author_id, author_name, content, timestamp, attachments_count, flag)
  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ChannelID, m.GuildID, m.AuthorID, m.AuthorName, m.Content, m.Timestamp, m.AttachmentsCount, flag)
	if err != nil {
		return fmt.Errorf("save message: %w", err)
	}
	return nil
}

// SaveAttachment records one downloaded attachment.
func (s *Store) SaveAttachment(ctx context.Context, a models.Attachment) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO attachments (message_id, filename, local_path, content_type)
  VALUES (?, ?, ?, ?)`, a.MessageID, a.Filename, a.LocalPath, a.ContentType)
	if err != nil {
		return fmt.Errorf("save attachment: %w", err)
	}
	return nil
}

// AttachmentPaths returns the stored local paths for a message's attachments.
func (s *Store) AttachmentPaths(ctx context.Context, messageID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT local_path FROM attachments WHERE message_id = ? ORDER BY id`, messageID)
	if err != nil {
		return nil, fmt.Errorf("query attachments: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// SearchMessages returns messages matching the optional keyword and username
// substrings, newest first.
func (s *Store) SearchMessages(ctx context.Context, keyword, username string, limit, offset int) ([]*models.Message, error) {
	query := "SELECT " + messageColumns + " FROM messages WHERE 1=1"
	var args []any
	if keyword != "" {
		query += " AND content LIKE ?"
		args = append(args, "%"+keyword+"%")
	}
	if username != "" {
		query += " AND author_name LIKE ?"
		args = append(args, "%"+username+"%")
	}
	query += " ORDER BY timestamp DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search messages: %w", err)
	}
	defer rows.Close()

	var msgs []*models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// GetMessage returns one message by ID, or sql.ErrNoRows.
func (s *Store) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+messageColumns+" FROM messages WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, sql.ErrNoRows
	}
	return scanMessage(rows)
}

// ContextWindow returns up to radius messages on each side of the target in
// the same channel, target included, in channel order. Timestamp ties are
// broken by numeric message ID, matching snowflake order.
func (s *Store) ContextWindow(ctx context.Context, id string, radius int) ([]*models.Message, error) {
	target, err := s.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}

	queryBefore := "SELECT " + messageColumns + ` FROM messages
  WHERE channel_id = ? AND (timestamp < ? OR (timestamp = ? AND CAST(id AS INTEGER) < CAST(? AS INTEGER)))
  ORDER BY timestamp DESC, CAST(id AS INTEGER) DESC LIMIT ?`
	before, err := s.queryMessages(ctx, queryBefore, target.ChannelID, target.Timestamp, target.Timestamp, target.ID, radius)
	if err != nil {
		return nil, fmt.Errorf("context before: %w", err)
	}

	queryAfter := "SELECT " + messageColumns + ` FROM messages
  WHERE channel_id = ? AND (timestamp > ? OR (timestamp = ? AND CAST(id AS INTEGER) > CAST(? AS INTEGER)))
  ORDER BY timestamp ASC, CAST(id AS INTEGER) ASC LIMIT ?`
	after, err := s.queryMessages(ctx, queryAfter, target.ChannelID, target.Timestamp, target.Timestamp, target.ID, radius)
	if err != nil {
		return nil, fmt.Errorf("context after: %w", err)
	}

	// before came out newest-first; flip into chronological order.
	out := make([]*models.Message, 0, len(before)+len(after)+1)
	for i := len(before) - 1; i >= 0; i-- {
		out = append(out, before[i])
	}
	out = append(out, target)
	out = append(out, after...)
	return out, nil
}

func (s *Store) queryMessages(ctx context.Context, query string, args ...any) ([]*models.Message, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// UpdateFlag writes a new raw flag value. Returns sql.ErrNoRows when the
// message is not archived.
func (s *Store) UpdateFlag(ctx context.Context, id, flag string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE messages SET flag = ? WHERE id = ?`, flag, id)
	if err != nil {
		return fmt.Errorf("update flag: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MessageContents returns the non-empty message bodies, optionally limited to
// rows with timestamp >= sinceISO.
func (s *Store) MessageContents(ctx context.Context, sinceISO string) ([]string, error) {
	query := "SELECT content FROM messages WHERE content IS NOT NULL AND content != ''"
	var args []any
	if sinceISO != "" {
		query += " AND timestamp >= ?"
		args = append(args, sinceISO)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query contents: %w", err)
	}
	defer rows.Close()

	var contents []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		contents = append(contents, c)
	}
	return contents, rows.Err()
}

// PendingReaction is one queued reaction waiting for the bot to deliver.
type PendingReaction struct {
	MessageID string
	ChannelID string
	Flag      string
}

// PendingReactions lists the messages whose flag carries a queued reaction.
func (s *Store) PendingReactions(ctx context.Context) ([]PendingReaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, channel_id, flag FROM messages WHERE flag LIKE 'pending_react:%'`)
	if err != nil {
		return nil, fmt.Errorf("query pending reactions: %w", err)
	}
	defer rows.Close()

	var pending []PendingReaction
	for rows.Next() {
		var p PendingReaction
		if err := rows.Scan(&p.MessageID, &p.ChannelID, &p.Flag); err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// LastMessageID returns the numerically largest archived message ID in a
// channel, or "" when the channel has no history yet.
func (s *Store) LastMessageID(ctx context.Context, channelID string) (string, error) {
	var id sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM messages WHERE channel_id = ? ORDER BY CAST(id AS INTEGER) DESC LIMIT 1`,
		channelID).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("last message id: %w", err)
	}
	return id.String, nil
}

// CountMessages returns the number of archived messages in a channel.
func (s *Store) CountMessages(ctx context.Context, channelID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE channel_id = ?`, channelID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}

// DeleteChannelHistory removes all archived messages and attachment rows for
// a channel. Used when a channel lands on the ignore list.
func (s *Store) DeleteChannelHistory(ctx context.Context, channelID string) (int64, error) {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM attachments WHERE message_id IN (SELECT id FROM messages WHERE channel_id = ?)`,
		channelID)
	if err != nil {
		return 0, fmt.Errorf("delete channel attachments: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE channel_id = ?`, channelID)
	if err != nil {
		return 0, fmt.Errorf("delete channel history: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
