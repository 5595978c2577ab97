package postgres

import (
	"context"

	"github.com/dkovac/chatter/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Append(ctx context.Context, msg *domain.Message) (int64, error) {
	query := `
		INSERT INTO messages (user_id, username, message, profile_pic, message_type,
			attachment_url, attachment_name, attachment_size, attachment_icon, formatted_size, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	var url, name, icon, formatted *string
	var size *int64
	if a := msg.Attachment; a != nil {
		url, name, icon, formatted = &a.URL, &a.OriginalName, &a.IconGlyph, &a.FormattedSize
		size = &a.SizeBytes
	}

	var id int64
	err := r.pool.QueryRow(ctx, query,
		msg.UserID, msg.Username, msg.Text, msg.ProfilePic, msg.Type,
		url, name, size, icon, formatted, msg.Timestamp,
	).Scan(&id)
	return id, err
}

func (r *MessageRepo) ListRecent(ctx context.Context, limit int) ([]domain.Message, error) {
	query := `
		SELECT id, user_id, username, message, profile_pic, message_type,
			attachment_url, attachment_name, attachment_size, attachment_icon, formatted_size, sent_at
		FROM messages
		ORDER BY id DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var url, name, icon, formatted *string
		var size *int64
		if err := rows.Scan(
			&msg.ID, &msg.UserID, &msg.Username, &msg.Text, &msg.ProfilePic, &msg.Type,
			&url, &name, &size, &icon, &formatted, &msg.Timestamp,
		); err != nil {
			return nil, err
		}
		if url != nil {
			msg.Attachment = &domain.Attachment{URL: *url}
			if name != nil {
				msg.Attachment.OriginalName = *name
			}
			if size != nil {
				msg.Attachment.SizeBytes = *size
			}
			if icon != nil {
				msg.Attachment.IconGlyph = *icon
			}
			if formatted != nil {
				msg.Attachment.FormattedSize = *formatted
			}
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Query is newest-first; flip to chronological for the client.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
