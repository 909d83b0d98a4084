package chatdb

import (
	"context"
	"database/sql"
	"fmt"
)

// MarkRead flips the unread flag on all unread messages of the chat with the
// given identifier and returns the number of rows affected. This is the one
// write path into the store; it opens its own read-write connection so the
// read surface stays read-only.
func MarkRead(ctx context.Context, path, chatIdentifier string) (int64, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=rw")
	if err != nil {
		return 0, fmt.Errorf("open sqlite read-write: %w", err)
	}
	defer db.Close()

	res, err := db.ExecContext(ctx, `
		UPDATE message SET is_read = 1
		WHERE ROWID IN (
			SELECT m.ROWID FROM message m
			JOIN chat_message_join cmj ON m.ROWID = cmj.message_id
			JOIN chat c ON cmj.chat_id = c.ROWID
			WHERE c.chat_identifier = ? AND m.is_read = 0
		)
	`, chatIdentifier)
	if err != nil {
		return 0, fmt.Errorf("mark as read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}
