package cache

import (
	"fmt"
	"time"

	"github.com/fragmede/commentdesk/internal/api"
)

// PutSnapshot replaces the stored baseline with b in one transaction.
func (d *DB) PutSnapshot(b *api.Baseline) (err error) {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM comments`); err != nil {
		return fmt.Errorf("clearing comments: %w", err)
	}
	if _, err = tx.Exec(`DELETE FROM posts`); err != nil {
		return fmt.Errorf("clearing posts: %w", err)
	}

	now := time.Now().Unix()
	for i, c := range b.Comments {
		if _, err = tx.Exec(`INSERT OR REPLACE INTO comments
			(id, position, post_id, name, email, body, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ID, i, c.PostID, c.Name, c.Email, c.Body, now); err != nil {
			return fmt.Errorf("storing comment %d: %w", c.ID, err)
		}
	}
	for id, title := range b.PostTitles {
		if _, err = tx.Exec(`INSERT OR REPLACE INTO posts (id, title, fetched_at) VALUES (?, ?, ?)`,
			id, title, now); err != nil {
			return fmt.Errorf("storing post %d: %w", id, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// GetSnapshot returns the stored baseline in original fetch order and the
// time it was fetched. ok is false when nothing has been stored.
func (d *DB) GetSnapshot() (b *api.Baseline, fetchedAt time.Time, ok bool, err error) {
	comments, newest, err := d.snapshotComments()
	if err != nil {
		return nil, time.Time{}, false, err
	}
	if len(comments) == 0 {
		return nil, time.Time{}, false, nil
	}
	titles, err := d.snapshotTitles()
	if err != nil {
		return nil, time.Time{}, false, err
	}
	return &api.Baseline{Comments: comments, PostTitles: titles}, time.Unix(newest, 0), true, nil
}

// Rows are drained and closed before returning; the pool holds one connection.
func (d *DB) snapshotComments() ([]api.Comment, int64, error) {
	rows, err := d.db.Query(`SELECT id, post_id, name, email, body, fetched_at
		FROM comments ORDER BY position ASC`)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var comments []api.Comment
	var newest int64
	for rows.Next() {
		var c api.Comment
		var at int64
		if err := rows.Scan(&c.ID, &c.PostID, &c.Name, &c.Email, &c.Body, &at); err != nil {
			return nil, 0, err
		}
		if at > newest {
			newest = at
		}
		comments = append(comments, c)
	}
	return comments, newest, rows.Err()
}

func (d *DB) snapshotTitles() (map[int]string, error) {
	rows, err := d.db.Query(`SELECT id, title FROM posts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	titles := make(map[int]string)
	for rows.Next() {
		var id int
		var title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, err
		}
		titles[id] = title
	}
	return titles, rows.Err()
}
