// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const commentColumns = `id, body, author_id, post_id, created_at, updated_at`

func scanComment(row *sql.Row) (Comment, error) {
	var c Comment
	err := row.Scan(&c.ID, &c.Body, &c.AuthorID, &c.PostID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// CreateCommentParams holds the fields for CreateComment. AuthorID and
// PostID come from the session and the URL, never from submitted data.
type CreateCommentParams struct {
	Body      string
	AuthorID  int64
	PostID    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateComment inserts a new comment and returns the created row.
func (q *Queries) CreateComment(ctx context.Context, arg CreateCommentParams) (Comment, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO comments (body, author_id, post_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+commentColumns,
		arg.Body, arg.AuthorID, arg.PostID, arg.CreatedAt, arg.UpdatedAt)
	return scanComment(row)
}

// GetCommentByID fetches a comment by primary key.
func (q *Queries) GetCommentByID(ctx context.Context, id int64) (Comment, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = ?`, id)
	return scanComment(row)
}

// ListCommentsByPost returns a post's comments oldest first, each joined
// with its author's identity.
func (q *Queries) ListCommentsByPost(ctx context.Context, postID int64) ([]CommentWithAuthor, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT c.id, c.body, c.author_id, c.post_id, c.created_at, c.updated_at,
			u.username, u.first_name, u.last_name
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = ?
		ORDER BY c.created_at ASC, c.id ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []CommentWithAuthor
	for rows.Next() {
		var c CommentWithAuthor
		if err := rows.Scan(&c.ID, &c.Body, &c.AuthorID, &c.PostID, &c.CreatedAt, &c.UpdatedAt,
			&c.AuthorUsername, &c.AuthorFirstName, &c.AuthorLastName); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// CountCommentsByPost returns the live number of comments on a post.
func (q *Queries) CountCommentsByPost(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE post_id = ?`, postID).Scan(&count)
	return count, err
}

// UpdateCommentParams holds the fields for UpdateComment.
type UpdateCommentParams struct {
	Body      string
	UpdatedAt time.Time
	ID        int64
}

// UpdateComment updates a comment's body and returns the updated row.
func (q *Queries) UpdateComment(ctx context.Context, arg UpdateCommentParams) (Comment, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE comments SET body = ?, updated_at = ? WHERE id = ?
		RETURNING `+commentColumns,
		arg.Body, arg.UpdatedAt, arg.ID)
	return scanComment(row)
}

// DeleteComment removes a comment.
func (q *Queries) DeleteComment(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("comment %d: %w", id, sql.ErrNoRows)
	}
	return nil
}
