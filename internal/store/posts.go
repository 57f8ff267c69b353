// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Every listing reads the same joined shape: author, category, and
// location are fetched in the same query, and the comment count is a
// correlated subquery so it is always the live count.
const feedPostColumns = `p.id, p.title, p.body, p.image_path, p.author_id, p.category_id, p.location_id,
	p.is_published, p.pub_date, p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM comments cm WHERE cm.post_id = p.id) AS comment_count,
	u.username, u.first_name, u.last_name,
	c.title, c.slug, c.is_published,
	l.name`

const feedPostFrom = ` FROM posts p
	JOIN users u ON u.id = p.author_id
	JOIN categories c ON c.id = p.category_id
	LEFT JOIN locations l ON l.id = p.location_id`

// publicPostFilter is the public branch of the visibility rule. The
// pub_date bound is always the caller's wall-clock "now".
const publicPostFilter = `p.is_published = 1 AND p.pub_date < ? AND c.is_published = 1`

// feedPostOrder sorts newest first with the post ID as a deterministic tiebreak.
const feedPostOrder = ` ORDER BY p.pub_date DESC, p.id DESC`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeedPost(row rowScanner) (FeedPost, error) {
	var p FeedPost
	err := row.Scan(&p.ID, &p.Title, &p.Body, &p.ImagePath, &p.AuthorID, &p.CategoryID, &p.LocationID,
		&p.IsPublished, &p.PubDate, &p.CreatedAt, &p.UpdatedAt,
		&p.CommentCount,
		&p.AuthorUsername, &p.AuthorFirstName, &p.AuthorLastName,
		&p.CategoryTitle, &p.CategorySlug, &p.CategoryIsPublished,
		&p.LocationName)
	return p, err
}

func (q *Queries) listFeedPosts(ctx context.Context, query string, args ...any) ([]FeedPost, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []FeedPost
	for rows.Next() {
		p, err := scanFeedPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (q *Queries) countPosts(ctx context.Context, where string, args ...any) (int64, error) {
	query := `SELECT COUNT(*)` + feedPostFrom
	if where != "" {
		query += ` WHERE ` + where
	}
	var count int64
	err := q.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// ListPublicPostsParams holds the fields for ListPublicPosts.
type ListPublicPostsParams struct {
	Now    time.Time
	Limit  int64
	Offset int64
}

// ListPublicPosts returns the page of publicly visible posts, newest first.
func (q *Queries) ListPublicPosts(ctx context.Context, arg ListPublicPostsParams) ([]FeedPost, error) {
	query := `SELECT ` + feedPostColumns + feedPostFrom +
		` WHERE ` + publicPostFilter + feedPostOrder + ` LIMIT ? OFFSET ?`
	return q.listFeedPosts(ctx, query, arg.Now, arg.Limit, arg.Offset)
}

// CountPublicPosts returns the number of publicly visible posts.
func (q *Queries) CountPublicPosts(ctx context.Context, now time.Time) (int64, error) {
	return q.countPosts(ctx, publicPostFilter, now)
}

// ListPublicPostsByCategoryParams holds the fields for ListPublicPostsByCategory.
type ListPublicPostsByCategoryParams struct {
	CategoryID int64
	Now        time.Time
	Limit      int64
	Offset     int64
}

// ListPublicPostsByCategory returns the page of publicly visible posts in a category.
func (q *Queries) ListPublicPostsByCategory(ctx context.Context, arg ListPublicPostsByCategoryParams) ([]FeedPost, error) {
	query := `SELECT ` + feedPostColumns + feedPostFrom +
		` WHERE p.category_id = ? AND ` + publicPostFilter + feedPostOrder + ` LIMIT ? OFFSET ?`
	return q.listFeedPosts(ctx, query, arg.CategoryID, arg.Now, arg.Limit, arg.Offset)
}

// CountPublicPostsByCategoryParams holds the fields for CountPublicPostsByCategory.
type CountPublicPostsByCategoryParams struct {
	CategoryID int64
	Now        time.Time
}

// CountPublicPostsByCategory returns the number of publicly visible posts in a category.
func (q *Queries) CountPublicPostsByCategory(ctx context.Context, arg CountPublicPostsByCategoryParams) (int64, error) {
	return q.countPosts(ctx, `p.category_id = ? AND `+publicPostFilter, arg.CategoryID, arg.Now)
}

// ListPublicPostsByAuthorParams holds the fields for ListPublicPostsByAuthor.
type ListPublicPostsByAuthorParams struct {
	AuthorID int64
	Now      time.Time
	Limit    int64
	Offset   int64
}

// ListPublicPostsByAuthor returns the page of an author's publicly visible posts.
func (q *Queries) ListPublicPostsByAuthor(ctx context.Context, arg ListPublicPostsByAuthorParams) ([]FeedPost, error) {
	query := `SELECT ` + feedPostColumns + feedPostFrom +
		` WHERE p.author_id = ? AND ` + publicPostFilter + feedPostOrder + ` LIMIT ? OFFSET ?`
	return q.listFeedPosts(ctx, query, arg.AuthorID, arg.Now, arg.Limit, arg.Offset)
}

// CountPublicPostsByAuthorParams holds the fields for CountPublicPostsByAuthor.
type CountPublicPostsByAuthorParams struct {
	AuthorID int64
	Now      time.Time
}

// CountPublicPostsByAuthor returns the number of an author's publicly visible posts.
func (q *Queries) CountPublicPostsByAuthor(ctx context.Context, arg CountPublicPostsByAuthorParams) (int64, error) {
	return q.countPosts(ctx, `p.author_id = ? AND `+publicPostFilter, arg.AuthorID, arg.Now)
}

// ListPostsByAuthorParams holds the fields for ListPostsByAuthor.
type ListPostsByAuthorParams struct {
	AuthorID int64
	Limit    int64
	Offset   int64
}

// ListPostsByAuthor returns the page of ALL of an author's posts, drafts
// and future publication dates included. Only the author's own profile
// view may use this.
func (q *Queries) ListPostsByAuthor(ctx context.Context, arg ListPostsByAuthorParams) ([]FeedPost, error) {
	query := `SELECT ` + feedPostColumns + feedPostFrom +
		` WHERE p.author_id = ?` + feedPostOrder + ` LIMIT ? OFFSET ?`
	return q.listFeedPosts(ctx, query, arg.AuthorID, arg.Limit, arg.Offset)
}

// CountPostsByAuthor returns the total number of an author's posts.
func (q *Queries) CountPostsByAuthor(ctx context.Context, authorID int64) (int64, error) {
	return q.countPosts(ctx, `p.author_id = ?`, authorID)
}

// GetPostByID fetches one post with its related data and comment count.
// No visibility filter is applied here; callers decide with the
// visibility rule and treat invisible posts as absent.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (FeedPost, error) {
	query := `SELECT ` + feedPostColumns + feedPostFrom + ` WHERE p.id = ?`
	return scanFeedPost(q.db.QueryRowContext(ctx, query, id))
}

const postColumns = `id, title, body, image_path, author_id, category_id, location_id, is_published, pub_date, created_at, updated_at`

func scanPost(row *sql.Row) (Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Body, &p.ImagePath, &p.AuthorID, &p.CategoryID,
		&p.LocationID, &p.IsPublished, &p.PubDate, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreatePostParams holds the fields for CreatePost. AuthorID is always
// set by the server from the session, never from submitted form data.
type CreatePostParams struct {
	Title       string
	Body        string
	ImagePath   sql.NullString
	AuthorID    int64
	CategoryID  int64
	LocationID  sql.NullInt64
	IsPublished bool
	PubDate     time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreatePost inserts a new post and returns the created row.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, body, image_path, author_id, category_id, location_id, is_published, pub_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+postColumns,
		arg.Title, arg.Body, arg.ImagePath, arg.AuthorID, arg.CategoryID, arg.LocationID,
		arg.IsPublished, arg.PubDate, arg.CreatedAt, arg.UpdatedAt)
	return scanPost(row)
}

// UpdatePostParams holds the fields for UpdatePost. The author never changes.
type UpdatePostParams struct {
	Title       string
	Body        string
	ImagePath   sql.NullString
	CategoryID  int64
	LocationID  sql.NullInt64
	IsPublished bool
	PubDate     time.Time
	UpdatedAt   time.Time
	ID          int64
}

// UpdatePost updates a post's editable fields and returns the updated row.
func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE posts
		SET title = ?, body = ?, image_path = ?, category_id = ?, location_id = ?, is_published = ?, pub_date = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+postColumns,
		arg.Title, arg.Body, arg.ImagePath, arg.CategoryID, arg.LocationID,
		arg.IsPublished, arg.PubDate, arg.UpdatedAt, arg.ID)
	return scanPost(row)
}

// DeletePost removes a post; its comments cascade.
func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("post %d: %w", id, sql.ErrNoRows)
	}
	return nil
}
