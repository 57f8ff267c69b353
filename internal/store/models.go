// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"

	"github.com/olegiv/oblog-go/internal/model"
)

// User represents a registered author or commenter.
type User struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Never expose in JSON
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	LastLoginAt  sql.NullTime `json:"last_login_at,omitempty"`
}

// FullName returns the user's display name, falling back to the username.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}

// Category groups posts under a unique URL slug.
type Category struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Slug        string    `json:"slug"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

// Location is an optional place tag on a post.
type Location struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

// Post is a blog entry.
type Post struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Body        string         `json:"body"`
	ImagePath   sql.NullString `json:"image_path,omitempty"`
	AuthorID    int64          `json:"author_id"`
	CategoryID  int64          `json:"category_id"`
	LocationID  sql.NullInt64  `json:"location_id,omitempty"`
	IsPublished bool           `json:"is_published"`
	PubDate     time.Time      `json:"pub_date"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Comment is a reply attached to a post.
type Comment struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	AuthorID  int64     `json:"author_id"`
	PostID    int64     `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Event is an audit log entry.
type Event struct {
	ID        int64         `json:"id"`
	Level     string        `json:"level"`
	Category  string        `json:"category"`
	Message   string        `json:"message"`
	UserID    sql.NullInt64 `json:"user_id,omitempty"`
	IpAddress string        `json:"ip_address"`
	Metadata  string        `json:"metadata"`
	CreatedAt time.Time     `json:"created_at"`
}

// FeedPost is a post joined with its author, category, and optional
// location, annotated with a live comment count. Every listing and the
// detail page read this shape so related data is fetched in one query.
type FeedPost struct {
	Post
	CommentCount        int64
	AuthorUsername      string
	AuthorFirstName     string
	AuthorLastName      string
	CategoryTitle       string
	CategorySlug        string
	CategoryIsPublished bool
	LocationName        sql.NullString
}

// AuthorName returns the post author's display name.
func (p *FeedPost) AuthorName() string {
	u := User{Username: p.AuthorUsername, FirstName: p.AuthorFirstName, LastName: p.AuthorLastName}
	return u.FullName()
}

// Access extracts the fields the visibility rule operates on.
func (p *FeedPost) Access() model.PostAccess {
	return model.PostAccess{
		AuthorID:          p.AuthorID,
		IsPublished:       p.IsPublished,
		PubDate:           p.PubDate,
		CategoryPublished: p.CategoryIsPublished,
	}
}

// CommentWithAuthor is a comment joined with its author's identity.
type CommentWithAuthor struct {
	Comment
	AuthorUsername  string
	AuthorFirstName string
	AuthorLastName  string
}

// AuthorName returns the comment author's display name.
func (c *CommentWithAuthor) AuthorName() string {
	u := User{Username: c.AuthorUsername, FirstName: c.AuthorFirstName, LastName: c.AuthorLastName}
	return u.FullName()
}
