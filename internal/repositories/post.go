package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/amsavalli07/socialsync/internal/models"
	"github.com/amsavalli07/socialsync/internal/shared"
)

// PostRepository persists [models.Post] records. Posts are append-only.
type PostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new [PostRepository] with the given database connection
func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a post with generated ID and sequence
func (r *PostRepository) Create(post *models.Post) error {
	post.SetID(shared.GenerateID())
	if err := post.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "posts")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	post.SetSequence(sequence)

	query := `
		INSERT INTO posts (id, sequence, caption, format, width, height, size_bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query,
		post.ID(), sequence, post.Caption(), post.Format(), post.Width(), post.Height(), post.SizeBytes(), post.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// Get retrieves a post by ID
func (r *PostRepository) Get(id string) (*models.Post, error) {
	row := r.db.QueryRow(
		"SELECT id, sequence, caption, format, width, height, size_bytes, created_at FROM posts WHERE id = ?", id,
	)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: post %s", ErrNotFound, id)
	}
	return post, err
}

// List returns the most recent posts first, at most limit when limit > 0.
func (r *PostRepository) List(limit int) ([]*models.Post, error) {
	query := "SELECT id, sequence, caption, format, width, height, size_bytes, created_at FROM posts ORDER BY sequence DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return posts, nil
}

func scanPost(s scanner) (*models.Post, error) {
	var (
		id, caption, format     string
		sequence, width, height int
		size                    int
		createdAt               time.Time
	)

	err := s.Scan(&id, &sequence, &caption, &format, &width, &height, &size, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}

	post := models.NewPost(sequence, caption, format, width, height, size)
	post.SetID(id)
	post.SetCreatedAt(createdAt)
	return post, nil
}
