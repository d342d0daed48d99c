package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"blogapi/internal/domain"
	"blogapi/internal/query"
)

type postRepository struct {
	DB DBTX
}

func NewPostRepository(db DBTX) domain.PostRepository {
	return &postRepository{DB: db}
}

func (r *postRepository) List(ctx context.Context, params domain.QueryParams) ([]*domain.Post, error) {
	c := query.Compile(query.PostSchema, params)
	rows, err := r.DB.QueryContext(ctx, c.SQL, c.Args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func scanPost(rows *sql.Rows) (*domain.Post, error) {
	var (
		p                    domain.Post
		created, lastUpdated sql.NullTime
		content              sql.NullString
	)
	if err := rows.Scan(&p.ID, &p.Title, &p.Author, &created, &lastUpdated, &content); err != nil {
		return nil, err
	}
	p.Created = nullTime(created)
	p.LastUpdated = nullTime(lastUpdated)
	p.Content = nullString(content)
	return &p, nil
}

func (r *postRepository) Create(ctx context.Context, p *domain.Post) error {
	query := `
		INSERT INTO posts (title, author, content)
		VALUES ($1, $2, $3)
		RETURNING id, created
	`
	var created sql.NullTime
	if err := r.DB.QueryRowContext(ctx, query, p.Title, p.Author, p.Content).Scan(&p.ID, &created); err != nil {
		return fmt.Errorf("create post: %w", classify(err))
	}
	p.Created = nullTime(created)
	return nil
}

func (r *postRepository) Update(ctx context.Context, p *domain.Post) error {
	query := `
		UPDATE posts
		SET title = $1, author = $2, content = $3, last_updated = CURRENT_DATE
		WHERE id = $4
	`
	res, err := r.DB.ExecContext(ctx, query, p.Title, p.Author, p.Content, p.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return affectedOne(n)
}

func (r *postRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return affectedOne(n)
}

func (r *postRepository) TagsForPosts(ctx context.Context, postIDs []int64) (map[int64][]*domain.Tag, error) {
	out := make(map[int64][]*domain.Tag, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT pt.post_id, t.id, t.name
		FROM post_tags pt
		INNER JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ANY($1)
		ORDER BY t.id
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("load post tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID int64
		t := &domain.Tag{}
		if err := rows.Scan(&postID, &t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan post tag: %w", err)
		}
		out[postID] = append(out[postID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load post tags: %w", err)
	}
	return out, nil
}

func (r *postRepository) PostIDsByTag(ctx context.Context, tagID int64) ([]int64, error) {
	query := `
		SELECT DISTINCT post_id
		FROM post_tags
		WHERE tag_id = $1
		ORDER BY post_id
	`
	rows, err := r.DB.QueryContext(ctx, query, tagID)
	if err != nil {
		return nil, fmt.Errorf("list posts by tag: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan post id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
