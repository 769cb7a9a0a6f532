package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/SergeiKhy/shortlink-analytics/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrURLNotFound = errors.New("short url not found")
	ErrAliasExists = errors.New("alias already exists")
)

// uniqueViolation код ошибки PostgreSQL для нарушения уникального ограничения
const uniqueViolation = "23505"

type URLRepository interface {
	Create(ctx context.Context, url *models.ShortURL) error
	GetByAlias(ctx context.Context, alias string) (*models.ShortURL, error)
	GetByUserAndAlias(ctx context.Context, userID, alias string) (*models.ShortURL, error)
	ListByUser(ctx context.Context, userID string) ([]models.ShortURL, error)
	ListByUserAndTopic(ctx context.Context, userID, topic string) ([]models.ShortURL, error)
}

type urlRepository struct {
	db *PostgresDB
}

func NewURLRepository(db *PostgresDB) URLRepository {
	return &urlRepository{db: db}
}

// Create вставляет новую ссылку. Уникальность alias гарантирует сама БД:
// нарушение ограничения транслируется в ErrAliasExists.
func (r *urlRepository) Create(ctx context.Context, url *models.ShortURL) error {
	query := `
		INSERT INTO urls (alias, long_url, topic, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.Pool.QueryRow(
		ctx,
		query,
		url.Alias,
		url.LongURL,
		url.Topic,
		url.UserID,
		url.CreatedAt,
	).Scan(&url.ID, &url.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrAliasExists
		}
		return fmt.Errorf("failed to create short url: %w", err)
	}

	return nil
}

func (r *urlRepository) GetByAlias(ctx context.Context, alias string) (*models.ShortURL, error) {
	query := `
		SELECT id, alias, long_url, topic, user_id, created_at
		FROM urls
		WHERE alias = $1
	`

	url := &models.ShortURL{}
	err := r.db.Pool.QueryRow(ctx, query, alias).Scan(
		&url.ID,
		&url.Alias,
		&url.LongURL,
		&url.Topic,
		&url.UserID,
		&url.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrURLNotFound
		}
		return nil, fmt.Errorf("failed to get short url: %w", err)
	}

	return url, nil
}

// GetByUserAndAlias находит ссылку только среди принадлежащих пользователю.
// Чужой alias неотличим от несуществующего — это защита от перебора.
func (r *urlRepository) GetByUserAndAlias(ctx context.Context, userID, alias string) (*models.ShortURL, error) {
	query := `
		SELECT id, alias, long_url, topic, user_id, created_at
		FROM urls
		WHERE user_id = $1 AND alias = $2
	`

	url := &models.ShortURL{}
	err := r.db.Pool.QueryRow(ctx, query, userID, alias).Scan(
		&url.ID,
		&url.Alias,
		&url.LongURL,
		&url.Topic,
		&url.UserID,
		&url.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrURLNotFound
		}
		return nil, fmt.Errorf("failed to get short url: %w", err)
	}

	return url, nil
}

func (r *urlRepository) ListByUser(ctx context.Context, userID string) ([]models.ShortURL, error) {
	query := `
		SELECT id, alias, long_url, topic, user_id, created_at
		FROM urls
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list urls by user: %w", err)
	}
	defer rows.Close()

	return scanURLs(rows)
}

func (r *urlRepository) ListByUserAndTopic(ctx context.Context, userID, topic string) ([]models.ShortURL, error) {
	query := `
		SELECT id, alias, long_url, topic, user_id, created_at
		FROM urls
		WHERE user_id = $1 AND topic = $2
		ORDER BY created_at
	`

	rows, err := r.db.Pool.Query(ctx, query, userID, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to list urls by topic: %w", err)
	}
	defer rows.Close()

	return scanURLs(rows)
}

func scanURLs(rows pgx.Rows) ([]models.ShortURL, error) {
	var urls []models.ShortURL
	for rows.Next() {
		var url models.ShortURL
		if err := rows.Scan(
			&url.ID,
			&url.Alias,
			&url.LongURL,
			&url.Topic,
			&url.UserID,
			&url.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan short url: %w", err)
		}
		urls = append(urls, url)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating urls: %w", err)
	}

	return urls, nil
}
