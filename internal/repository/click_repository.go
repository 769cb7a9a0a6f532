package repository

import (
	"context"
	"fmt"

	"github.com/SergeiKhy/shortlink-analytics/internal/models"
)

type ClickRepository interface {
	Record(ctx context.Context, click *models.Click) error
	OriginStats(ctx context.Context, alias string) ([]models.OriginStats, error)
	DailyStats(ctx context.Context, aliases []string, days int) ([]models.DailyClicks, error)
	OSStats(ctx context.Context, aliases []string) ([]models.OSStats, error)
	DeviceStats(ctx context.Context, aliases []string) ([]models.DeviceStats, error)
	CountClicks(ctx context.Context, aliases []string) (int64, error)
	CountDistinctOrigins(ctx context.Context, aliases []string) (int64, error)
}

type clickRepository struct {
	db *PostgresDB
}

func NewClickRepository(db *PostgresDB) ClickRepository {
	return &clickRepository{db: db}
}

func (r *clickRepository) Record(ctx context.Context, click *models.Click) error {
	query := `
		INSERT INTO clicks (alias, ip_address, user_agent, os_name, device_name, clicked_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		click.Alias,
		click.IPAddress,
		click.UserAgent,
		click.OSName,
		click.DeviceName,
		click.ClickedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to record click: %w", err)
	}

	return nil
}

// OriginStats группирует все клики по alias по IP-адресу источника: счётчик
// событий и первые увиденные ОС/устройство/время, отсортировано по времени
// первого появления.
func (r *clickRepository) OriginStats(ctx context.Context, alias string) ([]models.OriginStats, error) {
	query := `
		SELECT
			ip_address,
			COUNT(*) AS clicks,
			(array_agg(os_name ORDER BY clicked_at))[1] AS os_name,
			(array_agg(device_name ORDER BY clicked_at))[1] AS device_name,
			MIN(clicked_at) AS first_seen
		FROM clicks
		WHERE alias = $1
		GROUP BY ip_address
		ORDER BY first_seen
	`

	rows, err := r.db.Pool.Query(ctx, query, alias)
	if err != nil {
		return nil, fmt.Errorf("failed to get origin stats: %w", err)
	}
	defer rows.Close()

	var stats []models.OriginStats
	for rows.Next() {
		var s models.OriginStats
		if err := rows.Scan(&s.IPAddress, &s.Clicks, &s.OSName, &s.DeviceName, &s.FirstSeen); err != nil {
			return nil, fmt.Errorf("failed to scan origin stat: %w", err)
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating origin stats: %w", err)
	}

	return stats, nil
}

// DailyStats дневной ряд кликов по набору алиасов, по возрастанию даты.
// days > 0 ограничивает ряд последними днями, days <= 0 — вся история.
func (r *clickRepository) DailyStats(ctx context.Context, aliases []string, days int) ([]models.DailyClicks, error) {
	query := `
		SELECT
			TO_CHAR(clicked_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS date,
			COUNT(*) AS clicks
		FROM clicks
		WHERE alias = ANY($1)
			AND ($2 <= 0 OR clicked_at >= NOW() - make_interval(days => $2))
		GROUP BY date
		ORDER BY date
	`

	rows, err := r.db.Pool.Query(ctx, query, aliases, days)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}
	defer rows.Close()

	var stats []models.DailyClicks
	for rows.Next() {
		var s models.DailyClicks
		if err := rows.Scan(&s.Date, &s.Clicks); err != nil {
			return nil, fmt.Errorf("failed to scan daily stat: %w", err)
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily stats: %w", err)
	}

	return stats, nil
}

func (r *clickRepository) OSStats(ctx context.Context, aliases []string) ([]models.OSStats, error) {
	query := `
		SELECT os_name, COUNT(*) AS clicks, COUNT(DISTINCT ip_address) AS users
		FROM clicks
		WHERE alias = ANY($1)
		GROUP BY os_name
		ORDER BY os_name
	`

	rows, err := r.db.Pool.Query(ctx, query, aliases)
	if err != nil {
		return nil, fmt.Errorf("failed to get os stats: %w", err)
	}
	defer rows.Close()

	var stats []models.OSStats
	for rows.Next() {
		var s models.OSStats
		if err := rows.Scan(&s.OSName, &s.UniqueClicks, &s.UniqueUsers); err != nil {
			return nil, fmt.Errorf("failed to scan os stat: %w", err)
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating os stats: %w", err)
	}

	return stats, nil
}

func (r *clickRepository) DeviceStats(ctx context.Context, aliases []string) ([]models.DeviceStats, error) {
	query := `
		SELECT device_name, COUNT(*) AS clicks, COUNT(DISTINCT ip_address) AS users
		FROM clicks
		WHERE alias = ANY($1)
		GROUP BY device_name
		ORDER BY device_name
	`

	rows, err := r.db.Pool.Query(ctx, query, aliases)
	if err != nil {
		return nil, fmt.Errorf("failed to get device stats: %w", err)
	}
	defer rows.Close()

	var stats []models.DeviceStats
	for rows.Next() {
		var s models.DeviceStats
		if err := rows.Scan(&s.DeviceName, &s.UniqueClicks, &s.UniqueUsers); err != nil {
			return nil, fmt.Errorf("failed to scan device stat: %w", err)
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating device stats: %w", err)
	}

	return stats, nil
}

func (r *clickRepository) CountClicks(ctx context.Context, aliases []string) (int64, error) {
	query := `SELECT COUNT(*) FROM clicks WHERE alias = ANY($1)`

	var count int64
	if err := r.db.Pool.QueryRow(ctx, query, aliases).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count clicks: %w", err)
	}

	return count, nil
}

func (r *clickRepository) CountDistinctOrigins(ctx context.Context, aliases []string) (int64, error) {
	query := `SELECT COUNT(DISTINCT ip_address) FROM clicks WHERE alias = ANY($1)`

	var count int64
	if err := r.db.Pool.QueryRow(ctx, query, aliases).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count distinct origins: %w", err)
	}

	return count, nil
}
