package mocks

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/SergeiKhy/shortlink-analytics/internal/models"
	"github.com/SergeiKhy/shortlink-analytics/internal/repository"
)

// MockURLRepository implements repository.URLRepository for testing
type MockURLRepository struct {
	mu     sync.RWMutex
	urls   map[string]*models.ShortURL
	nextID int64
	// FailReads имитирует недоступность БД на чтении
	FailReads bool
}

func NewMockURLRepository() *MockURLRepository {
	return &MockURLRepository{
		urls:   make(map[string]*models.ShortURL),
		nextID: 1,
	}
}

var errStoreDown = errors.New("store unavailable")

func (m *MockURLRepository) Create(ctx context.Context, url *models.ShortURL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.urls[url.Alias]; exists {
		return repository.ErrAliasExists
	}

	url.ID = m.nextID
	m.nextID++
	stored := *url
	m.urls[url.Alias] = &stored
	return nil
}

func (m *MockURLRepository) GetByAlias(ctx context.Context, alias string) (*models.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FailReads {
		return nil, errStoreDown
	}

	url, exists := m.urls[alias]
	if !exists {
		return nil, repository.ErrURLNotFound
	}
	copied := *url
	return &copied, nil
}

func (m *MockURLRepository) GetByUserAndAlias(ctx context.Context, userID, alias string) (*models.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FailReads {
		return nil, errStoreDown
	}

	url, exists := m.urls[alias]
	if !exists || url.UserID != userID {
		return nil, repository.ErrURLNotFound
	}
	copied := *url
	return &copied, nil
}

func (m *MockURLRepository) ListByUser(ctx context.Context, userID string) ([]models.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var urls []models.ShortURL
	for _, url := range m.urls {
		if url.UserID == userID {
			urls = append(urls, *url)
		}
	}
	sort.Slice(urls, func(i, j int) bool { return urls[i].ID < urls[j].ID })
	return urls, nil
}

func (m *MockURLRepository) ListByUserAndTopic(ctx context.Context, userID, topic string) ([]models.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var urls []models.ShortURL
	for _, url := range m.urls {
		if url.UserID == userID && url.Topic != nil && *url.Topic == topic {
			urls = append(urls, *url)
		}
	}
	sort.Slice(urls, func(i, j int) bool { return urls[i].ID < urls[j].ID })
	return urls, nil
}

func (m *MockURLRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urls = make(map[string]*models.ShortURL)
	m.nextID = 1
}

// MockClickRepository implements repository.ClickRepository in memory,
// повторяя семантику SQL-агрегаций
type MockClickRepository struct {
	mu     sync.RWMutex
	clicks []models.Click
	// FailWrites имитирует отказ записи клика
	FailWrites bool
	// QueryCount считает обращения к агрегационным запросам
	QueryCount int
}

func NewMockClickRepository() *MockClickRepository {
	return &MockClickRepository{}
}

func (m *MockClickRepository) Record(ctx context.Context, click *models.Click) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites {
		return errors.New("click log unavailable")
	}

	stored := *click
	stored.ID = int64(len(m.clicks) + 1)
	m.clicks = append(m.clicks, stored)
	return nil
}

func (m *MockClickRepository) OriginStats(ctx context.Context, alias string) ([]models.OriginStats, error) {
	m.mu.Lock()
	m.QueryCount++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	index := make(map[string]int)
	var stats []models.OriginStats
	for _, c := range m.clicks {
		if c.Alias != alias {
			continue
		}
		if i, seen := index[c.IPAddress]; seen {
			stats[i].Clicks++
			continue
		}
		index[c.IPAddress] = len(stats)
		stats = append(stats, models.OriginStats{
			IPAddress:  c.IPAddress,
			Clicks:     1,
			OSName:     c.OSName,
			DeviceName: c.DeviceName,
			FirstSeen:  c.ClickedAt,
		})
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].FirstSeen.Before(stats[j].FirstSeen) })
	return stats, nil
}

func (m *MockClickRepository) DailyStats(ctx context.Context, aliases []string, days int) ([]models.DailyClicks, error) {
	m.mu.Lock()
	m.QueryCount++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	var cutoff time.Time
	if days > 0 {
		cutoff = time.Now().AddDate(0, 0, -days)
	}

	set := aliasSet(aliases)
	byDate := make(map[string]int64)
	for _, c := range m.clicks {
		if !set[c.Alias] {
			continue
		}
		if days > 0 && c.ClickedAt.Before(cutoff) {
			continue
		}
		byDate[c.ClickedAt.UTC().Format("2006-01-02")]++
	}

	stats := make([]models.DailyClicks, 0, len(byDate))
	for date, clicks := range byDate {
		stats = append(stats, models.DailyClicks{Date: date, Clicks: clicks})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Date < stats[j].Date })
	if len(stats) == 0 {
		return nil, nil
	}
	return stats, nil
}

func (m *MockClickRepository) OSStats(ctx context.Context, aliases []string) ([]models.OSStats, error) {
	m.mu.Lock()
	m.QueryCount++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	set := aliasSet(aliases)
	counts := make(map[string]int64)
	users := make(map[string]map[string]bool)
	for _, c := range m.clicks {
		if !set[c.Alias] {
			continue
		}
		counts[c.OSName]++
		if users[c.OSName] == nil {
			users[c.OSName] = make(map[string]bool)
		}
		users[c.OSName][c.IPAddress] = true
	}

	stats := make([]models.OSStats, 0, len(counts))
	for name, clicks := range counts {
		stats = append(stats, models.OSStats{
			OSName:       name,
			UniqueClicks: clicks,
			UniqueUsers:  int64(len(users[name])),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].OSName < stats[j].OSName })
	if len(stats) == 0 {
		return nil, nil
	}
	return stats, nil
}

func (m *MockClickRepository) DeviceStats(ctx context.Context, aliases []string) ([]models.DeviceStats, error) {
	m.mu.Lock()
	m.QueryCount++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	set := aliasSet(aliases)
	counts := make(map[string]int64)
	users := make(map[string]map[string]bool)
	for _, c := range m.clicks {
		if !set[c.Alias] {
			continue
		}
		counts[c.DeviceName]++
		if users[c.DeviceName] == nil {
			users[c.DeviceName] = make(map[string]bool)
		}
		users[c.DeviceName][c.IPAddress] = true
	}

	stats := make([]models.DeviceStats, 0, len(counts))
	for name, clicks := range counts {
		stats = append(stats, models.DeviceStats{
			DeviceName:   name,
			UniqueClicks: clicks,
			UniqueUsers:  int64(len(users[name])),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].DeviceName < stats[j].DeviceName })
	if len(stats) == 0 {
		return nil, nil
	}
	return stats, nil
}

func (m *MockClickRepository) CountClicks(ctx context.Context, aliases []string) (int64, error) {
	m.mu.Lock()
	m.QueryCount++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	set := aliasSet(aliases)
	var count int64
	for _, c := range m.clicks {
		if set[c.Alias] {
			count++
		}
	}
	return count, nil
}

func (m *MockClickRepository) CountDistinctOrigins(ctx context.Context, aliases []string) (int64, error) {
	m.mu.Lock()
	m.QueryCount++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	set := aliasSet(aliases)
	origins := make(map[string]bool)
	for _, c := range m.clicks {
		if set[c.Alias] {
			origins[c.IPAddress] = true
		}
	}
	return int64(len(origins)), nil
}

// Clicks возвращает копию всех записанных кликов
func (m *MockClickRepository) Clicks() []models.Click {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Click(nil), m.clicks...)
}

// Add кладёт клик напрямую, минуя Record (для подготовки данных в тестах)
func (m *MockClickRepository) Add(click models.Click) {
	m.mu.Lock()
	defer m.mu.Unlock()
	click.ID = int64(len(m.clicks) + 1)
	m.clicks = append(m.clicks, click)
}

func (m *MockClickRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clicks = nil
	m.QueryCount = 0
}

func aliasSet(aliases []string) map[string]bool {
	set := make(map[string]bool, len(aliases))
	for _, a := range aliases {
		set[a] = true
	}
	return set
}

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// MockCacheRepository implements repository.CacheRepository with honest TTL
type MockCacheRepository struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	// FailAll имитирует недоступность кэша целиком
	FailAll bool
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		entries: make(map[string]cacheEntry),
	}
}

var errCacheDown = errors.New("cache unavailable")

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FailAll {
		return nil, errCacheDown
	}

	entry, exists := m.entries[key]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, repository.ErrCacheMiss
	}
	return append([]byte(nil), entry.value...), nil
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailAll {
		return errCacheDown
	}

	m.entries[key] = cacheEntry{
		value:     append([]byte(nil), value...),
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// ExpireAll принудительно просрочивает все записи (для проверки TTL)
func (m *MockCacheRepository) ExpireAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, entry := range m.entries {
		entry.expiresAt = time.Now().Add(-time.Second)
		m.entries[key] = entry
	}
}

// Contains проверяет наличие живой записи по ключу
func (m *MockCacheRepository) Contains(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, exists := m.entries[key]
	return exists && time.Now().Before(entry.expiresAt)
}

func (m *MockCacheRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]cacheEntry)
}
