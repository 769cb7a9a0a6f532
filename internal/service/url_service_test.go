package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/SergeiKhy/shortlink-analytics/internal/models"
	"github.com/SergeiKhy/shortlink-analytics/internal/repository"
	"github.com/SergeiKhy/shortlink-analytics/internal/service"
	"github.com/SergeiKhy/shortlink-analytics/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testBaseURL = "http://localhost:8080"
	testTTL     = time.Hour
)

// setupURLService создаёт тестовое окружение с моковыми репозиториями
func setupURLService() (service.URLService, *mocks.MockURLRepository, *mocks.MockClickRepository, *mocks.MockCacheRepository) {
	urlRepo := mocks.NewMockURLRepository()
	clickRepo := mocks.NewMockClickRepository()
	cacheRepo := mocks.NewMockCacheRepository()
	logger, _ := zap.NewDevelopment()
	urlService := service.NewURLService(urlRepo, clickRepo, cacheRepo, logger, testBaseURL, testTTL)
	return urlService, urlRepo, clickRepo, cacheRepo
}

func strPtr(s string) *string { return &s }

// TestURLService_CreateShortURL_Success проверяет создание с генерацией alias
func TestURLService_CreateShortURL_Success(t *testing.T) {
	urlService, _, _, _ := setupURLService()

	ctx := context.Background()
	url, err := urlService.CreateShortURL(ctx, &models.CreateShortURLInput{
		LongURL: "https://example.com/page",
		UserID:  "user-1",
	})

	require.NoError(t, err)
	assert.Len(t, url.Alias, 8)
	assert.Equal(t, testBaseURL+"/api/shorten/"+url.Alias, url.ShortURL)
	assert.False(t, url.CreatedAt.IsZero())
}

// TestURLService_CreateShortURL_CustomAlias проверяет создание с кастомным alias
func TestURLService_CreateShortURL_CustomAlias(t *testing.T) {
	urlService, _, _, _ := setupURLService()

	ctx := context.Background()
	url, err := urlService.CreateShortURL(ctx, &models.CreateShortURLInput{
		LongURL:     "https://example.com",
		CustomAlias: strPtr("abc123"),
		Topic:       strPtr("marketing"),
		UserID:      "user-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "abc123", url.Alias)
	require.NotNil(t, url.Topic)
	assert.Equal(t, "marketing", *url.Topic)
}

// TestURLService_CreateShortURL_AliasTaken проверяет конфликт кастомного alias
func TestURLService_CreateShortURL_AliasTaken(t *testing.T) {
	urlService, _, _, _ := setupURLService()

	ctx := context.Background()
	_, err := urlService.CreateShortURL(ctx, &models.CreateShortURLInput{
		LongURL:     "https://example.com/first",
		CustomAlias: strPtr("abc123"),
		UserID:      "user-1",
	})
	require.NoError(t, err)

	// Повторное создание того же alias, даже другим пользователем
	_, err = urlService.CreateShortURL(ctx, &models.CreateShortURLInput{
		LongURL:     "https://example.com/second",
		CustomAlias: strPtr("abc123"),
		UserID:      "user-2",
	})
	assert.ErrorIs(t, err, service.ErrAliasTaken)
}

// TestURLService_CreateShortURL_MissingLongURL проверяет валидацию longUrl
func TestURLService_CreateShortURL_MissingLongURL(t *testing.T) {
	urlService, _, _, _ := setupURLService()

	ctx := context.Background()
	url, err := urlService.CreateShortURL(ctx, &models.CreateShortURLInput{UserID: "user-1"})

	assert.ErrorIs(t, err, service.ErrLongURLRequired)
	assert.Nil(t, url)
}

// TestURLService_ResolveAlias_FromStore проверяет резолв через БД с
// заполнением memo и записью ровно одного клика
func TestURLService_ResolveAlias_FromStore(t *testing.T) {
	urlService, _, clickRepo, cacheRepo := setupURLService()

	ctx := context.Background()
	_, err := urlService.CreateShortURL(ctx, &models.CreateShortURLInput{
		LongURL:     "https://example.com",
		CustomAlias: strPtr("abc123"),
		UserID:      "user-1",
	})
	require.NoError(t, err)

	longURL, err := urlService.ResolveAlias(ctx, "abc123", service.ClickContext{
		IPAddress: "10.0.0.1",
		UserAgent: uaWindowsDesktop,
	})

	require.NoError(t, err)
	assert.Equal(t, "https://example.com", longURL)

	// Ровно один клик с классификацией агента
	clicks := clickRepo.Clicks()
	require.Len(t, clicks, 1)
	assert.Equal(t, "abc123", clicks[0].Alias)
	assert.Equal(t, "10.0.0.1", clicks[0].IPAddress)
	assert.Equal(t, "Windows", clicks[0].OSName)
	assert.Equal(t, "desktop", clicks[0].DeviceName)

	// Memo заполнен подтверждённой строкой из БД
	assert.True(t, cacheRepo.Contains(repository.RedirectKey("abc123")))
}

// TestURLService_ResolveAlias_FromMemo проверяет, что попадание в memo
// полностью пропускает чтение БД, но клик фиксируется всё равно
func TestURLService_ResolveAlias_FromMemo(t *testing.T) {
	urlService, urlRepo, clickRepo, _ := setupURLService()

	ctx := context.Background()
	_, err := urlService.CreateShortURL(ctx, &models.CreateShortURLInput{
		LongURL:     "https://example.com",
		CustomAlias: strPtr("abc123"),
		UserID:      "user-1",
	})
	require.NoError(t, err)

	_, err = urlService.ResolveAlias(ctx, "abc123", service.ClickContext{IPAddress: "10.0.0.1"})
	require.NoError(t, err)

	// БД «падает» — memo остаётся авторитетным
	urlRepo.FailReads = true

	longURL, err := urlService.ResolveAlias(ctx, "abc123", service.ClickContext{IPAddress: "10.0.0.2"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", longURL)

	// По одному клику на каждый резолв, включая путь через memo
	assert.Len(t, clickRepo.Clicks(), 2)
}

// TestURLService_ResolveAlias_StaleMemo документирует принятый компромисс:
// пока memo жив, отредактированный destination не виден — это осознанная
// плата за пропуск чтения БД, а не баг
func TestURLService_ResolveAlias_StaleMemo(t *testing.T) {
	urlService, _, _, cacheRepo := setupURLService()

	ctx := context.Background()
	_, err := urlService.CreateShortURL(ctx, &models.CreateShortURLInput{
		LongURL:     "https://example.com/new",
		CustomAlias: strPtr("abc123"),
		UserID:      "user-1",
	})
	require.NoError(t, err)

	// Memo ещё хранит прежний destination
	err = cacheRepo.Set(ctx, repository.RedirectKey("abc123"), []byte("https://example.com/old"), testTTL)
	require.NoError(t, err)

	longURL, err := urlService.ResolveAlias(ctx, "abc123", service.ClickContext{IPAddress: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/old", longURL)
}

// TestURLService_ResolveAlias_NotFound проверяет неизвестный alias
func TestURLService_ResolveAlias_NotFound(t *testing.T) {
	urlService, _, clickRepo, _ := setupURLService()

	ctx := context.Background()
	_, err := urlService.ResolveAlias(ctx, "nonexistent", service.ClickContext{IPAddress: "10.0.0.1"})

	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Empty(t, clickRepo.Clicks())
}

// TestURLService_ResolveAlias_ClickFailureSwallowed проверяет, что отказ
// записи клика не мешает редиректу
func TestURLService_ResolveAlias_ClickFailureSwallowed(t *testing.T) {
	urlService, _, clickRepo, _ := setupURLService()

	ctx := context.Background()
	_, err := urlService.CreateShortURL(ctx, &models.CreateShortURLInput{
		LongURL:     "https://example.com",
		CustomAlias: strPtr("abc123"),
		UserID:      "user-1",
	})
	require.NoError(t, err)

	clickRepo.FailWrites = true

	longURL, err := urlService.ResolveAlias(ctx, "abc123", service.ClickContext{IPAddress: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", longURL)
	assert.Empty(t, clickRepo.Clicks())
}

// TestURLService_ResolveAlias_CacheDown проверяет деградацию при недоступном
// кэше: корректность сохраняется, резолв идёт через БД
func TestURLService_ResolveAlias_CacheDown(t *testing.T) {
	urlService, _, clickRepo, cacheRepo := setupURLService()

	ctx := context.Background()
	_, err := urlService.CreateShortURL(ctx, &models.CreateShortURLInput{
		LongURL:     "https://example.com",
		CustomAlias: strPtr("abc123"),
		UserID:      "user-1",
	})
	require.NoError(t, err)

	cacheRepo.FailAll = true

	longURL, err := urlService.ResolveAlias(ctx, "abc123", service.ClickContext{IPAddress: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", longURL)
	assert.Len(t, clickRepo.Clicks(), 1)
}

// TestURLService_GeneratedAliasesUnique проверяет уникальность генерации
func TestURLService_GeneratedAliasesUnique(t *testing.T) {
	urlService, _, _, _ := setupURLService()

	ctx := context.Background()
	aliases := make(map[string]bool)
	for i := 0; i < 100; i++ {
		url, err := urlService.CreateShortURL(ctx, &models.CreateShortURLInput{
			LongURL: fmt.Sprintf("https://example.com/page-%d", i),
			UserID:  "user-1",
		})
		require.NoError(t, err)
		assert.Len(t, url.Alias, 8)
		assert.NotContains(t, aliases, url.Alias)
		aliases[url.Alias] = true
	}
}
