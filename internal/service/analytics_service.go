package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/SergeiKhy/shortlink-analytics/internal/metrics"
	"github.com/SergeiKhy/shortlink-analytics/internal/models"
	"github.com/SergeiKhy/shortlink-analytics/internal/repository"
	"go.uber.org/zap"
)

// Окно дневного ряда для аналитики одного alias
const aliasDailyWindowDays = 7

// AnalyticsService агрегаты кликов трёх уровней: alias, топик, аккаунт.
// Каждый запрос идёт через cache-aside: попадание в кэш полностью
// пропускает запросы к БД, промах пересчитывает агрегат и кладёт его в кэш
// с фиксированным TTL. Инвалидации по записи нет: свежие клики и новые
// ссылки видны только после истечения TTL.
type AnalyticsService interface {
	AliasAnalytics(ctx context.Context, userID, alias string) (*models.AliasAnalytics, error)
	TopicAnalytics(ctx context.Context, userID, topic string) (*models.TopicAnalytics, error)
	OverallAnalytics(ctx context.Context, userID string) (*models.OverallAnalytics, error)
}

type analyticsService struct {
	urlRepo   repository.URLRepository
	clickRepo repository.ClickRepository
	cacheRepo repository.CacheRepository
	logger    *zap.Logger
	baseURL   string
	cacheTTL  time.Duration
}

func NewAnalyticsService(
	urlRepo repository.URLRepository,
	clickRepo repository.ClickRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	baseURL string,
	cacheTTL time.Duration,
) AnalyticsService {
	return &analyticsService{
		urlRepo:   urlRepo,
		clickRepo: clickRepo,
		cacheRepo: cacheRepo,
		logger:    logger,
		baseURL:   baseURL,
		cacheTTL:  cacheTTL,
	}
}

// AliasAnalytics статистика одного alias, принадлежащего пользователю.
// Чужой или несуществующий alias — одинаково ErrNotFound.
func (s *analyticsService) AliasAnalytics(ctx context.Context, userID, alias string) (*models.AliasAnalytics, error) {
	key := repository.AliasAnalyticsKey(userID, alias)

	var cached models.AliasAnalytics
	if s.fromCache(ctx, key, "alias", &cached) {
		return &cached, nil
	}

	if _, err := s.urlRepo.GetByUserAndAlias(ctx, userID, alias); err != nil {
		if errors.Is(err, repository.ErrURLNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	origins, err := s.clickRepo.OriginStats(ctx, alias)
	if err != nil {
		return nil, err
	}

	aliases := []string{alias}
	daily, err := s.clickRepo.DailyStats(ctx, aliases, aliasDailyWindowDays)
	if err != nil {
		return nil, err
	}
	osStats, err := s.clickRepo.OSStats(ctx, aliases)
	if err != nil {
		return nil, err
	}
	deviceStats, err := s.clickRepo.DeviceStats(ctx, aliases)
	if err != nil {
		return nil, err
	}

	// totalClicks и uniqueClicks оба равны числу уникальных источников:
	// агрегат считается от группировки по IP, а не по событиям
	total := int64(len(origins))

	result := &models.AliasAnalytics{
		TotalClicks:  total,
		UniqueClicks: total,
		ClicksByDate: nonNilDaily(daily),
		OSType:       nonNilOS(osStats),
		DeviceType:   nonNilDevices(deviceStats),
	}

	s.toCache(ctx, key, result)
	return result, nil
}

// TopicAnalytics статистика всех ссылок пользователя под одним топиком
func (s *analyticsService) TopicAnalytics(ctx context.Context, userID, topic string) (*models.TopicAnalytics, error) {
	key := repository.TopicAnalyticsKey(userID, topic)

	var cached models.TopicAnalytics
	if s.fromCache(ctx, key, "topic", &cached) {
		return &cached, nil
	}

	urls, err := s.urlRepo.ListByUserAndTopic(ctx, userID, topic)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, ErrNotFound
	}

	aliases := make([]string, 0, len(urls))
	for _, url := range urls {
		aliases = append(aliases, url.Alias)
	}

	total, err := s.clickRepo.CountClicks(ctx, aliases)
	if err != nil {
		return nil, err
	}
	unique, err := s.clickRepo.CountDistinctOrigins(ctx, aliases)
	if err != nil {
		return nil, err
	}
	daily, err := s.clickRepo.DailyStats(ctx, aliases, 0)
	if err != nil {
		return nil, err
	}

	urlStats := make([]models.URLClickStats, 0, len(urls))
	for _, url := range urls {
		urlTotal, err := s.clickRepo.CountClicks(ctx, []string{url.Alias})
		if err != nil {
			return nil, err
		}
		urlUnique, err := s.clickRepo.CountDistinctOrigins(ctx, []string{url.Alias})
		if err != nil {
			return nil, err
		}
		urlStats = append(urlStats, models.URLClickStats{
			ShortURL:     s.baseURL + "/api/shorten/" + url.Alias,
			TotalClicks:  urlTotal,
			UniqueClicks: urlUnique,
		})
	}

	result := &models.TopicAnalytics{
		TotalClicks:  total,
		UniqueClicks: unique,
		ClicksByDate: nonNilDaily(daily),
		URLs:         urlStats,
	}

	s.toCache(ctx, key, result)
	return result, nil
}

// OverallAnalytics статистика по всем ссылкам аккаунта
func (s *analyticsService) OverallAnalytics(ctx context.Context, userID string) (*models.OverallAnalytics, error) {
	key := repository.OverallAnalyticsKey(userID)

	var cached models.OverallAnalytics
	if s.fromCache(ctx, key, "overall", &cached) {
		return &cached, nil
	}

	urls, err := s.urlRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, ErrNotFound
	}

	aliases := make([]string, 0, len(urls))
	for _, url := range urls {
		aliases = append(aliases, url.Alias)
	}

	total, err := s.clickRepo.CountClicks(ctx, aliases)
	if err != nil {
		return nil, err
	}
	unique, err := s.clickRepo.CountDistinctOrigins(ctx, aliases)
	if err != nil {
		return nil, err
	}
	daily, err := s.clickRepo.DailyStats(ctx, aliases, 0)
	if err != nil {
		return nil, err
	}
	osStats, err := s.clickRepo.OSStats(ctx, aliases)
	if err != nil {
		return nil, err
	}
	deviceStats, err := s.clickRepo.DeviceStats(ctx, aliases)
	if err != nil {
		return nil, err
	}

	result := &models.OverallAnalytics{
		TotalURLs:    int64(len(urls)),
		TotalClicks:  total,
		UniqueClicks: unique,
		ClicksByDate: nonNilDaily(daily),
		OSType:       nonNilOS(osStats),
		DeviceType:   nonNilDevices(deviceStats),
	}

	s.toCache(ctx, key, result)
	return result, nil
}

// fromCache читает агрегат из кэша. Любая ошибка кэша (кроме промаха —
// промах штатный) деградирует до промаха и никогда не всплывает к клиенту.
func (s *analyticsService) fromCache(ctx context.Context, key, kind string, dst any) bool {
	data, err := s.cacheRepo.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrCacheMiss) {
			s.logger.Warn("Кэш аналитики недоступен", zap.String("key", key), zap.Error(err))
		}
		metrics.AnalyticsCacheMisses.WithLabelValues(kind).Inc()
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Warn("Битое значение в кэше аналитики", zap.String("key", key), zap.Error(err))
		metrics.AnalyticsCacheMisses.WithLabelValues(kind).Inc()
		return false
	}

	metrics.AnalyticsCacheHits.WithLabelValues(kind).Inc()
	return true
}

func (s *analyticsService) toCache(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("Не удалось сериализовать агрегат", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cacheRepo.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("Не удалось записать агрегат в кэш", zap.String("key", key), zap.Error(err))
	}
}

func nonNilDaily(s []models.DailyClicks) []models.DailyClicks {
	if s == nil {
		return []models.DailyClicks{}
	}
	return s
}

func nonNilOS(s []models.OSStats) []models.OSStats {
	if s == nil {
		return []models.OSStats{}
	}
	return s
}

func nonNilDevices(s []models.DeviceStats) []models.DeviceStats {
	if s == nil {
		return []models.DeviceStats{}
	}
	return s
}
