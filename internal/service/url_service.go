package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/SergeiKhy/shortlink-analytics/internal/metrics"
	"github.com/SergeiKhy/shortlink-analytics/internal/models"
	"github.com/SergeiKhy/shortlink-analytics/internal/repository"
	"go.uber.org/zap"
)

// Ошибки сервиса
var (
	ErrLongURLRequired = errors.New("longUrl обязателен")
	ErrAliasTaken      = errors.New("кастомный alias уже занят")
	ErrNotFound        = errors.New("короткая ссылка не найдена")
)

// Константы сервиса
const (
	aliasLength = 8
	charset     = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// ClickContext данные запроса, попадающие в событие клика
type ClickContext struct {
	IPAddress string
	UserAgent string
}

// URLService интерфейс сервиса коротких ссылок
type URLService interface {
	CreateShortURL(ctx context.Context, input *models.CreateShortURLInput) (*models.ShortURL, error)
	ResolveAlias(ctx context.Context, alias string, click ClickContext) (string, error)
}

type urlService struct {
	urlRepo   repository.URLRepository
	clickRepo repository.ClickRepository
	cacheRepo repository.CacheRepository
	logger    *zap.Logger
	baseURL   string
	memoTTL   time.Duration
}

// NewURLService создаёт новый экземпляр сервиса
func NewURLService(
	urlRepo repository.URLRepository,
	clickRepo repository.ClickRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	baseURL string,
	memoTTL time.Duration,
) URLService {
	return &urlService{
		urlRepo:   urlRepo,
		clickRepo: clickRepo,
		cacheRepo: cacheRepo,
		logger:    logger,
		baseURL:   baseURL,
		memoTTL:   memoTTL,
	}
}

// CreateShortURL создаёт новую короткую ссылку. Уникальность alias
// обеспечивает ограничение в БД: для кастомного alias конфликт возвращается
// как ErrAliasTaken, для сгенерированного — генерация повторяется.
func (s *urlService) CreateShortURL(ctx context.Context, input *models.CreateShortURLInput) (*models.ShortURL, error) {
	if input.LongURL == "" {
		return nil, ErrLongURLRequired
	}

	alias := ""
	if input.CustomAlias != nil && *input.CustomAlias != "" {
		alias = *input.CustomAlias
	} else {
		generated, err := s.generateAlias()
		if err != nil {
			return nil, fmt.Errorf("failed to generate alias: %w", err)
		}
		alias = generated
	}

	url := &models.ShortURL{
		Alias:     alias,
		LongURL:   input.LongURL,
		Topic:     input.Topic,
		UserID:    input.UserID,
		CreatedAt: time.Now(),
	}

	if err := s.urlRepo.Create(ctx, url); err != nil {
		if errors.Is(err, repository.ErrAliasExists) {
			if input.CustomAlias != nil && *input.CustomAlias != "" {
				return nil, ErrAliasTaken
			}
			// Коллизия сгенерированного alias — пробуем с новым
			return s.CreateShortURL(ctx, input)
		}
		return nil, err
	}

	url.ShortURL = s.shortURLFor(url.Alias)
	return url, nil
}

// ResolveAlias находит destination для alias и фиксирует клик.
//
// Memo в кэше считается авторитетным: при попадании чтение из БД
// пропускается целиком. Клик записывается синхронно до ответа на обоих
// путях; неудачная запись логируется и не мешает редиректу. Недоступность
// кэша деградирует до обычного промаха.
func (s *urlService) ResolveAlias(ctx context.Context, alias string, click ClickContext) (string, error) {
	longURL, fromCache := s.lookupMemo(ctx, alias)

	if !fromCache {
		url, err := s.urlRepo.GetByAlias(ctx, alias)
		if err != nil {
			if errors.Is(err, repository.ErrURLNotFound) {
				return "", ErrNotFound
			}
			return "", err
		}
		longURL = url.LongURL
	}

	s.recordClick(ctx, alias, click)

	if !fromCache {
		if err := s.cacheRepo.Set(ctx, repository.RedirectKey(alias), []byte(longURL), s.memoTTL); err != nil {
			s.logger.Warn("Не удалось обновить memo редиректа", zap.String("alias", alias), zap.Error(err))
		}
	}

	metrics.RedirectsServed.Inc()
	return longURL, nil
}

func (s *urlService) lookupMemo(ctx context.Context, alias string) (string, bool) {
	data, err := s.cacheRepo.Get(ctx, repository.RedirectKey(alias))
	if err != nil {
		if !errors.Is(err, repository.ErrCacheMiss) {
			s.logger.Warn("Кэш недоступен, читаем из БД", zap.String("alias", alias), zap.Error(err))
		}
		metrics.RedirectMemoMisses.Inc()
		return "", false
	}
	metrics.RedirectMemoHits.Inc()
	return string(data), true
}

// recordClick классифицирует user agent и пишет событие клика. Запись
// синхронная, но её ошибка проглатывается: редирект важнее статистики.
func (s *urlService) recordClick(ctx context.Context, alias string, click ClickContext) {
	event := &models.Click{
		Alias:      alias,
		IPAddress:  click.IPAddress,
		UserAgent:  click.UserAgent,
		OSName:     ClassifyOS(click.UserAgent),
		DeviceName: ClassifyDevice(click.UserAgent),
		ClickedAt:  time.Now(),
	}

	if err := s.clickRepo.Record(ctx, event); err != nil {
		metrics.ClicksDropped.Inc()
		s.logger.Error("Не удалось записать клик",
			zap.String("alias", alias),
			zap.Error(err),
		)
		return
	}
	metrics.ClicksRecorded.Inc()
}

// generateAlias генерирует случайный alias длиной 8 символов
func (s *urlService) generateAlias() (string, error) {
	result := make([]byte, aliasLength)
	for i := 0; i < aliasLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[num.Int64()]
	}
	return string(result), nil
}

func (s *urlService) shortURLFor(alias string) string {
	return s.baseURL + "/api/shorten/" + alias
}
