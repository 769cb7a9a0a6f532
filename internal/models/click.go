package models

import (
	"time"
)

// Click одно зафиксированное срабатывание редиректа.
// Хранится по значению alias: удаление ссылки не трогает историю кликов.
type Click struct {
	ID         int64     `json:"id"`
	Alias      string    `json:"alias"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	OSName     string    `json:"os_name"`
	DeviceName string    `json:"device_name"`
	ClickedAt  time.Time `json:"clicked_at"`
}

// OriginStats агрегат по одному уникальному источнику (IP)
type OriginStats struct {
	IPAddress  string    `json:"ip_address"`
	Clicks     int64     `json:"clicks"`
	OSName     string    `json:"os_name"`
	DeviceName string    `json:"device_name"`
	FirstSeen  time.Time `json:"first_seen"`
}

type DailyClicks struct {
	Date   string `json:"date"`
	Clicks int64  `json:"clicks"`
}

type OSStats struct {
	OSName       string `json:"osName"`
	UniqueClicks int64  `json:"uniqueClicks"`
	UniqueUsers  int64  `json:"uniqueUsers"`
}

type DeviceStats struct {
	DeviceName   string `json:"deviceName"`
	UniqueClicks int64  `json:"uniqueClicks"`
	UniqueUsers  int64  `json:"uniqueUsers"`
}

// AliasAnalytics ответ GET /api/analytics/{alias}
type AliasAnalytics struct {
	TotalClicks  int64         `json:"totalClicks"`
	UniqueClicks int64         `json:"uniqueClicks"`
	ClicksByDate []DailyClicks `json:"clicksByDate"`
	OSType       []OSStats     `json:"osType"`
	DeviceType   []DeviceStats `json:"deviceType"`
}

// URLClickStats статистика одной ссылки внутри топика
type URLClickStats struct {
	ShortURL     string `json:"shortUrl"`
	TotalClicks  int64  `json:"totalClicks"`
	UniqueClicks int64  `json:"uniqueClicks"`
}

// TopicAnalytics ответ GET /api/analytics/topic/{topic}
type TopicAnalytics struct {
	TotalClicks  int64           `json:"totalClicks"`
	UniqueClicks int64           `json:"uniqueClicks"`
	ClicksByDate []DailyClicks   `json:"clicksByDate"`
	URLs         []URLClickStats `json:"urls"`
}

// OverallAnalytics ответ GET /api/analytics/overall
type OverallAnalytics struct {
	TotalURLs    int64         `json:"totalUrls"`
	TotalClicks  int64         `json:"totalClicks"`
	UniqueClicks int64         `json:"uniqueClicks"`
	ClicksByDate []DailyClicks `json:"clicksByDate"`
	OSType       []OSStats     `json:"osType"`
	DeviceType   []DeviceStats `json:"deviceType"`
}
