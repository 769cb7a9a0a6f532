package service

import (
	"strings"
)

// Классификация user agent по упорядоченному списку подстрок. Порядок правил
// значим: Android-агенты содержат и подстроку "Linux", поэтому первое
// совпадение решает.
var osRules = []struct {
	pattern string
	name    string
}{
	{"windows", "Windows"},
	{"mac", "macOS"},
	{"linux", "Linux"},
	{"android", "Android"},
	{"ios", "iOS"},
}

const osOther = "Other"

const (
	DeviceMobile  = "mobile"
	DeviceDesktop = "desktop"
)

// ClassifyOS возвращает название ОС по первому совпавшему правилу
func ClassifyOS(userAgent string) string {
	ua := strings.ToLower(userAgent)
	for _, rule := range osRules {
		if strings.Contains(ua, rule.pattern) {
			return rule.name
		}
	}
	return osOther
}

// ClassifyDevice различает mobile и desktop по подстроке "mobile"
func ClassifyDevice(userAgent string) string {
	if strings.Contains(strings.ToLower(userAgent), "mobile") {
		return DeviceMobile
	}
	return DeviceDesktop
}
