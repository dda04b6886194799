package useragent

import (
	"strings"

	"shortlink/internal/domain"
)

// Classification is the coarse breakdown of a User-Agent string used by
// click analytics. Unknown patterns classify as "unknown" rather than erroring.
type Classification struct {
	Device  string
	Browser string
	OS      string
}

// Bot markers are checked first: crawlers routinely spoof browser and OS
// tokens, so a bot match overrides everything else.
var botMarkers = []string{
	"bot", "crawler", "spider", "crawling",
	"facebookexternalhit", "slurp", "curl/", "wget/",
	"python-requests", "go-http-client", "headless",
}

// Classify maps a raw User-Agent string to device/browser/OS families using
// deterministic substring rules. Matching is case-insensitive.
func Classify(rawUA string) Classification {
	ua := strings.ToLower(strings.TrimSpace(rawUA))

	if ua == "" {
		return Classification{
			Device:  domain.DeviceUnknown,
			Browser: "unknown",
			OS:      "unknown",
		}
	}

	return Classification{
		Device:  classifyDevice(ua),
		Browser: classifyBrowser(ua),
		OS:      classifyOS(ua),
	}
}

func classifyDevice(ua string) string {
	for _, marker := range botMarkers {
		if strings.Contains(ua, marker) {
			return domain.DeviceBot
		}
	}

	// Tablet checks precede mobile: Android tablets omit "mobile" while
	// Android phones carry both tokens.
	switch {
	case strings.Contains(ua, "ipad") || strings.Contains(ua, "tablet"):
		return domain.DeviceTablet
	case strings.Contains(ua, "android") && !strings.Contains(ua, "mobile"):
		return domain.DeviceTablet
	case strings.Contains(ua, "mobile") || strings.Contains(ua, "iphone") || strings.Contains(ua, "android"):
		return domain.DeviceMobile
	case strings.Contains(ua, "windows") || strings.Contains(ua, "macintosh") || strings.Contains(ua, "x11") || strings.Contains(ua, "linux"):
		return domain.DeviceDesktop
	default:
		return domain.DeviceUnknown
	}
}

func classifyBrowser(ua string) string {
	// Order matters: Chrome's UA contains "safari", Edge's contains "chrome",
	// Opera's contains both.
	switch {
	case strings.Contains(ua, "edg/") || strings.Contains(ua, "edge/"):
		return "Edge"
	case strings.Contains(ua, "opr/") || strings.Contains(ua, "opera"):
		return "Opera"
	case strings.Contains(ua, "firefox/"):
		return "Firefox"
	case strings.Contains(ua, "chrome/") || strings.Contains(ua, "crios/"):
		return "Chrome"
	case strings.Contains(ua, "safari/"):
		return "Safari"
	case strings.Contains(ua, "msie") || strings.Contains(ua, "trident/"):
		return "Internet Explorer"
	default:
		return "unknown"
	}
}

func classifyOS(ua string) string {
	switch {
	case strings.Contains(ua, "windows"):
		return "Windows"
	case strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad") || strings.Contains(ua, "ios"):
		return "iOS"
	case strings.Contains(ua, "mac os") || strings.Contains(ua, "macintosh"):
		return "macOS"
	case strings.Contains(ua, "android"):
		return "Android"
	case strings.Contains(ua, "linux") || strings.Contains(ua, "x11"):
		return "Linux"
	default:
		return "unknown"
	}
}
