package normalize

import (
	"net/url"
	"strings"

	"github.com/politicosbr/camara-client/pkg/model"
)

// socialPlatforms lists the hosts recognized per platform, in match order.
// legacy is the fragment matched when no host matches.
var socialPlatforms = []struct {
	name   string
	hosts  []string
	legacy string
}{
	{model.PlatformTwitter, []string{"twitter.com", "x.com"}, "twitter"},
	{model.PlatformInstagram, []string{"instagram.com", "instagr.am"}, "instagram"},
	{model.PlatformFacebook, []string{"facebook.com", "fb.com", "fb.me"}, "facebook"},
	{model.PlatformYouTube, []string{"youtube.com", "youtu.be"}, "youtube"},
}

// SocialLinks classifies profile URLs by platform.
// The first URL per platform wins; platforms without a URL are absent.
func SocialLinks(urls []string) map[string]string {
	links := make(map[string]string)

	for _, raw := range urls {
		raw = Sanitize(raw)
		if raw == "" {
			continue
		}

		platform := classifySocial(raw)
		if platform == "" {
			continue
		}
		if _, ok := links[platform]; !ok {
			links[platform] = raw
		}
	}

	return links
}

// classifySocial prefers a host match and falls back to the platform
// fragment anywhere in the link.
func classifySocial(raw string) string {
	if host := hostOf(raw); host != "" {
		for _, p := range socialPlatforms {
			for _, h := range p.hosts {
				if host == h || strings.HasSuffix(host, "."+h) {
					return p.name
				}
			}
		}
	}

	lower := strings.ToLower(raw)
	for _, p := range socialPlatforms {
		if strings.Contains(lower, p.legacy) {
			return p.name
		}
	}
	return ""
}

func hostOf(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		return strings.ToLower(u.Hostname())
	}
	if u, err := url.Parse("https://" + raw); err == nil && u.Host != "" && strings.Contains(u.Host, ".") {
		return strings.ToLower(u.Hostname())
	}
	return ""
}
