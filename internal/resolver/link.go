package resolver

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/wapuda/tg-ytfetch/internal/media"
)

var (
	videoIDPattern = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)
	pathIDPattern  = regexp.MustCompile(`^/(?:shorts|embed|live|v)/([0-9A-Za-z_-]{11})`)
)

// WatchURL is the canonical link for a video id.
func WatchURL(id string) string { return "https://www.youtube.com/watch?v=" + id }

// ParseLink validates a user-supplied link and returns the video id.
// Accepted hosts are youtube.com (any subdomain) and youtu.be.
func ParseLink(text string) (string, error) {
	s := strings.TrimSpace(text)
	if s == "" || strings.ContainsAny(s, " \n\t") {
		return "", fmt.Errorf("%w: %q", media.ErrInvalidLink, s)
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", media.ErrInvalidLink, err)
	}
	host := strings.ToLower(u.Hostname())

	var id string
	switch {
	case host == "youtu.be":
		id = strings.Trim(u.Path, "/")
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		if m := pathIDPattern.FindStringSubmatch(u.Path); m != nil {
			id = m[1]
		} else if u.Path == "/watch" {
			id = u.Query().Get("v")
		}
	default:
		return "", fmt.Errorf("%w: unsupported host %q", media.ErrInvalidLink, host)
	}
	if !videoIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: no video id in %q", media.ErrInvalidLink, s)
	}
	return id, nil
}
