package extract

import (
	"net/url"
	"strings"

	"github.com/Taichi-iskw/yt-tutor/internal/errors"
)

// ParseVideoID derives the stable video identifier from a YouTube URL.
// Two shapes are supported: the short-link form (youtu.be/<id>) and the
// canonical watch form (youtube.com/watch?v=<id>). Anything else is an
// unsupported-input error.
func ParseVideoID(videoURL string) (string, error) {
	u, err := url.Parse(videoURL)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeUnsupported, "malformed video URL")
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")

	switch {
	case host == "youtu.be":
		id := strings.Trim(u.Path, "/")
		if id == "" || strings.Contains(id, "/") {
			return "", errors.New(errors.CodeUnsupported, "short-link URL has no video ID")
		}
		return id, nil

	case (host == "youtube.com" || host == "m.youtube.com") && u.Path == "/watch":
		id := u.Query().Get("v")
		if id == "" {
			return "", errors.New(errors.CodeUnsupported, "watch URL has no v parameter")
		}
		return id, nil

	default:
		return "", errors.New(errors.CodeUnsupported, "unsupported video URL shape: "+videoURL)
	}
}
