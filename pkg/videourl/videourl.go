package videourl

import (
	"errors"
	"regexp"

	"tubescribe/pkg/domain"
)

// ErrNoVideoID indicates the URL does not contain a recognizable video id.
var ErrNoVideoID = errors.New("no video id found in URL")

// videoIDPattern matches the 11-character video token after "v=" or a path
// separator. This is the tolerant form: trailing path segments and query
// parameters after the id are ignored.
var videoIDPattern = regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`)

// ExtractVideoID derives the video id from a watch/short/embed URL.
//
// Extraction is deterministic and total over well-formed YouTube URLs. A URL
// that does not contain an 11-character token yields ErrNoVideoID, never a
// partial id.
func ExtractVideoID(rawURL string) (domain.VideoID, error) {
	m := videoIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", ErrNoVideoID
	}
	return domain.VideoID(m[1]), nil
}
