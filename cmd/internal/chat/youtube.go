package chat

import "regexp"

// YouTube detection is display-only: it decides whether a message gets a video
// embed, never anything correctness-critical.
var (
	youtubeURLRE = regexp.MustCompile(`(?i)https?://(?:www\.)?(?:youtube\.com|youtu\.be)\S+`)
	youtubeIDRE  = regexp.MustCompile(`(?:youtu\.be/|youtube\.com/(?:watch\?v=|embed/|v/|shorts/)?)([\w-]{11})`)
)

// ExtractYouTubeID finds the first YouTube URL in content and extracts its
// 11-character video id. It returns "" when content has no extractable id.
//
// Accepted shapes: watch?v=<id>, embed/<id>, v/<id>, shorts/<id>, and the
// bare youtu.be/<id> form.
func ExtractYouTubeID(content string) string {
	url := youtubeURLRE.FindString(content)
	if url == "" {
		return ""
	}

	m := youtubeIDRE.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}
