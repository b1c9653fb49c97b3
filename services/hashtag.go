package services

import (
	"fmt"
	"strings"
)

// FormatHashtag turns a tag name into a hashtag body usable on social
// platforms: letters, digits and underscores only, lowercased. Tags that
// would start with a digit are rejected (empty result) since platforms do not
// treat them as hashtags.
func FormatHashtag(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}

	var result strings.Builder
	for _, r := range tag {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			result.WriteRune(r)
		case r == '_':
			result.WriteRune(r)
		}
	}

	formatted := strings.ToLower(result.String())
	if len(formatted) > 0 && formatted[0] >= '0' && formatted[0] <= '9' {
		return ""
	}
	return formatted
}

// BuildPostURL constructs the public URL for a blog post, or "" when either
// part is missing.
func BuildPostURL(baseURL, postID string) string {
	if baseURL == "" || postID == "" {
		return ""
	}
	return fmt.Sprintf("%s/api/blog/%s", strings.TrimSuffix(baseURL, "/"), postID)
}
