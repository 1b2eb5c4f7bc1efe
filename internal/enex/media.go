package enex

import (
	"fmt"
	"regexp"
)

// mediaTagPattern matches en-media tags that reference a resource by hash.
var mediaTagPattern = regexp.MustCompile(`(?i)<en-media[^>]*hash="([^"]*)"[^>]*/?>`)

// resolveMedia rewrites en-media references to image links against the
// matching resource's filename. References without a matching resource become
// a visible "Media:" placeholder carrying the hash; they are never dropped.
func resolveMedia(content string, resources []Resource) string {
	if content == "" || !mediaTagPattern.MatchString(content) {
		return content
	}

	byHash := make(map[string]string, len(resources))
	for _, res := range resources {
		if res.ContentHash != "" {
			byHash[res.ContentHash] = res.Filename
		}
		byHash[bodyHash(res.Data)] = res.Filename
	}

	return mediaTagPattern.ReplaceAllStringFunc(content, func(tag string) string {
		groups := mediaTagPattern.FindStringSubmatch(tag)
		hash := groups[1]
		if filename, ok := byHash[hash]; ok && filename != "" {
			return fmt.Sprintf("![%s](%s)", filename, filename)
		}
		return fmt.Sprintf("[Media: %s]", hash)
	})
}
