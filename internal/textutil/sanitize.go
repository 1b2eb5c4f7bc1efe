package textutil

import "strings"

// invalidNameChars are characters that cannot appear in file or folder names
// on any supported filesystem.
const invalidNameChars = `<>:"/\|?*`

// SanitizeName replaces filesystem-unsafe characters and control characters
// in a file or folder name with the placeholder, collapses placeholder runs,
// and trims dots and spaces from the ends. Empty results fall back to
// "untitled". The same rule applies to filenames and folder names so paths
// built from note metadata stay portable.
func SanitizeName(name, placeholder string) string {
	if placeholder == "" {
		placeholder = "_"
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "untitled"
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(invalidNameChars, r) {
			b.WriteString(placeholder)
			continue
		}
		b.WriteRune(r)
	}

	out := b.String()
	doubled := placeholder + placeholder
	for strings.Contains(out, doubled) {
		out = strings.ReplaceAll(out, doubled, placeholder)
	}
	out = strings.Trim(out, ". ")
	if out == "" || out == placeholder {
		return "untitled"
	}
	return out
}

// TruncateName shortens a filename to maxLen runes while preserving the
// extension. Names at or under the limit are returned unchanged.
func TruncateName(name string, maxLen int) string {
	if maxLen <= 0 {
		return name
	}
	runes := []rune(name)
	if len(runes) <= maxLen {
		return name
	}

	dot := strings.LastIndex(name, ".")
	if dot <= 0 {
		return string(runes[:maxLen])
	}
	ext := []rune(name[dot:])
	if len(ext) >= maxLen {
		return string(runes[:maxLen])
	}
	stem := runes[:len([]rune(name[:dot]))]
	keep := maxLen - len(ext)
	if keep > len(stem) {
		keep = len(stem)
	}
	return string(stem[:keep]) + string(ext)
}
