package files

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	nonSlugChars   = regexp.MustCompile(`[^a-z0-9]+`)
	repeatedHyphen = regexp.MustCompile(`-+`)
	onlySpecial    = regexp.MustCompile(`^[^a-zA-Z0-9\s\-_#.]+$`)
)

// Slugify converts a display name to a valid filename
// Examples:
//
//	"Fair Share" → "fair-share"
//	"User's Book!" → "users-book"
//	"Chapter #1" → "chapter-1"
func Slugify(displayName string) string {
	slug := strings.ToLower(strings.ReplaceAll(displayName, "'", ""))
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	slug = repeatedHyphen.ReplaceAllString(slug, "-")

	if slug == "" {
		slug = "unnamed"
	}

	return slug
}

// ExtractDisplayName extracts a display name from a filename
// Examples:
//
//	"fair-share.yaml" → "Fair Share"
func ExtractDisplayName(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))

	parts := strings.Split(name, "-")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(string(part[0])) + part[1:]
		}
	}

	return strings.Join(parts, " ")
}

// ValidateName checks a chapter or module name typed by the user.
func ValidateName(name, itemType string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s name cannot be empty", itemType)
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%s name cannot contain path separators", itemType)
	}
	if onlySpecial.MatchString(name) {
		return fmt.Errorf("%s name contains only special characters", itemType)
	}
	return nil
}
