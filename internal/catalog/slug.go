package catalog

import "strings"

// Slugify derives a URL-safe slug from a name: lowercase, spaces to hyphens.
// Used as the secondary uniqueness key when the caller sends no slug.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}
