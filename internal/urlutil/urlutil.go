// Package urlutil builds recipe page URLs and reads query parameters from
// page addresses.
package urlutil

import (
	"regexp"
	"strings"
)

// DefaultRecipeBase is the recipe API root used when none is configured.
const DefaultRecipeBase = "http://172.17.0.2/recipes/"

var queryVar = regexp.MustCompile(`[?&]+([^=&]+)=([^&]*)`)

// RecipeURL returns base with id appended. An empty base falls back to
// DefaultRecipeBase; an empty id yields the collection URL.
func RecipeURL(base, id string) string {
	url := base
	if url == "" {
		url = DefaultRecipeBase
	}
	if id != "" {
		url += id
	}
	return url
}

// QueryVars returns every key=value pair found in rawURL. Values are
// returned as written, without percent-decoding. When a key repeats the
// last occurrence wins.
func QueryVars(rawURL string) map[string]string {
	vars := make(map[string]string)
	for _, m := range queryVar.FindAllStringSubmatch(rawURL, -1) {
		vars[m[1]] = m[2]
	}
	return vars
}

// QueryParam returns the named query parameter from rawURL. The boolean
// is false when the parameter is absent.
func QueryParam(rawURL, name string) (string, bool) {
	if name == "" || !strings.Contains(rawURL, name) {
		return "", false
	}
	v, ok := QueryVars(rawURL)[name]
	return v, ok
}

// PageURL links to a page of the static site for a recipe, e.g.
// PageURL("cook", "chili") is "cook.html?id=chili".
func PageURL(page, id string) string {
	return page + ".html?id=" + id
}
