package content

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// goldmark renders task list items as disabled checkboxes.
var checkboxType = regexp.MustCompile(`^checkbox$`)

// SanitizeHTML strips anything from the input that is not safe to embed in a
// page.
func SanitizeHTML() TransformerFunc {
	htmlSanitizer := sanitizer()
	return func(input []byte) ([]byte, error) {
		return htmlSanitizer.SanitizeBytes(input), nil
	}
}

// sanitizer allows the subset of HTML that rendered Markdown notes produce.
// Differences from [bluemonday.UGCPolicy]:
//
//   - Target _blank and noreferrer for links
//   - No images (to avoid hot-linking and tracking pixels)
//   - Disabled task list checkboxes
func sanitizer() *bluemonday.Policy {
	policy := bluemonday.NewPolicy()

	policy.AllowStandardURLs()
	policy.RequireNoReferrerOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	policy.AllowElements(
		"b",
		"blockquote",
		"br",
		"code",
		"del",
		"em",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"hr",
		"i",
		"p",
		"pre",
		"s",
		"strong",
	)

	policy.AllowAttrs("href").
		OnElements("a")

	policy.AllowAttrs("type").
		Matching(checkboxType).
		OnElements("input")
	policy.AllowAttrs("checked", "disabled").
		OnElements("input")

	policy.AllowLists()
	policy.AllowTables()

	return policy
}
