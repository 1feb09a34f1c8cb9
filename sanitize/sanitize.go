package sanitize

import "strings"

// htmlEscaper escapes characters with special meaning in HTML markup in a
// single pass, so the ampersands introduced by the other substitutions are
// never re-escaped.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// HTML escapes analysis text so it cannot be interpreted as markup when
// rendered by the client. Escaping is applied exactly once per response.
func HTML(s string) string {
	return htmlEscaper.Replace(s)
}
