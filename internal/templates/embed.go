// Package templates holds the server-rendered pages. Each page file defines
// "title" and "content" blocks that base.html wraps.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
