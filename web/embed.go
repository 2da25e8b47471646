// Package web carries the built-in page shell served when WEB_DIR has no index.html.
package web

import _ "embed"

//go:embed dist/index.html
var IndexHTML []byte
