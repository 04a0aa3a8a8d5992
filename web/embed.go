package web

import "embed"

// Templates holds the HTML page served at "/".
//
//go:embed templates/*.html
var Templates embed.FS
