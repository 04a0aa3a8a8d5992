package assets

import "embed"

// Motors holds the thrust curves shipped with the binary, addressed as
// bundle://<file name>.
//
//go:embed motors/*.eng
var Motors embed.FS
