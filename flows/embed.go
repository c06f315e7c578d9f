// Package flows embeds the default conversation graph shipped with gridline.
package flows

import "embed"

// FS holds the default flow documents.
//
//go:embed *.yaml
var FS embed.FS
