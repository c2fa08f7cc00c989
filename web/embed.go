package web

import "embed"

// Templates embeds the print layouts rendered into PDF documents.
//
//go:embed templates/documents/*.html
var Templates embed.FS
