package catalog

import "embed"

// builtinSignaturesFS embeds the built-in signature files.
//
//go:embed signatures/*.yml
var builtinSignaturesFS embed.FS
