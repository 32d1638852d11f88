package bcasweb

import "embed"

// EmbeddedAssets contains static assets shipped with the app: the default
// site.css and the drag script of the position editor.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
