package template

import "embed"

//go:embed nginx/*.tmpl
var siteTemplates embed.FS
