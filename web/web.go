// Package web holds the HTML templates served by the behavior chart.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS
