// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Ebitengine window host, headless PNG snapshots
// 0.2.0 - Braille sub-cell canvas, frame statistics status line
// 0.1.0 - Initial release: terminal warp field, seedable stars, resize tracking
