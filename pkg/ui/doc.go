// Package ui renders fetched posts on standard output and user-facing
// errors on standard error.
package ui
