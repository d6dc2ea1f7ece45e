// Package unwrap resolves t.co short links found in post text.
package unwrap
