// Package migrations contains the storefront schema. Each file registers
// its migrations from init(); cmd/storefront imports this package so every
// migration is known before the runner starts.
package migrations
