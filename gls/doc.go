// Package gls provides per-goroutine slot stacks with save/restore
// semantics.
//
// A slot holds one value per goroutine. Push installs a value and returns
// a restore function that reinstates whatever the slot held before, so
// nested pushes on the same goroutine unwind correctly even across panics
// when paired with defer. Slots on different goroutines never observe each
// other's values.
//
// The proxy engine uses slots for the "current proxy" reference when
// expose-proxy is enabled and for the "target name under matching" context
// during advisor retrieval.
package gls
