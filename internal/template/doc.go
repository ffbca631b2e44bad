// Package template executes declarative image templates.
//
// A Template names a base image and an ordered list of operations: Overlay
// pastes a caller-supplied image, DrawText renders caller-supplied text.
// Callers bind inputs positionally per kind, so the first Overlay consumes
// the first image and the first DrawText consumes the first text.
//
// The Engine validates that an Input matches a Template, resolves every
// overlay image concurrently, and then applies the operations in declared
// order to a private copy of the base image. Templates are read-only during
// processing and may be shared by concurrent requests.
package template
