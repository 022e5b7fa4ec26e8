// Package rest is the HTTP/JSON client of the grinder backend.
//
// It exposes one typed method per server action and attaches the bearer
// credential from an injected TokenSource to every call except login.
// Failures are classified as ErrNetwork, ErrRejected or ErrDecode.
package rest
