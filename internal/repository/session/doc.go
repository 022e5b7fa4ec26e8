// Package session keeps the operator credential.
//
// Store is the in-memory, read-mostly holder the API client queries on every
// call. FileRepository persists the credential as JSON between command runs.
package session
