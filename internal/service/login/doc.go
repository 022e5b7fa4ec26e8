// Package login implements the login and logout commands: it exchanges the
// operator's username and password for a credential and keeps it in the
// session file the other commands read.
package login
