// Package setup implements the init command that writes the console
// settings file.
package setup
