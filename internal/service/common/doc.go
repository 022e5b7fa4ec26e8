// Package common holds helpers shared by the console commands.
//
// Open loads settings, restores the saved session and builds the REST client
// every command starts from. DetectOperator supplies the default login name.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
