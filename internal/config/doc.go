// Package config defines the console settings and provides helpers to load,
// validate and save them in YAML format.
//
// Values from a .env file and GRINDER_* environment variables take precedence
// over the YAML file, so credentials and endpoints can be injected without
// editing it.
package config
