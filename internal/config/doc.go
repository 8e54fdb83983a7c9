// Package config defines pc-beeper settings and provides helpers to load,
// validate and save them in YAML format.
//
// Every key is optional: the port device, PIT clock, step limit, log level,
// single-instance policy and the default step all have built-in values.
package config
