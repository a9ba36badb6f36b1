// Package config loads enzyme's configuration.
//
// Values are layered with koanf: the embedded defaults.toml first, then the
// user's config.toml (or the file passed with --config), then ENZYME_
// environment variables. The merged tree is decoded into Config.
package config
