// Package config holds linkwalk's runtime options, their defaults, the
// optional .linkwalk YAML file and validation.
//
// Defaults reproduce the bare behavior: write into the current directory,
// no application timeout, no body cap, no proxy. The history database lives
// in the XDG data directory.
package config
