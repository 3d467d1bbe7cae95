// Package pkgconfig reads typed configuration values by dotted key.
//
// Code depends on the Config interface; Viper implements it from a YAML file
// with GOCOVID_* environment overrides and built-in defaults.
package pkgconfig
