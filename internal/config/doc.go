// Package config loads, normalizes, and validates tunetalk configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// YOUTUBE_API_KEY and TUNETALK_REDIS_URL. The Config type centralizes every
// knob the CLI needs, so output directories, API endpoints, and filter
// vocabulary are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
