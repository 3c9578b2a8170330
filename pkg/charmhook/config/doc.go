/*
Package config loads charmhook settings from a YAML or JSON file.

# Overview

Config wraps a decoded document and provides typed accessors that fall
back to a default when a key is missing or has the wrong type:

	cfg, err := config.FromFile("/etc/charmhook.yaml")
	if err != nil {
	    return err
	}
	relation := cfg.String("watch_relation", "db")

Settings maps the document onto the charm's runtime options. Load finds
the file through the CHARMHOOK_CONFIG variable and returns Defaults when it
is unset:

	settings, err := config.Load(env.OS{})
	if err != nil {
	    logger.Warn("config load failed, using defaults", "error", err)
	}

A broken settings file never stops a hook from running. Load failures are
*FileError values naming the variable and the path.
*/
package config
