// Package config loads and validates traverse.json, the project
// configuration file for the traverse CLI.
//
// The file is plain JSON. Missing fields fall back to defaults, so a
// minimal project can run with an empty object:
//
//	{
//	  "address": "localhost:4000",
//	  "shell": { "dir": "dist", "document": "index.html" },
//	  "metrics": { "enabled": true }
//	}
//
// Load walks up from the working directory until it finds the file,
// so CLI commands work from anywhere inside a project.
package config
