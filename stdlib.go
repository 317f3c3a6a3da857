package main

import "embed"

// The standard library ships inside the binary so that `IMPORT std;` works
// with no files on disk.  Directories named on the search path still win,
// which is how a project pins its own copy.
//
//go:embed libraries
var stdlibFS embed.FS
