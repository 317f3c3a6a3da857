package main

import (
	"io/ioutil"
	"path/filepath"
)

// The loader resolves IMPORT directives against the library search path
// and concatenates every reachable file's definitions into one list, in
// reading order.  Each library is loaded at most once per compilation, so
// diamond and circular imports are harmless.
type loader struct {
	c      *Compiler
	dirs   []string
	loaded map[string]bool
}

func (c *Compiler) newLoader(entryDir string) *loader {
	dirs := []string{entryDir, filepath.Join(entryDir, "libraries")}
	dirs = append(dirs, c.libDirs...)
	return &loader{c: c, dirs: dirs, loaded: make(map[string]bool)}
}

func (ld *loader) load(file, src string) ([]*ruleDef, error) {
	items, err := parseSource(file, src)
	if err != nil {
		return nil, err
	}
	var defs []*ruleDef
	for _, it := range items {
		if it.imp == nil {
			defs = append(defs, it.def)
			continue
		}
		for _, name := range it.imp.names {
			sub, err := ld.loadImport(name, it.imp.pos)
			if err != nil {
				return nil, err
			}
			defs = append(defs, sub...)
		}
	}
	return defs, nil
}

func (ld *loader) loadImport(name string, pos Pos) ([]*ruleDef, error) {
	if ld.loaded[name] {
		return nil, nil
	}
	ld.loaded[name] = true

	fname := name + ".sero"
	for _, dir := range ld.dirs {
		path := filepath.Join(dir, fname)
		if data, err := ioutil.ReadFile(path); err == nil {
			ld.c.logf("import %v from %v", name, path)
			return ld.load(path, string(data))
		}
	}
	if data, err := stdlibFS.ReadFile("libraries/" + fname); err == nil {
		ld.c.logf("import %v (embedded)", name)
		return ld.load(fname, string(data))
	}
	return nil, &UnresolvedImportError{Pos: pos, Name: name}
}
