package mzml

import (
	"fmt"
	"os"
	"sync"

	"github.com/524D/mztab/internal/mztab"
)

type cacheEntry struct {
	once sync.Once
	f    MzML
	err  error
}

// Cache opens the mzML file of an ms_run the first time one of its spectra
// is looked up. It is safe for concurrent use, each file is read once.
type Cache struct {
	mu    sync.Mutex
	files map[string]*cacheEntry
}

// NewCache returns an empty Cache
func NewCache() *Cache {
	return &Cache{files: map[string]*cacheEntry{}}
}

// LocalPath returns the file system path of an ms_run location. Only
// file URIs and plain paths are local.
func LocalPath(run *mztab.MsRun) (string, error) {
	u := run.Location
	if u == nil || (u.Scheme != "" && u.Scheme != "file") || u.Path == "" {
		return "", fmt.Errorf("%s: %w", run.Reference(), ErrLocation)
	}
	return u.Path, nil
}

func (c *Cache) entry(path string) *cacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.files[path]
	if !ok {
		e = &cacheEntry{}
		c.files[path] = e
	}
	return e
}

// Open returns the index of the file at path
func (c *Cache) Open(path string) (*MzML, error) {
	e := c.entry(path)
	e.once.Do(func() {
		fh, err := os.Open(path)
		if err != nil {
			e.err = err
			return
		}
		defer fh.Close()
		e.f, e.err = Read(fh)
		if e.err != nil {
			e.err = fmt.Errorf("%s: %w", path, e.err)
		}
	})
	return &e.f, e.err
}

// Lookup reports whether ref names a spectrum in the mzML file of run. Its
// signature matches parser.SpectrumLookup.
func (c *Cache) Lookup(run *mztab.MsRun, ref string) (bool, error) {
	path, err := LocalPath(run)
	if err != nil {
		return false, err
	}
	f, err := c.Open(path)
	if err != nil {
		return false, err
	}
	return f.HasSpectrum(ref), nil
}
