package enrich

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"text/template"
)

// promptExtension is the file extension of prompt template files.
const promptExtension = ".txt"

// PromptStore is a read-through cache of prompt templates loaded from disk.
// Templates are looked up across the configured directories in order; the
// first directory containing <name>.txt wins. A template is read and parsed
// once, on first use.
type PromptStore struct {
	paths []string

	mu    sync.RWMutex
	cache map[string]*template.Template
}

// NewPromptStore creates a PromptStore searching the given directories.
func NewPromptStore(paths []string) *PromptStore {
	return &PromptStore{
		paths: paths,
		cache: make(map[string]*template.Template),
	}
}

// Render loads the named template and renders it with the given content
// substituted for {{.Content}}.
func (s *PromptStore) Render(name, content string) (string, error) {
	tmpl, err := s.get(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if execErr := tmpl.Execute(&buf, struct{ Content string }{Content: content}); execErr != nil {
		return "", fmt.Errorf("render prompt template %s: %w", name, execErr)
	}

	return buf.String(), nil
}

// get returns the cached template, loading it on first miss.
func (s *PromptStore) get(name string) (*template.Template, error) {
	s.mu.RLock()
	tmpl, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	loaded, err := s.load(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[name] = loaded
	s.mu.Unlock()

	return loaded, nil
}

// load reads and parses the named template from the first search path that
// contains it.
func (s *PromptStore) load(name string) (*template.Template, error) {
	for _, dir := range s.paths {
		path := filepath.Join(dir, name+promptExtension)

		raw, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read prompt template %s: %w", path, err)
		}

		tmpl, parseErr := template.New(name).Parse(string(raw))
		if parseErr != nil {
			return nil, fmt.Errorf("parse prompt template %s: %w", path, parseErr)
		}

		return tmpl, nil
	}

	return nil, fmt.Errorf("prompt template %s not found in %v", name, s.paths)
}
