// Package stub renders and writes the placeholder files a module type declares.
package stub

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/AidanDelaney/modgen/pkg/config"
)

// Data is the environment stub templates are executed with.
type Data struct {
	Name    string
	Type    string
	Plural  string
	RepoURL string
}

// File is a rendered stub.
type File struct {
	Path    string
	Content []byte
}

// Render executes the path and content templates of every stub.
func Render(stubs []config.Stub, data Data) ([]File, error) {
	files := make([]File, 0, len(stubs))
	for _, s := range stubs {
		p, err := transform(data, s.Path)
		if err != nil {
			return nil, fmt.Errorf("stub path %q: %w", s.Path, err)
		}
		name, err := cleanPath(string(p))
		if err != nil {
			return nil, fmt.Errorf("stub path %q: %w", s.Path, err)
		}
		content, err := transform(data, s.Content)
		if err != nil {
			return nil, fmt.Errorf("stub %s: %w", name, err)
		}
		files = append(files, File{Path: name, Content: content})
	}
	return files, nil
}

// WriteMissing writes files that do not already exist in fs and reports
// which paths were written and which were left untouched.
func WriteMissing(fs billy.Filesystem, files []File) (written, skipped []string, err error) {
	for _, f := range files {
		if _, statErr := fs.Stat(f.Path); statErr == nil {
			skipped = append(skipped, f.Path)
			continue
		} else if !errors.Is(statErr, os.ErrNotExist) {
			return written, skipped, fmt.Errorf("failed to stat %s: %w", f.Path, statErr)
		}
		if err := util.WriteFile(fs, f.Path, f.Content, 0o644); err != nil {
			return written, skipped, fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
		written = append(written, f.Path)
	}
	return written, skipped, nil
}

func transform(data Data, text string) ([]byte, error) {
	var output bytes.Buffer
	tpl, err := template.New("stub").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("cannot parse template: %w", err)
	}
	if err := tpl.Execute(&output, data); err != nil {
		return nil, fmt.Errorf("cannot execute template: %w", err)
	}
	return output.Bytes(), nil
}

func cleanPath(p string) (string, error) {
	p = strings.TrimSpace(strings.ReplaceAll(p, `\`, "/"))
	if p == "" {
		return "", errors.New("path is empty")
	}
	if path.IsAbs(p) {
		return "", errors.New("path must be relative")
	}
	p = path.Clean(p)
	if p == "." || p == ".." || strings.HasPrefix(p, "../") {
		return "", errors.New("path escapes the module directory")
	}
	return p, nil
}
