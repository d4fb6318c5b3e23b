package pubcontent

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// Document is a content file split into its raw front matter and body.
type Document struct {
	Path string
	Slug string
	Data map[string]any
	Body []byte
	Err  error // set when the front matter could not be parsed
}

var contentExts = map[string]bool{
	".md":       true,
	".mdx":      true,
	".markdown": true,
}

var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// ParseDocument reads a content file and decodes its YAML front matter.
// A file without front matter yields an empty record and the whole input as body.
func ParseDocument(path string, r io.Reader) (Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	data := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(src), &data, yamlFormat)
	if err != nil {
		return Document{}, fmt.Errorf("parse front matter %s: %w", path, err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return Document{Path: path, Data: data, Body: body}, nil
}

// LoadDocuments walks dir in lexical order and parses every content file.
// Files and directories whose name starts with "_" are skipped. A file with
// malformed front matter is returned with Err set; only I/O errors abort.
func LoadDocuments(dir string) ([]Document, error) {
	var docs []Document
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && strings.HasPrefix(d.Name(), "_") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !contentExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		doc, err := ParseDocument(path, f)
		if err != nil {
			var pathErr *fs.PathError
			if errors.As(err, &pathErr) {
				return err
			}
			doc = Document{Path: path, Data: map[string]any{}, Err: err}
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		doc.Slug = EntrySlug(rel)
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load documents from %s: %w", dir, err)
	}
	return docs, nil
}

// EntrySlug derives an entry slug from a path relative to the collection
// directory: the extension is dropped and each segment slugified.
func EntrySlug(rel string) string {
	rel = filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
	parts := strings.Split(rel, "/")
	out := parts[:0]
	for _, p := range parts {
		if s := Slugify(p); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}
