package skills

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"askai-skillbuilder/internal/search"
)

const (
	fileSuffix  = "_skill.md"
	maxSlugLen  = 30
	generatorID = "ASK AI Skills Builder v0.2.0"
)

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Document is one persisted skill: a query/response pair extracted from a
// documentation site's embedded assistant.
type Document struct {
	SourceTitle string `json:"source_title"`
	SourceURL   string `json:"source_url"`
	Query       string `json:"query"`
	Response    string `json:"response"`
}

// Info is the listing view of a saved skill.
type Info struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Modified time.Time `json:"modified"`
	Size     int64     `json:"size_bytes"`
}

// Store writes skill documents to a directory, one markdown file per
// extraction. Filenames are slugged from the source title; collisions are
// versioned rather than overwritten, so a second extraction for the same
// source never destroys an earlier one.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create skills dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save persists one extraction and returns the written path.
func (s *Store) Save(site search.Result, query, response string) (string, error) {
	path, err := s.nextPath(Slug(site.Title))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# AI Skill: %s\n\n", site.Title)
	fmt.Fprintf(&b, "**Source URL:** %s\n", site.URL)
	fmt.Fprintf(&b, "**Query:** %s\n", query)
	fmt.Fprintf(&b, "**Generated by:** %s\n\n", generatorID)
	b.WriteString("## AI Response\n\n")
	b.WriteString(response)
	b.WriteString("\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write skill: %w", err)
	}
	return path, nil
}

// nextPath returns the first free versioned path for a slug:
// <slug>_skill.md, then <slug>_skill_2.md, _3, and so on.
func (s *Store) nextPath(slug string) (string, error) {
	base := filepath.Join(s.dir, slug+fileSuffix)
	if _, err := os.Stat(base); os.IsNotExist(err) {
		return base, nil
	}
	for n := 2; n < 1000; n++ {
		path := filepath.Join(s.dir, fmt.Sprintf("%s_skill_%d.md", slug, n))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", fmt.Errorf("too many skills for slug %q", slug)
}

// List returns saved skills, newest first.
func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var infos []Info
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			Name:     e.Name(),
			Path:     filepath.Join(s.dir, e.Name()),
			Modified: fi.ModTime(),
			Size:     fi.Size(),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Modified.After(infos[j].Modified)
	})
	return infos, nil
}

// Read parses a saved skill file back into a Document.
func (s *Store) Read(name string) (Document, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil {
		return Document{}, err
	}
	return parseDocument(string(raw)), nil
}

func parseDocument(raw string) Document {
	var doc Document
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "# AI Skill: "):
			doc.SourceTitle = strings.TrimPrefix(line, "# AI Skill: ")
		case strings.HasPrefix(line, "**Source URL:** "):
			doc.SourceURL = strings.TrimPrefix(line, "**Source URL:** ")
		case strings.HasPrefix(line, "**Query:** "):
			doc.Query = strings.TrimPrefix(line, "**Query:** ")
		case line == "## AI Response":
			doc.Response = strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
			return doc
		}
	}
	return doc
}

// Slug produces the filesystem-safe name fragment for a source title.
func Slug(title string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(title), "_")
	slug = strings.Trim(slug, "_")
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
		slug = strings.Trim(slug, "_")
	}
	if slug == "" {
		slug = "skill"
	}
	return slug
}
