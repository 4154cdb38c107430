package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ideaspark/wireframe/internal/scene"
)

const ProjectSchema = "wireframe-project"

// Page is one scene of a multi-page project.
type Page struct {
	ID           string
	Name         string
	Path         string
	DevicePreset string
	Scene        scene.Scene
}

type Project struct {
	ID    string
	Name  string
	Pages []Page
}

type projectRecord struct {
	Schema  string       `json:"schema"`
	Version int          `json:"version"`
	ID      string       `json:"id,omitempty"`
	Name    string       `json:"name"`
	Pages   []pageRecord `json:"pages"`
}

type pageRecord struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Path         string          `json:"path,omitempty"`
	DevicePreset string          `json:"devicePreset,omitempty"`
	Document     json.RawMessage `json:"document"`
}

// MarshalProject encodes a project with each page stored as a full document.
func MarshalProject(p Project) ([]byte, error) {
	rec := projectRecord{
		Schema:  ProjectSchema,
		Version: Version,
		ID:      p.ID,
		Name:    p.Name,
		Pages:   make([]pageRecord, 0, len(p.Pages)),
	}
	for _, page := range p.Pages {
		rec.Pages = append(rec.Pages, pageRecord{
			ID:           page.ID,
			Name:         page.Name,
			Path:         page.Path,
			DevicePreset: page.DevicePreset,
			Document:     Serialize(page.Scene),
		})
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal project: %w", err)
	}
	return data, nil
}

func UnmarshalProject(data []byte) (Project, error) {
	var rec projectRecord
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&rec); err != nil {
		return Project{}, parseErr("", "project is not a valid JSON object", err)
	}
	if rec.Schema != ProjectSchema {
		return Project{}, parseErr("schema", fmt.Sprintf("unsupported schema %q", rec.Schema), nil)
	}
	if rec.Version < 1 || rec.Version > Version {
		return Project{}, parseErr("version", fmt.Sprintf("unsupported version %d", rec.Version), nil)
	}

	p := Project{ID: rec.ID, Name: rec.Name}
	seen := make(map[string]bool)
	for i, pr := range rec.Pages {
		path := fmt.Sprintf("pages[%d]", i)
		if pr.ID == "" {
			return Project{}, parseErr(path+".id", "missing required field", nil)
		}
		if seen[pr.ID] {
			return Project{}, parseErr(path+".id", fmt.Sprintf("duplicate page id %q", pr.ID), nil)
		}
		seen[pr.ID] = true

		s, err := Deserialize(pr.Document)
		if err != nil {
			return Project{}, prefixPath(path+".document", err)
		}
		p.Pages = append(p.Pages, Page{
			ID:           pr.ID,
			Name:         pr.Name,
			Path:         pr.Path,
			DevicePreset: pr.DevicePreset,
			Scene:        s,
		})
	}
	return p, nil
}

// Page returns the page with the given id.
func (p Project) Page(id string) (Page, bool) {
	for _, page := range p.Pages {
		if page.ID == id {
			return page, true
		}
	}
	return Page{}, false
}
