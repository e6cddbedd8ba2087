package static

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"ironforge-backend/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed content/*.yaml
var embeddedContent embed.FS

type galleryFile struct {
	Categories []domain.GalleryCategory `yaml:"categories"`
	Projects   []domain.Project         `yaml:"projects"`
}

// catalogRepo holds the site content parsed once at startup. It is never
// mutated afterwards, so concurrent reads need no locking.
type catalogRepo struct {
	site       domain.SiteInfo
	services   []domain.Service
	categories []domain.GalleryCategory
	projects   []domain.Project
}

// NewCatalogRepository loads the content compiled into the binary.
func NewCatalogRepository() (domain.CatalogRepository, error) {
	sub, err := fs.Sub(embeddedContent, "content")
	if err != nil {
		return nil, err
	}
	return LoadCatalog(sub)
}

// LoadCatalog reads site.yaml, services.yaml and gallery.yaml from fsys.
func LoadCatalog(fsys fs.FS) (domain.CatalogRepository, error) {
	repo := &catalogRepo{}

	if err := decodeYAML(fsys, "site.yaml", &repo.site); err != nil {
		return nil, err
	}
	if err := decodeYAML(fsys, "services.yaml", &repo.services); err != nil {
		return nil, err
	}
	var gallery galleryFile
	if err := decodeYAML(fsys, "gallery.yaml", &gallery); err != nil {
		return nil, err
	}
	repo.categories = gallery.Categories
	repo.projects = gallery.Projects

	if err := repo.check(); err != nil {
		return nil, err
	}
	return repo, nil
}

func decodeYAML(fsys fs.FS, name string, out interface{}) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// check rejects content the pages cannot render sensibly.
func (r *catalogRepo) check() error {
	if r.site.BusinessName == "" {
		return fmt.Errorf("site.yaml: business_name is required")
	}

	seen := make(map[string]bool)
	for _, s := range r.services {
		if s.ID == "" || s.Title == "" {
			return fmt.Errorf("services.yaml: every service needs an id and title")
		}
		if seen[s.ID] {
			return fmt.Errorf("services.yaml: duplicate service id %q", s.ID)
		}
		seen[s.ID] = true
	}

	if len(r.categories) == 0 || r.categories[0].Slug != domain.GalleryCategoryAll {
		return fmt.Errorf("gallery.yaml: first category must be %q", domain.GalleryCategoryAll)
	}
	known := make(map[string]bool)
	for _, c := range r.categories {
		known[c.Slug] = true
	}

	seen = make(map[string]bool)
	for _, p := range r.projects {
		if seen[p.ID] {
			return fmt.Errorf("gallery.yaml: duplicate project id %q", p.ID)
		}
		seen[p.ID] = true
		if p.Category == domain.GalleryCategoryAll || !known[p.Category] {
			return fmt.Errorf("gallery.yaml: project %q has unknown category %q", p.ID, p.Category)
		}
	}
	return nil
}

func (r *catalogRepo) Site(ctx context.Context) (domain.SiteInfo, error) {
	return r.site, nil
}

func (r *catalogRepo) Services(ctx context.Context) ([]domain.Service, error) {
	return append([]domain.Service(nil), r.services...), nil
}

func (r *catalogRepo) Categories(ctx context.Context) ([]domain.GalleryCategory, error) {
	return append([]domain.GalleryCategory(nil), r.categories...), nil
}

func (r *catalogRepo) Projects(ctx context.Context) ([]domain.Project, error) {
	return append([]domain.Project(nil), r.projects...), nil
}
