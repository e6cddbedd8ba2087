package domain

import "context"

// GalleryCategoryAll selects every project.
const GalleryCategoryAll = "all"

type SiteInfo struct {
	BusinessName string `json:"business_name" yaml:"business_name"`
	Tagline      string `json:"tagline" yaml:"tagline"`
	ServiceArea  string `json:"service_area" yaml:"service_area"`
}

type Service struct {
	ID               string `json:"id" yaml:"id"`
	Title            string `json:"title" yaml:"title"`
	ShortDescription string `json:"short_description" yaml:"short_description"`
	LongDescription  string `json:"long_description" yaml:"long_description"`
	Icon             string `json:"icon" yaml:"icon"`
	Image            string `json:"image" yaml:"image"`
}

type GalleryCategory struct {
	Slug  string `json:"slug" yaml:"slug"`
	Label string `json:"label" yaml:"label"`
}

type Project struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Category    string `json:"category" yaml:"category"`
	Image       string `json:"image" yaml:"image"`
	ImageAlt    string `json:"image_alt" yaml:"image_alt"`
	Description string `json:"description" yaml:"description"`
}

// HomePage is the landing page payload.
type HomePage struct {
	SiteInfo
	CurrentYear      int       `json:"current_year"`
	FeaturedServices []Service `json:"featured_services"`
}

// Gallery is the portfolio page payload after category filtering.
type Gallery struct {
	ActiveCategory string            `json:"active_category"`
	Categories     []GalleryCategory `json:"categories"`
	Projects       []Project         `json:"projects"`
}

// CatalogRepository serves the static site content.
type CatalogRepository interface {
	Site(ctx context.Context) (SiteInfo, error)
	Services(ctx context.Context) ([]Service, error)
	Categories(ctx context.Context) ([]GalleryCategory, error)
	Projects(ctx context.Context) ([]Project, error)
}

type CatalogUsecase interface {
	Home(ctx context.Context) (*HomePage, error)
	ListServices(ctx context.Context) ([]Service, error)
	// Gallery filters projects by category. Unknown categories fall back
	// to GalleryCategoryAll.
	Gallery(ctx context.Context, category string) (*Gallery, error)
}
