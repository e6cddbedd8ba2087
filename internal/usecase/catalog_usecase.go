package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ironforge-backend/internal/domain"

	"go.uber.org/zap"
)

const featuredServiceCount = 3

type catalogUsecase struct {
	repo domain.CatalogRepository
	log  *zap.Logger
	now  func() time.Time
}

func NewCatalogUsecase(repo domain.CatalogRepository, log *zap.Logger) domain.CatalogUsecase {
	return &catalogUsecase{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

func (uc *catalogUsecase) Home(ctx context.Context) (*domain.HomePage, error) {
	site, err := uc.repo.Site(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load site info: %w", err)
	}
	services, err := uc.repo.Services(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load services: %w", err)
	}
	if len(services) > featuredServiceCount {
		services = services[:featuredServiceCount]
	}

	return &domain.HomePage{
		SiteInfo:         site,
		CurrentYear:      uc.now().Year(),
		FeaturedServices: services,
	}, nil
}

func (uc *catalogUsecase) ListServices(ctx context.Context) ([]domain.Service, error) {
	services, err := uc.repo.Services(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load services: %w", err)
	}
	uc.log.Debug("Services requested", zap.Int("count", len(services)))
	return services, nil
}

func (uc *catalogUsecase) Gallery(ctx context.Context, category string) (*domain.Gallery, error) {
	categories, err := uc.repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load gallery categories: %w", err)
	}
	projects, err := uc.repo.Projects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	active := strings.ToLower(strings.TrimSpace(category))
	if active == "" {
		active = domain.GalleryCategoryAll
	}
	if !hasCategory(categories, active) {
		uc.log.Warn("Unknown gallery category, falling back to all", zap.String("category", active))
		active = domain.GalleryCategoryAll
	}

	filtered := projects
	if active != domain.GalleryCategoryAll {
		filtered = make([]domain.Project, 0, len(projects))
		for _, p := range projects {
			if p.Category == active {
				filtered = append(filtered, p)
			}
		}
	}

	uc.log.Debug("Gallery requested", zap.String("category", active), zap.Int("count", len(filtered)))

	return &domain.Gallery{
		ActiveCategory: active,
		Categories:     categories,
		Projects:       filtered,
	}, nil
}

func hasCategory(categories []domain.GalleryCategory, slug string) bool {
	for _, c := range categories {
		if c.Slug == slug {
			return true
		}
	}
	return false
}
