package v1

import (
	"net/http"

	"ironforge-backend/internal/delivery/http/response"
	"ironforge-backend/internal/domain"
	"ironforge-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogUC domain.CatalogUsecase
}

// NewCatalogHandler registers the informational pages.
func NewCatalogHandler(public *gin.RouterGroup, catalogUC domain.CatalogUsecase) {
	handler := &CatalogHandler{
		catalogUC: catalogUC,
	}

	public.GET("/home", handler.GetHome)
	public.GET("/services", handler.ListServices)
	public.GET("/gallery", handler.GetGallery)
}

// GetHome godoc
// @Summary      Home page
// @Description  Business info, current year and the featured services.
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.HomePage}
// @Router       /home [get]
func (h *CatalogHandler) GetHome(c *gin.Context) {
	home, err := h.catalogUC.Home(c.Request.Context())
	if err != nil {
		_ = c.Error(apperror.Internal(err))
		return
	}
	response.Success(c, http.StatusOK, "Home", home)
}

// ListServices godoc
// @Summary      Services
// @Description  Every welding service offered, with descriptions.
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Service}
// @Router       /services [get]
func (h *CatalogHandler) ListServices(c *gin.Context) {
	services, err := h.catalogUC.ListServices(c.Request.Context())
	if err != nil {
		_ = c.Error(apperror.Internal(err))
		return
	}
	response.Success(c, http.StatusOK, "Services", services)
}

// GetGallery godoc
// @Summary      Project gallery
// @Description  Portfolio projects, optionally filtered by category. Unknown categories show everything.
// @Tags         catalog
// @Produce      json
// @Param        category  query     string  false  "Category slug"
// @Success      200       {object}  response.Response{data=domain.Gallery}
// @Router       /gallery [get]
func (h *CatalogHandler) GetGallery(c *gin.Context) {
	gallery, err := h.catalogUC.Gallery(c.Request.Context(), c.Query("category"))
	if err != nil {
		_ = c.Error(apperror.Internal(err))
		return
	}
	response.Success(c, http.StatusOK, "Gallery", gallery)
}
