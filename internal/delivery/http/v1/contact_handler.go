package v1

import (
	"encoding/json"
	"net/http"
	"strings"

	"ironforge-backend/internal/delivery/http/response"
	"ironforge-backend/internal/domain"
	"ironforge-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const (
	contactInvalidMessage = "Please correct the errors below."
	maxContactBodyBytes   = 64 << 10
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the contact routes. submitGuards run before
// the POST handler only (the contact rate limit).
func NewContactHandler(public *gin.RouterGroup, contactUC domain.ContactUsecase, submitGuards ...gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	public.GET("/contact", handler.GetContactForm)
	public.POST("/contact", append(submitGuards, handler.SubmitContact)...)
}

// GetContactForm godoc
// @Summary      Contact form options
// @Description  Service types offered on the quote form, in display order.
// @Tags         contact
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /contact [get]
func (h *ContactHandler) GetContactForm(c *gin.Context) {
	response.Success(c, http.StatusOK, "Contact form", gin.H{
		"service_types": h.contactUC.ServiceOptions(),
	})
}

// SubmitContact godoc
// @Summary      Submit Quote Request
// @Description  Validate a quote request and notify the business. Accepts form-encoded or JSON bodies.
// @Tags         contact
// @Accept       x-www-form-urlencoded,json
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	form, err := readContactForm(c)
	if err != nil {
		_ = c.Error(apperror.BadRequest("Could not read the submitted form."))
		return
	}

	sub, result := h.contactUC.SubmitQuoteRequest(c.Request.Context(), form)
	if !result.Valid {
		// form_data lets the frontend re-fill the form as the customer typed it
		_ = c.Error(apperror.Validation(contactInvalidMessage, gin.H{
			"errors":    result.Errors,
			"form_data": form,
		}))
		return
	}

	response.Success(c, http.StatusOK,
		"Thanks, "+sub.Name+"! Your quote request has been received. We'll be in touch within 24 hours.",
		nil,
	)
}

// readContactForm collects the known fields from a JSON or form body.
// Unknown fields are ignored and absent ones are left out.
func readContactForm(c *gin.Context) (map[string]string, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxContactBodyBytes)
	form := make(map[string]string, len(domain.ContactFields))

	if strings.HasPrefix(c.ContentType(), gin.MIMEJSON) {
		var body map[string]string
		if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil {
			return nil, err
		}
		for _, field := range domain.ContactFields {
			if v, ok := body[field]; ok {
				form[field] = v
			}
		}
		return form, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	for _, field := range domain.ContactFields {
		if v, ok := c.GetPostForm(field); ok {
			form[field] = v
		}
	}
	return form, nil
}
