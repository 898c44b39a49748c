package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/smallbiznis/segmenta/internal/customer/domain"
	"github.com/smallbiznis/segmenta/pkg/db/pagination"
)

type createCustomerRequest struct {
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	RegistrationDate string `json:"registration_date"`
	Description      string `json:"description"`
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var registrationDate *time.Time
	if raw := strings.TrimSpace(req.RegistrationDate); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			AbortWithError(c, newValidationError("registration_date", "invalid_registration_date", "invalid registration_date"))
			return
		}
		registrationDate = &parsed
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), customerdomain.CreateCustomerRequest{
		Name:             strings.TrimSpace(req.Name),
		Phone:            strings.TrimSpace(req.Phone),
		RegistrationDate: registrationDate,
		Description:      strings.TrimSpace(req.Description),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCustomers(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Name  string `form:"name"`
		Phone string `form:"phone"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.List(c.Request.Context(), customerdomain.ListCustomerRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Name:      strings.TrimSpace(query.Name),
		Phone:     strings.TrimSpace(query.Phone),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCustomerByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.customerSvc.GetByID(c.Request.Context(), customerdomain.GetCustomerRequest{
		ID: id,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
