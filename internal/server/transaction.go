package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	transactiondomain "github.com/smallbiznis/segmenta/internal/transaction/domain"
	"github.com/smallbiznis/segmenta/pkg/db/pagination"
)

type recordTransactionRequest struct {
	CustomerID    string `json:"customer_id"`
	InvoiceNumber string `json:"invoice_number"`
	InvoiceDate   string `json:"invoice_date"`
	Amount        int64  `json:"amount"`
}

func (s *Server) RecordTransaction(c *gin.Context) {
	var req recordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.transactionSvc.Record(c.Request.Context(), transactiondomain.RecordTransactionRequest{
		CustomerID:    strings.TrimSpace(req.CustomerID),
		InvoiceNumber: strings.TrimSpace(req.InvoiceNumber),
		InvoiceDate:   strings.TrimSpace(req.InvoiceDate),
		Amount:        req.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTransactions(c *gin.Context) {
	var query struct {
		pagination.Pagination
		CustomerID string `form:"customer_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.transactionSvc.List(c.Request.Context(), transactiondomain.ListTransactionRequest{
		PageToken:  query.PageToken,
		PageSize:   int32(query.PageSize),
		CustomerID: strings.TrimSpace(query.CustomerID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
