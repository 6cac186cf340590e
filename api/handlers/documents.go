package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/catalogsearch/db/catalogdb"
	"github.com/meghashyamc/catalogsearch/db/kvdb"
	"github.com/meghashyamc/catalogsearch/engine"
	"github.com/meghashyamc/catalogsearch/logger"
	"github.com/meghashyamc/catalogsearch/services/documents"
	"github.com/meghashyamc/catalogsearch/validation"
)

type CreateDocumentRequest struct {
	Title   string   `json:"title" validate:"required,valid_query,max=500"`
	Content string   `json:"content" validate:"required,max=1000000"`
	Tags    []string `json:"tags" validate:"valid_tags,max=50"`
}

type ListDocumentsRequest struct {
	Tag   string `form:"tag" validate:"max=64"`
	Title string `form:"title" validate:"max=500"`
	PageRequest
}

type ListDocumentsResponse struct {
	Documents   []engine.Document `json:"documents"`
	PageDetails Pagination        `json:"page_details"`
}

func SetupDocuments(router *gin.Engine, logger logger.Logger, service *documents.Service, validator *validation.Validator) {
	router.POST("/documents", handleCreateDocument(service, logger, validator))
	router.GET("/documents", handleListDocuments(service, logger, validator))
	router.GET("/documents/:id", handleGetDocument(service, logger))
}

func handleCreateDocument(service *documents.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := CreateDocumentRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract expected params from create document request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate create document request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		doc, err := service.Create(documents.NewDocument{
			Title:   request.Title,
			Content: request.Content,
			Tags:    request.Tags,
		})
		if err != nil {
			if errors.Is(err, engine.ErrValidation) {
				c.Abort()
				writeResponse(c, nil, http.StatusBadRequest, []string{err.Error()})
				return
			}
			logger.Error("could not create document", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		writeResponse(c, doc, http.StatusCreated, nil)
	}
}

func handleGetDocument(service *documents.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := service.Get(c.Param("id"))
		if err != nil {
			if errors.Is(err, kvdb.ErrNotFound) || errors.Is(err, kvdb.ErrInvalidKey) {
				c.Abort()
				writeResponse(c, nil, http.StatusNotFound, []string{"document not found"})
				return
			}
			logger.Error("could not get document", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		writeResponse(c, doc, http.StatusOK, nil)
	}
}

func handleListDocuments(service *documents.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := ListDocumentsRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from list documents request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request query parameters"})
			return
		}
		request.setDefaults()

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate list documents request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		limit, offset := request.limitAndOffset()
		result, err := service.List(catalogdb.Filter{Tag: request.Tag, Title: request.Title}, limit, offset)
		if err != nil {
			logger.Error("could not list documents", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		writeResponse(c, ListDocumentsResponse{
			Documents:   result.Documents,
			PageDetails: calculatePagination(result.Total, limit, offset),
		}, http.StatusOK, nil)
	}
}
