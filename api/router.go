package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/catalogsearch/api/handlers"
	"github.com/meghashyamc/catalogsearch/config"
	"github.com/meghashyamc/catalogsearch/logger"
	"github.com/meghashyamc/catalogsearch/metrics"
	"github.com/meghashyamc/catalogsearch/services/documents"
	"github.com/meghashyamc/catalogsearch/services/search"
	"github.com/meghashyamc/catalogsearch/validation"
)

func setupRoutes(router *gin.Engine, logger logger.Logger, documentService *documents.Service, searchService *search.Service, m *metrics.Metrics, validator *validation.Validator, defaults config.SearchDefaults) {
	router.GET("/health", health())
	router.GET("/metrics", gin.WrapH(m.Handler()))

	handlers.SetupDocuments(router, logger, documentService, validator)
	handlers.SetupSearch(router, logger, searchService, validator, defaults)

}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func newRouter() *gin.Engine {
	router := gin.New()
	router.UseRawPath = true
	router.Use(_CORSMiddleware())
	router.Use(gin.Recovery())

	return router
}
