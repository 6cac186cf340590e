package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/catalogsearch/config"
	"github.com/meghashyamc/catalogsearch/engine"
	"github.com/meghashyamc/catalogsearch/logger"
	"github.com/meghashyamc/catalogsearch/services/search"
	"github.com/meghashyamc/catalogsearch/validation"
)

type SearchRequest struct {
	Query          string  `form:"query" validate:"required,valid_query,min=1,max=1000"`
	FuzzyThreshold int     `form:"fuzzy_threshold" validate:"min=0,max=10"`
	PrefixBoost    float64 `form:"prefix_boost" validate:"min=0,max=100"`
	PageRequest
}

type SearchResponse struct {
	Results     []engine.Result `json:"results"`
	SearchTime  string          `json:"search_time"`
	PageDetails Pagination      `json:"page_details"`
}

func SetupSearch(router *gin.Engine, logger logger.Logger, service *search.Service, validator *validation.Validator, defaults config.SearchDefaults) {
	router.GET("/search", handleSearch(service, logger, validator, defaults))

}

func handleSearch(service *search.Service, logger logger.Logger, validator *validation.Validator, defaults config.SearchDefaults) gin.HandlerFunc {
	return func(c *gin.Context) {
		// parameters absent from the query string keep these values
		request := SearchRequest{
			FuzzyThreshold: defaults.FuzzyThreshold,
			PrefixBoost:    defaults.PrefixBoost,
		}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request query parameters"})
			return
		}
		request.setDefaults()

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		limit, offset := request.limitAndOffset()
		opts := engine.Options{
			FuzzyThreshold: request.FuzzyThreshold,
			PrefixBoost:    request.PrefixBoost,
		}
		results, err := service.Search(request.Query, opts, limit, offset)
		if err != nil {
			if errors.Is(err, engine.ErrValidation) {
				c.Abort()
				writeResponse(c, nil, http.StatusBadRequest, []string{err.Error()})
				return
			}
			logger.Error("search failed", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		searchResponse := SearchResponse{
			Results:    results.Results,
			SearchTime: results.SearchTime,
			PageDetails: calculatePagination(
				results.Total,
				limit,
				offset),
		}

		writeResponse(c, searchResponse, http.StatusOK, nil)
	}
}
