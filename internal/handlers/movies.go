package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// listMovies godoc
// @Summary   List all movies
// @Tags      movies
// @Produce   json
// @Success   200  {array}   models.Movie
// @Failure   401  {object}  myflix.ErrorResponse
// @Failure   500  {object}  myflix.ErrorResponse
// @Router    /movies [get]
// @Security  BearerAuth
func (h *Handler) listMovies(c *gin.Context) {
	movies, err := h.services.Movies.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "movies_list_failed")
		return
	}
	c.JSON(http.StatusOK, movies)
}

// getMovie godoc
// @Summary   Get a movie by title
// @Tags      movies
// @Produce   json
// @Param     title  path      string  true  "Title"
// @Success   200    {object}  models.Movie
// @Failure   404    {object}  myflix.ErrorResponse
// @Router    /movies/{title} [get]
// @Security  BearerAuth
func (h *Handler) getMovie(c *gin.Context) {
	title := c.Param("title")
	m, err := h.services.Movies.ByTitle(c.Request.Context(), title)
	if err != nil {
		h.respondError(c, err, "movies_get_failed", "title", title)
		return
	}
	c.JSON(http.StatusOK, m)
}

// getMovieByGenre godoc
// @Summary   Get the first movie of a genre
// @Tags      movies
// @Produce   json
// @Param     name  path      string  true  "Genre name"
// @Success   200   {object}  models.Movie
// @Failure   404   {object}  myflix.ErrorResponse
// @Router    /movies/genre/{name} [get]
// @Security  BearerAuth
func (h *Handler) getMovieByGenre(c *gin.Context) {
	name := c.Param("name")
	m, err := h.services.Movies.ByGenre(c.Request.Context(), name)
	if err != nil {
		h.respondError(c, err, "movies_genre_failed", "genre", name)
		return
	}
	c.JSON(http.StatusOK, m)
}

// getMovieByDirector godoc
// @Summary   Get the first movie of a director
// @Tags      movies
// @Produce   json
// @Param     name  path      string  true  "Director name"
// @Success   200   {object}  models.Movie
// @Failure   404   {object}  myflix.ErrorResponse
// @Router    /movies/director/{name} [get]
// @Security  BearerAuth
func (h *Handler) getMovieByDirector(c *gin.Context) {
	name := c.Param("name")
	m, err := h.services.Movies.ByDirector(c.Request.Context(), name)
	if err != nil {
		h.respondError(c, err, "movies_director_failed", "director", name)
		return
	}
	c.JSON(http.StatusOK, m)
}
