package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// listUsers godoc
// @Summary   List users
// @Tags      users
// @Produce   json
// @Success   200  {array}   models.User
// @Failure   401  {object}  myflix.ErrorResponse
// @Failure   500  {object}  myflix.ErrorResponse
// @Router    /users [get]
// @Security  BearerAuth
func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.services.Users.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "users_list_failed")
		return
	}
	c.JSON(http.StatusOK, users)
}

// getUser godoc
// @Summary   Get a user by username
// @Tags      users
// @Produce   json
// @Param     username  path      string  true  "Username"
// @Success   200       {object}  models.User
// @Failure   401       {object}  myflix.ErrorResponse
// @Failure   404       {object}  myflix.ErrorResponse
// @Router    /users/{username} [get]
// @Security  BearerAuth
func (h *Handler) getUser(c *gin.Context) {
	username := c.Param("username")
	u, err := h.services.Users.Get(c.Request.Context(), username)
	if err != nil {
		h.respondError(c, err, "users_get_failed", "username", username)
		return
	}
	c.JSON(http.StatusOK, u)
}

// updateUser godoc
// @Summary      Update a user's profile
// @Description  Replaces Username, Password, Email and Birthday. The password is re-hashed.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        username  path      string    true  "Username"
// @Param        body      body      userForm  true  "New profile"
// @Success      200       {object}  models.User
// @Failure      400       {object}  myflix.ErrorResponse
// @Failure      403       {object}  myflix.ErrorResponse
// @Failure      404       {object}  myflix.ErrorResponse
// @Failure      422       {object}  myflix.ValidationErrorResponse
// @Router       /users/{username} [put]
// @Security     BearerAuth
func (h *Handler) updateUser(c *gin.Context) {
	var form userForm
	if ok := h.bindOrBadRequest(c, &form); !ok {
		return
	}

	username := c.Param("username")
	u, err := h.services.Users.Update(c.Request.Context(), username, form.input())
	if err != nil {
		h.respondError(c, err, "users_update_failed", "username", username)
		return
	}
	c.JSON(http.StatusOK, u)
}

// addFavorite godoc
// @Summary   Add a movie to the user's favorites
// @Tags      users
// @Produce   json
// @Param     username  path      string  true  "Username"
// @Param     movieId   path      string  true  "Movie id"
// @Success   200       {object}  models.User
// @Failure   403       {object}  myflix.ErrorResponse
// @Failure   404       {object}  myflix.ErrorResponse
// @Router    /users/{username}/movies/{movieId} [post]
// @Security  BearerAuth
func (h *Handler) addFavorite(c *gin.Context) {
	username, movieID := c.Param("username"), c.Param("movieId")
	u, err := h.services.Users.AddFavorite(c.Request.Context(), username, movieID)
	if err != nil {
		h.respondError(c, err, "favorites_add_failed", "username", username, "movie_id", movieID)
		return
	}
	c.JSON(http.StatusOK, u)
}

// removeFavorite godoc
// @Summary   Remove a movie from the user's favorites
// @Tags      users
// @Produce   json
// @Param     username  path      string  true  "Username"
// @Param     movieId   path      string  true  "Movie id"
// @Success   200       {object}  models.User
// @Failure   403       {object}  myflix.ErrorResponse
// @Failure   404       {object}  myflix.ErrorResponse
// @Router    /users/{username}/movies/{movieId} [delete]
// @Security  BearerAuth
func (h *Handler) removeFavorite(c *gin.Context) {
	username, movieID := c.Param("username"), c.Param("movieId")
	u, err := h.services.Users.RemoveFavorite(c.Request.Context(), username, movieID)
	if err != nil {
		h.respondError(c, err, "favorites_remove_failed", "username", username, "movie_id", movieID)
		return
	}
	c.JSON(http.StatusOK, u)
}

// deleteUser godoc
// @Summary   Deregister a user
// @Tags      users
// @Produce   plain
// @Param     username  path      string  true  "Username"
// @Success   200       {string}  string  "<username> was deleted."
// @Failure   403       {object}  myflix.ErrorResponse
// @Failure   404       {object}  myflix.ErrorResponse
// @Router    /users/{username} [delete]
// @Security  BearerAuth
func (h *Handler) deleteUser(c *gin.Context) {
	username := c.Param("username")
	if err := h.services.Users.Delete(c.Request.Context(), username); err != nil {
		h.respondError(c, err, "users_delete_failed", "username", username)
		return
	}
	if h.log != nil {
		h.log.Infow("users_deleted", "username", username)
	}
	c.String(http.StatusOK, "%s was deleted.", username)
}
