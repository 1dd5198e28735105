package handlers

import (
	"errors"
	"net/http"

	"myflix"
	"myflix/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// userForm is the registration and profile-update payload, accepted as JSON
// or as a form.
type userForm struct {
	Username string `json:"Username" form:"Username" example:"alice123"`
	Password string `json:"Password" form:"Password" example:"secretpw"`
	Email    string `json:"Email" form:"Email" example:"a@b.com"`
	Birthday string `json:"Birthday" form:"Birthday" example:"1990-05-17"`
}

func (f userForm) input() service.UserInput {
	return service.UserInput{
		Username: f.Username,
		Password: f.Password,
		Email:    f.Email,
		Birthday: f.Birthday,
	}
}

const loginCredentialsKey = "login_credentials"

type loginForm struct {
	Username string `json:"Username" form:"Username"`
	Password string `json:"Password" form:"Password"`
}

// loginCredentials reads Username and Password from a JSON body, falling back
// to the query string and form body per field. The result is cached on the
// context so the rate limiter and the login handler see the same username.
func loginCredentials(c *gin.Context) loginForm {
	if v, ok := c.Get(loginCredentialsKey); ok {
		if f, ok := v.(loginForm); ok {
			return f
		}
	}

	var f loginForm
	if c.ContentType() == binding.MIMEJSON {
		_ = c.ShouldBindBodyWith(&f, binding.JSON)
	}
	if f.Username == "" {
		f.Username = formOrQuery(c, "Username")
	}
	if f.Password == "" {
		f.Password = formOrQuery(c, "Password")
	}

	c.Set(loginCredentialsKey, f)
	return f
}

func formOrQuery(c *gin.Context, key string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return c.PostForm(key)
}

// bindOrBadRequest binds the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled.
func (h *Handler) bindOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBind(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.Request.URL.Path, "err", err)
		}
		c.JSON(http.StatusBadRequest, myflix.ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}

// register godoc
// @Summary      Register a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      userForm  true  "New user"
// @Success      201   {object}  models.User
// @Failure      400   {object}  myflix.ErrorResponse
// @Failure      422   {object}  myflix.ValidationErrorResponse
// @Failure      500   {object}  myflix.ErrorResponse
// @Router       /users [post]
func (h *Handler) register(c *gin.Context) {
	var form userForm
	if ok := h.bindOrBadRequest(c, &form); !ok {
		return
	}

	u, err := h.services.Users.Register(c.Request.Context(), form.input())
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_register_failed", "username", form.Username, "err", err)
		}
		h.respondError(c, err, "auth_register_store_failed", "username", form.Username)
		return
	}

	c.JSON(http.StatusCreated, u)
}

// login godoc
// @Summary      Log in
// @Description  Credentials are read from a JSON body, the query string or a form body.
// @Tags         auth
// @Produce      json
// @Param        Username  query     string  true  "Username"
// @Param        Password  query     string  true  "Password"
// @Success      200       {object}  myflix.LoginResponse
// @Failure      400       {object}  myflix.ErrorResponse
// @Failure      429       {object}  map[string]string
// @Router       /login [post]
func (h *Handler) login(c *gin.Context) {
	creds := loginCredentials(c)
	ip, username := c.ClientIP(), creds.Username

	u, err := h.services.Local.Verify(c.Request.Context(), creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) && h.limiter != nil {
			if locked := h.limiter.RecordFailure(ip, username); locked && h.log != nil {
				h.log.Warnw("auth_login_locked_out", "ip", ip, "username", username)
			}
		}
		if h.log != nil {
			h.log.Infow("auth_login_failed", "username", username, "err", err)
		}
		h.respondError(c, err, "auth_login_store_failed")
		return
	}

	token, err := h.services.Tokens.Issue(u)
	if err != nil {
		h.respondError(c, err, "auth_issue_token_failed", "username", u.Username)
		return
	}
	if h.limiter != nil {
		h.limiter.RecordSuccess(ip, username)
	}

	c.JSON(http.StatusOK, myflix.LoginResponse{User: u, Token: token})
}
