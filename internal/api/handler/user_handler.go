package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-admin/internal/api/metrics"
	"github.com/99minutos/user-admin/internal/core/ports"
)

const (
	defaultPageNum  = 1
	defaultPageSize = 10
)

// UserHandler handles HTTP requests for user administration.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /users.
//
// @Summary      List or search users
// @Description  A blank query pages through all users. Any other query returns every user whose username contains it; total is then the number of matches returned.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        query     query     string  false  "Username substring"
// @Param        pageNum   query     int     false  "1-based page number"  default(1)
// @Param        pageSize  query     int     false  "Page size"            default(10)
// @Success      200       {object}  Envelope{data=userListResponse}
// @Failure      401       {object}  Envelope
// @Failure      403       {object}  Envelope
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	req := listUsersRequest{PageNum: defaultPageNum, PageSize: defaultPageSize}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.ListUsers(c.Request().Context(), ctxSession(c), ports.ListUsersInput{
		Query:    req.Query,
		PageNum:  req.PageNum,
		PageSize: req.PageSize,
	})
	metrics.Observe("list", err)
	if err != nil {
		return err
	}

	msg := "user list retrieved"
	if strings.TrimSpace(req.Query) != "" {
		msg = "search completed"
	}
	return ok(c, msg, toUserListResponse(res))
}

// Create handles POST /users.
//
// @Summary      Create a user
// @Description  New users are always enabled and assigned the default role.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      200   {object}  Envelope{data=userResponse}
// @Failure      400   {object}  Envelope
// @Failure      403   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Failure      422   {object}  Envelope
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	view, err := h.service.CreateUser(c.Request().Context(), ctxSession(c), toCreateInput(req))
	metrics.Observe("create", err)
	if err != nil {
		return err
	}
	metrics.UsersCreatedTotal.Inc()

	return ok(c, "user created", toUserResponse(view))
}

// Get handles GET /users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  Envelope{data=userResponse}
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	view, err := h.service.GetUser(c.Request().Context(), ctxSession(c), id)
	metrics.Observe("get", err)
	if err != nil {
		return err
	}
	return ok(c, "user found", toUserResponse(view))
}

// Delete handles DELETE /users/:id.
//
// @Summary      Delete a user
// @Description  Deleting an unknown id succeeds.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	err = h.service.DeleteUser(c.Request().Context(), ctxSession(c), id)
	metrics.Observe("delete", err)
	if err != nil {
		return err
	}
	return ok(c, "user deleted", nil)
}

// SetState handles PUT /users/:id/state/:state.
//
// @Summary      Enable or disable a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      int   true  "User id"
// @Param        state  path      bool  true  "Enabled"
// @Success      200    {object}  Envelope{data=userResponse}
// @Failure      403    {object}  Envelope
// @Failure      404    {object}  Envelope
// @Router       /users/{id}/state/{state} [put]
func (h *UserHandler) SetState(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	state, err := strconv.ParseBool(c.Param("state"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "state must be true or false")
	}

	view, err := h.service.SetState(c.Request().Context(), ctxSession(c), id, state)
	metrics.Observe("set_state", err)
	if err != nil {
		return err
	}
	return ok(c, "user updated", toUserResponse(view))
}

// UpdateContact handles PUT /users/:id.
//
// @Summary      Update a user's mobile and email
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "User id"
// @Param        body  body      updateContactRequest  true  "Contact details"
// @Success      200   {object}  Envelope{data=userResponse}
// @Failure      403   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Failure      422   {object}  Envelope
// @Router       /users/{id} [put]
func (h *UserHandler) UpdateContact(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	view, err := h.service.UpdateContact(c.Request().Context(), ctxSession(c), id, req.Mobile, req.Email)
	metrics.Observe("update_contact", err)
	if err != nil {
		return err
	}
	return ok(c, "user updated", toUserResponse(view))
}

// UpdateRole handles PUT /users/:id/role.
//
// @Summary      Assign a role to a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User id"
// @Param        body  body      updateRoleRequest  true  "Role reference"
// @Success      200   {object}  Envelope{data=userResponse}
// @Failure      403   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Failure      422   {object}  Envelope
// @Router       /users/{id}/role [put]
func (h *UserHandler) UpdateRole(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	view, err := h.service.UpdateRole(c.Request().Context(), ctxSession(c), id, req.ID)
	metrics.Observe("update_role", err)
	if err != nil {
		return err
	}
	return ok(c, "role assigned", toUserResponse(view))
}

// Info handles GET /users/info.
//
// @Summary      Current user
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=userInfoResponse}
// @Failure      401  {object}  Envelope
// @Router       /users/info [get]
func (h *UserHandler) Info(c echo.Context) error {
	info, err := h.service.CurrentUser(c.Request().Context(), ctxSession(c))
	metrics.Observe("current_user", err)
	if err != nil {
		return err
	}
	return ok(c, "", toUserInfoResponse(info))
}

// CheckPassword handles POST /users/checkPass.
//
// @Summary      Verify the current password
// @Tags         account
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        password  formData  string  true  "Current password"
// @Success      200       {object}  Envelope
// @Failure      400       {object}  Envelope
// @Failure      401       {object}  Envelope
// @Router       /users/checkPass [post]
func (h *UserHandler) CheckPassword(c echo.Context) error {
	password, err := bindPassword(c)
	if err != nil {
		return err
	}

	err = h.service.CheckPassword(c.Request().Context(), ctxSession(c), password)
	metrics.Observe("check_password", err)
	if err != nil {
		return err
	}
	return ok(c, "", nil)
}

// UpdatePassword handles POST /users/updatePassword.
//
// @Summary      Change the current password
// @Tags         account
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        password  formData  string  true  "New password"
// @Success      200       {object}  Envelope
// @Failure      400       {object}  Envelope
// @Failure      401       {object}  Envelope
// @Router       /users/updatePassword [post]
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	password, err := bindPassword(c)
	if err != nil {
		return err
	}

	err = h.service.UpdatePassword(c.Request().Context(), ctxSession(c), password)
	metrics.Observe("update_password", err)
	if err != nil {
		return err
	}
	return ok(c, "password updated", nil)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}

// bindPassword accepts the password as JSON, form field or query parameter.
func bindPassword(c echo.Context) (string, error) {
	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Password == "" {
		if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
			return "", echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
	}
	if err := c.Validate(&req); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return req.Password, nil
}
