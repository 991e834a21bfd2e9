package handler

import (
	"net/http"

	"staffportal/internal/middleware"
	"staffportal/internal/service"
	"staffportal/pkg/pagination"
	"staffportal/pkg/response"

	"github.com/gin-gonic/gin"
)

type StaffHandler struct {
	staffService service.StaffService
}

// NewStaffHandler sets up the routing dependencies for staff endpoints
func NewStaffHandler(staffService service.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *StaffHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
	}

	staff := router.Group("/api/staff")
	staff.Use(middleware.RequireAuth())
	{
		staff.GET("", h.ListStaff)
		staff.GET("/me", h.GetMe)
		staff.GET("/:id", h.GetStaffByID)
		staff.POST("", middleware.RequireAdmin(), h.CreateStaff)
		staff.PUT("/:id", middleware.RequireAdmin(), h.UpdateStaff)
		staff.DELETE("/:id", middleware.RequireAdmin(), h.DeleteStaff)
	}
}

// Login authenticates a staff member and sets token cookies
// @Summary      Login
// @Description  Authenticates by email and password, returning access and refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginStaffRequest  true  "Login Credentials"
// @Success      200      {object}  response.Response{data=service.TokenResponse}
// @Failure      401      {object}  response.Response
// @Router       /api/auth/login [post]
func (h *StaffHandler) Login(c *gin.Context) {
	var req service.LoginStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	tokens, err := h.staffService.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
		return
	}

	middleware.SetTokenCookies(c, tokens.AccessToken, tokens.RefreshToken)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokens))
}

// Refresh exchanges a refresh token for a new access token
// @Summary      Refresh access token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.TokenResponse}
// @Failure      401  {object}  response.Response
// @Router       /api/auth/refresh [post]
func (h *StaffHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil || refreshToken == "" {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing refresh token"))
		return
	}

	tokens, err := h.staffService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
		return
	}

	middleware.SetTokenCookies(c, tokens.AccessToken, tokens.RefreshToken)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokens))
}

// Logout revokes the refresh token and clears cookies
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/auth/logout [post]
func (h *StaffHandler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie("refresh_token")
	if err := h.staffService.Logout(c.Request.Context(), refreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	middleware.ClearTokenCookies(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "logged out"}))
}

// GetMe returns the caller's directory entry
// @Summary      Get my profile
// @Tags         staff
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.StaffResponse}
// @Router       /api/staff/me [get]
func (h *StaffHandler) GetMe(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing acting identity"))
		return
	}

	staff, err := h.staffService.GetStaffByID(c.Request.Context(), identity.StaffID.String())
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, staff))
}

// CreateStaff adds a member to the staff directory
// @Summary      Create staff member
// @Tags         staff
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateStaffRequest  true  "Create Staff Payload"
// @Success      201      {object}  response.Response{data=service.StaffResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/staff [post]
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)

	var req service.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	staff, err := h.staffService.CreateStaff(c.Request.Context(), identity, req)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, staff))
}

// GetStaffByID returns a single directory entry
// @Summary      Get staff member
// @Tags         staff
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Staff ID"
// @Success      200  {object}  response.Response{data=service.StaffResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/staff/{id} [get]
func (h *StaffHandler) GetStaffByID(c *gin.Context) {
	staff, err := h.staffService.GetStaffByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, staff))
}

// ListStaff returns the staff directory, paginated
// @Summary      List staff
// @Tags         staff
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.ListResponse{data=[]service.StaffResponse}
// @Router       /api/staff [get]
func (h *StaffHandler) ListStaff(c *gin.Context) {
	params := pagination.Parse(c)
	members, total, err := h.staffService.ListStaff(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.List(http.StatusOK, members, total, params.Page, params.Limit))
}

// UpdateStaff modifies a directory entry
// @Summary      Update staff member
// @Tags         staff
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Staff ID"
// @Param        payload  body      service.UpdateStaffRequest  true  "Update Staff Payload"
// @Success      200      {object}  response.Response{data=service.StaffResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/staff/{id} [put]
func (h *StaffHandler) UpdateStaff(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)

	var req service.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	staff, err := h.staffService.UpdateStaff(c.Request.Context(), identity, c.Param("id"), req)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, staff))
}

// DeleteStaff removes a directory entry and cascades their workflow records
// @Summary      Delete staff member
// @Tags         staff
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Staff ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/staff/{id} [delete]
func (h *StaffHandler) DeleteStaff(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)

	if err := h.staffService.DeleteStaff(c.Request.Context(), identity, c.Param("id")); err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
