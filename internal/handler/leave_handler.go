package handler

import (
	"net/http"

	"staffportal/internal/middleware"
	"staffportal/internal/service"
	"staffportal/pkg/pagination"
	"staffportal/pkg/response"

	"github.com/gin-gonic/gin"
)

type LeaveHandler struct {
	leaveService service.LeaveService
}

func NewLeaveHandler(leaveService service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveService: leaveService}
}

func (h *LeaveHandler) RegisterRoutes(router *gin.RouterGroup) {
	leaves := router.Group("/api/leaves")
	leaves.Use(middleware.RequireAuth())
	{
		leaves.POST("", h.Submit)
		leaves.GET("/mine", h.ListMine)
		leaves.GET("/pending", middleware.RequireAdmin(), h.ListPending)
		leaves.PUT("/:id/approve", middleware.RequireAdmin(), h.Approve)
		leaves.PUT("/:id/reject", middleware.RequireAdmin(), h.Reject)
	}
}

// Submit files a leave request
// @Summary      Submit leave request
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.SubmitLeaveDTO  true  "Leave Payload"
// @Success      201      {object}  response.Response{data=service.LeaveResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/leaves [post]
func (h *LeaveHandler) Submit(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing acting identity"))
		return
	}

	var req service.SubmitLeaveDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.leaveService.Submit(c.Request.Context(), identity, req)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListMine returns the caller's leave history
// @Summary      List my leave requests
// @Tags         leaves
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.LeaveResponse}
// @Router       /api/leaves/mine [get]
func (h *LeaveHandler) ListMine(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing acting identity"))
		return
	}

	result, err := h.leaveService.ListMine(c.Request.Context(), identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ListPending returns pending leave requests for administrator review
// @Summary      List pending leave requests
// @Tags         leaves
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.ListResponse{data=[]service.LeaveResponse}
// @Router       /api/leaves/pending [get]
func (h *LeaveHandler) ListPending(c *gin.Context) {
	params := pagination.Parse(c)
	result, total, err := h.leaveService.ListPending(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.List(http.StatusOK, result, total, params.Page, params.Limit))
}

// Approve approves a pending leave request
// @Summary      Approve leave request
// @Tags         leaves
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Leave Request ID"
// @Success      200  {object}  response.Response{data=service.LeaveResponse}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/leaves/{id}/approve [put]
func (h *LeaveHandler) Approve(c *gin.Context) {
	h.decide(c, service.DecisionApprove)
}

// Reject rejects a pending leave request
// @Summary      Reject leave request
// @Tags         leaves
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Leave Request ID"
// @Success      200  {object}  response.Response{data=service.LeaveResponse}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/leaves/{id}/reject [put]
func (h *LeaveHandler) Reject(c *gin.Context) {
	h.decide(c, service.DecisionReject)
}

func (h *LeaveHandler) decide(c *gin.Context, decision string) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing acting identity"))
		return
	}

	result, err := h.leaveService.Decide(c.Request.Context(), c.Param("id"), identity, decision)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
