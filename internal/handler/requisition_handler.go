package handler

import (
	"net/http"
	"strconv"

	"staffportal/internal/middleware"
	"staffportal/internal/service"
	"staffportal/pkg/pagination"
	"staffportal/pkg/response"

	"github.com/gin-gonic/gin"
)

type RequisitionHandler struct {
	requisitionService service.RequisitionService
}

func NewRequisitionHandler(requisitionService service.RequisitionService) *RequisitionHandler {
	return &RequisitionHandler{requisitionService: requisitionService}
}

func (h *RequisitionHandler) RegisterRoutes(router *gin.RouterGroup) {
	requisitions := router.Group("/api/requisitions")
	requisitions.Use(middleware.RequireAuth())
	{
		requisitions.POST("", h.Submit)
		requisitions.GET("/pending", h.ListPending)
		requisitions.GET("/mine", h.ListMine)
		requisitions.GET("/:id", h.Get)
		requisitions.PUT("/:id/approve", h.Approve)
		requisitions.PUT("/:id/reject", h.Reject)
	}
}

// Submit creates a new OPEX/CAPEX requisition
// @Summary      Submit requisition
// @Description  Submits an expenditure requisition naming all four approvers; all approval slots start Pending
// @Tags         requisitions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.SubmitRequisitionDTO  true  "Requisition Payload"
// @Success      201      {object}  response.Response{data=service.RequisitionResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/requisitions [post]
func (h *RequisitionHandler) Submit(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing acting identity"))
		return
	}

	var req service.SubmitRequisitionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requisitionService.Submit(c.Request.Context(), identity, req)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListPending returns requisitions awaiting the caller's decision
// @Summary      List pending approvals
// @Description  Returns every requisition with a Pending slot assigned to the caller (administrators see all pending requisitions)
// @Tags         requisitions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.RequisitionResponse}
// @Router       /api/requisitions/pending [get]
func (h *RequisitionHandler) ListPending(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing acting identity"))
		return
	}

	result, err := h.requisitionService.ListPendingFor(c.Request.Context(), identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ListMine returns the caller's requisition history
// @Summary      List my requisitions
// @Tags         requisitions
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.ListResponse{data=[]service.RequisitionResponse}
// @Router       /api/requisitions/mine [get]
func (h *RequisitionHandler) ListMine(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing acting identity"))
		return
	}

	params := pagination.Parse(c)
	result, total, err := h.requisitionService.ListByRequester(c.Request.Context(), identity, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.List(http.StatusOK, result, total, params.Page, params.Limit))
}

// Get returns a requisition's full current state
// @Summary      Get requisition
// @Description  Returns all four approval slots and the final status for display/audit
// @Tags         requisitions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Requisition ID"
// @Success      200  {object}  response.Response{data=service.RequisitionResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/requisitions/{id} [get]
func (h *RequisitionHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid requisition id"))
		return
	}

	result, err := h.requisitionService.Get(c.Request.Context(), uint(id))
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Approve records an approval on every pending slot the caller is named in
// @Summary      Approve requisition
// @Tags         requisitions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Requisition ID"
// @Success      200  {object}  response.Response{data=service.RequisitionResponse}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/requisitions/{id}/approve [put]
func (h *RequisitionHandler) Approve(c *gin.Context) {
	h.decide(c, service.DecisionApprove)
}

// Reject records a rejection on every pending slot the caller is named in
// @Summary      Reject requisition
// @Tags         requisitions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Requisition ID"
// @Success      200  {object}  response.Response{data=service.RequisitionResponse}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/requisitions/{id}/reject [put]
func (h *RequisitionHandler) Reject(c *gin.Context) {
	h.decide(c, service.DecisionReject)
}

func (h *RequisitionHandler) decide(c *gin.Context, decision string) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing acting identity"))
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid requisition id"))
		return
	}

	result, err := h.requisitionService.Decide(c.Request.Context(), uint(id), identity, decision)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
