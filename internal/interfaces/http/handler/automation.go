package handler

import (
	"github.com/gin-gonic/gin"

	app "github.com/erp/automation/internal/application/automation"
	domain "github.com/erp/automation/internal/domain/automation"
	"github.com/erp/automation/internal/interfaces/http/dto"
	"github.com/erp/automation/internal/interfaces/http/router"
)

// AutomationHandler exposes triggers, actions and searches to the host platform.
// Every invocation takes a bundle as its JSON body.
type AutomationHandler struct {
	BaseHandler
	registry *app.Registry
}

// NewAutomationHandler creates an AutomationHandler
func NewAutomationHandler(registry *app.Registry) *AutomationHandler {
	return &AutomationHandler{registry: registry}
}

// AutomationRoutes creates the route group for automation endpoints
func AutomationRoutes(h *AutomationHandler, mw ...gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("automation", "/automation")
	group.Use(mw...)

	group.GET("/catalog", h.GetCatalog)

	triggers := group.Group("triggers", "/triggers/:key")
	triggers.POST("/subscribe", h.Subscribe)
	triggers.POST("/unsubscribe", h.Unsubscribe)
	triggers.POST("/list", h.List)
	triggers.POST("/perform", h.Perform)

	group.POST("/actions/:key", h.PerformAction)
	group.POST("/searches/:key", h.PerformSearch)

	return group
}

// GetCatalog godoc
// @ID           getAutomationCatalog
// @Summary      List triggers, actions and searches
// @Description  Returns keys, labels, input and output fields and a sample record for every handler
// @Tags         automation
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=app.Catalog}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /automation/catalog [get]
func (h *AutomationHandler) GetCatalog(c *gin.Context) {
	h.Success(c, h.registry.Catalog())
}

func (h *AutomationHandler) trigger(c *gin.Context) (*app.Trigger, bool) {
	t, err := h.registry.Trigger(c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return t, true
}

// Subscribe godoc
// @ID           subscribeAutomationTrigger
// @Summary      Subscribe a trigger
// @Description  Registers bundle.targetUrl with the ERP for the trigger's event and returns the subscription handle
// @Tags         triggers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        key     path  string        true "Trigger key" example(newTask)
// @Param        request body  domain.Bundle true "Bundle with authData and targetUrl"
// @Success      200 {object} dto.Response{data=domain.Record}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /automation/triggers/{key}/subscribe [post]
func (h *AutomationHandler) Subscribe(c *gin.Context) {
	t, ok := h.trigger(c)
	if !ok {
		return
	}
	b, ok := h.bindBundle(c)
	if !ok {
		return
	}
	handle, err := t.Subscribe(c.Request.Context(), b)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, handle)
}

// Unsubscribe godoc
// @ID           unsubscribeAutomationTrigger
// @Summary      Unsubscribe a trigger
// @Description  Deletes the subscription named by bundle.subscribeData.id
// @Tags         triggers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        key     path  string        true "Trigger key" example(newTask)
// @Param        request body  domain.Bundle true "Bundle with authData and subscribeData"
// @Success      200 {object} dto.Response{data=domain.Record}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /automation/triggers/{key}/unsubscribe [post]
func (h *AutomationHandler) Unsubscribe(c *gin.Context) {
	t, ok := h.trigger(c)
	if !ok {
		return
	}
	b, ok := h.bindBundle(c)
	if !ok {
		return
	}
	result, err := t.Unsubscribe(c.Request.Context(), b)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// List godoc
// @ID           listAutomationTrigger
// @Summary      Poll a trigger
// @Description  Returns the most recent records, newest first, with their dedupe keys
// @Tags         triggers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        key     path  string        true "Trigger key" example(newTask)
// @Param        request body  domain.Bundle true "Bundle with authData and optional meta.limit and meta.page"
// @Success      200 {object} dto.Response{data=dto.TriggerResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /automation/triggers/{key}/list [post]
func (h *AutomationHandler) List(c *gin.Context) {
	t, ok := h.trigger(c)
	if !ok {
		return
	}
	b, ok := h.bindBundle(c)
	if !ok {
		return
	}
	records, err := t.List(c.Request.Context(), b)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewTriggerResponse(records))
}

// Perform returns a pushed payload as is, or polls when none was delivered.
// When a webhook secret is configured the pushed payload must carry a valid
// signature in the X-Webhook-Signature header.
//
// @ID           performAutomationTrigger
// @Summary      Run a trigger
// @Description  Returns bundle.cleanedRequest unchanged when present, otherwise polls like list
// @Tags         triggers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        key                 path   string        true  "Trigger key" example(newTask)
// @Param        X-Webhook-Signature header string        false "HMAC-SHA256 of cleanedRequest, hex encoded"
// @Param        request             body   domain.Bundle true  "Bundle with cleanedRequest or authData"
// @Success      200 {object} dto.Response{data=dto.TriggerResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /automation/triggers/{key}/perform [post]
func (h *AutomationHandler) Perform(c *gin.Context) {
	t, ok := h.trigger(c)
	if !ok {
		return
	}
	b, ok := h.bindBundle(c)
	if !ok {
		return
	}
	if b.HasDelivery() {
		if err := h.registry.VerifyDelivery(b.CleanedRequest, c.GetHeader(app.SignatureHeader)); err != nil {
			h.HandleError(c, err)
			return
		}
	}
	records, err := t.Perform(c.Request.Context(), b)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewTriggerResponse(records))
}

// PerformAction godoc
// @ID           performAutomationAction
// @Summary      Run an action
// @Description  Creates or updates one ERP entity from bundle.inputData. Every call carries a fresh Idempotency-Key.
// @Tags         actions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        key     path  string        true "Action key" example(createTask)
// @Param        request body  domain.Bundle true "Bundle with authData and inputData"
// @Success      200 {object} dto.Response{data=domain.Record}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /automation/actions/{key} [post]
func (h *AutomationHandler) PerformAction(c *gin.Context) {
	a, err := h.registry.Action(c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	b, ok := h.bindBundle(c)
	if !ok {
		return
	}
	record, err := a.Perform(c.Request.Context(), b)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// PerformSearch godoc
// @ID           performAutomationSearch
// @Summary      Run a search
// @Description  Looks up ERP entities by the non-empty inputData fields; no match is an empty list
// @Tags         searches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        key     path  string        true "Search key" example(findContact)
// @Param        request body  domain.Bundle true "Bundle with authData and inputData"
// @Success      200 {object} dto.Response{data=dto.SearchResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /automation/searches/{key} [post]
func (h *AutomationHandler) PerformSearch(c *gin.Context) {
	s, err := h.registry.Search(c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	b, ok := h.bindBundle(c)
	if !ok {
		return
	}
	records, err := s.Perform(c.Request.Context(), b)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if records == nil {
		records = []domain.Record{}
	}
	h.Success(c, dto.SearchResponse{Records: records})
}
