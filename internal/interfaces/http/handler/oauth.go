package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	app "github.com/erp/automation/internal/application/automation"
	"github.com/erp/automation/internal/interfaces/http/dto"
	"github.com/erp/automation/internal/interfaces/http/router"
)

// OAuthHandler connects host accounts to the ERP backend. Tokens are returned
// to the host and never stored here.
type OAuthHandler struct {
	BaseHandler
	connections *app.ConnectionService
}

// NewOAuthHandler creates an OAuthHandler
func NewOAuthHandler(connections *app.ConnectionService) *OAuthHandler {
	return &OAuthHandler{connections: connections}
}

// OAuthRoutes creates the route group for the OAuth endpoints. The callback
// is reached by the user's browser and must be excluded from host auth.
func OAuthRoutes(h *OAuthHandler, mw ...gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("oauth", "/oauth")
	group.Use(mw...)

	group.GET("/authorize", h.Authorize)
	group.GET("/callback", h.Callback)
	group.POST("/token", h.Token)
	group.POST("/refresh", h.Refresh)
	group.POST("/test", h.Test)

	return group
}

// Authorize starts a PKCE flow. It redirects to the backend's authorize page,
// or returns the URL and state when called with format=json.
//
// @ID           authorizeOAuth
// @Summary      Start an OAuth flow
// @Description  Stores a PKCE verifier under a fresh state and redirects to the ERP authorize page
// @Tags         oauth
// @Produce      json
// @Security     BearerAuth
// @Param        redirect_uri query string false "Overrides the configured redirect URI"
// @Param        format       query string false "json returns the URL instead of redirecting" Enums(json)
// @Success      200 {object} dto.Response{data=dto.AuthorizeResponse}
// @Success      302
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /oauth/authorize [get]
func (h *OAuthHandler) Authorize(c *gin.Context) {
	authURL, state, err := h.connections.Begin(c.Request.Context(), c.Query("redirect_uri"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if c.Query("format") == "json" {
		h.Success(c, dto.AuthorizeResponse{AuthorizeURL: authURL, State: state})
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// Callback completes a flow started by Authorize. The state is single use.
//
// @ID           callbackOAuth
// @Summary      Complete an OAuth flow
// @Description  Exchanges the code with the verifier stored for state. Reached by the user's browser without a host token.
// @Tags         oauth
// @Produce      json
// @Param        state             query string true  "State returned by authorize"
// @Param        code              query string false "Authorization code"
// @Param        error             query string false "Error reported by the authorization server"
// @Param        error_description query string false "Error detail"
// @Success      200 {object} dto.Response{data=dto.TokenResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /oauth/callback [get]
func (h *OAuthHandler) Callback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		msg := c.Query("error_description")
		if msg == "" {
			msg = errParam
		}
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeAuthenticationFailed, msg)
		return
	}
	state := c.Query("state")
	if state == "" {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "state is required")
		return
	}
	tokens, err := h.connections.Complete(c.Request.Context(), state, c.Query("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewTokenResponse(tokens))
}

// Token godoc
// @ID           tokenOAuth
// @Summary      Exchange an authorization code
// @Description  For callers that ran the flow themselves and hold the PKCE verifier
// @Tags         oauth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.TokenRequest true "Authorization code"
// @Success      200 {object} dto.Response{data=dto.TokenResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /oauth/token [post]
func (h *OAuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tokens, err := h.connections.Exchange(c.Request.Context(), req.Code, req.RedirectURI, req.CodeVerifier)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewTokenResponse(tokens))
}

// Refresh godoc
// @ID           refreshOAuth
// @Summary      Refresh an access token
// @Description  Trades a refresh token for a new token pair; the old refresh token is kept when not rotated
// @Tags         oauth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.RefreshRequest true "Refresh token"
// @Success      200 {object} dto.Response{data=dto.TokenResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /oauth/refresh [post]
func (h *OAuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tokens, err := h.connections.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewTokenResponse(tokens))
}

// Test godoc
// @ID           testOAuth
// @Summary      Test a connection
// @Description  Verifies an access token against the ERP and returns the connection label
// @Tags         oauth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.TestRequest true "Access token, directly or as authData"
// @Success      200 {object} dto.Response{data=app.ConnectionTest}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /oauth/test [post]
func (h *OAuthHandler) Test(c *gin.Context) {
	var req dto.TestRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.Token() == "" {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "access_token is required")
		return
	}
	result, err := h.connections.Test(c.Request.Context(), req.Token())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
