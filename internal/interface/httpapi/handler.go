package httpapi

import (
	"io"
	"net/http"
	"strings"

	"flightstatus-service/internal/domain/entity"
	"flightstatus-service/internal/usecase"
	"flightstatus-service/pkg/logger"
	"flightstatus-service/pkg/utils"
	"flightstatus-service/templates"

	"github.com/gin-gonic/gin"
)

const maxNotificationBody = 1 << 20

// Handler exposes the conversation over JSON
type Handler struct {
	conversation  *usecase.Conversation
	dispatcher    *usecase.ActionDispatcher
	renderer      *templates.Renderer
	defaultLocale utils.Locale
	logger        logger.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	conversation *usecase.Conversation,
	dispatcher *usecase.ActionDispatcher,
	renderer *templates.Renderer,
	defaultLocale utils.Locale,
	logger logger.Logger,
) *Handler {
	return &Handler{
		conversation:  conversation,
		dispatcher:    dispatcher,
		renderer:      renderer,
		defaultLocale: defaultLocale,
		logger:        logger,
	}
}

type messageRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
	Text           string `json:"text"`
	Locale         string `json:"locale"`
}

type actionRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
	Action         string `json:"action" binding:"required"`
	Locale         string `json:"locale"`
}

type renderedNotification struct {
	Notification string   `json:"notification"`
	Report       string   `json:"report"`
	Subscribers  []string `json:"subscribers"`
}

type notificationResponse struct {
	Items []renderedNotification `json:"items"`
}

// HandleMessage handles POST /api/v1/messages
func (h *Handler) HandleMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"message": err.Error(),
		})
		return
	}

	reply := h.conversation.HandleMessage(c.Request.Context(), req.ConversationID, req.Text, h.locale(c, req.Locale, req.Text))
	c.JSON(http.StatusOK, reply)
}

// HandleAction handles POST /api/v1/actions
func (h *Handler) HandleAction(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"message": err.Error(),
		})
		return
	}

	reply := h.dispatcher.HandleAction(c.Request.Context(), req.ConversationID, req.Action, h.locale(c, req.Locale, ""))
	c.JSON(http.StatusOK, reply)
}

// RenderNotification handles POST /api/v1/notifications/render. The body is
// a raw provider push; every flight in it is rendered and paired with the
// conversations subscribed to it. Anything unusable renders as the no-data
// text with no subscribers.
func (h *Handler) RenderNotification(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxNotificationBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"message": err.Error(),
		})
		return
	}

	records, err := entity.DecodeFlightRecords(body)
	if err != nil || len(records) == 0 {
		h.logger.Debug("Notification payload held no flight", "error", err)
		c.JSON(http.StatusOK, notificationResponse{
			Items: []renderedNotification{{
				Notification: templates.NoDataReport,
				Report:       templates.NoDataReport,
				Subscribers:  []string{},
			}},
		})
		return
	}

	resp := notificationResponse{Items: make([]renderedNotification, 0, len(records))}
	for i := range records {
		subscribers, err := h.conversation.Subscribers(c.Request.Context(), &records[i])
		if err != nil {
			h.logger.Error("Failed to load subscribers", "flightNumber", records[i].Number, "error", err)
		}
		if subscribers == nil {
			subscribers = []string{}
		}
		resp.Items = append(resp.Items, renderedNotification{
			Notification: h.renderer.Notification(&records[i]),
			Report:       h.renderer.FullReport(&records[i]),
			Subscribers:  subscribers,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "Healthy")
}

// locale prefers the body, then Accept-Language, then the language of the
// message text, then the configured default
func (h *Handler) locale(c *gin.Context, requested string, text string) utils.Locale {
	if requested == "" {
		requested = strings.Split(c.GetHeader("Accept-Language"), ",")[0]
	}
	if requested != "" {
		return utils.ParseLocale(requested)
	}
	if detected, ok := utils.DetectLocale(text); ok {
		return detected
	}
	return h.defaultLocale
}
