package handlers

import (
	"net/http"
	"strconv"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
	"github.com/LaibaFaraz/HealMind/internal/interfaces"
	"github.com/LaibaFaraz/HealMind/internal/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	viewModel interfaces.TrackingViewModel
	usecase   interfaces.Usecases
	logger    *zap.Logger
}

func NewHandler(viewModel interfaces.TrackingViewModel, usecase interfaces.Usecases, logger *zap.Logger) *Handler {
	return &Handler{viewModel: viewModel, usecase: usecase, logger: logger}
}

// CreateConnection подключает view-model к сервису трекинга
func (h *Handler) CreateConnection(c *gin.Context) {
	var req entities.ConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверный запрос: " + err.Error()})
		return
	}

	state, err := h.viewModel.SetUpTracking(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, gin.H{"state": state})
		return
	}
	c.JSON(http.StatusCreated, state)
}

func (h *Handler) GetConnections(c *gin.Context) {
	c.JSON(http.StatusOK, h.usecase.GetAllConnections())
}

func (h *Handler) DeleteConnection(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if err := h.usecase.DeleteConnection(sessionID); err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "подключение " + sessionID + " удалено"})
}

// CheckConnection обрабатывает запрос на проверку доступности устройства
func (h *Handler) CheckConnection(c *gin.Context) {
	conn, err := h.usecase.CheckConnection(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		h.fail(c, err, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "connection": conn})
}

func (h *Handler) StartTracking(c *gin.Context) {
	if err := h.viewModel.StartTracking(c.Request.Context()); err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, h.viewModel.State().Tracking)
}

func (h *Handler) StopTracking(c *gin.Context) {
	if err := h.viewModel.StopTracking(); err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, h.viewModel.State().Tracking)
}

func (h *Handler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.viewModel.State())
}

// SendMessage отправляет собранные значения на телефон
func (h *Handler) SendMessage(c *gin.Context) {
	sent, err := h.viewModel.SendMessage(c.Request.Context())
	if err != nil {
		h.fail(c, err, gin.H{"sent": sent})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": sent})
}

// RunStress запускает пакетную оценку стресса за последние hours часов
func (h *Handler) RunStress(c *gin.Context) {
	hours, err := strconv.Atoi(c.DefaultQuery("hours", "1"))
	if err != nil || hours <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверный параметр 'hours', ожидается положительное целое число"})
		return
	}

	summary, err := h.usecase.RunStressBatch(c.Request.Context(), hours)
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) GetPredictions(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверный параметр 'limit', ожидается целое число"})
		return
	}

	predictions, err := h.usecase.RecentPredictions(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, predictions)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail пишет ошибку с HTTP статусом по коду AppError
func (h *Handler) fail(c *gin.Context, err error, extra gin.H) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("ошибка обработки запроса", zap.String("path", c.FullPath()), zap.Error(err))
	}

	body := gin.H{"error": err.Error()}
	if code := apperrors.Code(err); code != "" {
		body["code"] = code
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

func statusFor(err error) int {
	switch apperrors.Code(err) {
	case apperrors.ErrConnectionNotFound:
		return http.StatusNotFound
	case apperrors.ErrConnectionExists, apperrors.ErrTrackingActive:
		return http.StatusConflict
	case apperrors.ErrTrackingNotReady, apperrors.ErrTrackingUnsupported:
		return http.StatusPreconditionFailed
	case apperrors.ErrMessageEmpty:
		return http.StatusUnprocessableEntity
	case apperrors.ErrConnectionProbe:
		return http.StatusBadGateway
	case apperrors.ErrMessageSend:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
