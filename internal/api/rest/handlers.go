package rest

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"cashflow-sentinel/internal/alerts"
	"cashflow-sentinel/internal/api"
	"cashflow-sentinel/internal/logger"
	"cashflow-sentinel/internal/models"
	"cashflow-sentinel/internal/services"
	"cashflow-sentinel/internal/tools"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const serviceName = "dashboard-service"

type Handlers struct {
	transactions services.TransactionService
	detector     api.Detector
	alerts       api.AlertService
	businesses   api.BusinessLookup
	retriever    api.Retriever
	tools        api.ToolInvoker
}

// Создает новые обработчики REST API
func NewHandlers(transactions services.TransactionService, detector api.Detector, alertService api.AlertService,
	businesses api.BusinessLookup, retriever api.Retriever, toolInvoker api.ToolInvoker) *Handlers {
	return &Handlers{
		transactions: transactions,
		detector:     detector,
		alerts:       alertService,
		businesses:   businesses,
		retriever:    retriever,
		tools:        toolInvoker,
	}
}

func queryInt(c *gin.Context, key string, def, max int) int {
	if s := c.Query(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 && v <= max {
			return v
		}
	}
	return def
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// TransactionRequest тело создания транзакции
type TransactionRequest struct {
	Date        *time.Time             `json:"date"`
	Amount      decimal.Decimal        `json:"amount" swaggertype:"number"`
	Type        models.TransactionType `json:"type" binding:"required"`
	Category    string                 `json:"category"`
	Description string                 `json:"description"`
}

// CreateTransaction создает транзакцию текущего пользователя
// @Summary Создать транзакцию
// @Description Сохраняет транзакцию, обновляет векторный индекс и запускает поиск аномалий в фоне
// @Tags transactions
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ID пользователя"
// @Param transaction body TransactionRequest true "Данные транзакции"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 403 {object} map[string]string "У пользователя нет бизнеса"
// @Router /transactions [post]
func (h *Handlers) CreateTransaction(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	tx := &models.Transaction{
		Amount:      req.Amount,
		Type:        req.Type,
		Category:    req.Category,
		Description: req.Description,
	}
	if req.Date != nil {
		tx.Date = *req.Date
	}

	saved, err := h.transactions.Create(c.Request.Context(), userID(c), tx)
	if err != nil {
		h.transactionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// ListTransactions возвращает последние транзакции пользователя
// @Summary Список транзакций
// @Tags transactions
// @Produce json
// @Param X-User-ID header string true "ID пользователя"
// @Param limit query int false "Лимит результатов (максимум 500)" default(100)
// @Success 200 {object} map[string]interface{} "Список транзакций"
// @Router /transactions [get]
func (h *Handlers) ListTransactions(c *gin.Context) {
	list, err := h.transactions.List(c.Request.Context(), userID(c), queryInt(c, "limit", 100, 500))
	if err != nil {
		h.transactionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list})
}

// UpdateTransaction частично меняет транзакцию
// @Summary Изменить транзакцию
// @Tags transactions
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ID пользователя"
// @Param id path string true "ID транзакции"
// @Param patch body models.TransactionPatch true "Изменяемые поля"
// @Success 200 {object} models.Transaction
// @Failure 404 {object} map[string]string "Not Found"
// @Router /transactions/{id} [put]
func (h *Handlers) UpdateTransaction(c *gin.Context) {
	var patch models.TransactionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := h.transactions.Update(c.Request.Context(), userID(c), c.Param("id"), patch)
	if err != nil {
		h.transactionError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// DeleteTransaction удаляет транзакцию
// @Summary Удалить транзакцию
// @Tags transactions
// @Produce json
// @Param X-User-ID header string true "ID пользователя"
// @Param id path string true "ID транзакции"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Not Found"
// @Router /transactions/{id} [delete]
func (h *Handlers) DeleteTransaction(c *gin.Context) {
	if err := h.transactions.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		h.transactionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

func (h *Handlers) transactionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrBusinessNotFound):
		abortWithError(c, http.StatusForbidden, "Business not found")
	case errors.Is(err, services.ErrTransactionNotFound):
		abortWithError(c, http.StatusNotFound, "Transaction not found")
	case errors.Is(err, services.ErrInvalidTransaction):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// RunDetection запускает пакетный поиск аномалий
// @Summary Запустить поиск аномалий
// @Description Проверяет очередную пачку бизнесов и создает алерты
// @Tags detection
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /detection/run [post]
func (h *Handlers) RunDetection(c *gin.Context) {
	n, err := h.detector.RunDetection(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to run anomaly detection")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Anomaly detection completed", "anomaliesFound": n})
}

// RunBusinessDetection синхронно проверяет один бизнес пользователя
// @Summary Поиск аномалий для бизнеса
// @Tags detection
// @Produce json
// @Param X-User-ID header string true "ID пользователя"
// @Param id path string true "ID бизнеса"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /businesses/{id}/detection [post]
func (h *Handlers) RunBusinessDetection(c *gin.Context) {
	ctx := c.Request.Context()
	businessID := c.Param("id")

	b, err := h.businesses.GetBusiness(ctx, businessID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load business")
		return
	}
	if b == nil {
		abortWithError(c, http.StatusNotFound, "Business not found")
		return
	}
	if b.UserID != userID(c) {
		abortWithError(c, http.StatusForbidden, "Forbidden")
		return
	}

	n, err := h.detector.RunDetectionForBusiness(ctx, businessID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to run anomaly detection")
		return
	}
	c.JSON(http.StatusOK, gin.H{"anomaliesFound": n})
}

// ListAlerts возвращает последние алерты пользователя
// @Summary Список алертов
// @Tags alerts
// @Produce json
// @Param X-User-ID header string true "ID пользователя"
// @Param limit query int false "Лимит результатов (максимум 100)" default(20)
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "У пользователя нет бизнеса"
// @Router /alerts [get]
func (h *Handlers) ListAlerts(c *gin.Context) {
	list, err := h.alerts.Recent(c.Request.Context(), userID(c), queryInt(c, "limit", 20, 100))
	if err != nil {
		h.alertError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": list})
}

// UpdateAlert меняет статус алерта или заметки пользователя
// @Summary Изменить алерт
// @Tags alerts
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ID пользователя"
// @Param id path string true "ID алерта"
// @Param update body models.AlertUpdate true "Новый статус и заметки"
// @Success 200 {object} models.Alert
// @Failure 400 {object} map[string]string "Недопустимый статус"
// @Failure 403 {object} map[string]string "Алерт чужого бизнеса"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 409 {object} map[string]string "Переход назад или алерт закрыт"
// @Router /alerts/{id} [patch]
func (h *Handlers) UpdateAlert(c *gin.Context) {
	var upd models.AlertUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	alert, err := h.alerts.Update(c.Request.Context(), userID(c), c.Param("id"), upd)
	if err != nil {
		h.alertError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

func (h *Handlers) alertError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, alerts.ErrInvalidStatus):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, alerts.ErrForbidden), errors.Is(err, alerts.ErrBusinessNotFound):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, alerts.ErrAlertNotFound):
		abortWithError(c, http.StatusNotFound, "Alert not found")
	case errors.Is(err, alerts.ErrInvalidTransition), errors.Is(err, alerts.ErrAlertFinalized):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// SearchTransactions семантический поиск по транзакциям пользователя
// @Summary Поиск транзакций
// @Tags memory
// @Produce json
// @Param X-User-ID header string true "ID пользователя"
// @Param q query string true "Запрос"
// @Param limit query int false "Лимит результатов (максимум 50)" default(5)
// @Success 200 {object} map[string]interface{}
// @Router /search/transactions [get]
func (h *Handlers) SearchTransactions(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		abortWithError(c, http.StatusBadRequest, "query parameter q is required")
		return
	}

	hits, err := h.retriever.SearchTransactions(c.Request.Context(), userID(c), q, queryInt(c, "limit", 5, 50))
	if err != nil {
		abortWithError(c, http.StatusBadGateway, "Vector search failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": hits})
}

// ChatHistory возвращает реплики в хронологическом порядке
// @Summary История чата
// @Tags memory
// @Produce json
// @Param X-User-ID header string true "ID пользователя"
// @Param limit query int false "Лимит результатов (максимум 500)" default(50)
// @Success 200 {object} map[string]interface{}
// @Router /chat/history [get]
func (h *Handlers) ChatHistory(c *gin.Context) {
	turns, err := h.retriever.History(c.Request.Context(), userID(c), queryInt(c, "limit", 50, 500))
	if err != nil {
		abortWithError(c, http.StatusBadGateway, "Failed to load chat history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": turns})
}

// ChatContext возвращает реплики, близкие к сообщению
// @Summary Релевантный контекст чата
// @Tags memory
// @Produce json
// @Param X-User-ID header string true "ID пользователя"
// @Param q query string true "Сообщение"
// @Param k query int false "Количество реплик (максимум 50)" default(5)
// @Success 200 {object} map[string]interface{}
// @Router /chat/context [get]
func (h *Handlers) ChatContext(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		abortWithError(c, http.StatusBadRequest, "query parameter q is required")
		return
	}

	hits, err := h.retriever.RelevantTurns(c.Request.Context(), userID(c), q, queryInt(c, "k", 5, 50))
	if err != nil {
		abortWithError(c, http.StatusBadGateway, "Failed to load chat context")
		return
	}
	c.JSON(http.StatusOK, gin.H{"context": hits})
}

// ChatTurnRequest реплика для сохранения
type ChatTurnRequest struct {
	Role    models.ChatRole `json:"role" binding:"required,oneof=user assistant"`
	Content string          `json:"content" binding:"required"`
}

// AppendChatTurn сохраняет реплику в память чата
// @Summary Сохранить реплику
// @Tags memory
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ID пользователя"
// @Param turn body ChatTurnRequest true "Реплика"
// @Success 201 {object} models.ChatTurn
// @Router /chat/turns [post]
func (h *Handlers) AppendChatTurn(c *gin.Context) {
	var req ChatTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	turn, err := h.retriever.Remember(c.Request.Context(), userID(c), req.Role, req.Content)
	if err != nil {
		abortWithError(c, http.StatusBadGateway, "Failed to store chat turn")
		return
	}
	c.JSON(http.StatusCreated, turn)
}

// InvokeTool вызывает инструмент агента от имени пользователя
// @Summary Вызвать инструмент агента
// @Description Тело запроса передается инструменту как JSON аргументы
// @Tags tools
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ID пользователя"
// @Param name path string true "Имя инструмента"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Неверные аргументы"
// @Failure 404 {object} map[string]string "Неизвестный инструмент"
// @Router /tools/{name} [post]
func (h *Handlers) InvokeTool(c *gin.Context) {
	args, err := io.ReadAll(c.Request.Body)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.tools.Invoke(c.Request.Context(), c.Param("name"), userID(c), args)
	switch {
	case errors.Is(err, tools.ErrUnknownTool):
		abortWithError(c, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, tools.ErrInvalidArgs):
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		abortWithError(c, http.StatusInternalServerError, "Tool invocation failed")
		return
	}

	logger.LogEvent(logger.EventToolInvoked, serviceName, logger.ComponentAPI, map[string]interface{}{
		"tool":    c.Param("name"),
		"user_id": userID(c),
	})
	c.JSON(http.StatusOK, gin.H{"result": result})
}
