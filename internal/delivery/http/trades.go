package http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"trade-journal/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupTrades(base *echo.Group) {
	v1 := base.Group("/v1/trades")
	{
		v1.POST("/preview", h.previewTrade)
		v1.GET("", h.listTrades, h.requireAuth)
		v1.POST("", h.createTrade, h.requireAuth)
		v1.GET("/export", h.exportTrades, h.requireAuth)
		v1.PUT("/:id", h.updateTrade, h.requireAuth)
		v1.DELETE("/:id", h.deleteTrade, h.requireAuth)
	}
}

func (h *HttpAPIHandler) listTrades(c echo.Context) error {
	trades, err := h.service.JournalService.ListForUser(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", trades))
}

func (h *HttpAPIHandler) createTrade(c echo.Context) error {
	return h.saveTrade(c, "", http.StatusCreated)
}

func (h *HttpAPIHandler) updateTrade(c echo.Context) error {
	return h.saveTrade(c, c.Param("id"), http.StatusOK)
}

func (h *HttpAPIHandler) saveTrade(c echo.Context, id string, status int) error {
	draft := new(dto.TradeDraft)
	if err := c.Bind(draft); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}

	trade, err := h.service.JournalService.Save(c.Request().Context(), currentUser(c), *draft, id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(status, dto.NewBaseResponse(status, "trade saved", trade))
}

func (h *HttpAPIHandler) deleteTrade(c echo.Context) error {
	if err := h.service.JournalService.Remove(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("trade removed", nil))
}

func (h *HttpAPIHandler) previewTrade(c echo.Context) error {
	draft := new(dto.TradeDraft)
	if err := c.Bind(draft); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", h.service.JournalService.Preview(*draft)))
}

func (h *HttpAPIHandler) exportTrades(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.service.JournalService.ExportCSV(c.Request().Context(), currentUser(c), &buf); err != nil {
		return h.respondError(c, err)
	}

	filename := fmt.Sprintf("trades-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
