package api

import (
	"context"
	"strconv"

	"TokenRadar/internal/domain/models"
	"TokenRadar/internal/service/telegram"
	"TokenRadar/internal/usecase"
	xlogger "TokenRadar/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Handler serves the Telegram webhook and the REST API.
type Handler struct {
	log    *xlogger.Logger
	runner *usecase.ScanRunner
	tg     *telegram.Client
}

// NewHandler creates the HTTP handler.
func NewHandler(log *xlogger.Logger, runner *usecase.ScanRunner, tg *telegram.Client) *Handler {
	return &Handler{log: log, runner: runner, tg: tg}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Home)
	e.POST("/webhook", h.Webhook)

	g := e.Group("/api")
	g.GET("/scan", h.Scan)
	g.GET("/sources/:source/top", h.SourceTop)
}

// Home is the liveness probe hosting platforms poll.
func (h *Handler) Home(c echo.Context) error {
	return c.String(200, "Bot is running!")
}

// Webhook ingests one Telegram update. It always answers 200: Telegram
// retries non-2xx responses and a broken pipeline run must not turn into a
// redelivery loop.
func (h *Handler) Webhook(c echo.Context) error {
	var update telegram.Update
	if err := c.Bind(&update); err != nil {
		h.log.Warn("webhook decode failed", xlogger.Error(err))
		return c.String(200, "ok")
	}

	ctx := c.Request().Context()
	switch {
	case update.Message != nil && update.Message.Text == "/start":
		h.sendMenu(ctx, update.Message.Chat.ID)
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, update.CallbackQuery)
	}

	return c.String(200, "ok")
}

func (h *Handler) sendMenu(ctx context.Context, chatID int64) {
	err := h.tg.SendMessage(ctx, strconv.FormatInt(chatID, 10), "Welcome! Choose an option:", menuKeyboard())
	if err != nil {
		h.log.Error("send menu failed", xlogger.Error(err))
	}
}

func (h *Handler) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) {
	if err := h.tg.AnswerCallbackQuery(ctx, cb.ID); err != nil {
		h.log.Warn("answer callback failed", xlogger.Error(err))
	}
	if cb.Message == nil {
		return
	}
	chatID := strconv.FormatInt(cb.Message.Chat.ID, 10)

	if cb.Data == "menu" {
		h.edit(ctx, chatID, cb.Message.MessageID, "Welcome! Choose an option:", menuKeyboard())
		return
	}

	text := h.callbackText(ctx, cb.Data)
	h.edit(ctx, chatID, cb.Message.MessageID, text, backKeyboard())
}

// callbackText resolves a button press to its rendered view. The bucket
// views run the full pipeline; the source views list one adapter's top
// tokens unfiltered.
func (h *Handler) callbackText(ctx context.Context, data string) string {
	switch data {
	case "check_tokens", "new_crypto", "alpha":
		batch, err := h.runner.Run(ctx)
		if err != nil {
			h.log.Error("scan failed", xlogger.Error(err))
			return telegram.TextNoMatches
		}
		c := map[string]models.Classification{
			"check_tokens": models.ClassificationVolatile,
			"new_crypto":   models.ClassificationRecentListing,
			"alpha":        models.ClassificationFreshListing,
		}[data]
		return telegram.Truncate(telegram.RenderBucket(c, batch.Bucket(c)))
	default:
		title := map[string]string{
			"binance":     "📊 Binance Top Tokens:",
			"coingecko":   "🌐 CoinGecko Top Tokens:",
			"dexscreener": "🦄 Dexscreener Tokens:",
			"stream":      "⚡ Live Ticker Snapshot:",
		}[data]
		if title == "" {
			return telegram.TextSourceNoData
		}
		obs, err := h.runner.Source(ctx, data, 5)
		if err != nil {
			h.log.Error("source view failed", xlogger.String("source", data), xlogger.Error(err))
			return telegram.TextSourceNoData
		}
		return telegram.Truncate(telegram.RenderTop(title, obs))
	}
}

func (h *Handler) edit(ctx context.Context, chatID string, messageID int64, text string, kb *telegram.InlineKeyboardMarkup) {
	if err := h.tg.EditMessageText(ctx, chatID, messageID, text, kb); err != nil {
		h.log.Error("edit message failed", xlogger.Error(err))
	}
}

func menuKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{{Text: "🔍 Check Tokens", CallbackData: "check_tokens"}},
			{{Text: "💰 Binance Top", CallbackData: "binance"}},
			{{Text: "🌐 CoinGecko Top", CallbackData: "coingecko"}},
			{{Text: "🦄 Dexscreener Token", CallbackData: "dexscreener"}},
			{{Text: "⚡ Live Snapshot", CallbackData: "stream"}},
			{{Text: "🆕 New Crypto", CallbackData: "new_crypto"}},
			{{Text: "🚀 New Alpha Alert", CallbackData: "alpha"}},
		},
	}
}

func backKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{{Text: "⬅️ Back to Menu", CallbackData: "menu"}},
		},
	}
}
