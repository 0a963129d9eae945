package telegram

import (
	"context"
	"fmt"
	"strings"

	xhttp "TokenRadar/pkg/http"
)

// Client talks to the Telegram Bot API over plain HTTPS. Only the handful
// of methods the bot actually uses are wrapped.
type Client struct {
	apiURL string
	chatID string
	http   *xhttp.Client
}

// New creates a Bot API client. The token is validated for shape only; a
// wrong token surfaces as an API error on first use.
func New(token, chatID string, client *xhttp.Client) (*Client, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 2 || len(parts[0]) < 8 {
		return nil, fmt.Errorf("invalid telegram bot token format")
	}
	return &Client{
		apiURL: "https://api.telegram.org/bot" + token,
		chatID: chatID,
		http:   client,
	}, nil
}

// ChatID returns the default chat for scheduled pushes.
func (c *Client) ChatID() string { return c.chatID }

// apiResponse is the Bot API envelope.
type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

// Update is an incoming webhook event.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

// Message is a chat message.
type Message struct {
	MessageID int64  `json:"message_id"`
	Text      string `json:"text,omitempty"`
	Chat      Chat   `json:"chat"`
}

// Chat identifies a conversation.
type Chat struct {
	ID int64 `json:"id"`
}

// CallbackQuery is an inline keyboard button press.
type CallbackQuery struct {
	ID      string   `json:"id"`
	Data    string   `json:"data,omitempty"`
	Message *Message `json:"message,omitempty"`
}

// InlineKeyboardButton is one button of an inline keyboard.
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
}

// InlineKeyboardMarkup is the keyboard attached to a message.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

type sendMessageRequest struct {
	ChatID                string                `json:"chat_id"`
	Text                  string                `json:"text"`
	DisableWebPagePreview bool                  `json:"disable_web_page_preview,omitempty"`
	ReplyMarkup           *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

type editMessageRequest struct {
	ChatID      string                `json:"chat_id"`
	MessageID   int64                 `json:"message_id"`
	Text        string                `json:"text"`
	ReplyMarkup *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

// SendMessage posts text (with an optional keyboard) to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID, text string, kb *InlineKeyboardMarkup) error {
	return c.call(ctx, "sendMessage", sendMessageRequest{
		ChatID:                chatID,
		Text:                  text,
		DisableWebPagePreview: true,
		ReplyMarkup:           kb,
	})
}

// EditMessageText replaces the text of a previously sent message.
func (c *Client) EditMessageText(ctx context.Context, chatID string, messageID int64, text string, kb *InlineKeyboardMarkup) error {
	return c.call(ctx, "editMessageText", editMessageRequest{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        text,
		ReplyMarkup: kb,
	})
}

// AnswerCallbackQuery acknowledges a button press so the client stops the
// spinner.
func (c *Client) AnswerCallbackQuery(ctx context.Context, id string) error {
	return c.call(ctx, "answerCallbackQuery", map[string]string{"callback_query_id": id})
}

// SetWebhook points the bot at the given public URL.
func (c *Client) SetWebhook(ctx context.Context, url string) error {
	return c.call(ctx, "setWebhook", map[string]string{"url": url})
}

func (c *Client) call(ctx context.Context, method string, body interface{}) error {
	var resp apiResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.apiURL + "/" + method,
		Body:   body,
	}, &resp)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	if !resp.OK {
		return fmt.Errorf("telegram %s: api error %d: %s", method, resp.ErrorCode, resp.Description)
	}
	return nil
}
