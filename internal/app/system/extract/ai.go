package extract

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// maxHTMLForModel caps the page markup sent to the model.
const maxHTMLForModel = 50000

// AI is the generative collaborator used by the extract and summary
// endpoints.
type AI interface {
	Menu(ctx context.Context, mimeType string, image []byte) ([]MenuItem, error)
	Product(ctx context.Context, pageURL, html string) (Product, error)
	Summary(ctx context.Context, in SummaryInput) (string, error)
}

// OpenAIConfig configures an OpenAI-compatible chat completions client.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAI implements AI over the chat completions API.
type OpenAI struct {
	client openai.Client
	model  string
	log    *zap.Logger
}

// NewOpenAI returns nil when cfg has no API key, so callers can treat a
// nil *OpenAI as "AI disabled".
func NewOpenAI(cfg OpenAIConfig, logger *zap.Logger) *OpenAI {
	if cfg.APIKey == "" {
		return nil
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(1)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAI{client: openai.NewClient(opts...), model: model, log: logger}
}

func (c *OpenAI) complete(ctx context.Context, op string, msgs ...openai.ChatCompletionMessageParamUnion) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: msgs,
	})
	if err != nil {
		c.log.Warn("ai request failed", zap.String("op", op), zap.Error(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", op, ErrNoResult)
	}
	return resp.Choices[0].Message.Content, nil
}

const menuPrompt = `您是一位專業的選單與價目表解析專家。
您的任務是從提供的圖片中精確擷取所有商品項目及其價格。
1. 仔細掃描圖片中的所有文字。
2. 辨識出具有「名稱」與「金額」關係的配對。
3. 如果一個商品有多個尺寸（例如 M: 30, L: 45），請將其拆分為不同的項目（例如："茉莉綠茶 (M)", "茉莉綠茶 (L)"）。
4. 僅返回 JSON：{"items":[{"name":"...","price":"..."}]}，不包含任何額外解釋或 Markdown 標籤。
5. 確保價格僅包含數字。`

// Menu reads item names and prices from a menu photo.
func (c *OpenAI) Menu(ctx context.Context, mimeType string, image []byte) ([]MenuItem, error) {
	dataURI := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)
	out, err := c.complete(ctx, "menu",
		openai.SystemMessage(menuPrompt),
		openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.TextContentPart("請擷取這張圖片中的所有項目。"),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURI}),
		}),
	)
	if err != nil {
		return nil, err
	}
	return ParseMenuJSON(out)
}

const productPrompt = `您是從網頁 HTML 中擷取商品資訊的專家。
分析 HTML 內容並擷取商品名稱、價格、描述和圖片連結。
請忽略導覽列、頁尾和廣告內容，專注於主要商品資訊。
僅返回 JSON：{"name":"...","price":"...","description":"...","imageUrl":"..."}`

// Product reads product details from page markup, truncated to a size the
// model accepts.
func (c *OpenAI) Product(ctx context.Context, pageURL, html string) (Product, error) {
	if len(html) > maxHTMLForModel {
		html = html[:maxHTMLForModel]
	}
	out, err := c.complete(ctx, "product",
		openai.SystemMessage(productPrompt),
		openai.UserMessage("網址："+pageURL+"\n\nHTML 內容：\n"+html),
	)
	if err != nil {
		return Product{}, err
	}
	return ParseProductJSON(out)
}

const summaryPrompt = `您是為團購產生摘要表的專家。
根據訂單資訊產生一份摘要表，顯示每位參與者的項目數量和總成本。
請使用 markdown 格式化表格，只輸出表格本身。`

// Summary renders a markdown table for a closed order.
func (c *OpenAI) Summary(ctx context.Context, in SummaryInput) (string, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	out, err := c.complete(ctx, "summary",
		openai.SystemMessage(summaryPrompt),
		openai.UserMessage(string(body)),
	)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(stripFence(out))
	if out == "" {
		return "", ErrNoResult
	}
	return out, nil
}
