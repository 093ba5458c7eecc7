// Package bot answers LINE webhook deliveries with weather replies.
package bot

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/sirupsen/logrus"

	"github.com/lox/twweather/internal/logging"
	"github.com/lox/twweather/internal/metrics"
	"github.com/lox/twweather/internal/regions"
)

// verifyReplyToken is used by the LINE console "Verify" button; it cannot
// be replied to.
const verifyReplyToken = "00000000000000000000000000000000"

const (
	MenuPrompt = "請選擇要查詢的縣市："
	HelpText   = "🌤️ 天氣查詢小幫手\n\n" +
		"請輸入「天氣」來查詢天氣預報\n\n" +
		"📍 支援台灣所有縣市\n" +
		"📅 提供未來一週預報\n" +
		"🌡️ 包含溫度、天氣、降雨機率"
)

var (
	triggerWords = []string{"天氣", "查天氣", "weather"}
	helpWords    = []string{"help", "說明", "幫助"}
)

// Replier sends reply messages. *messaging_api.MessagingApiAPI satisfies it.
type Replier interface {
	ReplyMessage(req *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error)
}

// Forecaster produces the reply text for a region, including failure text.
type Forecaster interface {
	Forecast(ctx context.Context, region string) string
}

type Options struct {
	ChannelSecret string
	Replier       Replier
	Weather       Forecaster
	// OpenRegions passes any unrecognised text to the weather API instead
	// of answering with help.
	OpenRegions bool
	Logger      logrus.FieldLogger
}

// Bot is the LINE webhook handler.
type Bot struct {
	secret      string
	replier     Replier
	weather     Forecaster
	openRegions bool
	log         logrus.FieldLogger
}

func New(opts Options) *Bot {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Bot{
		secret:      opts.ChannelSecret,
		replier:     opts.Replier,
		weather:     opts.Weather,
		openRegions: opts.OpenRegions,
		log:         log,
	}
}

// ServeHTTP verifies and dispatches a webhook delivery. Each text message
// is answered before the response is written.
func (b *Bot) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logging.FromContext(ctx, b.log)

	cb, err := webhook.ParseRequest(b.secret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			log.Warn("rejected webhook with invalid signature")
			metrics.WebhookRequestsTotal.WithLabelValues("400").Inc()
			http.Error(w, "invalid signature", http.StatusBadRequest)
			return
		}
		log.WithError(err).Error("parse webhook request")
		metrics.WebhookRequestsTotal.WithLabelValues("500").Inc()
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	for _, event := range cb.Events {
		e, ok := event.(webhook.MessageEvent)
		if !ok {
			continue
		}
		msg, ok := e.Message.(webhook.TextMessageContent)
		if !ok {
			continue
		}
		if e.ReplyToken == "" || e.ReplyToken == verifyReplyToken {
			continue
		}

		reply, kind := b.respond(ctx, msg.Text)
		b.send(log, e.ReplyToken, reply, kind)
	}

	metrics.WebhookRequestsTotal.WithLabelValues("200").Inc()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "OK")
}

// Respond builds the reply for one user text message.
func (b *Bot) Respond(ctx context.Context, text string) messaging_api.TextMessage {
	reply, _ := b.respond(ctx, text)
	return reply
}

func (b *Bot) respond(ctx context.Context, text string) (messaging_api.TextMessage, string) {
	text = strings.TrimSpace(text)

	if matches(text, triggerWords) {
		return menuMessage(), "menu"
	}

	if region, ok := regions.Lookup(text); ok {
		return messaging_api.TextMessage{Text: b.weather.Forecast(ctx, region)}, "forecast"
	}

	if b.openRegions && text != "" && !matches(text, helpWords) {
		return messaging_api.TextMessage{Text: b.weather.Forecast(ctx, text)}, "forecast"
	}

	return messaging_api.TextMessage{Text: HelpText}, "help"
}

func (b *Bot) send(log logrus.FieldLogger, token string, msg messaging_api.TextMessage, kind string) {
	_, err := b.replier.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: token,
		Messages:   []messaging_api.MessageInterface{msg},
	})
	if err != nil {
		log.WithError(err).WithField("kind", kind).Error("send reply")
		metrics.RepliesTotal.WithLabelValues("failed").Inc()
		return
	}
	metrics.RepliesTotal.WithLabelValues(kind).Inc()
	log.WithField("kind", kind).Debug("reply sent")
}

func menuMessage() messaging_api.TextMessage {
	items := make([]messaging_api.QuickReplyItem, 0, regions.MenuSize)
	for _, name := range regions.Menu() {
		items = append(items, messaging_api.QuickReplyItem{
			Action: &messaging_api.MessageAction{Label: name, Text: name},
		})
	}
	return messaging_api.TextMessage{
		Text:       MenuPrompt,
		QuickReply: &messaging_api.QuickReply{Items: items},
	}
}

func matches(text string, words []string) bool {
	for _, w := range words {
		if strings.EqualFold(text, w) {
			return true
		}
	}
	return false
}
