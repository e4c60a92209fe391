package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type UpdateHandler func(context.Context, tgbotapi.Update)

// Client wraps long polling over the bot API. With an empty token it runs in
// dry mode: Start blocks until the context is done and Send is a no-op.
type Client struct {
	api         *tgbotapi.BotAPI
	logger      *zap.Logger
	handler     UpdateHandler
	pollTimeout int
	dryRun      bool
}

func NewClient(token string, pollTimeoutSeconds int, logger *zap.Logger, handler UpdateHandler) (*Client, error) {
	if handler == nil {
		return nil, errors.New("telegram update handler is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if strings.TrimSpace(token) == "" {
		return &Client{
			logger:      logger,
			handler:     handler,
			pollTimeout: pollTimeoutSeconds,
			dryRun:      true,
		}, nil
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Client{
		api:         api,
		logger:      logger,
		handler:     handler,
		pollTimeout: pollTimeoutSeconds,
	}, nil
}

func (c *Client) Start(ctx context.Context) error {
	if c.dryRun {
		c.logger.Warn("bot token is empty, running in dry mode")
		<-ctx.Done()
		return nil
	}

	timeout := c.pollTimeout
	if timeout <= 0 {
		timeout = 30
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = timeout
	updates := c.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			c.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			c.handler(ctx, update)
		}
	}
}

func (c *Client) Send(msg tgbotapi.Chattable) error {
	if c.dryRun {
		return nil
	}
	_, err := c.api.Send(msg)
	return err
}

func (c *Client) Request(cfg tgbotapi.Chattable) error {
	if c.dryRun {
		return nil
	}
	_, err := c.api.Request(cfg)
	return err
}

// SelfUsername returns the bot's own username for invite-link composition.
func (c *Client) SelfUsername() string {
	if c.dryRun || c.api == nil {
		return ""
	}
	return c.api.Self.UserName
}

// ChatMemberStatus asks the bot API for the membership status of a user in a
// channel. The caller interprets statuses; errors are returned as-is.
func (c *Client) ChatMemberStatus(ctx context.Context, channelID string, tgID int64) (string, error) {
	if c.dryRun {
		return "", errors.New("dry mode: no bot api")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	chat := tgbotapi.ChatConfigWithUser{UserID: tgID}
	if numericID, err := strconv.ParseInt(channelID, 10, 64); err == nil {
		chat.ChatID = numericID
	} else {
		chat.SuperGroupUsername = channelID
	}

	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{ChatConfigWithUser: chat})
	if err != nil {
		return "", err
	}
	return member.Status, nil
}
