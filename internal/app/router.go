package app

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/daxzwashe/ref-bot/internal/domain/model"
	"github.com/daxzwashe/ref-bot/internal/infra/qr"
	"github.com/daxzwashe/ref-bot/internal/infra/telegram"
	"github.com/daxzwashe/ref-bot/internal/repo/postgres"
	partnerssvc "github.com/daxzwashe/ref-bot/internal/services/partners"
	"github.com/daxzwashe/ref-bot/internal/services/purchases"
	"github.com/daxzwashe/ref-bot/internal/services/referral"
	"github.com/daxzwashe/ref-bot/internal/ui"
)

// maxMessageLength keeps rendered lists under the bot API limit.
const maxMessageLength = 3600

func (a *App) routeUpdate(ctx context.Context, update tgbotapi.Update) {
	log := a.logger.With(zap.String("trace_id", uuid.NewString()))

	if update.Message != nil {
		a.routeMessage(ctx, log, update.Message)
	}

	if update.CallbackQuery != nil {
		a.handleCallback(ctx, log, update.CallbackQuery)
	}
}

func (a *App) routeMessage(ctx context.Context, log *zap.Logger, message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil {
		return
	}

	if message.IsCommand() {
		switch message.Command() {
		case "start":
			a.handleStart(ctx, log, message)
		case "ref":
			a.handleRef(ctx, log, message)
		case "admin":
			a.handleAdmin(log, message)
		default:
			a.sendText(log, message.Chat.ID, "Неизвестная команда. Используйте /start")
		}
		return
	}

	a.handleDialogInput(ctx, log, message)
}

func (a *App) handleStart(ctx context.Context, log *zap.Logger, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	user := model.User{
		TgID:      message.From.ID,
		Username:  message.From.UserName,
		FirstName: message.From.FirstName,
		LastName:  message.From.LastName,
	}

	result, err := a.referral.Register(ctx, user, message.CommandArguments())
	if err != nil {
		log.Error("register user", zap.Int64("tg_id", user.TgID), zap.Error(err))
		a.sendText(log, chatID, ui.MsgInternalFail)
		return
	}
	if result.UnknownCode != "" {
		log.Warn("start with unknown referral code",
			zap.Int64("tg_id", user.TgID),
			zap.String("code", result.UnknownCode))
	}

	subscribed, err := a.subscription.Refresh(ctx, user.TgID)
	if err != nil {
		log.Error("refresh subscription", zap.Int64("tg_id", user.TgID), zap.Error(err))
		a.sendText(log, chatID, ui.MsgInternalFail)
		return
	}
	if !subscribed {
		a.sendSubscribePrompt(log, chatID)
		return
	}

	greeting := ui.MsgWelcomeBack
	if result.Created {
		greeting = ui.MsgWelcome
	}
	a.sendText(log, chatID, greeting)
}

func (a *App) handleRef(ctx context.Context, log *zap.Logger, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if !a.requireSubscribed(ctx, log, chatID, message.From.ID) {
		return
	}

	partner, err := a.partners.GetByAccount(ctx, message.From.ID)
	if errors.Is(err, postgres.ErrPartnerNotFound) {
		a.sendText(log, chatID, ui.MsgNotPartner)
		return
	}
	if err != nil {
		log.Error("resolve partner", zap.Int64("tg_id", message.From.ID), zap.Error(err))
		a.sendText(log, chatID, ui.MsgInternalFail)
		return
	}

	link := referral.InviteLink(a.tg.SelfUsername(), partner.Code)
	a.sendWithKeyboard(log, chatID, ui.RenderPartnerCabinet(partner, link), ui.PartnerCabinetMenu())
}

func (a *App) handleAdmin(log *zap.Logger, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if !a.cfg.Bot.IsAdmin(message.From.ID) {
		a.dialogs.clear(chatID, message.From.ID)
		a.sendText(log, chatID, ui.MsgNotAdmin)
		return
	}

	a.sendWithKeyboard(log, chatID, ui.MsgAdminPanel, ui.AdminMenu())
}

func (a *App) handleCallback(ctx context.Context, log *zap.Logger, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.Message.Chat == nil || cb.From == nil {
		return
	}

	if err := a.tg.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Warn("ack callback", zap.Error(err))
	}

	switch {
	case cb.Data == ui.CallbackSubscriptionCheck:
		a.handleSubscriptionCheck(ctx, log, cb)
	case strings.HasPrefix(cb.Data, "ref:"):
		a.handlePartnerCallback(ctx, log, cb)
	case strings.HasPrefix(cb.Data, "adm:"):
		a.handleAdminCallback(ctx, log, cb)
	default:
		log.Warn("unknown callback", zap.String("data", cb.Data))
	}
}

func (a *App) handleSubscriptionCheck(ctx context.Context, log *zap.Logger, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID

	subscribed, err := a.subscription.Refresh(ctx, cb.From.ID)
	if err != nil {
		log.Error("refresh subscription", zap.Int64("tg_id", cb.From.ID), zap.Error(err))
		a.sendText(log, chatID, ui.MsgInternalFail)
		return
	}

	if subscribed {
		a.sendText(log, chatID, ui.MsgSubscriptionOK)
		return
	}
	a.sendText(log, chatID, ui.MsgSubscriptionFail)
	a.sendSubscribePrompt(log, chatID)
}

func (a *App) handlePartnerCallback(ctx context.Context, log *zap.Logger, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID

	if !a.requireSubscribed(ctx, log, chatID, cb.From.ID) {
		return
	}

	partner, err := a.partners.GetByAccount(ctx, cb.From.ID)
	if errors.Is(err, postgres.ErrPartnerNotFound) {
		a.sendText(log, chatID, ui.MsgNotPartner)
		return
	}
	if err != nil {
		log.Error("resolve partner", zap.Int64("tg_id", cb.From.ID), zap.Error(err))
		a.sendText(log, chatID, ui.MsgInternalFail)
		return
	}

	switch cb.Data {
	case ui.CallbackRefStats:
		stats, err := a.stats.BuildPartnerStats(ctx, partner.Code)
		if err != nil {
			log.Error("build partner stats", zap.String("code", partner.Code), zap.Error(err))
			a.sendText(log, chatID, ui.MsgInternalFail)
			return
		}
		a.sendText(log, chatID, ui.RenderPartnerStats(partner, stats))

	case ui.CallbackRefReferrals:
		items, err := a.stats.Referrals(ctx, partner.Code)
		if err != nil {
			log.Error("list referrals", zap.String("code", partner.Code), zap.Error(err))
			a.sendText(log, chatID, ui.MsgInternalFail)
			return
		}
		a.sendLong(log, chatID, ui.RenderReferrals(items))

	case ui.CallbackRefPurchases:
		items, total, err := a.stats.ReferralPurchases(ctx, partner.Code)
		if err != nil {
			log.Error("list referral purchases", zap.String("code", partner.Code), zap.Error(err))
			a.sendText(log, chatID, ui.MsgInternalFail)
			return
		}
		a.sendLong(log, chatID, ui.RenderReferralPurchases(items, total))

	case ui.CallbackRefQR:
		link := referral.InviteLink(a.tg.SelfUsername(), partner.Code)
		png, err := qr.PNG(link)
		if err != nil {
			log.Error("render invite qr", zap.String("code", partner.Code), zap.Error(err))
			a.sendText(log, chatID, ui.MsgInternalFail)
			return
		}
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "invite.png", Bytes: png})
		photo.Caption = link
		if err := a.tg.Send(photo); err != nil {
			log.Error("send qr photo", zap.Error(err))
		}
	}
}

func (a *App) handleAdminCallback(ctx context.Context, log *zap.Logger, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID

	if !a.cfg.Bot.IsAdmin(cb.From.ID) {
		a.dialogs.clear(chatID, cb.From.ID)
		a.sendText(log, chatID, ui.MsgNotAdmin)
		return
	}

	parts := strings.SplitN(cb.Data, ":", 3)
	verb := parts[1]
	arg := ""
	if len(parts) == 3 {
		arg = parts[2]
	}

	switch verb {
	case "menu":
		a.sendWithKeyboard(log, chatID, ui.MsgAdminPanel, ui.AdminMenu())

	case "partners":
		partnersList, err := a.partners.List(ctx)
		if err != nil {
			log.Error("list partners", zap.Error(err))
			a.sendText(log, chatID, ui.MsgInternalFail)
			return
		}
		a.sendWithKeyboard(log, chatID, ui.RenderPartnerList(partnersList), ui.PartnerListMenu(partnersList))

	case "partner":
		a.showPartnerStats(ctx, log, chatID, arg)

	case "partner_add":
		a.dialogs.begin(chatID, cb.From.ID, dialogState{Kind: flowAddPartner})
		a.sendText(log, chatID, ui.MsgPromptPartnerHandle)

	case "partner_del":
		a.dialogs.begin(chatID, cb.From.ID, dialogState{Kind: flowDeletePartner})
		a.sendText(log, chatID, ui.MsgPromptPartnerDelete)

	case "users":
		a.showUsersPage(ctx, log, chatID, parsePageArg(arg))

	case "users_search":
		a.dialogs.begin(chatID, cb.From.ID, dialogState{Kind: flowSearchUsers})
		a.sendText(log, chatID, ui.MsgPromptUserSearch)

	case "purchases":
		a.showPurchasesPage(ctx, log, chatID, parsePageArg(arg))

	case "purchase_add":
		a.dialogs.begin(chatID, cb.From.ID, dialogState{Kind: flowAddPurchase, Step: purchaseStepBuyer})
		a.sendText(log, chatID, ui.MsgPromptPurchaseBuyer)

	default:
		log.Warn("unknown admin callback", zap.String("data", cb.Data))
	}
}

func (a *App) showPartnerStats(ctx context.Context, log *zap.Logger, chatID int64, code string) {
	partner, err := a.partners.GetByCode(ctx, code)
	if errors.Is(err, postgres.ErrPartnerNotFound) {
		a.sendText(log, chatID, ui.MsgPartnerNotFound)
		return
	}
	if err != nil {
		log.Error("get partner", zap.String("code", code), zap.Error(err))
		a.sendText(log, chatID, ui.MsgInternalFail)
		return
	}

	stats, err := a.stats.BuildPartnerStats(ctx, partner.Code)
	if err != nil {
		log.Error("build partner stats", zap.String("code", code), zap.Error(err))
		a.sendText(log, chatID, ui.MsgInternalFail)
		return
	}
	a.sendWithKeyboard(log, chatID, ui.RenderPartnerStats(partner, stats), ui.BackToAdminRow())
}

func (a *App) showUsersPage(ctx context.Context, log *zap.Logger, chatID int64, pageIndex int) {
	items, page, err := a.users.List(ctx, pageIndex)
	if err != nil {
		log.Error("list users", zap.Int("page", pageIndex), zap.Error(err))
		a.sendText(log, chatID, ui.MsgInternalFail)
		return
	}

	a.sendWithKeyboard(log, chatID,
		ui.RenderUsersPage(items, page),
		ui.PagerRow(ui.CallbackUsersPage, page))
}

func (a *App) showPurchasesPage(ctx context.Context, log *zap.Logger, chatID int64, pageIndex int) {
	items, page, err := a.purchases.List(ctx, pageIndex)
	if err != nil {
		log.Error("list purchases", zap.Int("page", pageIndex), zap.Error(err))
		a.sendText(log, chatID, ui.MsgInternalFail)
		return
	}

	a.sendWithKeyboard(log, chatID,
		ui.RenderPurchasesPage(items, page),
		ui.PagerRow(ui.CallbackPurchasesPage, page))
}

// handleDialogInput consumes a plain message when the sender has a pending
// admin flow in the chat. It reports whether the message was consumed.
func (a *App) handleDialogInput(ctx context.Context, log *zap.Logger, message *tgbotapi.Message) bool {
	chatID := message.Chat.ID
	actorID := message.From.ID

	state, ok := a.dialogs.get(chatID, actorID)
	if !ok {
		return false
	}

	// Privilege is re-checked on every turn, not only at flow start.
	if !a.cfg.Bot.IsAdmin(actorID) {
		a.dialogs.clear(chatID, actorID)
		a.sendText(log, chatID, ui.MsgNotAdmin)
		return true
	}

	text := strings.TrimSpace(message.Text)

	switch state.Kind {
	case flowAddPartner:
		a.finishAddPartner(ctx, log, chatID, actorID, text)
	case flowDeletePartner:
		a.finishDeletePartner(ctx, log, chatID, actorID, text)
	case flowSearchUsers:
		a.finishSearchUsers(ctx, log, chatID, actorID, text)
	case flowAddPurchase:
		a.stepAddPurchase(ctx, log, chatID, actorID, state, text)
	default:
		a.dialogs.clear(chatID, actorID)
		return false
	}
	return true
}

func (a *App) finishAddPartner(ctx context.Context, log *zap.Logger, chatID, actorID int64, text string) {
	partner, err := a.partners.Add(ctx, text)
	if errors.Is(err, partnerssvc.ErrInvalidHandle) {
		// Flow stays open; the admin gets another shot at the handle.
		a.sendText(log, chatID, ui.MsgPromptPartnerHandle)
		return
	}

	a.dialogs.clear(chatID, actorID)
	switch {
	case errors.Is(err, postgres.ErrPartnerExists):
		a.sendText(log, chatID, ui.MsgPartnerExists)
	case err != nil:
		log.Error("add partner", zap.String("handle", text), zap.Error(err))
		a.sendText(log, chatID, ui.MsgInternalFail)
	default:
		link := referral.InviteLink(a.tg.SelfUsername(), partner.Code)
		a.sendText(log, chatID, ui.RenderPartnerCreated(partner, link))
	}
}

func (a *App) finishDeletePartner(ctx context.Context, log *zap.Logger, chatID, actorID int64, text string) {
	defer a.dialogs.clear(chatID, actorID)

	existed, err := a.partners.Delete(ctx, text)
	if err != nil {
		log.Error("delete partner", zap.String("handle", text), zap.Error(err))
		a.sendText(log, chatID, ui.MsgInternalFail)
		return
	}
	if !existed {
		a.sendText(log, chatID, ui.MsgPartnerNotFound)
		return
	}
	a.sendText(log, chatID, ui.MsgPartnerDeleted)
}

func (a *App) finishSearchUsers(ctx context.Context, log *zap.Logger, chatID, actorID int64, text string) {
	defer a.dialogs.clear(chatID, actorID)

	items, err := a.users.Search(ctx, text)
	if err != nil {
		log.Error("search users", zap.String("query", text), zap.Error(err))
		a.sendText(log, chatID, ui.MsgInternalFail)
		return
	}
	a.sendText(log, chatID, ui.RenderSearchResults(items))
}

func (a *App) stepAddPurchase(ctx context.Context, log *zap.Logger, chatID, actorID int64, state dialogState, text string) {
	switch state.Step {
	case purchaseStepBuyer:
		buyer, err := a.purchases.ResolveBuyer(ctx, text)
		if errors.Is(err, postgres.ErrUserNotFound) {
			a.sendText(log, chatID, ui.MsgPurchaseBuyerNotFound)
			return
		}
		if err != nil {
			log.Error("resolve buyer", zap.String("query", text), zap.Error(err))
			a.dialogs.clear(chatID, actorID)
			a.sendText(log, chatID, ui.MsgInternalFail)
			return
		}
		state.BuyerID = buyer.TgID
		state.Step = purchaseStepAmount
		a.dialogs.set(chatID, actorID, state)
		a.sendText(log, chatID, ui.MsgPromptPurchaseAmount)

	case purchaseStepAmount:
		amount, err := purchases.ParseAmount(text)
		if err != nil {
			a.sendText(log, chatID, ui.MsgInvalidAmount)
			return
		}
		state.Amount = amount
		state.Step = purchaseStepComment
		a.dialogs.set(chatID, actorID, state)
		a.sendText(log, chatID, ui.MsgPromptPurchaseComment)

	case purchaseStepComment:
		a.dialogs.clear(chatID, actorID)

		purchase, err := a.purchases.Record(ctx, state.BuyerID, state.Amount, text)
		if err != nil {
			log.Error("record purchase", zap.Int64("buyer", state.BuyerID), zap.Error(err))
			a.sendText(log, chatID, ui.MsgInternalFail)
			return
		}

		buyer, err := a.purchases.ResolveBuyer(ctx, strconv.FormatInt(state.BuyerID, 10))
		if err != nil {
			buyer = model.User{TgID: state.BuyerID}
		}
		a.sendText(log, chatID, ui.RenderPurchaseRecorded(purchase, buyer))
	}
}

// requireSubscribed gates partner features on the persisted verdict. The
// oracle is never consulted here; the re-check button does that.
func (a *App) requireSubscribed(ctx context.Context, log *zap.Logger, chatID, tgID int64) bool {
	subscribed, err := a.subscription.IsSubscribed(ctx, tgID)
	if err != nil {
		log.Error("read subscription verdict", zap.Int64("tg_id", tgID), zap.Error(err))
		a.sendText(log, chatID, ui.MsgInternalFail)
		return false
	}
	if !subscribed {
		a.sendSubscribePrompt(log, chatID)
		return false
	}
	return true
}

func (a *App) sendSubscribePrompt(log *zap.Logger, chatID int64) {
	msg := tgbotapi.NewMessage(chatID, ui.MsgSubscribeRequired)
	msg.ReplyMarkup = telegram.BuildSubscribeKeyboard(
		a.cfg.Bot.ChannelLink(),
		ui.BtnSubscribeChannel,
		ui.BtnCheckSub,
		ui.CallbackSubscriptionCheck,
	)
	if err := a.tg.Send(msg); err != nil {
		log.Error("send subscribe prompt", zap.Error(err))
	}
}

func (a *App) sendText(log *zap.Logger, chatID int64, text string) {
	if err := a.tg.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Error("send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (a *App) sendWithKeyboard(log *zap.Logger, chatID int64, text string, rows [][]telegram.InlineButton) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = telegram.BuildInlineKeyboard(rows)
	if err := a.tg.Send(msg); err != nil {
		log.Error("send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// sendLong splits a rendered list into bot-API-sized chunks on line
// boundaries.
func (a *App) sendLong(log *zap.Logger, chatID int64, text string) {
	for _, chunk := range splitByLength(strings.Split(text, "\n"), maxMessageLength) {
		a.sendText(log, chatID, chunk)
	}
}

func parsePageArg(arg string) int {
	page, err := strconv.Atoi(arg)
	if err != nil || page < 0 {
		return 0
	}
	return page
}

func splitByLength(lines []string, maxLen int) []string {
	var chunks []string
	var current strings.Builder

	for _, line := range lines {
		if current.Len() > 0 && current.Len()+len(line)+1 > maxLen {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
