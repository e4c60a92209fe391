package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/daxzwashe/ref-bot/internal/domain/model"
	"github.com/daxzwashe/ref-bot/internal/pkg/paging"
)

func RenderPartnerCabinet(partner model.Partner, link string) string {
	return strings.Join([]string{
		"Партнёрский кабинет",
		fmt.Sprintf("Код: %s", partner.Code),
		fmt.Sprintf("Ваша ссылка: %s", link),
	}, "\n")
}

func RenderPartnerStats(partner model.Partner, stats model.PartnerStats) string {
	return strings.Join([]string{
		fmt.Sprintf("Статистика партнёра @%s (%s)", partner.Username, partner.Code),
		fmt.Sprintf("Сегодня: %d", stats.Today),
		fmt.Sprintf("За 7 дней: %d", stats.Week),
		fmt.Sprintf("За 30 дней: %d", stats.Month),
		fmt.Sprintf("Всего: %d", stats.Total),
	}, "\n")
}

func RenderPartnerList(partners []model.Partner) string {
	if len(partners) == 0 {
		return "Партнёров пока нет."
	}

	lines := make([]string, 0, len(partners)+1)
	lines = append(lines, fmt.Sprintf("Партнёры (%d):", len(partners)))
	for _, p := range partners {
		link := "не заходил в бота"
		if p.UserID != 0 {
			link = strconv.FormatInt(p.UserID, 10)
		}
		lines = append(lines, fmt.Sprintf("@%s — %s (%s)", p.Username, p.Code, link))
	}
	return strings.Join(lines, "\n")
}

func RenderPartnerCreated(partner model.Partner, link string) string {
	return strings.Join([]string{
		fmt.Sprintf("Партнёр @%s добавлен.", partner.Username),
		fmt.Sprintf("Код: %s", partner.Code),
		fmt.Sprintf("Ссылка: %s", link),
	}, "\n")
}

func RenderUsersPage(items []model.UserListItem, page paging.Page) string {
	if len(items) == 0 {
		return "Пользователей пока нет."
	}

	lines := make([]string, 0, len(items)+1)
	lines = append(lines, fmt.Sprintf("Пользователи, страница %d (всего %d):", page.Index+1, page.Total))
	for _, item := range items {
		lines = append(lines, renderUserLine(item))
	}
	return strings.Join(lines, "\n")
}

// searchDisplayLimit caps the search screen at one page of matches; the
// total match count still shows in the header.
const searchDisplayLimit = 15

func RenderSearchResults(items []model.UserListItem) string {
	if len(items) == 0 {
		return MsgNothingFound
	}

	shown := items
	if len(shown) > searchDisplayLimit {
		shown = shown[:searchDisplayLimit]
	}

	lines := make([]string, 0, len(shown)+2)
	lines = append(lines, fmt.Sprintf("Найдено: %d", len(items)))
	for _, item := range shown {
		lines = append(lines, renderUserLine(item))
	}
	if len(items) > searchDisplayLimit {
		lines = append(lines, fmt.Sprintf("Показаны первые %d. Уточните запрос.", searchDisplayLimit))
	}
	return strings.Join(lines, "\n")
}

func renderUserLine(item model.UserListItem) string {
	source := "без реферала"
	if item.RefPartnerCode != "" {
		source = "от @" + item.PartnerUsername
	}
	sub := "✗"
	if item.IsSubscribed {
		sub = "✓"
	}
	return fmt.Sprintf("%s (%d) — %s, подписка %s, %s",
		UserLabel(item.TgID, item.Username, item.FirstName, item.LastName),
		item.TgID,
		source,
		sub,
		item.RegisteredAt.Format("02.01.2006"),
	)
}

func RenderPurchasesPage(items []model.PurchaseListItem, page paging.Page) string {
	if len(items) == 0 {
		return "Покупок пока нет."
	}

	lines := make([]string, 0, len(items)+1)
	lines = append(lines, fmt.Sprintf("Покупки, страница %d (всего %d):", page.Index+1, page.Total))
	for _, item := range items {
		partner := "без реферала"
		if item.PartnerUsername != "" {
			partner = "от @" + item.PartnerUsername
		}
		line := fmt.Sprintf("#%d %s — %s, %s, %s",
			item.ID,
			FormatAmount(item.Amount),
			UserLabel(item.UserID, item.Username, item.FirstName, item.LastName),
			partner,
			item.CreatedAt.Format("02.01.2006 15:04"),
		)
		if item.Comment != "" {
			line += " — " + item.Comment
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func RenderPurchaseRecorded(purchase model.Purchase, buyer model.User) string {
	lines := []string{
		"Покупка записана.",
		fmt.Sprintf("Покупатель: %s (%d)", UserLabel(buyer.TgID, buyer.Username, buyer.FirstName, buyer.LastName), buyer.TgID),
		fmt.Sprintf("Сумма: %s", FormatAmount(purchase.Amount)),
	}
	if purchase.Comment != "" {
		lines = append(lines, fmt.Sprintf("Комментарий: %s", purchase.Comment))
	}
	return strings.Join(lines, "\n")
}

func RenderReferrals(items []model.UserListItem) string {
	if len(items) == 0 {
		return "У вас пока нет рефералов."
	}

	lines := make([]string, 0, len(items)+1)
	lines = append(lines, fmt.Sprintf("Ваши рефералы (%d):", len(items)))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s — %s",
			UserLabel(item.TgID, item.Username, item.FirstName, item.LastName),
			item.RegisteredAt.Format("02.01.2006"),
		))
	}
	return strings.Join(lines, "\n")
}

func RenderReferralPurchases(items []model.ReferralPurchase, total float64) string {
	if len(items) == 0 {
		return "Покупок у ваших рефералов пока нет."
	}

	lines := make([]string, 0, len(items)+2)
	lines = append(lines, fmt.Sprintf("Покупки рефералов (%d):", len(items)))
	for _, item := range items {
		line := fmt.Sprintf("%s — %s, %s",
			UserLabel(item.UserID, item.Username, item.FirstName, item.LastName),
			FormatAmount(item.Amount),
			item.CreatedAt.Format("02.01.2006"),
		)
		if item.Comment != "" {
			line += " — " + item.Comment
		}
		lines = append(lines, line)
	}
	lines = append(lines, fmt.Sprintf("Итого: %s", FormatAmount(total)))
	return strings.Join(lines, "\n")
}

// UserLabel prefers the @username, falls back to the visible name, then to
// the raw account id.
func UserLabel(tgID int64, username, firstName, lastName string) string {
	if username = strings.TrimSpace(username); username != "" {
		return "@" + username
	}
	name := strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
	if name != "" {
		return name
	}
	return strconv.FormatInt(tgID, 10)
}

// FormatAmount drops trailing zeroes so whole amounts read as integers.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
