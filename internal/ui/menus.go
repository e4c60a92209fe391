package ui

import (
	"fmt"

	"github.com/daxzwashe/ref-bot/internal/domain/model"
	"github.com/daxzwashe/ref-bot/internal/infra/telegram"
	"github.com/daxzwashe/ref-bot/internal/pkg/paging"
)

func AdminMenu() [][]telegram.InlineButton {
	return [][]telegram.InlineButton{
		{{Text: BtnPartners, Data: CallbackPartnersList}},
		{{Text: BtnPartnerAdd, Data: CallbackPartnerAdd}, {Text: BtnPartnerDelete, Data: CallbackPartnerDelete}},
		{{Text: BtnUsers, Data: CallbackUsersPage + ":0"}, {Text: BtnUsersSearch, Data: CallbackUsersSearch}},
		{{Text: BtnPurchases, Data: CallbackPurchasesPage + ":0"}, {Text: BtnPurchaseAdd, Data: CallbackPurchaseAdd}},
	}
}

func PartnerCabinetMenu() [][]telegram.InlineButton {
	return [][]telegram.InlineButton{
		{{Text: BtnRefStats, Data: CallbackRefStats}, {Text: BtnRefQR, Data: CallbackRefQR}},
		{{Text: BtnRefReferrals, Data: CallbackRefReferrals}},
		{{Text: BtnRefPurchases, Data: CallbackRefPurchases}},
	}
}

// PartnerListMenu adds a per-partner analytics button under the list text.
func PartnerListMenu(partners []model.Partner) [][]telegram.InlineButton {
	rows := make([][]telegram.InlineButton, 0, len(partners)+1)
	for _, p := range partners {
		rows = append(rows, []telegram.InlineButton{{
			Text: "@" + p.Username,
			Data: fmt.Sprintf("%s:%s", CallbackPartnerStats, p.Code),
		}})
	}
	rows = append(rows, []telegram.InlineButton{{Text: BtnBack, Data: CallbackAdminMenu}})
	return rows
}

// PagerRow builds prev/next navigation for a paged view plus a back button
// to the admin menu. prefix is the paged callback family, e.g. "adm:users".
func PagerRow(prefix string, page paging.Page) [][]telegram.InlineButton {
	var nav []telegram.InlineButton
	if page.HasPrev {
		nav = append(nav, telegram.InlineButton{
			Text: BtnPrevPage,
			Data: fmt.Sprintf("%s:%d", prefix, page.Index-1),
		})
	}
	if page.HasNext {
		nav = append(nav, telegram.InlineButton{
			Text: BtnNextPage,
			Data: fmt.Sprintf("%s:%d", prefix, page.Index+1),
		})
	}

	rows := make([][]telegram.InlineButton, 0, 2)
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, []telegram.InlineButton{{Text: BtnBack, Data: CallbackAdminMenu}})
	return rows
}

func BackToAdminRow() [][]telegram.InlineButton {
	return [][]telegram.InlineButton{{{Text: BtnBack, Data: CallbackAdminMenu}}}
}
