package ui

// Callback data, colon-separated. Paged callbacks append the zero-indexed
// page number, partner analytics appends the partner code.
const (
	CallbackSubscriptionCheck = "sub:check"

	CallbackAdminMenu      = "adm:menu"
	CallbackPartnersList   = "adm:partners"
	CallbackPartnerAdd     = "adm:partner_add"
	CallbackPartnerDelete  = "adm:partner_del"
	CallbackPartnerStats   = "adm:partner" // adm:partner:<code>
	CallbackUsersPage      = "adm:users"   // adm:users:<page>
	CallbackUsersSearch    = "adm:users_search"
	CallbackPurchasesPage  = "adm:purchases" // adm:purchases:<page>
	CallbackPurchaseAdd    = "adm:purchase_add"

	CallbackRefStats     = "ref:stats"
	CallbackRefReferrals = "ref:referrals"
	CallbackRefPurchases = "ref:purchases"
	CallbackRefQR        = "ref:qr"
)
