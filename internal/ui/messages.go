package ui

const (
	MsgWelcome           = "Добро пожаловать! Вы успешно зарегистрированы."
	MsgWelcomeBack       = "С возвращением!"
	MsgSubscribeRequired = "Для использования бота подпишитесь на наш канал, затем нажмите «Проверить подписку»."
	MsgSubscriptionOK    = "Подписка подтверждена, спасибо!"
	MsgSubscriptionFail  = "Подписка не найдена. Подпишитесь на канал и попробуйте ещё раз."

	MsgNotAdmin     = "У вас нет доступа к этой команде."
	MsgNotPartner   = "Вы не зарегистрированы как партнёр."
	MsgAdminPanel   = "Панель администратора"
	MsgInternalFail = "Что-то пошло не так, попробуйте позже."

	MsgPromptPartnerHandle   = "Отправьте @username нового партнёра:"
	MsgPromptPartnerDelete   = "Отправьте @username партнёра, которого нужно удалить:"
	MsgPromptUserSearch      = "Отправьте ID или часть имени пользователя:"
	MsgPromptPurchaseBuyer   = "Отправьте ID или @username покупателя:"
	MsgPromptPurchaseAmount  = "Отправьте сумму покупки:"
	MsgPromptPurchaseComment = "Отправьте комментарий к покупке (или «-», если без комментария):"
	MsgPartnerExists         = "Такой партнёр уже зарегистрирован."
	MsgPartnerNotFound       = "Партнёр не найден."
	MsgPartnerDeleted        = "Партнёр удалён."
	MsgNothingFound          = "Ничего не найдено."
	MsgInvalidAmount         = "Сумма должна быть положительным числом. Попробуйте ещё раз:"
	MsgPurchaseBuyerNotFound = "Покупатель не найден. Отправьте ID или @username ещё раз:"

	BtnSubscribeChannel = "Подписаться на канал"
	BtnCheckSub         = "Проверить подписку"
	BtnBack             = "← Назад"
	BtnPrevPage         = "← Назад"
	BtnNextPage         = "Вперёд →"

	BtnPartners      = "Партнёры"
	BtnPartnerAdd    = "Добавить партнёра"
	BtnPartnerDelete = "Удалить партнёра"
	BtnUsers         = "Пользователи"
	BtnUsersSearch   = "Поиск пользователя"
	BtnPurchases     = "Покупки"
	BtnPurchaseAdd   = "Добавить покупку"

	BtnRefStats     = "Статистика"
	BtnRefReferrals = "Мои рефералы"
	BtnRefPurchases = "Покупки рефералов"
	BtnRefQR        = "QR-код ссылки"
)
