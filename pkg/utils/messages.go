package utils

import "fmt"

// MessageKey names one user-facing string in the catalog
type MessageKey string

const (
	MSG_WELCOME            MessageKey = "welcome"
	MSG_PROMPT_DATE        MessageKey = "prompt_date"
	MSG_PROMPT_FLIGHT_CODE MessageKey = "prompt_flight_code"
	MSG_REPROMPT_DATE      MessageKey = "reprompt_date"
	MSG_REPROMPT_CODE      MessageKey = "reprompt_flight_code"
	MSG_INVALID_DATE       MessageKey = "invalid_date"
	MSG_CODE_ACCEPTED      MessageKey = "code_accepted"
	MSG_AMBIGUOUS_CODE     MessageKey = "ambiguous_flight_code"
	MSG_NO_DATA            MessageKey = "no_data"
	MSG_TRANSIENT_ERROR    MessageKey = "transient_error"
	MSG_SELECT_FLIGHT      MessageKey = "select_flight"
	MSG_SESSION_RESET      MessageKey = "session_reset"
	MSG_UNKNOWN_ACTION     MessageKey = "unknown_action"
	MSG_SUBSCRIBED         MessageKey = "subscribed"
	MSG_UNSUBSCRIBED       MessageKey = "unsubscribed"
	MSG_MY_FLIGHTS         MessageKey = "my_flights"
	MSG_NO_SUBSCRIPTIONS   MessageKey = "no_subscriptions"
	BTN_YESTERDAY          MessageKey = "btn_yesterday"
	BTN_TODAY              MessageKey = "btn_today"
	BTN_TOMORROW           MessageKey = "btn_tomorrow"
	BTN_REFRESH            MessageKey = "btn_refresh"
	BTN_RETRY              MessageKey = "btn_retry"
	BTN_NEW_SEARCH         MessageKey = "btn_new_search"
	BTN_CHANGE_DATE        MessageKey = "btn_change_date"
	BTN_CHANGE_FLIGHT_CODE MessageKey = "btn_change_flight_code"
	BTN_SUBSCRIBE          MessageKey = "btn_subscribe"
	BTN_UNSUBSCRIBE        MessageKey = "btn_unsubscribe"
	BTN_MY_FLIGHTS         MessageKey = "btn_my_flights"
)

// catalog holds every string for every supported locale. DefaultLocale must
// carry all keys.
var catalog = map[Locale]map[MessageKey]string{
	LocaleEN: {
		MSG_WELCOME:            "Hi! I can look up the status of a flight. Send me a flight number and a date, e.g. SU100 today.",
		MSG_PROMPT_DATE:        "Flight %s. Which date? Choose below or send it as DD.MM.YYYY.",
		MSG_PROMPT_FLIGHT_CODE: "Date %s. Now send the flight number, e.g. SU100.",
		MSG_REPROMPT_DATE:      "Sorry, I did not understand that. Send the date as DD.MM.YYYY or pick one below.",
		MSG_REPROMPT_CODE:      "Sorry, I did not understand that. Send the flight number, e.g. SU100.",
		MSG_INVALID_DATE:       "That date does not exist. Send the date as DD.MM.YYYY.",
		MSG_CODE_ACCEPTED:      "Flight %s.",
		MSG_AMBIGUOUS_CODE:     "I see several flight numbers (%s). Send just one, e.g. SU100.",
		MSG_NO_DATA:            "No information found for flight %s on %s. Check the flight number and date.",
		MSG_TRANSIENT_ERROR:    "The flight information service is temporarily unavailable. Please try again in a few minutes.",
		MSG_SELECT_FLIGHT:      "Several flights %s found on %s. Choose one:",
		MSG_SESSION_RESET:      "Let's start over. Send me a flight number and a date.",
		MSG_UNKNOWN_ACTION:     "This button is no longer valid. Send me a flight number and a date.",
		MSG_SUBSCRIBED:         "You will get updates for flight %s on %s.",
		MSG_UNSUBSCRIBED:       "You will no longer get updates for flight %s on %s.",
		MSG_MY_FLIGHTS:         "Your flight subscriptions:",
		MSG_NO_SUBSCRIPTIONS:   "You don't have any flight subscriptions yet.",
		BTN_YESTERDAY:          "Yesterday",
		BTN_TODAY:              "Today",
		BTN_TOMORROW:           "Tomorrow",
		BTN_REFRESH:            "🔄 Refresh",
		BTN_RETRY:              "🔁 Try again",
		BTN_NEW_SEARCH:         "🔍 New search",
		BTN_CHANGE_DATE:        "📅 Change date",
		BTN_CHANGE_FLIGHT_CODE: "✈️ Change flight",
		BTN_SUBSCRIBE:          "🔔 Subscribe",
		BTN_UNSUBSCRIBE:        "🔕 Unsubscribe",
		BTN_MY_FLIGHTS:         "📋 My flights",
	},
	LocaleRU: {
		MSG_WELCOME:            "Привет! Я могу узнать статус рейса. Отправьте номер рейса и дату, например SU100 сегодня.",
		MSG_PROMPT_DATE:        "Рейс %s. На какую дату? Выберите ниже или отправьте в формате ДД.ММ.ГГГГ.",
		MSG_PROMPT_FLIGHT_CODE: "Дата %s. Теперь отправьте номер рейса, например SU100.",
		MSG_REPROMPT_DATE:      "Не удалось распознать. Отправьте дату в формате ДД.ММ.ГГГГ или выберите ниже.",
		MSG_REPROMPT_CODE:      "Не удалось распознать. Отправьте номер рейса, например SU100.",
		MSG_INVALID_DATE:       "Такой даты не существует. Отправьте дату в формате ДД.ММ.ГГГГ.",
		MSG_CODE_ACCEPTED:      "Рейс %s.",
		MSG_AMBIGUOUS_CODE:     "Вижу несколько номеров рейсов (%s). Отправьте один, например SU100.",
		MSG_NO_DATA:            "Информация о рейсе %s на %s не найдена. Проверьте номер рейса и дату.",
		MSG_TRANSIENT_ERROR:    "Сервис информации о рейсах временно недоступен. Попробуйте через несколько минут.",
		MSG_SELECT_FLIGHT:      "Найдено несколько рейсов %s на %s. Выберите один:",
		MSG_SESSION_RESET:      "Начнём заново. Отправьте номер рейса и дату.",
		MSG_UNKNOWN_ACTION:     "Эта кнопка больше не действует. Отправьте номер рейса и дату.",
		MSG_SUBSCRIBED:         "Вы будете получать обновления по рейсу %s на %s.",
		MSG_UNSUBSCRIBED:       "Вы больше не будете получать обновления по рейсу %s на %s.",
		MSG_MY_FLIGHTS:         "Ваши подписки на рейсы:",
		MSG_NO_SUBSCRIPTIONS:   "У вас пока нет подписок на рейсы.",
		BTN_YESTERDAY:          "Вчера",
		BTN_TODAY:              "Сегодня",
		BTN_TOMORROW:           "Завтра",
		BTN_REFRESH:            "🔄 Обновить",
		BTN_RETRY:              "🔁 Повторить",
		BTN_NEW_SEARCH:         "🔍 Новый поиск",
		BTN_CHANGE_DATE:        "📅 Изменить дату",
		BTN_CHANGE_FLIGHT_CODE: "✈️ Изменить рейс",
		BTN_SUBSCRIBE:          "🔔 Подписаться",
		BTN_UNSUBSCRIBE:        "🔕 Отписаться",
		BTN_MY_FLIGHTS:         "📋 Мои рейсы",
	},
}

// Message returns the localized string for key, formatted with args.
// Missing translations fall back to DefaultLocale.
func Message(locale Locale, key MessageKey, args ...interface{}) string {
	tmpl, ok := catalog[locale][key]
	if !ok {
		tmpl = catalog[DefaultLocale][key]
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}
