package models

// Language constants
const (
	LangRussian = "ru"
	LangEnglish = "en"
)

// DefaultLanguage is used when the configured language has no translation table.
const DefaultLanguage = LangRussian

// Translation is a map of message keys to translated text
type Translation map[string]string

// Translations stores all language translations
var Translations = map[string]Translation{
	LangRussian: {
		"welcome": "Добро пожаловать. Отправьте сообщение, выберите чат из списка зарегистрированных в боте, и оно будет направлено на модерацию администратору чата (он не будет знать, от кого). Если администратор одобрит публикацию, бот отправит сообщение в чат от своего имени. Все команды: /help",

		"help_title":          "Поддерживаются команды:",
		"help_cmd_start":      "/start - приветствие",
		"help_cmd_help":       "/help - выводит этот текст",
		"help_cmd_register":   "/register @your_chat - регистрация публичного чата. Бот должен быть добавлен в этот чат, иначе он не сможет отправлять сообщения. Вы можете быть администратором только одного чата, при регистрации нового предыдущий будет забыт",
		"help_cmd_unregister": "/unregister - указание боту забыть чат",

		// Command descriptions for Telegram command menu
		"cmd_desc_start":      "Приветствие",
		"cmd_desc_help":       "Список команд",
		"cmd_desc_register":   "Зарегистрировать чат",
		"cmd_desc_unregister": "Забыть чат",

		"register_usage":       "После команды /register надо указать имя чата. Например, если имя вашего чата @your_chat, отправьте отдельным сообщением /register @your_chat",
		"register_need_at":     "Имя чата должно начинаться со знака @, а вы ввели '%s'",
		"register_too_long":    "Имя чата слишком длинное",
		"register_taken":       "Чат %s уже зарегистрирован другим администратором",
		"register_greeting":    "Приветствую вас. Я бот-анонимайзер: напишите мне в личку, я от своего имени перешлю сообщение администратору, и если он одобрит, перешлю его сюда. Никто, кроме вас самих, не будет знать, от кого оно",
		"register_send_failed": "Не удалось отправить сообщение в чат, возможно вы забыли меня в него добавить: %v",
		"register_failed":      "Не удалось сохранить регистрацию, попробуйте позже",
		"register_success":     "Регистрация успешна. Если бот не сможет отправить сообщение в чат или его услугами не будут пользоваться более 3-х месяцев, информация о нём будет стёрта, но вы всегда сможете зарегистрировать его заново",

		"unregister_done":    "Информация о чате %s удалена",
		"unregister_nothing": "Зарегистрированного вами чата не числится. Если вы его регистрировали, возможно он был удалён автоматически из-за ошибок отправки или долгого бездействия",

		"text_please": "Текстовое сообщение, пожалуйста!",
		"choose_chat": "Выберите чат для отправки",
		"no_chats":    "Пока нет ни одного зарегистрированного чата",

		"queued":             "Сообщение для %s поставлено в очередь и примерно через %s будет передано администратору. Задержка скрывает время отправки",
		"queued_ack":         "Сообщение в очереди",
		"destination_gone":   "Чат %s больше недоступен, выберите другой",
		"moderation_request": "Поступило сообщение для %s\n\n%s",
		"btn_approve":        "✅ Опубликовать",
		"btn_reject":         "❌ Отклонить",
		"approved_note":      "\n\n✅ Одобрено",
		"rejected_note":      "\n\n❌ Отклонено",
		"expired_note":       "\n\n⌛ Время на решение истекло",
		"approved":           "Опубликовано",
		"rejected":           "Отклонено",
		"publish_failed":     "Не удалось опубликовать в %s: %v",
		"no_destination":     "Ваш чат больше не зарегистрирован, публиковать некуда",
		"stale":              "Слишком старое сообщение",

		"duration_seconds": "%d сек.",
		"duration_minutes": "%d мин. %d сек.",
	},
	LangEnglish: {
		"welcome": "Welcome. Send a message, pick a chat registered with the bot and it will be forwarded for moderation to the chat administrator (who will not know it came from you). If the administrator approves it, the bot posts it to the chat under its own name. All commands: /help",

		"help_title":          "Supported commands:",
		"help_cmd_start":      "/start - welcome message",
		"help_cmd_help":       "/help - show this text",
		"help_cmd_register":   "/register @your_chat - register a public chat. The bot must be a member of that chat, otherwise it cannot post. You can administer only one chat; registering a new one forgets the previous",
		"help_cmd_unregister": "/unregister - make the bot forget your chat",

		// Command descriptions for Telegram command menu
		"cmd_desc_start":      "Welcome message",
		"cmd_desc_help":       "List commands",
		"cmd_desc_register":   "Register a chat",
		"cmd_desc_unregister": "Forget the chat",

		"register_usage":       "Put the chat name after /register. For example, if your chat is @your_chat, send /register @your_chat as a separate message",
		"register_need_at":     "The chat name must start with @, you entered '%s'",
		"register_too_long":    "The chat name is too long",
		"register_taken":       "Chat %s is already registered by another administrator",
		"register_greeting":    "Hello. I am an anonymizing bot: message me privately, I will pass your message to the administrator under my own name and, once approved, post it here. Nobody but you will know who wrote it",
		"register_send_failed": "Could not send a message to the chat, maybe you forgot to add me: %v",
		"register_failed":      "Could not save the registration, please try again later",
		"register_success":     "Registration succeeded. If the bot cannot post to the chat or nobody uses it for more than 3 months, it will be forgotten, but you can always register it again",

		"unregister_done":    "Chat %s has been forgotten",
		"unregister_nothing": "You have no registered chat. If you registered one, it may have been removed automatically after delivery errors or long inactivity",

		"text_please": "Text message, please!",
		"choose_chat": "Choose a chat to send to",
		"no_chats":    "No chats are registered yet",

		"queued":             "Your message for %s is queued and will reach the administrator in about %s. The delay hides when it was sent",
		"queued_ack":         "Message queued",
		"destination_gone":   "Chat %s is no longer available, choose another one",
		"moderation_request": "New message for %s\n\n%s",
		"btn_approve":        "✅ Publish",
		"btn_reject":         "❌ Reject",
		"approved_note":      "\n\n✅ Approved",
		"rejected_note":      "\n\n❌ Rejected",
		"expired_note":       "\n\n⌛ Expired without a decision",
		"approved":           "Approved",
		"rejected":           "Rejected",
		"publish_failed":     "Could not publish to %s: %v",
		"no_destination":     "Your chat is no longer registered, nowhere to publish",
		"stale":              "This message is too old",

		"duration_seconds": "%d s",
		"duration_minutes": "%d min %d s",
	},
}

// GetTranslation returns the correct translation for a given language code and key
func GetTranslation(lang, key string) string {
	if _, ok := Translations[lang]; !ok {
		lang = DefaultLanguage
	}

	if translation, ok := Translations[lang][key]; ok {
		return translation
	}

	// Fall back to the default language if key not found in specified language
	if translation, ok := Translations[DefaultLanguage][key]; ok {
		return translation
	}

	// Return the key itself if translation not found
	return key
}

// GetLanguageName returns the localized name of a language code
func GetLanguageName(langCode string) string {
	switch langCode {
	case LangRussian:
		return "Русский"
	case LangEnglish:
		return "English"
	default:
		return langCode
	}
}
