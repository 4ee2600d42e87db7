package main

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Подписи кнопок — это и есть командный словарь бота: входящие сообщения
// сопоставляются с ними по точному совпадению текста.
const (
	labelMainMenu = "В главное меню 🫆"

	labelThoughtsMenu    = "MindFlow 🗒"
	labelThoughtsAdd     = "Добавить 🖊 (M)"
	labelThoughtsShow    = "Смотреть 👀 (M)"
	labelThoughtsBack    = "Назад ⬅️ (M)"
	labelThoughtsForward = "Вперёд ➡️ (M)"
	labelThoughtsBegin   = "В начало ⬅️ (M)"
	labelThoughtsEnd     = "В конец ➡️ (M)"

	labelEpisodesMenu    = "Reflection 💤"
	labelEpisodesAdd     = "Добавить 🖊 (R)"
	labelEpisodesShow    = "Смотреть 👀 (R)"
	labelEpisodesBack    = "Назад ⬅️ (R)"
	labelEpisodesForward = "Вперёд ➡️ (R)"
	labelEpisodesBegin   = "В начало ⬅️ (R)"
	labelEpisodesEnd     = "В конец ➡️ (R)"

	labelRemindersMenu    = "Напоминания 📌"
	labelRemindersAdd     = "Добавить 🖊 (Н)"
	labelRemindersShow    = "Смотреть 👀 (Н)"
	labelRemindersBack    = "Назад ⬅️ (Н)"
	labelRemindersForward = "Вперёд ➡️ (Н)"
	labelRemindersBegin   = "В начало ⬅️ (Н)"
	labelRemindersEnd     = "В конец ➡️ (Н)"

	labelSettingsMenu = "Настройки ⚙️"
	labelSaluteSpeech = "SaluteSpeech 🎉"

	labelDurationShort  = "Быстро ⌛️\n(<= 2 ч.)"
	labelDurationMedium = "Средне 🕰\n(<= 6 ч.)"
	labelDurationLong   = "Долго ♾️\n(<= 12 ч.)"

	labelInterruptNo  = "Нет 😒"
	labelInterruptYes = "Да 😎"
)

// reminderDelays задаёт фиксированное меню задержек; произвольная
// длительность не поддерживается.
var reminderDelays = map[string]time.Duration{
	"5 минут ⌚️":  5 * time.Minute,
	"15 минут ⌚️": 15 * time.Minute,
	"30 минут ⌚️": 30 * time.Minute,
	"1 час 🕰":     time.Hour,
	"2 часа 🕰":    2 * time.Hour,
	"3 часа 🕰":    3 * time.Hour,
	"1 день 🎈":    24 * time.Hour,
	"2 дня 🎈":     48 * time.Hour,
	"3 дня 🎈":     72 * time.Hour,
}

// episodeDurations сопоставляет подписи корзинам длительности залипания.
var episodeDurations = map[string]TimeSpent{
	labelDurationShort:  TimeSpentShort,
	labelDurationMedium: TimeSpentMedium,
	labelDurationLong:   TimeSpentLong,
}

// replyKeyboard собирает постоянную клавиатуру с подсказкой в поле ввода.
func replyKeyboard(placeholder string, rows ...[]tgbotapi.KeyboardButton) tgbotapi.ReplyKeyboardMarkup {
	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.InputFieldPlaceholder = placeholder
	return markup
}

// buttonRow собирает ряд кнопок из подписей.
func buttonRow(labels ...string) []tgbotapi.KeyboardButton {
	buttons := make([]tgbotapi.KeyboardButton, 0, len(labels))
	for _, label := range labels {
		buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
	}
	return buttons
}

// mainMenuKeyboard — клавиатура главного меню.
func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard("Куда пойдём? 👀",
		buttonRow(labelThoughtsMenu, labelEpisodesMenu),
		buttonRow(labelRemindersMenu),
		buttonRow(labelSettingsMenu),
	)
}

// thoughtsMenuKeyboard — клавиатура меню MindFlow.
func thoughtsMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard("Выбери действие в твоём MindFlow!",
		buttonRow(labelThoughtsAdd, labelThoughtsShow),
		buttonRow(labelMainMenu),
	)
}

// thoughtsBrowseKeyboard — клавиатура листания MindFlow.
func thoughtsBrowseKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard("Выбери вариантик!",
		buttonRow(labelThoughtsBack, labelThoughtsForward),
		buttonRow(labelThoughtsBegin, labelThoughtsEnd),
		buttonRow(labelMainMenu),
	)
}

// episodesMenuKeyboard — клавиатура меню Reflection.
func episodesMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard("Выбери действие в Reflection!",
		buttonRow(labelEpisodesAdd, labelEpisodesShow),
		buttonRow(labelMainMenu),
	)
}

// episodesBrowseKeyboard — клавиатура листания Reflection.
func episodesBrowseKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard("Выбери вариантик!",
		buttonRow(labelEpisodesBack, labelEpisodesForward),
		buttonRow(labelEpisodesBegin, labelEpisodesEnd),
		buttonRow(labelMainMenu),
	)
}

// episodeDurationKeyboard — выбор длительности залипания.
func episodeDurationKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard("Напиши длительность залипания!",
		buttonRow(labelDurationShort, labelDurationMedium, labelDurationLong),
		buttonRow(labelMainMenu),
	)
}

// episodeInterruptKeyboard — ответ, удалось ли прервать залипание.
func episodeInterruptKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard("Удалось?",
		buttonRow(labelInterruptNo, labelInterruptYes),
		buttonRow(labelMainMenu),
	)
}

// remindersMenuKeyboard — клавиатура меню напоминаний.
func remindersMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard("Напоминания!",
		buttonRow(labelRemindersAdd, labelRemindersShow),
		buttonRow(labelMainMenu),
	)
}

// remindersBrowseKeyboard — клавиатура листания напоминаний.
func remindersBrowseKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard("Выбери вариантик!",
		buttonRow(labelRemindersBack, labelRemindersForward),
		buttonRow(labelRemindersBegin, labelRemindersEnd),
		buttonRow(labelMainMenu),
	)
}

// reminderDelayKeyboard — выбор задержки напоминания.
func reminderDelayKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard("Через сколько напомнить?",
		buttonRow("5 минут ⌚️", "15 минут ⌚️", "30 минут ⌚️"),
		buttonRow("1 час 🕰", "2 часа 🕰", "3 часа 🕰"),
		buttonRow("1 день 🎈", "2 дня 🎈", "3 дня 🎈"),
		buttonRow(labelMainMenu),
	)
}

// settingsMenuKeyboard — клавиатура меню настроек.
func settingsMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard("Что настроим? 👀",
		buttonRow(labelSaluteSpeech),
		buttonRow(labelMainMenu),
	)
}

// mainMenuOnlyKeyboard — клавиатура с единственной кнопкой возврата.
func mainMenuOnlyKeyboard(placeholder string) tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard(placeholder, buttonRow(labelMainMenu))
}
