package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// incoming — нормализованное входящее событие Telegram.
type incoming struct {
	userID      int64
	chatID      int64
	text        string
	voiceFileID string
	when        time.Time
}

// outgoing описывает одно исходящее сообщение с опциональной клавиатурой.
type outgoing struct {
	text   string
	markup any
}

// reminderScheduler заводит таймеры доставки напоминаний: Schedule для
// только что созданного, Rearm для уцелевших после перезапуска.
type reminderScheduler interface {
	Schedule(ctx context.Context, reminderID string, due time.Time)
	Rearm(ctx context.Context) error
}

// TelegramBot отвечает за обработку сообщений Telegram: маршрутизацию
// по подписям кнопок и диалоговые сценарии по состоянию сессии.
type TelegramBot struct {
	store       Storage
	sessions    *SessionManager
	scheduler   reminderScheduler
	transcriber Transcriber
	voice       voiceSource
	token       string
	dataDir     string
	api         *tgbotapi.BotAPI

	thoughts  pager[Thought]
	episodes  pager[FocusEpisode]
	reminders pager[Reminder]
}

// NewTelegramBot создает новый бот с доступом к хранилищу и распознаванию речи.
func NewTelegramBot(store Storage, transcriber Transcriber, token, dataDir string) *TelegramBot {
	return &TelegramBot{
		store:       store,
		sessions:    NewSessionManager(),
		transcriber: transcriber,
		token:       token,
		dataDir:     dataDir,
		thoughts:    pager[Thought]{at: store.ThoughtAt, count: store.CountThoughts},
		episodes:    pager[FocusEpisode]{at: store.EpisodeAt, count: store.CountEpisodes},
		reminders:   pager[Reminder]{at: store.ReminderAt, count: store.CountReminders},
	}
}

// UseScheduler подключает планировщик напоминаний.
func (b *TelegramBot) UseScheduler(scheduler reminderScheduler) {
	b.scheduler = scheduler
}

// Notify отправляет текст напоминания в чат.
func (b *TelegramBot) Notify(chatID int64, text string) error {
	if b.api == nil {
		return fmt.Errorf("bot is not started")
	}
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// Start запускает цикл получения обновлений.
func (b *TelegramBot) Start(ctx context.Context) error {
	if b.token == "" {
		return errMissingBotToken
	}

	api, err := tgbotapi.NewBotAPI(b.token)
	if err != nil {
		return err
	}

	api.Debug = false
	log.Printf("Authorized on account %s", api.Self.UserName)
	b.api = api
	b.voice = newTelegramVoiceSource(api)

	// Таймеры не переживают перезапуск процесса: восстанавливаем их
	// из хранилища, когда транспорт уже готов доставлять уведомления.
	if b.scheduler != nil {
		if err := b.scheduler.Rearm(ctx); err != nil {
			log.Printf("cannot rearm reminders: %v", err)
		}
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := api.GetUpdatesChan(updateConfig)

	for {
		select {
		case update := <-updates:
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			event := incoming{
				userID: update.Message.From.ID,
				chatID: update.Message.Chat.ID,
				text:   update.Message.Text,
				when:   update.Message.Time(),
			}
			if update.Message.Voice != nil {
				event.voiceFileID = update.Message.Voice.FileID
			}
			for _, out := range b.handleEvent(ctx, event) {
				msg := tgbotapi.NewMessage(event.chatID, out.text)
				if out.markup != nil {
					msg.ReplyMarkup = out.markup
				}
				if _, err := api.Send(msg); err != nil {
					log.Printf("send message error: %v", err)
				}
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// handleEvent маршрутизирует событие: сперва команды и подписи кнопок,
// затем свободный ввод по текущему состоянию сессии.
func (b *TelegramBot) handleEvent(ctx context.Context, event incoming) []outgoing {
	if event.text == "/start" {
		out := []outgoing{{text: "Привет! 🍓"}}
		return append(out, b.handleMainMenu(ctx, event)...)
	}

	switch event.text {
	case labelMainMenu:
		return b.handleMainMenu(ctx, event)

	case labelThoughtsMenu:
		return b.handleThoughtsMenu(ctx, event)
	case labelThoughtsAdd:
		return b.handleThoughtsAdd(ctx, event)
	case labelThoughtsShow:
		return b.browseThoughts(ctx, event, moveShow)
	case labelThoughtsBack:
		return b.browseThoughts(ctx, event, moveBack)
	case labelThoughtsForward:
		return b.browseThoughts(ctx, event, moveForward)
	case labelThoughtsBegin:
		return b.browseThoughts(ctx, event, moveBegin)
	case labelThoughtsEnd:
		return b.browseThoughts(ctx, event, moveEnd)

	case labelEpisodesMenu:
		return b.handleEpisodesMenu(ctx, event)
	case labelEpisodesAdd:
		return b.handleEpisodesAdd(ctx, event)
	case labelEpisodesShow:
		return b.browseEpisodes(ctx, event, moveShow)
	case labelEpisodesBack:
		return b.browseEpisodes(ctx, event, moveBack)
	case labelEpisodesForward:
		return b.browseEpisodes(ctx, event, moveForward)
	case labelEpisodesBegin:
		return b.browseEpisodes(ctx, event, moveBegin)
	case labelEpisodesEnd:
		return b.browseEpisodes(ctx, event, moveEnd)

	case labelRemindersMenu:
		return b.handleRemindersMenu(ctx, event)
	case labelRemindersAdd:
		return b.handleRemindersAdd(ctx, event)
	case labelRemindersShow:
		return b.browseReminders(ctx, event, moveShow)
	case labelRemindersBack:
		return b.browseReminders(ctx, event, moveBack)
	case labelRemindersForward:
		return b.browseReminders(ctx, event, moveForward)
	case labelRemindersBegin:
		return b.browseReminders(ctx, event, moveBegin)
	case labelRemindersEnd:
		return b.browseReminders(ctx, event, moveEnd)

	case labelSettingsMenu:
		return b.handleSettingsMenu(ctx, event)
	case labelSaluteSpeech:
		return b.handleSaluteSpeechPrompt(ctx, event)
	}

	return b.handleFreeInput(ctx, event)
}

// handleFreeInput обрабатывает свободный текст или голосовое сообщение
// согласно состоянию сессии пользователя.
func (b *TelegramBot) handleFreeInput(ctx context.Context, event incoming) []outgoing {
	session := b.sessions.Get(event.userID)

	switch session.State {
	case stateEnteringThought:
		return b.handleThoughtEntry(ctx, event, session)
	case stateEnteringEpisodeDuration:
		return b.handleEpisodeDuration(event, session)
	case stateEnteringEpisodeInterrupt:
		return b.handleEpisodeInterrupt(ctx, event, session)
	case stateEnteringReminderDelay:
		return b.handleReminderDelay(event, session)
	case stateEnteringReminderHeader:
		return b.handleReminderHeader(ctx, event, session)
	case stateEnteringCredential:
		return b.handleCredentialEntry(ctx, event, session)
	}

	return []outgoing{{text: "Что-то непонятное... 😴\nПопробуй ещё раз!"}}
}

// handleMainMenu показывает главное меню и запускает чистку просроченных
// напоминаний пользователя.
func (b *TelegramBot) handleMainMenu(ctx context.Context, event incoming) []outgoing {
	session := b.sessions.Get(event.userID)
	session.State = stateIdle

	// Сбой чистки не мешает показать меню.
	_ = b.store.DeleteExpiredReminders(ctx, event.userID, event.when)

	return []outgoing{{
		text:   "Это главное меню твоего СДВГ дневника! 👾",
		markup: mainMenuKeyboard(),
	}}
}

// handleThoughtsMenu показывает меню MindFlow с количеством записей.
func (b *TelegramBot) handleThoughtsMenu(ctx context.Context, event incoming) []outgoing {
	session := b.sessions.Get(event.userID)
	session.State = stateIdle
	session.ResetCursor(kindThought)

	var total int64
	if count, err := b.store.CountThoughts(ctx, event.userID); err == nil {
		total = count
	}

	return []outgoing{{
		text: fmt.Sprintf("MindFlow - твой личный дневник мыслей! 📚\n"+
			"На данный момент у тебя %d записей 🫣", total),
		markup: thoughtsMenuKeyboard(),
	}}
}

// handleThoughtsAdd переводит диалог в режим записи мысли.
func (b *TelegramBot) handleThoughtsAdd(ctx context.Context, event incoming) []outgoing {
	session := b.sessions.Get(event.userID)
	session.State = stateEnteringThought

	return []outgoing{{
		text:   "Напишите мысль которую хотите добавить 👀",
		markup: mainMenuOnlyKeyboard("Напиши о чём думаешь!"),
	}}
}

// handleThoughtEntry сохраняет мысль из текста или распознанного голосового.
func (b *TelegramBot) handleThoughtEntry(ctx context.Context, event incoming, session *Session) []outgoing {
	notes, extra, err := b.ensureText(ctx, event)
	if err != nil {
		// Состояние не меняется: пользователь пробует ещё раз.
		return append(extra, outgoing{text: transcriptionFailed(err)})
	}

	if _, err := b.store.CreateThought(ctx, event.userID, notes, event.when); err != nil {
		return append(extra, outgoing{text: somethingWrong(err)})
	}

	out := append(extra, outgoing{text: "Мысль успешно записана в MindFlow! 🎉"})
	return append(out, b.handleThoughtsMenu(ctx, event)...)
}

// browseThoughts листает записи MindFlow.
func (b *TelegramBot) browseThoughts(ctx context.Context, event incoming, m browseMove) []outgoing {
	return browse(ctx, b, event, kindThought, b.thoughts, m,
		func(thought *Thought, index int) []outgoing {
			return []outgoing{
				{text: fmt.Sprintf("MindFlow, запись %d\nСоздана %s", index+1, formatDate(thought.LastModified))},
				{text: thought.Notes, markup: thoughtsBrowseKeyboard()},
			}
		},
		"В MindFlow пока что нет записей. Запишите сюда что-нибудь! 😅",
		b.handleThoughtsMenu,
	)
}

// handleEpisodesMenu показывает меню Reflection со статистикой залипаний.
func (b *TelegramBot) handleEpisodesMenu(ctx context.Context, event incoming) []outgoing {
	session := b.sessions.Get(event.userID)
	session.State = stateIdle
	session.ResetCursor(kindEpisode)

	var total, positive int64
	if count, err := b.store.CountEpisodes(ctx, event.userID); err == nil {
		total = count
	}
	if count, err := b.store.CountSuccessfulEpisodes(ctx, event.userID); err == nil {
		positive = count
	}

	return []outgoing{{
		text: fmt.Sprintf("Reflection - твой способ отслеживать залипания! ✌️\n"+
			"На данный момент отслежено %d залипаний 🫣, из них %d - положительные 👀", total, positive),
		markup: episodesMenuKeyboard(),
	}}
}

// handleEpisodesAdd начинает сценарий записи залипания с выбора длительности.
func (b *TelegramBot) handleEpisodesAdd(ctx context.Context, event incoming) []outgoing {
	session := b.sessions.Get(event.userID)
	session.State = stateEnteringEpisodeDuration

	return []outgoing{{
		text:   "Напишите длительность залипания 👀",
		markup: episodeDurationKeyboard(),
	}}
}

// handleEpisodeDuration принимает корзину длительности и спрашивает про прерывание.
func (b *TelegramBot) handleEpisodeDuration(event incoming, session *Session) []outgoing {
	timeSpent, ok := episodeDurations[event.text]
	if !ok {
		return []outgoing{{text: "Время залипания задано неправильно(\nПопробуйте ещё раз!"}}
	}

	session.TimeSpent = timeSpent
	session.State = stateEnteringEpisodeInterrupt

	return []outgoing{{
		text:   "Удалось ли прервать залипание? 🐇",
		markup: episodeInterruptKeyboard(),
	}}
}

// handleEpisodeInterrupt принимает ответ про прерывание и сохраняет залипание
// целиком: обе характеристики к этому моменту известны.
func (b *TelegramBot) handleEpisodeInterrupt(ctx context.Context, event incoming, session *Session) []outgoing {
	var interrupted bool
	switch event.text {
	case labelInterruptYes:
		interrupted = true
	case labelInterruptNo:
		interrupted = false
	default:
		// Выбранная длительность сохраняется, переспрашиваем только ответ.
		return []outgoing{{text: "Успешность прерывания задана неправильно(\nПопробуйте ещё раз!"}}
	}

	if _, err := b.store.CreateEpisode(ctx, event.userID, session.TimeSpent, interrupted, event.when); err != nil {
		return []outgoing{{text: somethingWrong(err)}}
	}

	out := []outgoing{{text: "Залипание успешно записано в Reflection! 🎉"}}
	return append(out, b.handleEpisodesMenu(ctx, event)...)
}

// browseEpisodes листает записи Reflection.
func (b *TelegramBot) browseEpisodes(ctx context.Context, event incoming, m browseMove) []outgoing {
	return browse(ctx, b, event, kindEpisode, b.episodes, m,
		func(episode *FocusEpisode, index int) []outgoing {
			successful := "нет :("
			if episode.IsInterruptSuccessful {
				successful = "да :)"
			}
			return []outgoing{{
				text: fmt.Sprintf("Reflection, залипание %d\nСоздано %s\nУдалось ли прервать: %s",
					index+1, formatDate(episode.LastModified), successful),
				markup: episodesBrowseKeyboard(),
			}}
		},
		"В Reflection пока что нет залипаний. Запишите сюда что-нибудь! 😅",
		b.handleEpisodesMenu,
	)
}

// handleRemindersMenu показывает меню напоминаний, предварительно удалив
// просроченные.
func (b *TelegramBot) handleRemindersMenu(ctx context.Context, event incoming) []outgoing {
	session := b.sessions.Get(event.userID)
	session.State = stateIdle
	session.ResetCursor(kindReminder)

	_ = b.store.DeleteExpiredReminders(ctx, event.userID, event.when)

	var total int64
	if count, err := b.store.CountReminders(ctx, event.userID); err == nil {
		total = count
	}

	return []outgoing{{
		text: fmt.Sprintf("Напоминания - разгрузи свою рабочую память! 🤌\n"+
			"На данный момент записано %d напоминаний 📌", total),
		markup: remindersMenuKeyboard(),
	}}
}

// handleRemindersAdd начинает сценарий создания напоминания с выбора задержки.
func (b *TelegramBot) handleRemindersAdd(ctx context.Context, event incoming) []outgoing {
	session := b.sessions.Get(event.userID)
	session.State = stateEnteringReminderDelay

	return []outgoing{{
		text:   "Через сколько тебе напомнить? 🤔",
		markup: reminderDelayKeyboard(),
	}}
}

// handleReminderDelay принимает задержку из фиксированного меню и
// запоминает абсолютное время срабатывания.
func (b *TelegramBot) handleReminderDelay(event incoming, session *Session) []outgoing {
	delay, ok := reminderDelays[event.text]
	if !ok {
		return []outgoing{{text: "Время задано неправильно(\nПопробуйте ещё раз!"}}
	}

	session.Due = event.when.Add(delay)
	session.State = stateEnteringReminderHeader

	return []outgoing{{
		text:   "Название напоминания? 🐇",
		markup: tgbotapi.NewRemoveKeyboard(false),
	}}
}

// handleReminderHeader принимает название, сохраняет напоминание и заводит таймер.
func (b *TelegramBot) handleReminderHeader(ctx context.Context, event incoming, session *Session) []outgoing {
	header, extra, err := b.ensureText(ctx, event)
	if err != nil {
		return append(extra, outgoing{text: transcriptionFailed(err)})
	}

	reminder, err := b.store.CreateReminder(ctx, event.userID, event.chatID, header, session.Due, event.when)
	if err != nil {
		return append(extra, outgoing{text: somethingWrong(err)})
	}

	if b.scheduler != nil {
		b.scheduler.Schedule(ctx, reminder.ID, reminder.ScheduledAt)
	}

	out := append(extra, outgoing{text: "Напоминание успешно составлено!"})
	return append(out, b.handleRemindersMenu(ctx, event)...)
}

// browseReminders листает напоминания.
func (b *TelegramBot) browseReminders(ctx context.Context, event incoming, m browseMove) []outgoing {
	return browse(ctx, b, event, kindReminder, b.reminders, m,
		func(reminder *Reminder, index int) []outgoing {
			return []outgoing{{
				text: fmt.Sprintf("Напоминание %d\nНазвание: %s\nСоздано %s\nНапомнит %s\n",
					index+1, reminder.Header, formatDate(reminder.LastModified), formatDate(reminder.ScheduledAt)),
				markup: remindersBrowseKeyboard(),
			}}
		},
		"Напоминаний пока что нет. Запишите сюда что-нибудь! 😅",
		b.handleRemindersMenu,
	)
}

// handleSettingsMenu показывает меню настроек.
func (b *TelegramBot) handleSettingsMenu(ctx context.Context, event incoming) []outgoing {
	session := b.sessions.Get(event.userID)
	session.State = stateIdle

	return []outgoing{{
		text:   "Что будем настраивать? 👾",
		markup: settingsMenuKeyboard(),
	}}
}

// handleSaluteSpeechPrompt запрашивает токен SaluteSpeech.
func (b *TelegramBot) handleSaluteSpeechPrompt(ctx context.Context, event incoming) []outgoing {
	session := b.sessions.Get(event.userID)
	session.State = stateEnteringCredential

	return []outgoing{{
		text:   "Напиши SaluteSpeech API Token",
		markup: mainMenuOnlyKeyboard("Напиши токен!"),
	}}
}

// handleCredentialEntry записывает токен SaluteSpeech пользователя.
func (b *TelegramBot) handleCredentialEntry(ctx context.Context, event incoming, session *Session) []outgoing {
	if event.text == "" {
		return []outgoing{{text: "Токен задан неверно!\nПопробуйте ещё раз!"}}
	}

	if err := b.store.UpsertSetting(ctx, event.userID, event.text, event.when); err != nil {
		return []outgoing{{text: somethingWrong(err)}}
	}

	out := []outgoing{{text: "SaluteSpeech Token успешно записан! 🎉"}}
	return append(out, b.handleSettingsMenu(ctx, event)...)
}

// browse выполняет перемещение курсора и показывает текущую запись раздела.
// Пустой раздел уводит в меню раздела, ошибка хранилища — в главное меню;
// в обоих случаях курсор сбрасывается.
func browse[T any](ctx context.Context, b *TelegramBot, event incoming, kind entityKind, p pager[T], m browseMove,
	render func(*T, int) []outgoing, emptyText string, menu func(context.Context, incoming) []outgoing) []outgoing {

	session := b.sessions.Get(event.userID)
	session.State = stateIdle

	index := session.Cursor(kind)
	if m != moveShow {
		index = p.move(ctx, event.userID, index, m)
		session.SetCursor(kind, index)
	}

	record, status, err := p.show(ctx, event.userID, index)
	switch status {
	case browseEmpty:
		session.ResetCursor(kind)
		out := []outgoing{{text: emptyText, markup: tgbotapi.NewRemoveKeyboard(false)}}
		return append(out, menu(ctx, event)...)
	case browseFailed:
		session.ResetCursor(kind)
		out := []outgoing{{text: somethingWrong(err)}}
		return append(out, b.handleMainMenu(ctx, event)...)
	}

	return render(record, index)
}

// ensureText возвращает текст сообщения; голосовое сперва скачивается во
// временный файл, распознаётся, и файл удаляется при любом исходе.
func (b *TelegramBot) ensureText(ctx context.Context, event incoming) (string, []outgoing, error) {
	if event.text != "" {
		return event.text, nil, nil
	}
	if event.voiceFileID == "" || b.voice == nil || b.transcriber == nil {
		return "", nil, errTranscriptionFailed
	}

	credentials, err := b.store.SpeechToken(ctx, event.userID)
	if err != nil {
		return "", nil, err
	}
	if credentials == "" {
		return "", nil, errNoCredential
	}

	path := filepath.Join(b.dataDir, event.voiceFileID+".oga")
	if err := b.voice.Download(ctx, event.voiceFileID, path); err != nil {
		return "", nil, err
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			log.Printf("cannot remove voice file %s: %v", path, err)
		}
	}()

	text, err := b.transcriber.Transcribe(ctx, credentials, path)
	if err != nil {
		return "", nil, err
	}

	return text, []outgoing{{text: "Распознанный текст:"}, {text: text}}, nil
}

// transcriptionFailed форматирует ответ о неудачном распознавании голосового.
func transcriptionFailed(err error) string {
	return fmt.Sprintf("Не удалось распознать голосовое... 😓\nПопробуй ещё раз!\n\n%v", err)
}

// somethingWrong форматирует общий ответ об ошибке с диагностикой.
func somethingWrong(err error) string {
	return fmt.Sprintf("Что-то пошло не так... 😓\nПопробуй ещё раз!\n\n%v", err)
}

// formatDate выводит время в формате дневника.
func formatDate(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}
