package main

import (
	"context"
	"errors"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var errBoom = errors.New("boom")

// fakeStorage — хранилище в памяти для тестов; реализует Storage
// с теми же соглашениями: (nil, nil) для отсутствующей записи,
// порядок выдачи определяет seq, а не положение в слайсе.
type fakeStorage struct {
	mu        sync.Mutex
	seq       int64
	thoughts  []Thought
	episodes  []FocusEpisode
	reminders []Reminder
	settings  []UserSetting

	failAll bool
}

var _ Storage = (*fakeStorage)(nil)

func (f *fakeStorage) CreateThought(ctx context.Context, userID int64, notes string, createdAt time.Time) (*Thought, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errBoom
	}
	f.seq++
	thought := Thought{ID: uuid.NewString(), UserID: userID, Seq: f.seq, LastModified: createdAt, Notes: notes}
	f.thoughts = append(f.thoughts, thought)
	return &thought, nil
}

func (f *fakeStorage) ThoughtAt(ctx context.Context, userID int64, index int) (*Thought, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errBoom
	}
	return at(f.thoughts, userID, index, func(t Thought) int64 { return t.UserID }, func(t Thought) int64 { return t.Seq })
}

func (f *fakeStorage) CountThoughts(ctx context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return 0, errBoom
	}
	return count(f.thoughts, userID, func(t Thought) int64 { return t.UserID }), nil
}

func (f *fakeStorage) ListThoughts(ctx context.Context, userID int64) ([]Thought, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errBoom
	}
	return filter(f.thoughts, userID, func(t Thought) int64 { return t.UserID }, func(t Thought) int64 { return t.Seq }), nil
}

func (f *fakeStorage) CreateEpisode(ctx context.Context, userID int64, timeSpent TimeSpent, interrupted bool, createdAt time.Time) (*FocusEpisode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errBoom
	}
	f.seq++
	episode := FocusEpisode{
		ID:                    uuid.NewString(),
		UserID:                userID,
		Seq:                   f.seq,
		LastModified:          createdAt,
		TimeSpent:             timeSpent,
		IsInterruptSuccessful: interrupted,
	}
	f.episodes = append(f.episodes, episode)
	return &episode, nil
}

func (f *fakeStorage) EpisodeAt(ctx context.Context, userID int64, index int) (*FocusEpisode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errBoom
	}
	return at(f.episodes, userID, index, func(e FocusEpisode) int64 { return e.UserID }, func(e FocusEpisode) int64 { return e.Seq })
}

func (f *fakeStorage) CountEpisodes(ctx context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return 0, errBoom
	}
	return count(f.episodes, userID, func(e FocusEpisode) int64 { return e.UserID }), nil
}

func (f *fakeStorage) CountSuccessfulEpisodes(ctx context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return 0, errBoom
	}
	var total int64
	for _, episode := range f.episodes {
		if episode.UserID == userID && episode.IsInterruptSuccessful {
			total++
		}
	}
	return total, nil
}

func (f *fakeStorage) ListEpisodes(ctx context.Context, userID int64) ([]FocusEpisode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errBoom
	}
	return filter(f.episodes, userID, func(e FocusEpisode) int64 { return e.UserID }, func(e FocusEpisode) int64 { return e.Seq }), nil
}

func (f *fakeStorage) CreateReminder(ctx context.Context, userID, chatID int64, header string, scheduledAt, createdAt time.Time) (*Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errBoom
	}
	f.seq++
	reminder := Reminder{
		ID:           uuid.NewString(),
		UserID:       userID,
		ChatID:       chatID,
		Seq:          f.seq,
		LastModified: createdAt,
		ScheduledAt:  scheduledAt,
		Header:       header,
	}
	f.reminders = append(f.reminders, reminder)
	return &reminder, nil
}

func (f *fakeStorage) ReminderAt(ctx context.Context, userID int64, index int) (*Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errBoom
	}
	return at(f.reminders, userID, index, func(r Reminder) int64 { return r.UserID }, func(r Reminder) int64 { return r.Seq })
}

func (f *fakeStorage) CountReminders(ctx context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return 0, errBoom
	}
	return count(f.reminders, userID, func(r Reminder) int64 { return r.UserID }), nil
}

func (f *fakeStorage) ListReminders(ctx context.Context, userID int64) ([]Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errBoom
	}
	return filter(f.reminders, userID, func(r Reminder) int64 { return r.UserID }, func(r Reminder) int64 { return r.Seq }), nil
}

func (f *fakeStorage) ReminderByID(ctx context.Context, id string) (*Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errBoom
	}
	for i := range f.reminders {
		if f.reminders[i].ID == id {
			reminder := f.reminders[i]
			return &reminder, nil
		}
	}
	return nil, nil
}

func (f *fakeStorage) DeleteReminder(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errBoom
	}
	kept := f.reminders[:0]
	for _, reminder := range f.reminders {
		if reminder.ID != id {
			kept = append(kept, reminder)
		}
	}
	f.reminders = kept
	return nil
}

func (f *fakeStorage) DeleteExpiredReminders(ctx context.Context, userID int64, before time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errBoom
	}
	kept := f.reminders[:0]
	for _, reminder := range f.reminders {
		if reminder.UserID == userID && reminder.ScheduledAt.Before(before) {
			continue
		}
		kept = append(kept, reminder)
	}
	f.reminders = kept
	return nil
}

func (f *fakeStorage) PendingReminders(ctx context.Context, after time.Time) ([]Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errBoom
	}
	var pending []Reminder
	for _, reminder := range f.reminders {
		if !reminder.ScheduledAt.Before(after) {
			pending = append(pending, reminder)
		}
	}
	return pending, nil
}

func (f *fakeStorage) UpsertSetting(ctx context.Context, userID int64, token string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errBoom
	}
	for i := range f.settings {
		if f.settings[i].UserID == userID {
			f.settings[i].SaluteSpeech = token
			f.settings[i].LastModified = now
			return nil
		}
	}
	f.settings = append(f.settings, UserSetting{
		ID:           uuid.NewString(),
		UserID:       userID,
		LastModified: now,
		SaluteSpeech: token,
	})
	return nil
}

func (f *fakeStorage) SpeechToken(ctx context.Context, userID int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return "", errBoom
	}
	for _, setting := range f.settings {
		if setting.UserID == userID {
			return setting.SaluteSpeech, nil
		}
	}
	return "", nil
}

func at[T any](records []T, userID int64, index int, owner, seq func(T) int64) (*T, error) {
	if index < 0 {
		return nil, nil
	}
	matched := filter(records, userID, owner, seq)
	if index >= len(matched) {
		return nil, nil
	}
	record := matched[index]
	return &record, nil
}

func count[T any](records []T, userID int64, owner func(T) int64) int64 {
	var total int64
	for i := range records {
		if owner(records[i]) == userID {
			total++
		}
	}
	return total
}

func filter[T any](records []T, userID int64, owner, seq func(T) int64) []T {
	var matched []T
	for i := range records {
		if owner(records[i]) == userID {
			matched = append(matched, records[i])
		}
	}
	sort.Slice(matched, func(i, j int) bool { return seq(matched[i]) < seq(matched[j]) })
	return matched
}

// fakeNotifier запоминает доставленные уведомления.
type fakeNotifier struct {
	mu       sync.Mutex
	err      error
	messages []notified
}

type notified struct {
	chatID int64
	text   string
}

func (f *fakeNotifier) Notify(chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, notified{chatID: chatID, text: text})
	return nil
}

func (f *fakeNotifier) delivered() []notified {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notified(nil), f.messages...)
}

// fakeScheduler запоминает заведённые таймеры, ничего не запуская.
type fakeScheduler struct {
	mu        sync.Mutex
	scheduled []scheduledTimer
	rearmed   bool
}

type scheduledTimer struct {
	id  string
	due time.Time
}

func (f *fakeScheduler) Schedule(ctx context.Context, reminderID string, due time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled = append(f.scheduled, scheduledTimer{id: reminderID, due: due})
}

func (f *fakeScheduler) Rearm(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rearmed = true
	return nil
}

// fakeTranscriber возвращает заранее заданный текст и запоминает пути файлов.
type fakeTranscriber struct {
	text  string
	err   error
	paths []string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, credentials, audioPath string) (string, error) {
	f.paths = append(f.paths, audioPath)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

// fakeVoice пишет фиктивное аудио по указанному пути.
type fakeVoice struct {
	err error
}

func (f *fakeVoice) Download(ctx context.Context, fileID, path string) error {
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(path, []byte("audio"), 0o644)
}
