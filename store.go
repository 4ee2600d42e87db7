package main

import (
	"context"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Storage описывает операции хранилища дневника. Отсутствующая запись
// возвращается как (nil, nil): "данных нет" и "хранилище сломалось" —
// разные исходы, и вызывающий код ветвится по ним явно.
type Storage interface {
	CreateThought(ctx context.Context, userID int64, notes string, createdAt time.Time) (*Thought, error)
	ThoughtAt(ctx context.Context, userID int64, index int) (*Thought, error)
	CountThoughts(ctx context.Context, userID int64) (int64, error)
	ListThoughts(ctx context.Context, userID int64) ([]Thought, error)

	CreateEpisode(ctx context.Context, userID int64, timeSpent TimeSpent, interrupted bool, createdAt time.Time) (*FocusEpisode, error)
	EpisodeAt(ctx context.Context, userID int64, index int) (*FocusEpisode, error)
	CountEpisodes(ctx context.Context, userID int64) (int64, error)
	CountSuccessfulEpisodes(ctx context.Context, userID int64) (int64, error)
	ListEpisodes(ctx context.Context, userID int64) ([]FocusEpisode, error)

	CreateReminder(ctx context.Context, userID, chatID int64, header string, scheduledAt, createdAt time.Time) (*Reminder, error)
	ReminderAt(ctx context.Context, userID int64, index int) (*Reminder, error)
	CountReminders(ctx context.Context, userID int64) (int64, error)
	ListReminders(ctx context.Context, userID int64) ([]Reminder, error)
	ReminderByID(ctx context.Context, id string) (*Reminder, error)
	DeleteReminder(ctx context.Context, id string) error
	DeleteExpiredReminders(ctx context.Context, userID int64, before time.Time) error
	PendingReminders(ctx context.Context, after time.Time) ([]Reminder, error)

	UpsertSetting(ctx context.Context, userID int64, token string, now time.Time) error
	SpeechToken(ctx context.Context, userID int64) (string, error)
}

// DiaryStore управляет хранением записей дневника в PostgreSQL через GORM.
type DiaryStore struct {
	db *gorm.DB
}

var _ Storage = (*DiaryStore)(nil)

// NewDiaryStore создает подключение к базе данных и выполняет миграции.
func NewDiaryStore(databaseURL string) (*DiaryStore, error) {
	if databaseURL == "" {
		return nil, errMissingDatabaseURL
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.WithContext(context.Background()).AutoMigrate(&Thought{}, &FocusEpisode{}, &Reminder{}, &UserSetting{}); err != nil {
		return nil, err
	}

	return &DiaryStore{db: db}, nil
}

// Close закрывает соединение с базой данных.
func (s *DiaryStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// recordAt возвращает index-ю запись пользователя в порядке добавления
// или nil, если записи с таким смещением нет. Порядок задаёт seq:
// метки времени совпадают в пределах секунды.
func recordAt[T any](ctx context.Context, db *gorm.DB, userID int64, index int) (*T, error) {
	if index < 0 {
		return nil, nil
	}
	var records []T
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("seq asc").
		Offset(index).
		Limit(1).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// countRecords считает записи пользователя для указанного вида.
func countRecords[T any](ctx context.Context, db *gorm.DB, userID int64) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(new(T)).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// listRecords возвращает все записи пользователя в порядке добавления.
func listRecords[T any](ctx context.Context, db *gorm.DB, userID int64) ([]T, error) {
	var records []T
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("seq asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CreateThought сохраняет новую мысль в MindFlow.
func (s *DiaryStore) CreateThought(ctx context.Context, userID int64, notes string, createdAt time.Time) (*Thought, error) {
	thought := Thought{UserID: userID, LastModified: createdAt, Notes: notes}
	if err := s.db.WithContext(ctx).Create(&thought).Error; err != nil {
		return nil, err
	}
	return &thought, nil
}

// ThoughtAt возвращает index-ю мысль пользователя.
func (s *DiaryStore) ThoughtAt(ctx context.Context, userID int64, index int) (*Thought, error) {
	return recordAt[Thought](ctx, s.db, userID, index)
}

// CountThoughts возвращает количество мыслей пользователя.
func (s *DiaryStore) CountThoughts(ctx context.Context, userID int64) (int64, error) {
	return countRecords[Thought](ctx, s.db, userID)
}

// ListThoughts возвращает все мысли пользователя.
func (s *DiaryStore) ListThoughts(ctx context.Context, userID int64) ([]Thought, error) {
	return listRecords[Thought](ctx, s.db, userID)
}

// CreateEpisode сохраняет залипание, когда известны обе его характеристики.
func (s *DiaryStore) CreateEpisode(ctx context.Context, userID int64, timeSpent TimeSpent, interrupted bool, createdAt time.Time) (*FocusEpisode, error) {
	episode := FocusEpisode{
		UserID:                userID,
		LastModified:          createdAt,
		TimeSpent:             timeSpent,
		IsInterruptSuccessful: interrupted,
	}
	if err := s.db.WithContext(ctx).Create(&episode).Error; err != nil {
		return nil, err
	}
	return &episode, nil
}

// EpisodeAt возвращает index-е залипание пользователя.
func (s *DiaryStore) EpisodeAt(ctx context.Context, userID int64, index int) (*FocusEpisode, error) {
	return recordAt[FocusEpisode](ctx, s.db, userID, index)
}

// CountEpisodes возвращает количество залипаний пользователя.
func (s *DiaryStore) CountEpisodes(ctx context.Context, userID int64) (int64, error) {
	return countRecords[FocusEpisode](ctx, s.db, userID)
}

// CountSuccessfulEpisodes возвращает количество успешно прерванных залипаний.
func (s *DiaryStore) CountSuccessfulEpisodes(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&FocusEpisode{}).
		Where("user_id = ? AND is_interrupt_successful = ?", userID, true).
		Count(&count).Error
	return count, err
}

// ListEpisodes возвращает все залипания пользователя.
func (s *DiaryStore) ListEpisodes(ctx context.Context, userID int64) ([]FocusEpisode, error) {
	return listRecords[FocusEpisode](ctx, s.db, userID)
}

// CreateReminder сохраняет напоминание с абсолютным временем срабатывания.
func (s *DiaryStore) CreateReminder(ctx context.Context, userID, chatID int64, header string, scheduledAt, createdAt time.Time) (*Reminder, error) {
	reminder := Reminder{
		UserID:       userID,
		ChatID:       chatID,
		LastModified: createdAt,
		ScheduledAt:  scheduledAt,
		Header:       header,
	}
	if err := s.db.WithContext(ctx).Create(&reminder).Error; err != nil {
		return nil, err
	}
	return &reminder, nil
}

// ReminderAt возвращает index-е напоминание пользователя.
func (s *DiaryStore) ReminderAt(ctx context.Context, userID int64, index int) (*Reminder, error) {
	return recordAt[Reminder](ctx, s.db, userID, index)
}

// CountReminders возвращает количество напоминаний пользователя.
func (s *DiaryStore) CountReminders(ctx context.Context, userID int64) (int64, error) {
	return countRecords[Reminder](ctx, s.db, userID)
}

// ListReminders возвращает все напоминания пользователя.
func (s *DiaryStore) ListReminders(ctx context.Context, userID int64) ([]Reminder, error) {
	return listRecords[Reminder](ctx, s.db, userID)
}

// ReminderByID ищет напоминание по идентификатору; к моменту срабатывания
// таймера запись уже могла быть удалена.
func (s *DiaryStore) ReminderByID(ctx context.Context, id string) (*Reminder, error) {
	var reminders []Reminder
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&reminders).Error
	if err != nil {
		return nil, err
	}
	if len(reminders) == 0 {
		return nil, nil
	}
	return &reminders[0], nil
}

// DeleteReminder удаляет напоминание после доставки.
func (s *DiaryStore) DeleteReminder(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&Reminder{}).Error
}

// DeleteExpiredReminders удаляет просроченные напоминания пользователя.
// Страховка от потерянных при перезапуске таймеров.
func (s *DiaryStore) DeleteExpiredReminders(ctx context.Context, userID int64, before time.Time) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND scheduled_at < ?", userID, before).
		Delete(&Reminder{}).Error
}

// PendingReminders возвращает напоминания всех пользователей, срок которых ещё не наступил.
func (s *DiaryStore) PendingReminders(ctx context.Context, after time.Time) ([]Reminder, error) {
	var reminders []Reminder
	err := s.db.WithContext(ctx).
		Where("scheduled_at >= ?", after).
		Order("scheduled_at asc").
		Find(&reminders).Error
	if err != nil {
		return nil, err
	}
	return reminders, nil
}

// UpsertSetting записывает токен SaluteSpeech пользователя: первая запись
// создаёт строку, последующие обновляют её. Уникальность строки держится
// на чтении перед записью, настоящего ограничения в схеме нет.
func (s *DiaryStore) UpsertSetting(ctx context.Context, userID int64, token string, now time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var settings []UserSetting
		if err := tx.Where("user_id = ?", userID).Limit(1).Find(&settings).Error; err != nil {
			return err
		}
		if len(settings) == 0 {
			setting := UserSetting{UserID: userID, LastModified: now, SaluteSpeech: token}
			return tx.Create(&setting).Error
		}
		return tx.Model(&UserSetting{}).
			Where("id = ?", settings[0].ID).
			Updates(map[string]any{"salute_speech": token, "last_modified": now}).Error
	})
}

// SpeechToken возвращает токен SaluteSpeech пользователя или пустую строку.
func (s *DiaryStore) SpeechToken(ctx context.Context, userID int64) (string, error) {
	var settings []UserSetting
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&settings).Error
	if err != nil {
		return "", err
	}
	if len(settings) == 0 {
		return "", nil
	}
	return settings[0].SaluteSpeech, nil
}
