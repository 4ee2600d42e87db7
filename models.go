package main

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeSpent кодирует длительность залипания по фиксированным корзинам.
type TimeSpent int

const (
	TimeSpentShort  TimeSpent = 0 // до 2 часов
	TimeSpentMedium TimeSpent = 1 // до 6 часов
	TimeSpentLong   TimeSpent = 2 // до 12 часов
)

// Thought описывает запись дневника мыслей MindFlow.
type Thought struct {
	ID     string `gorm:"primaryKey"`
	UserID int64  `gorm:"not null;index"`
	// Seq — монотонный ключ порядка добавления: uuid-идентификаторы не
	// упорядочены, а метки времени Telegram имеют секундную точность.
	Seq          int64 `gorm:"autoIncrement;uniqueIndex"`
	LastModified time.Time
	Notes        string `gorm:"not null"`
}

// BeforeCreate генерирует идентификатор записи.
func (t *Thought) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// FocusEpisode описывает залипание из раздела Reflection.
type FocusEpisode struct {
	ID                    string `gorm:"primaryKey"`
	UserID                int64  `gorm:"not null;index"`
	Seq                   int64  `gorm:"autoIncrement;uniqueIndex"`
	LastModified          time.Time
	TimeSpent             TimeSpent `gorm:"not null"`
	IsInterruptSuccessful bool      `gorm:"not null"`
	Notes                 *string
}

// BeforeCreate генерирует идентификатор залипания.
func (e *FocusEpisode) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// Reminder описывает отложенное напоминание с абсолютным временем срабатывания.
type Reminder struct {
	ID           string `gorm:"primaryKey"`
	UserID       int64  `gorm:"not null;index"`
	ChatID       int64  `gorm:"not null"`
	Seq          int64  `gorm:"autoIncrement;uniqueIndex"`
	LastModified time.Time
	ScheduledAt  time.Time `gorm:"not null;index"`
	Header       string
}

// BeforeCreate генерирует идентификатор напоминания.
func (r *Reminder) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// UserSetting хранит токен SaluteSpeech пользователя; не более одной строки на пользователя.
type UserSetting struct {
	ID           string `gorm:"primaryKey"`
	UserID       int64  `gorm:"not null;index"`
	LastModified time.Time
	SaluteSpeech string `gorm:"not null"`
}

// BeforeCreate генерирует идентификатор настройки.
func (s *UserSetting) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
