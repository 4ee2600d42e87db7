package main

import (
	"context"
	"fmt"
	"time"
)

// Notifier доставляет текст напоминания в чат.
type Notifier interface {
	Notify(chatID int64, text string) error
}

// Scheduler заводит по одному одноразовому таймеру на каждое напоминание.
// Таймеры живут в памяти процесса; после перезапуска Rearm восстанавливает
// их из хранилища.
type Scheduler struct {
	store    Storage
	notifier Notifier
}

var _ reminderScheduler = (*Scheduler)(nil)

// NewScheduler создает планировщик напоминаний.
func NewScheduler(store Storage, notifier Notifier) *Scheduler {
	return &Scheduler{store: store, notifier: notifier}
}

// Schedule заводит таймер срабатывания напоминания.
func (s *Scheduler) Schedule(ctx context.Context, reminderID string, due time.Time) {
	delay := time.Until(due)
	if delay < 0 {
		delay = 0
	}
	time.AfterFunc(delay, func() {
		s.fire(ctx, reminderID)
	})
}

// fire доставляет напоминание и удаляет запись. Все сбои проглатываются:
// повторной доставки нет, просроченную запись позже подберёт чистка.
func (s *Scheduler) fire(ctx context.Context, reminderID string) {
	reminder, err := s.store.ReminderByID(ctx, reminderID)
	if err != nil || reminder == nil {
		return
	}
	if err := s.notifier.Notify(reminder.ChatID, fmt.Sprintf("Напоминание: %s 📌", reminder.Header)); err != nil {
		return
	}
	_ = s.store.DeleteReminder(ctx, reminderID)
}

// Rearm восстанавливает таймеры для всех ещё не наступивших напоминаний.
// Вызывается один раз на старте процесса.
func (s *Scheduler) Rearm(ctx context.Context) error {
	pending, err := s.store.PendingReminders(ctx, time.Now())
	if err != nil {
		return err
	}
	for _, reminder := range pending {
		s.Schedule(ctx, reminder.ID, reminder.ScheduledAt)
	}
	return nil
}
