package main

import (
	"sync"
	"time"
)

// state определяет, как трактовать следующий свободный ввод пользователя.
type state int

const (
	stateIdle state = iota
	stateEnteringThought
	stateEnteringEpisodeDuration
	stateEnteringEpisodeInterrupt
	stateEnteringReminderDelay
	stateEnteringReminderHeader
	stateEnteringCredential
)

// entityKind различает три независимых вида записей для курсоров просмотра.
type entityKind int

const (
	kindThought entityKind = iota
	kindEpisode
	kindReminder
	kindCount
)

// Session хранит переходное состояние диалога одного пользователя.
// Живёт только в памяти процесса и не переживает перезапуск.
type Session struct {
	State state

	// Накопленные поля незавершённых сценариев.
	TimeSpent TimeSpent
	Due       time.Time

	cursors [kindCount]int
}

// Cursor возвращает позицию просмотра для вида записей.
func (s *Session) Cursor(kind entityKind) int {
	return s.cursors[kind]
}

// SetCursor сохраняет позицию просмотра для вида записей.
func (s *Session) SetCursor(kind entityKind, index int) {
	s.cursors[kind] = index
}

// ResetCursor сбрасывает позицию просмотра: вход в меню раздела
// всегда начинает листание с первой записи.
func (s *Session) ResetCursor(kind entityKind) {
	s.cursors[kind] = 0
}

// SessionManager выдаёт сессию по идентификатору пользователя,
// создавая её при первом обращении.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewSessionManager создает пустой реестр сессий.
func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[int64]*Session)}
}

// Get возвращает сессию пользователя.
func (m *SessionManager) Get(userID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[userID]
	if !ok {
		session = &Session{}
		m.sessions[userID] = session
	}
	return session
}
