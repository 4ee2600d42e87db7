package main

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// API описывает HTTP API для чтения записей дневника. Все изменения
// проходят только через диалоговый интерфейс бота.
type API struct {
	store Storage
	auth  AuthMiddleware
}

// NewAPI создает API с заданным хранилищем и учетными данными.
func NewAPI(store Storage, user, password string) *API {
	return &API{
		store: store,
		auth:  AuthMiddleware{User: user, Password: password},
	}
}

// Handler возвращает http.Handler со всеми маршрутами API.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/thoughts", a.handleThoughts)
	mux.HandleFunc("/episodes", a.handleEpisodes)
	mux.HandleFunc("/reminders", a.handleReminders)

	return LoggingMiddleware(a.auth.Wrap(mux))
}

// handleThoughts возвращает список мыслей пользователя.
func (a *API) handleThoughts(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.listRequest(w, r)
	if !ok {
		return
	}

	thoughts, err := a.store.ListThoughts(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to list thoughts", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, thoughts)
}

// handleEpisodes возвращает список залипаний пользователя.
func (a *API) handleEpisodes(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.listRequest(w, r)
	if !ok {
		return
	}

	episodes, err := a.store.ListEpisodes(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to list episodes", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, episodes)
}

// handleReminders возвращает список напоминаний пользователя.
func (a *API) handleReminders(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.listRequest(w, r)
	if !ok {
		return
	}

	reminders, err := a.store.ListReminders(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to list reminders", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, reminders)
}

// listRequest проверяет метод запроса и извлекает идентификатор пользователя.
func (a *API) listRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return 0, false
	}

	userID, err := userIDFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return 0, false
	}
	return userID, true
}

// userIDFromQuery извлекает идентификатор пользователя из параметров запроса.
func userIDFromQuery(r *http.Request) (int64, error) {
	value := r.URL.Query().Get("user_id")
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidUserID
	}
	return id, nil
}

// writeJSON сериализует ответ в JSON.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
