package main

import (
	"log"
	"net/http"
	"time"
)

// AuthMiddleware проверяет логин и пароль для HTTP API.
type AuthMiddleware struct {
	User     string
	Password string
}

// Wrap добавляет Basic Auth проверку к обработчику.
func (a AuthMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.authorized(r) {
			w.Header().Set("WWW-Authenticate", "Basic realm=diary")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authorized сверяет учетные данные запроса с настроенными. Пустые
// настройки закрывают API целиком, а не открывают его.
func (a AuthMiddleware) authorized(r *http.Request) bool {
	if a.User == "" || a.Password == "" {
		return false
	}
	user, password, ok := r.BasicAuth()
	return ok && user == a.User && password == a.Password
}

// LoggingMiddleware выводит в лог информацию о запросе.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("http %s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
