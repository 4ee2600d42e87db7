package main

import "errors"

// errMissingBotToken возвращается при отсутствии токена бота.
var errMissingBotToken = errors.New("BOT_TOKEN is not set")

// errMissingDatabaseURL возвращается при отсутствии строки подключения к базе.
var errMissingDatabaseURL = errors.New("DATABASE_URL is not set")

// errInvalidUserID используется при неверном идентификаторе пользователя.
var errInvalidUserID = errors.New("invalid user_id")

// errNoCredential возвращается, когда у пользователя не настроен токен SaluteSpeech.
var errNoCredential = errors.New("salute speech token is not configured")

// errTranscriptionFailed возвращается, когда распознать голосовое не удалось.
var errTranscriptionFailed = errors.New("speech recognition failed")
