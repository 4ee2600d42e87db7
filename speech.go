package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// Transcriber распознаёт речь из аудиофайла по токену пользователя.
type Transcriber interface {
	Transcribe(ctx context.Context, credentials, audioPath string) (string, error)
}

// voiceSource скачивает голосовое сообщение во временный файл.
type voiceSource interface {
	Download(ctx context.Context, fileID, path string) error
}

const (
	saluteOAuthURL     = "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"
	saluteRecognizeURL = "https://smartspeech.sber.ru/rest/v1/speech:recognize"
	saluteScope        = "SALUTE_SPEECH_PERS"
)

// SaluteSpeechClient обращается к API распознавания речи SaluteSpeech:
// сперва обменивает пользовательский токен на access token, затем
// отправляет аудио на распознавание.
type SaluteSpeechClient struct {
	client       *http.Client
	oauthURL     string
	recognizeURL string
}

var _ Transcriber = (*SaluteSpeechClient)(nil)

// NewSaluteSpeechClient создает клиент SaluteSpeech.
func NewSaluteSpeechClient() *SaluteSpeechClient {
	return &SaluteSpeechClient{
		client:       &http.Client{Timeout: 30 * time.Second},
		oauthURL:     saluteOAuthURL,
		recognizeURL: saluteRecognizeURL,
	}
}

// accessToken обменивает учётные данные пользователя на временный access token.
func (c *SaluteSpeechClient) accessToken(ctx context.Context, credentials string) (string, error) {
	form := url.Values{"scope": {saluteScope}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.oauthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Basic "+credentials)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("RqUID", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("salute speech oauth: status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("salute speech oauth: empty access token")
	}
	return payload.AccessToken, nil
}

// Transcribe распознаёт аудиофайл в формате OGG/Opus и возвращает текст.
func (c *SaluteSpeechClient) Transcribe(ctx context.Context, credentials, audioPath string) (string, error) {
	if credentials == "" {
		return "", errNoCredential
	}

	token, err := c.accessToken(ctx, credentials)
	if err != nil {
		return "", err
	}

	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.recognizeURL+"?language=ru-RU", bytes.NewReader(audio))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "audio/ogg;codecs=opus")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("salute speech recognize: status %d", resp.StatusCode)
	}

	var payload struct {
		Result []string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if len(payload.Result) == 0 {
		return "", errTranscriptionFailed
	}
	return strings.Join(payload.Result, " "), nil
}

// telegramVoiceSource скачивает голосовые через файловый API Telegram.
type telegramVoiceSource struct {
	api    *tgbotapi.BotAPI
	client *http.Client
}

var _ voiceSource = (*telegramVoiceSource)(nil)

// newTelegramVoiceSource создает загрузчик голосовых сообщений.
func newTelegramVoiceSource(api *tgbotapi.BotAPI) *telegramVoiceSource {
	return &telegramVoiceSource{api: api, client: &http.Client{Timeout: 30 * time.Second}}
}

// Download сохраняет голосовое сообщение по указанному пути.
func (v *telegramVoiceSource) Download(ctx context.Context, fileID, path string) error {
	file, err := v.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(v.api.Token), nil)
	if err != nil {
		return err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("voice download: status %d", resp.StatusCode)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
