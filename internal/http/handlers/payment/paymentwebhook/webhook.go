// Package paymentwebhook принимает уведомления платёжного провайдера
// и продлевает членство по подтверждённой оплате.
package paymentwebhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/saeifmanya/membership-portal/internal/lib/sl"
	"github.com/saeifmanya/membership-portal/internal/models"
)

// Service описывает продление членства и прайс тарифов.
type Service interface {
	RecordPayment(ctx context.Context, subjectUID, tier, paymentRef string) (*models.Membership, error)
	PlanPrice(tier string) (int, error)
}

// Handler обрабатывает вебхуки платёжного провайдера.
type Handler struct {
	log           *slog.Logger // Логгер для записи информации и ошибок
	service       Service
	webhookSecret string // Секрет для проверки подписи
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

// Payload — тело уведомления платёжного провайдера.
type Payload struct {
	Event  string `json:"event"`
	Object struct {
		ID     string `json:"id"`     // payment ID
		Status string `json:"status"` // статус платежа
		Amount struct {
			Value    string `json:"value"`    // сумма в строке, например "6000.00"
			Currency string `json:"currency"` // валюта
		} `json:"amount"`
		Metadata map[string]string `json:"metadata"` // subject_uid, tier
	} `json:"object"`
}

// Проверка подписи webhook (X-Api-Signature)
func (h *Handler) verifySignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expectedSig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expectedSig), []byte(signature))
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(slog.String("op", op))

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Проверка подписи (в заголовке X-Api-Signature)
	signature := r.Header.Get("X-Api-Signature")
	if signature == "" || !h.verifySignature(h.webhookSecret, body, signature) {
		log.Error("invalid or missing webhook signature")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	const paymentSucceeded = "payment.succeeded"

	if strings.ToLower(payload.Event) != paymentSucceeded {
		log.Info("ignored webhook event", slog.String("event", payload.Event))
		w.WriteHeader(http.StatusOK)
		return
	}

	subjectUID := payload.Object.Metadata["subject_uid"]
	tier := payload.Object.Metadata["tier"]
	if subjectUID == "" || tier == "" {
		log.Error("webhook metadata missing subject_uid or tier")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.checkAmount(tier, payload.Object.Amount.Value); err != nil {
		log.Error("webhook amount mismatch",
			slog.String("tier", tier),
			slog.String("value", payload.Object.Amount.Value), sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	m, err := h.service.RecordPayment(r.Context(), subjectUID, tier, payload.Object.ID)
	if err != nil {
		log.Error("failed to record payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	log.Info("membership extended",
		slog.String("subject_uid", m.SubjectUID),
		slog.String("tier", m.Tier),
		slog.String("payment_id", payload.Object.ID))
	w.WriteHeader(http.StatusOK)
}

// checkAmount сверяет оплаченную сумму с прайсом тарифа.
func (h *Handler) checkAmount(tier, value string) error {
	price, err := h.service.PlanPrice(tier)
	if err != nil {
		return err
	}
	paid, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	if int(paid) != price {
		return errAmountMismatch
	}
	return nil
}

var errAmountMismatch = errors.New("paid amount does not match plan price")
