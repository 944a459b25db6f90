package server

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	gh "todo-tracker-backend/internal/github"
	"todo-tracker-backend/internal/store"
	"todo-tracker-backend/internal/types"
)

const maxWebhookBody = 25 << 20 // GitHub caps payloads at 25 MB

// handleWebhook is the push intake. Non-push events are acknowledged and
// ignored; push events run the full pipeline and report the summary.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}
	if s.cfg.WebhookSecret != "" && !verifySignature(s.cfg.WebhookSecret, body, r.Header.Get("X-Hub-Signature-256")) {
		s.writeError(w, http.StatusUnauthorized, "invalid webhook signature")
		return
	}

	delivery := r.Header.Get("X-GitHub-Delivery")
	if delivery == "" {
		delivery = uuid.NewString()
	}

	if event := r.Header.Get("X-GitHub-Event"); event != "push" {
		log.Printf("[webhook] %s: ignoring %q event", delivery, event)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(types.WebhookResponse{DeliveryID: delivery, Outcome: "ignored"})
		return
	}

	var payload gh.PushPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	summary, err := s.processor.HandlePush(ctx, payload)
	rec := store.PushRecord{
		DeliveryID: delivery,
		Repo:       payload.Repository.FullName,
		Created:    summary.Created,
		Reopened:   summary.Reopened,
		Skipped:    summary.Skipped,
		Outcome:    summary.Outcome,
		ReceivedAt: time.Now().UTC(),
	}
	if payload.HeadCommit != nil {
		rec.HeadSHA = payload.HeadCommit.ID
	}
	if err != nil {
		// Partial work stands; there is no rollback across a push.
		rec.Outcome = "failed"
		s.recordPush(rec)
		log.Printf("[webhook] %s: push processing failed: %v", delivery, err)
		s.writeError(w, http.StatusBadGateway, "push processing failed")
		return
	}
	s.recordPush(rec)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(types.WebhookResponse{
		DeliveryID: delivery,
		Repo:       rec.Repo,
		Outcome:    rec.Outcome,
		Created:    rec.Created,
		Reopened:   rec.Reopened,
		Skipped:    rec.Skipped,
	})
}

// recordPush stores the summary everywhere configured. Persistence errors are
// logged, never surfaced to the webhook sender.
func (s *Server) recordPush(rec store.PushRecord) {
	s.memory.Add(rec)
	if s.databaseStore != nil {
		if err := s.databaseStore.SavePushRecord(rec); err != nil {
			log.Printf("[store] save push record: %v", err)
		}
		return
	}
	if s.fileStore != nil {
		if err := s.fileStore.Append(rec); err != nil {
			log.Printf("[store] append push record: %v", err)
		}
	}
}

func verifySignature(secret string, body []byte, header string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(header))
}
