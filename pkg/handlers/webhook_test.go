package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/centra-hq/centra-console/pkg/apperrors"
	"github.com/centra-hq/centra-console/pkg/models"
	"github.com/centra-hq/centra-console/pkg/webhooks"
)

const webhookTestSecret = "whsec_dGVzdC1zaWduaW5nLWtleS0wMQ=="

// recordingUserRepo records every write so tests can assert on them.
type recordingUserRepo struct {
	upserts []*models.Human
	deletes []string
	err     error
}

func (r *recordingUserRepo) Upsert(_ context.Context, human *models.Human) error {
	if r.err != nil {
		return r.err
	}
	r.upserts = append(r.upserts, human)
	return nil
}

func (r *recordingUserRepo) Delete(_ context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	r.deletes = append(r.deletes, id)
	return nil
}

func (r *recordingUserRepo) GetByID(_ context.Context, _ string) (*models.Human, error) {
	return nil, apperrors.ErrNotFound
}

func newWebhookHandler(t *testing.T, repo *recordingUserRepo) (*WebhookHandler, *webhooks.Verifier) {
	t.Helper()
	verifier, err := webhooks.NewVerifier(webhookTestSecret)
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}
	return NewWebhookHandler(verifier, repo, zap.NewNop()), verifier
}

func signedRequest(t *testing.T, verifier *webhooks.Verifier, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/clerk", bytes.NewReader([]byte(body)))
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	req.Header.Set(webhooks.HeaderID, "msg_1")
	req.Header.Set(webhooks.HeaderTimestamp, ts)
	req.Header.Set(webhooks.HeaderSignature, verifier.Sign("msg_1", ts, []byte(body)))
	return req
}

func TestHandleUserEvent_UserCreated(t *testing.T) {
	repo := &recordingUserRepo{}
	handler, verifier := newWebhookHandler(t, repo)

	body := `{
		"type": "user.created",
		"data": {
			"id": "user_1",
			"first_name": "Ana",
			"last_name": "Lima",
			"primary_email_address_id": "em_2",
			"email_addresses": [
				{"id": "em_1", "email_address": "old@example.com"},
				{"id": "em_2", "email_address": "ana@example.com"}
			]
		}
	}`

	rec := httptest.NewRecorder()
	handler.HandleUserEvent(rec, signedRequest(t, verifier, body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(repo.upserts) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(repo.upserts))
	}

	human := repo.upserts[0]
	if human.ID != "user_1" || human.DisplayName != "Ana Lima" {
		t.Errorf("unexpected upsert: %+v", human)
	}
	if human.Email != "ana@example.com" {
		t.Errorf("expected the primary email, got %q", human.Email)
	}
}

func TestHandleUserEvent_UserDeleted(t *testing.T) {
	repo := &recordingUserRepo{}
	handler, verifier := newWebhookHandler(t, repo)

	rec := httptest.NewRecorder()
	handler.HandleUserEvent(rec, signedRequest(t, verifier, `{"type":"user.deleted","data":{"id":"user_1"}}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(repo.deletes) != 1 || repo.deletes[0] != "user_1" {
		t.Errorf("expected delete of user_1, got %v", repo.deletes)
	}
	if len(repo.upserts) != 0 {
		t.Errorf("expected no upserts, got %d", len(repo.upserts))
	}
}

func TestHandleUserEvent_MissingSignatureHeaders(t *testing.T) {
	repo := &recordingUserRepo{}
	handler, _ := newWebhookHandler(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/clerk",
		bytes.NewReader([]byte(`{"type":"user.created","data":{"id":"user_1"}}`)))
	rec := httptest.NewRecorder()
	handler.HandleUserEvent(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without signature headers, got %d", rec.Code)
	}
	if len(repo.upserts) != 0 || len(repo.deletes) != 0 {
		t.Error("an unverified delivery must never reach the database")
	}
}

func TestHandleUserEvent_TamperedBody(t *testing.T) {
	repo := &recordingUserRepo{}
	handler, verifier := newWebhookHandler(t, repo)

	// Sign one payload, deliver another.
	signed := `{"type":"user.created","data":{"id":"user_1"}}`
	tampered := `{"type":"user.deleted","data":{"id":"user_1"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/clerk", bytes.NewReader([]byte(tampered)))
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	req.Header.Set(webhooks.HeaderID, "msg_1")
	req.Header.Set(webhooks.HeaderTimestamp, ts)
	req.Header.Set(webhooks.HeaderSignature, verifier.Sign("msg_1", ts, []byte(signed)))
	rec := httptest.NewRecorder()
	handler.HandleUserEvent(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for tampered body, got %d", rec.Code)
	}
	if len(repo.upserts) != 0 || len(repo.deletes) != 0 {
		t.Error("a tampered delivery must never reach the database")
	}
}

func TestHandleUserEvent_NoSecretConfigured(t *testing.T) {
	repo := &recordingUserRepo{}
	handler := NewWebhookHandler(nil, repo, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/clerk",
		bytes.NewReader([]byte(`{"type":"user.created","data":{"id":"user_1"}}`)))
	rec := httptest.NewRecorder()
	handler.HandleUserEvent(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 without a signing secret, got %d", rec.Code)
	}
}

func TestHandleUserEvent_UnknownEventIsAcknowledged(t *testing.T) {
	repo := &recordingUserRepo{}
	handler, verifier := newWebhookHandler(t, repo)

	rec := httptest.NewRecorder()
	handler.HandleUserEvent(rec, signedRequest(t, verifier, `{"type":"session.created","data":{"id":"sess_1"}}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for ignored event, got %d", rec.Code)
	}
	if len(repo.upserts) != 0 || len(repo.deletes) != 0 {
		t.Error("ignored events must not write to the database")
	}
}
