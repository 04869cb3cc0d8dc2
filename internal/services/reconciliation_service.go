package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ntuananhdevs/banking-onl/internal/infrastructure/kafka"
	"github.com/ntuananhdevs/banking-onl/internal/infrastructure/observability"
	"github.com/ntuananhdevs/banking-onl/internal/infrastructure/redis"
	"github.com/ntuananhdevs/banking-onl/internal/models"
	"github.com/ntuananhdevs/banking-onl/internal/repository"
	"github.com/ntuananhdevs/banking-onl/internal/transfer"
	"github.com/ntuananhdevs/banking-onl/internal/webhook"
	pkgerrors "github.com/ntuananhdevs/banking-onl/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const DefaultDuplicateWindow = 24 * time.Hour

// ReconciliationService matches payment gateway notifications against the
// deposit ledger and credits each deposit at most once. It never returns an
// error: every outcome, including storage faults, is a ReconciliationResult.
type ReconciliationService struct {
	authenticator   *webhook.Authenticator
	parser          *transfer.Parser
	userRepo        repository.UserRepository
	transactionRepo repository.TransactionRepository
	ledgerRepo      repository.LedgerRepository
	redisClient     redis.RedisClient
	eventProducer   kafka.KafkaProducer
	eventsTopic     string
	duplicateWindow time.Duration

	now          func() time.Time
	retryBackoff time.Duration
	pending      sync.WaitGroup
}

// NewReconciliationService wires the engine. redisClient and eventProducer
// may be nil, in which case cache invalidation and event publishing are skipped.
func NewReconciliationService(
	authenticator *webhook.Authenticator,
	parser *transfer.Parser,
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
	ledgerRepo repository.LedgerRepository,
	redisClient redis.RedisClient,
	eventProducer kafka.KafkaProducer,
	eventsTopic string,
	duplicateWindow time.Duration,
) *ReconciliationService {
	if duplicateWindow <= 0 {
		duplicateWindow = DefaultDuplicateWindow
	}
	return &ReconciliationService{
		authenticator:   authenticator,
		parser:          parser,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		ledgerRepo:      ledgerRepo,
		redisClient:     redisClient,
		eventProducer:   eventProducer,
		eventsTopic:     eventsTopic,
		duplicateWindow: duplicateWindow,
		now:             time.Now,
		retryBackoff:    time.Second,
	}
}

func (s *ReconciliationService) Reconcile(ctx context.Context, n webhook.Notification) (result models.ReconciliationResult) {
	tracer := otel.Tracer("reconciliation-service")
	ctx, span := tracer.Start(ctx, "Reconcile")
	defer span.End()

	source := n.Source
	if source == "" {
		source = "unknown"
	}
	span.SetAttributes(attribute.String("source", source))

	start := time.Now()
	defer func() {
		outcome := result.Outcome()
		span.SetAttributes(attribute.String("outcome", outcome), attribute.Bool("credited", result.Credited))
		if !result.Accepted {
			span.SetStatus(codes.Error, outcome)
		}
		if result.Credited {
			observability.DepositsCredited.Inc()
		}
		observability.ReconciliationOutcomes.WithLabelValues(source, outcome).Inc()
		observability.ReconciliationDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	}()

	if !s.authenticator.Authenticate(n.Body, n.Signature, n.BearerToken) {
		return reject(models.ReasonUnauthenticated, "Invalid webhook credentials")
	}

	fields, err := webhook.Extract(n.Body)
	if err != nil {
		slog.Warn("malformed notification payload", "source", source, "error", err)
		return reject(models.ReasonMalformed, "Invalid payload")
	}
	if fields.Content == "" || !fields.Amount.IsPositive() {
		slog.Warn("notification missing content or amount",
			"source", source,
			"content", fields.Content,
			"amount", fields.Amount.String(),
			"reference", fields.Reference)
		return reject(models.ReasonMalformed, "Missing transfer content or amount")
	}
	fields.Amount = fields.Amount.Round(2)

	content := s.parser.Parse(fields.Content)
	span.SetAttributes(attribute.String("content_kind", content.Kind.String()))

	switch content.Kind {
	case transfer.KindDepositCode:
		result = s.reconcileDepositCode(ctx, span, n, fields, content.DepositCode)
	case transfer.KindLegacyUserID:
		result = s.reconcileLegacyUser(ctx, span, n, fields, content.LegacyUserID)
	default:
		slog.Warn("unrecognized transfer content", "source", source, "content", fields.Content, "prefix", s.parser.Prefix())
		return reject(models.ReasonUnparseable, "Could not extract deposit code or user id from transfer content")
	}

	if result.Credited && result.Transaction != nil {
		s.afterCredit(ctx, *result.Transaction)
	}
	return result
}

func (s *ReconciliationService) reconcileDepositCode(ctx context.Context, span trace.Span, n webhook.Notification, f webhook.Fields, code string) models.ReconciliationResult {
	span.SetAttributes(attribute.String("deposit_code", code))

	pending, err := s.transactionRepo.FindPendingByDepositCode(ctx, code, f.Amount)
	if err == nil {
		return s.complete(ctx, span, n, f, pending)
	}
	if !stderrors.Is(err, pkgerrors.ErrTransactionNotFound) {
		return s.fault(span, n, "find pending deposit by code", err)
	}

	done, err := s.transactionRepo.FindCompletedByDepositCode(ctx, code, f.Amount)
	if err == nil {
		if sameReference(done, f.Reference) {
			slog.Info("notification already applied", "deposit_code", code, "transaction_id", done.ID, "reference", f.Reference)
			return duplicate(done)
		}
		slog.Warn("completed deposit paid again under a new reference",
			"deposit_code", code,
			"transaction_id", done.ID,
			"existing_reference", done.ExternalReference,
			"reference", f.Reference)
		return reject(models.ReasonNoMatchingTransaction, "No pending deposit matches the transfer")
	}
	if !stderrors.Is(err, pkgerrors.ErrTransactionNotFound) {
		return s.fault(span, n, "find completed deposit by code", err)
	}

	slog.Warn("no pending deposit matches notification", "deposit_code", code, "amount", f.Amount.StringFixed(2), "reference", f.Reference)
	return reject(models.ReasonNoMatchingTransaction, "No pending deposit matches the transfer")
}

func (s *ReconciliationService) reconcileLegacyUser(ctx context.Context, span trace.Span, n webhook.Notification, f webhook.Fields, userID int64) models.ReconciliationResult {
	span.SetAttributes(attribute.Int64("user_id", userID))

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if stderrors.Is(err, pkgerrors.ErrUserNotFound) {
			slog.Warn("notification for unknown user", "user_id", userID, "reference", f.Reference)
			return reject(models.ReasonUserNotFound, "User not found")
		}
		return s.fault(span, n, "get user", err)
	}

	pending, err := s.transactionRepo.FindPendingByUser(ctx, userID, f.Amount)
	if err == nil {
		return s.complete(ctx, span, n, f, pending)
	}
	if !stderrors.Is(err, pkgerrors.ErrTransactionNotFound) {
		return s.fault(span, n, "find pending deposit by user", err)
	}

	if f.Reference != "" {
		done, err := s.transactionRepo.FindCompletedByReference(ctx, userID, f.Reference)
		if err == nil {
			slog.Info("duplicate notification by reference", "user_id", userID, "reference", f.Reference, "existing_transaction_id", done.ID)
			return duplicate(done)
		}
		if !stderrors.Is(err, pkgerrors.ErrTransactionNotFound) {
			return s.fault(span, n, "find completed deposit by reference", err)
		}
	}

	since := s.now().Add(-s.duplicateWindow)
	done, err := s.transactionRepo.FindRecentCompleted(ctx, userID, f.Amount, since)
	if err == nil {
		slog.Info("duplicate notification by amount",
			"user_id", userID,
			"amount", f.Amount.StringFixed(2),
			"existing_transaction_id", done.ID,
			"existing_transfer_content", done.TransferContent,
			"transfer_content", f.Content)
		return duplicate(done)
	}
	if !stderrors.Is(err, pkgerrors.ErrTransactionNotFound) {
		return s.fault(span, n, "find recent completed deposit", err)
	}

	if !f.Successful() {
		slog.Info("notification is not a successful incoming payment",
			"user_id", userID,
			"status", f.Status,
			"transfer_type", f.TransferType,
			"reference", f.Reference)
		return reject(models.ReasonNotSuccessful, "Payment is not successful")
	}

	tx := &models.DepositTransaction{
		UserID:            userID,
		Amount:            f.Amount,
		Type:              models.TypeDeposit,
		Status:            models.StatusCompleted,
		TransferContent:   f.Content,
		ExternalReference: f.Reference,
		Metadata: models.Metadata{Extra: map[string]any{"createdVia": "webhook"}}.Complete(models.Completion{
			ExternalReference: f.Reference,
			RawNotification:   n.Body,
			CompletedAt:       s.now(),
		}),
	}
	out, created, err := s.ledgerRepo.CreateCompleted(ctx, tx, models.DuplicateWindow{Reference: f.Reference, Since: since})
	if err != nil {
		if stderrors.Is(err, pkgerrors.ErrUserNotFound) {
			return reject(models.ReasonUserNotFound, "User not found")
		}
		return s.fault(span, n, "create completed deposit", err)
	}
	if !created {
		slog.Info("duplicate notification detected under lock", "user_id", userID, "existing_transaction_id", out.ID)
		return duplicate(out)
	}

	slog.Info("deposit created from notification", "transaction_id", out.ID, "user_id", userID, "amount", f.Amount.StringFixed(2), "reference", f.Reference)
	return models.ReconciliationResult{
		Accepted:    true,
		Transaction: out,
		Credited:    true,
		Message:     "Deposit completed",
	}
}

func (s *ReconciliationService) complete(ctx context.Context, span trace.Span, n webhook.Notification, f webhook.Fields, pending *models.DepositTransaction) models.ReconciliationResult {
	span.SetAttributes(attribute.String("transaction_id", pending.ID.String()))

	tx, credited, err := s.ledgerRepo.CompletePending(ctx, pending.ID, models.Completion{
		ExternalReference: f.Reference,
		RawNotification:   n.Body,
		CompletedAt:       s.now(),
	})
	if err != nil {
		if stderrors.Is(err, pkgerrors.ErrTransactionNotPending) || stderrors.Is(err, pkgerrors.ErrTransactionNotFound) {
			slog.Warn("matched deposit can no longer be completed", "transaction_id", pending.ID, "error", err)
			return reject(models.ReasonNoMatchingTransaction, "No pending deposit matches the transfer")
		}
		return s.fault(span, n, "complete pending deposit", err)
	}

	if !credited {
		slog.Info("deposit already completed", "transaction_id", tx.ID, "reference", f.Reference)
		return duplicate(tx)
	}

	slog.Info("deposit completed from notification", "transaction_id", tx.ID, "user_id", tx.UserID, "amount", tx.Amount.StringFixed(2), "reference", f.Reference)
	return models.ReconciliationResult{
		Accepted:    true,
		Transaction: tx,
		Credited:    true,
		Message:     "Deposit completed",
	}
}

func (s *ReconciliationService) fault(span trace.Span, n webhook.Notification, stage string, err error) models.ReconciliationResult {
	span.RecordError(err)
	slog.Error("failed to reconcile notification",
		"stage", stage,
		"source", n.Source,
		"error", err,
		"payload", string(n.Body))
	return reject(models.ReasonInternalFault, "Internal error")
}

// afterCredit drops the cached balance and announces the completed deposit.
func (s *ReconciliationService) afterCredit(ctx context.Context, tx models.DepositTransaction) {
	if s.redisClient != nil {
		if err := s.redisClient.Del(ctx, balanceCacheKey(tx.UserID)); err != nil {
			slog.Error("failed to invalidate cached balance", "user_id", tx.UserID, "error", err)
		}
	}

	if s.eventProducer == nil || s.eventsTopic == "" {
		return
	}
	event := depositCompletedEvent{
		EventType:         "deposit.completed",
		TransactionID:     tx.ID.String(),
		UserID:            tx.UserID,
		Amount:            tx.Amount,
		DepositCode:       tx.DepositCode,
		ExternalReference: tx.ExternalReference,
		CompletedAt:       s.now().UTC().Format(time.RFC3339),
	}
	eventBytes, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal kafka event", "transaction_id", tx.ID, "error", err)
		return
	}

	key := tx.ID.String()
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		retries := 3
		for i := 0; i < retries; i++ {
			if err := s.eventProducer.Send(context.Background(), s.eventsTopic, key, eventBytes, nil); err == nil {
				slog.Info("deposit completed event sent", "transaction_id", key, "user_id", tx.UserID)
				return
			}
			time.Sleep(s.retryBackoff * time.Duration(i+1))
		}
		slog.Error("failed to send deposit completed event after retries", "transaction_id", key, "user_id", tx.UserID)
	}()
}

// Wait blocks until in-flight event publications finish.
func (s *ReconciliationService) Wait() {
	s.pending.Wait()
}

type depositCompletedEvent struct {
	EventType         string          `json:"event_type"`
	TransactionID     string          `json:"transaction_id"`
	UserID            int64           `json:"user_id"`
	Amount            decimal.Decimal `json:"amount"`
	DepositCode       string          `json:"deposit_code,omitempty"`
	ExternalReference string          `json:"external_reference,omitempty"`
	CompletedAt       string          `json:"completed_at"`
}

// sameReference reports whether a notification carrying reference can be a
// redelivery of the one that completed tx. A missing reference cannot be told
// apart and counts as a redelivery.
func sameReference(tx *models.DepositTransaction, reference string) bool {
	if reference == "" {
		return true
	}
	return reference == tx.ExternalReference || reference == tx.Metadata.ExternalReference
}

func reject(reason models.RejectReason, msg string) models.ReconciliationResult {
	return models.ReconciliationResult{Reason: reason, Message: msg}
}

func duplicate(tx *models.DepositTransaction) models.ReconciliationResult {
	return models.ReconciliationResult{
		Accepted:    true,
		Transaction: tx,
		Duplicate:   true,
		Message:     "Transaction already processed",
	}
}

func balanceCacheKey(userID int64) string {
	return fmt.Sprintf("user:%d:balance", userID)
}
