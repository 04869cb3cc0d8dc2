package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ntuananhdevs/banking-onl/internal/infrastructure/redis"
	"github.com/ntuananhdevs/banking-onl/internal/models"
	"github.com/ntuananhdevs/banking-onl/internal/repository"
	"github.com/ntuananhdevs/banking-onl/internal/transfer"
	pkgerrors "github.com/ntuananhdevs/banking-onl/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	MinDepositAmount = decimal.NewFromInt(1000)
	MaxDepositAmount = decimal.NewFromInt(100000000)
)

const (
	depositCodeAttempts = 3
	historyLimit        = 20
	balanceCacheTTL     = 5 * time.Minute
)

type DepositService interface {
	CreateDeposit(ctx context.Context, userID int64, amount decimal.Decimal) (*models.DepositTransaction, error)
	GetDeposit(ctx context.Context, userID int64, code string) (*models.DepositTransaction, error)
	ListDeposits(ctx context.Context, userID int64) ([]models.DepositTransaction, error)
	GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
}

type depositService struct {
	userRepo        repository.UserRepository
	transactionRepo repository.TransactionRepository
	redisClient     redis.RedisClient
	parser          *transfer.Parser
	newCode         func() (string, error)
}

func NewDepositService(
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
	redisClient redis.RedisClient,
	parser *transfer.Parser,
) *depositService {
	return &depositService{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		redisClient:     redisClient,
		parser:          parser,
		newCode:         transfer.NewDepositCode,
	}
}

func (s *depositService) CreateDeposit(ctx context.Context, userID int64, amount decimal.Decimal) (*models.DepositTransaction, error) {
	tracer := otel.Tracer("deposit-service")
	ctx, span := tracer.Start(ctx, "CreateDeposit")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", userID), attribute.String("amount", amount.String()))

	if !amount.IsInteger() || amount.LessThan(MinDepositAmount) || amount.GreaterThan(MaxDepositAmount) {
		span.SetStatus(codes.Error, "invalid amount")
		return nil, fmt.Errorf("%w: must be a whole number between %s and %s", pkgerrors.ErrInvalidAmount, MinDepositAmount, MaxDepositAmount)
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "user lookup failed")
		slog.Error("failed to get user", "user_id", userID, "error", err)
		return nil, err
	}

	for attempt := 1; attempt <= depositCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "deposit code generation failed")
			return nil, err
		}

		tx := &models.DepositTransaction{
			UserID:          userID,
			DepositCode:     code,
			Amount:          amount,
			Type:            models.TypeDeposit,
			Status:          models.StatusPending,
			TransferContent: s.parser.Format(code),
			Metadata:        models.Metadata{Extra: map[string]any{"createdVia": "api"}},
		}
		err = s.transactionRepo.Create(ctx, tx)
		if stderrors.Is(err, pkgerrors.ErrDepositCodeConflict) {
			slog.Warn("deposit code collision, retrying", "user_id", userID, "attempt", attempt)
			continue
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "deposit creation failed")
			slog.Error("failed to create deposit", "user_id", userID, "error", err)
			return nil, err
		}

		slog.Info("deposit created", "transaction_id", tx.ID, "user_id", userID, "deposit_code", code, "amount", amount.StringFixed(2))
		return tx, nil
	}

	span.SetStatus(codes.Error, "deposit code collisions")
	slog.Error("failed to allocate deposit code", "user_id", userID, "attempts", depositCodeAttempts)
	return nil, pkgerrors.ErrDepositCodeConflict
}

func (s *depositService) GetDeposit(ctx context.Context, userID int64, code string) (*models.DepositTransaction, error) {
	tracer := otel.Tracer("deposit-service")
	ctx, span := tracer.Start(ctx, "GetDeposit")
	defer span.End()

	code = strings.ToUpper(strings.TrimSpace(code))
	tx, err := s.transactionRepo.GetByDepositCode(ctx, userID, code)
	if err != nil {
		if !stderrors.Is(err, pkgerrors.ErrTransactionNotFound) {
			span.RecordError(err)
			slog.Error("failed to get deposit", "user_id", userID, "deposit_code", code, "error", err)
		}
		return nil, err
	}
	return tx, nil
}

func (s *depositService) ListDeposits(ctx context.Context, userID int64) ([]models.DepositTransaction, error) {
	tracer := otel.Tracer("deposit-service")
	ctx, span := tracer.Start(ctx, "ListDeposits")
	defer span.End()

	transactions, err := s.transactionRepo.ListByUser(ctx, userID, historyLimit)
	if err != nil {
		span.RecordError(err)
		slog.Error("failed to get transaction history", "user_id", userID, "error", err)
		return nil, err
	}

	slog.Info("transaction history retrieved", "user_id", userID, "count", len(transactions))
	return transactions, nil
}

func (s *depositService) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	tracer := otel.Tracer("deposit-service")
	ctx, span := tracer.Start(ctx, "GetBalance")
	defer span.End()

	balanceKey := balanceCacheKey(userID)
	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, balanceKey)
		if err == nil {
			balance, parseErr := decimal.NewFromString(cached)
			if parseErr == nil {
				slog.Debug("balance fetched from Redis", "user_id", userID)
				return balance, nil
			}
			slog.Error("failed to parse cached balance", "user_id", userID, "error", parseErr)
		} else if !stderrors.Is(err, redis.ErrKeyNotFound) {
			slog.Error("failed to get cached balance", "user_id", userID, "error", err)
		}
	}

	balance, err := s.userRepo.GetBalance(ctx, userID)
	if err != nil {
		span.RecordError(err)
		slog.Error("failed to get balance from Postgres", "user_id", userID, "error", err)
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}

	if s.redisClient != nil {
		if err := s.redisClient.Set(ctx, balanceKey, balance.StringFixed(2), balanceCacheTTL); err != nil {
			slog.Error("failed to cache balance", "user_id", userID, "error", err)
		}
	}

	slog.Info("balance fetched from Postgres", "user_id", userID, "balance", balance.StringFixed(2))
	return balance, nil
}
