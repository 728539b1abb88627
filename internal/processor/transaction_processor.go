package processor

import (
	"context"
	"fmt"
	"ledger/internal/domain"
	"ledger/internal/repository"
	"log/slog"

	"github.com/shopspring/decimal"
)

// MetricsRecorder receives one call per evaluated operation.
type MetricsRecorder interface {
	RecordTransaction(kind, outcome string, amount float64)
	UpdateAccountBalance(accountNumber int, balance float64)
}

// TransactionProcessor resolves accounts and runs operations through their
// account state, journaling and reporting the accepted ones. Rejections are
// returned as verdicts; the error result is reserved for lookup and journal
// failures.
type TransactionProcessor struct {
	accountRepo repository.AccountRepository
	txRepo      repository.TransactionRepository
	ruleEngine  *RuleEngine
	metrics     MetricsRecorder
	logger      *slog.Logger
}

func NewTransactionProcessor(
	accountRepo repository.AccountRepository,
	txRepo repository.TransactionRepository,
	ruleEngine *RuleEngine,
	metrics MetricsRecorder,
	logger *slog.Logger,
) *TransactionProcessor {
	if logger == nil {
		logger = slog.Default()
	}

	return &TransactionProcessor{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		ruleEngine:  ruleEngine,
		metrics:     metrics,
		logger:      logger,
	}
}

func (p *TransactionProcessor) Deposit(ctx context.Context, accountNumber int, amount decimal.Decimal) (domain.Verdict, error) {
	return p.Process(ctx, accountNumber, domain.Deposit(amount))
}

func (p *TransactionProcessor) Withdraw(ctx context.Context, accountNumber int, amount decimal.Decimal) (domain.Verdict, error) {
	return p.Process(ctx, accountNumber, domain.Withdrawal(amount))
}

func (p *TransactionProcessor) Process(ctx context.Context, accountNumber int, op domain.Operation) (domain.Verdict, error) {
	account, err := p.accountRepo.GetByNumber(ctx, accountNumber)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("failed to get account: %w", err)
	}

	// Journal under the account lock so the journal order matches the
	// statement order.
	var tx *domain.Transaction
	verdict, err := account.ApplyAndRecord(op, p.ruleEngine, func(v domain.Verdict) error {
		tx = domain.NewTransaction(accountNumber, op, v.Balance)
		if err := p.txRepo.Save(ctx, tx); err != nil {
			return err
		}
		if p.metrics != nil {
			p.metrics.UpdateAccountBalance(accountNumber, v.Balance.InexactFloat64())
		}
		return nil
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "Transaction not journaled",
			slog.Int("account_number", accountNumber),
			slog.String("type", string(op.Type)),
			slog.String("error", err.Error()))
		return domain.Verdict{}, fmt.Errorf("failed to journal transaction: %w", err)
	}
	amount := op.Amount.InexactFloat64()

	if !verdict.Accepted {
		p.recordMetric(string(op.Type), verdict.Reason.String(), amount)
		p.logger.WarnContext(ctx, "Transaction rejected",
			slog.Int("account_number", accountNumber),
			slog.String("type", string(op.Type)),
			slog.String("amount", op.Amount.String()),
			slog.String("reason", verdict.Reason.String()))
		return verdict, nil
	}

	p.recordMetric(string(op.Type), domain.OutcomeAccepted, amount)

	p.logger.InfoContext(ctx, "Transaction accepted",
		slog.String("transaction_id", tx.ID),
		slog.Int("account_number", accountNumber),
		slog.String("type", string(op.Type)),
		slog.String("amount", op.Amount.String()),
		slog.String("balance", domain.FormatMoney(verdict.Balance)),
		slog.Int("withdrawal_count", verdict.WithdrawalCount))

	return verdict, nil
}

func (p *TransactionProcessor) Statement(ctx context.Context, accountNumber int) (domain.Statement, error) {
	account, err := p.accountRepo.GetByNumber(ctx, accountNumber)
	if err != nil {
		return domain.Statement{}, fmt.Errorf("failed to get account: %w", err)
	}
	return account.Statement(), nil
}

func (p *TransactionProcessor) Transactions(ctx context.Context, accountNumber int) ([]*domain.Transaction, error) {
	if _, err := p.accountRepo.GetByNumber(ctx, accountNumber); err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return p.txRepo.GetByAccount(ctx, accountNumber)
}

func (p *TransactionProcessor) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return p.txRepo.GetByID(ctx, id)
}

func (p *TransactionProcessor) Limits() domain.Limits {
	return p.ruleEngine.Limits()
}

func (p *TransactionProcessor) recordMetric(kind, outcome string, amount float64) {
	if p.metrics == nil {
		return
	}
	p.metrics.RecordTransaction(kind, outcome, amount)
}
