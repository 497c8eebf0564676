package statements

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rentfolio/rentfolio/internal/ledger"
)

// contractBatchSize is the number of contracts processed per cycle when
// generating statements for a partner.
const contractBatchSize = 100

// ErrInvalidYear indicates an out-of-range statement year.
var ErrInvalidYear = errors.New("statements: statement year out of range")

// RepositoryPort abstracts statement persistence and the transaction batch
// source. The data store is only the batch source; the aggregation itself
// runs in-process so it stays testable without a live store.
type RepositoryPort interface {
	// ListContracts pages a partner's contracts ordered by contract ID.
	ListContracts(ctx context.Context, partnerID string, limit, offset int) ([]Contract, error)
	// ExistingContractIDs returns the contract IDs that already have a
	// statement for the year.
	ExistingContractIDs(ctx context.Context, partnerID string, year int) (map[string]struct{}, error)
	// ContractTransactions fetches a contract's transactions for the year.
	ContractTransactions(ctx context.Context, contractID string, year int) ([]ledger.Transaction, error)
	// PartnerSettings loads the partner's invoice settings snapshot.
	PartnerSettings(ctx context.Context, partnerID string) (PartnerSettings, error)
	// InsertStatement persists a generated statement, replacing any prior
	// statement for the same (contract, year).
	InsertStatement(ctx context.Context, st AnnualStatement) error
}

// Service drives batch statement generation. One run covers a single partner
// and statement year; the surrounding job queue owns retries.
type Service struct {
	repo       RepositoryPort
	aggregator *Aggregator
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs the statements service.
func NewService(repo RepositoryPort, aggregator *Aggregator, logger *slog.Logger) *Service {
	return &Service{repo: repo, aggregator: aggregator, logger: logger, now: time.Now}
}

// WithNow overrides the clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// RunResult summarises one generation run.
type RunResult struct {
	Generated int
	Skipped   int
}

// GenerateForYear produces one statement per contract for the given year.
// Contracts that already have a statement for the year are skipped unless
// regenerate is set, in which case the stored statement is replaced; either
// way at most one statement exists per (contract, year).
func (s *Service) GenerateForYear(ctx context.Context, partnerID string, year int, regenerate bool) (RunResult, error) {
	var result RunResult
	if partnerID == "" {
		return result, errors.New("statements: partner id required")
	}
	if year < 1900 || year > 9999 {
		return result, ErrInvalidYear
	}

	settings, err := s.repo.PartnerSettings(ctx, partnerID)
	if err != nil {
		return result, fmt.Errorf("statements: load partner settings: %w", err)
	}

	existing := map[string]struct{}{}
	if !regenerate {
		existing, err = s.repo.ExistingContractIDs(ctx, partnerID, year)
		if err != nil {
			return result, fmt.Errorf("statements: list existing statements: %w", err)
		}
	}

	for offset := 0; ; offset += contractBatchSize {
		contracts, err := s.repo.ListContracts(ctx, partnerID, contractBatchSize, offset)
		if err != nil {
			return result, fmt.Errorf("statements: list contracts: %w", err)
		}
		if len(contracts) == 0 {
			break
		}
		for _, contract := range contracts {
			if _, ok := existing[contract.ID]; ok {
				result.Skipped++
				continue
			}
			if err := s.generateOne(ctx, contract, year, settings); err != nil {
				return result, err
			}
			result.Generated++
		}
		if len(contracts) < contractBatchSize {
			break
		}
	}

	s.logger.Info("statement run finished",
		slog.String("partner_id", partnerID),
		slog.Int("year", year),
		slog.Int("generated", result.Generated),
		slog.Int("skipped", result.Skipped))
	return result, nil
}

func (s *Service) generateOne(ctx context.Context, contract Contract, year int, settings PartnerSettings) error {
	txs, err := s.repo.ContractTransactions(ctx, contract.ID, year)
	if err != nil {
		return fmt.Errorf("statements: load transactions for %s: %w", contract.ID, err)
	}
	st := s.aggregator.Aggregate(contract, year, txs, settings)
	st.ID = uuid.New().String()
	st.CreatedAt = s.now()
	if err := s.repo.InsertStatement(ctx, st); err != nil {
		return fmt.Errorf("statements: insert statement for %s: %w", contract.ID, err)
	}
	return nil
}
