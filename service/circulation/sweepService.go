package circsvc

import (
	"context"
	"database/sql"
	"time"
)

// Sweeper brings the fines of all overdue outstanding loans up to date. It
// is driven by an external scheduler through the HTTP surface and is safe
// to re-run: recomputation for the same instant converges on the same
// stored amounts.
type Sweeper interface {
	Accrue(ctx context.Context, asOf time.Time) (int64, error)
}

type sweeper struct {
	loans    LoanRepo
	policies PolicyResolver
	fines    FineAssessor
}

func NewSweeper(loans LoanRepo, policies PolicyResolver, fines FineAssessor) Sweeper {
	return &sweeper{loans: loans, policies: policies, fines: fines}
}

func (s *sweeper) Accrue(ctx context.Context, asOf time.Time) (int64, error) {
	var count int64
	err := s.loans.InTx(ctx, func(tx *sql.Tx) error {
		overdue, err := s.loans.ListOverdue(ctx, tx, asOf)
		if err != nil {
			return err
		}
		for i := range overdue {
			d := &overdue[i]
			pol, err := s.policies.Resolve(ctx, d.PatronCategoryCode, d.ItemTypeCode)
			if err != nil {
				return err
			}
			f, err := s.fines.AssessOverdue(ctx, tx, &d.Loan, pol, asOf)
			if err != nil {
				return err
			}
			if f != nil {
				count++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
