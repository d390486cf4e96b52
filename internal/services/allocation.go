package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/agencyhq/go-agency-ledger/internal/common"
	"github.com/agencyhq/go-agency-ledger/internal/models"
)

var (
	CompanyFundRatio   = decimal.RequireFromString("0.20")
	FinderFeeRatio     = decimal.RequireFromString("0.10")
	ExecutionPoolRatio = decimal.RequireFromString("0.70")
)

// Allocate splits the payment amount between the company fund, the project finder and the
// project members. Company and finder amounts are rounded to the money scale and the pool
// takes the remainder. Within the pool every member but the last gets a rounded share and
// the last member gets what is left, so the result always sums to the payment amount.
func Allocate(payment models.Payment, project models.Project) (models.Allocation, error) {
	amount, ok := payment.SplittableAmount()
	if !ok {
		return models.Allocation{}, fmt.Errorf("%w: payment %s", common.ErrInvalidPaymentState, payment.ID)
	}

	company := models.RoundMoney(amount.Mul(CompanyFundRatio))
	finder := models.RoundMoney(amount.Mul(FinderFeeRatio))
	pool := amount.Sub(company).Sub(finder)

	alloc := models.Allocation{
		Currency:      payment.Currency,
		Amount:        amount,
		CompanyFund:   company,
		FinderID:      project.FinderID,
		FinderFee:     finder,
		ExecutionPool: pool,
	}

	if len(project.Members) == 0 {
		alloc.CompanyFund = company.Add(pool)
		alloc.PoolRedirected = true
		return alloc, nil
	}

	alloc.Members = distributePool(pool, project.Members)
	return alloc, nil
}

func distributePool(pool decimal.Decimal, members []models.ProjectMember) []models.MemberAllocation {
	totalShare := decimal.Zero
	for _, m := range members {
		totalShare = totalShare.Add(decimal.NewFromInt(int64(m.Share)))
	}
	count := decimal.NewFromInt(int64(len(members)))

	out := make([]models.MemberAllocation, len(members))
	remaining := pool
	for i, m := range members {
		if i == len(members)-1 {
			out[i] = models.MemberAllocation{UserID: m.UserID, Amount: remaining}
			break
		}

		var cut decimal.Decimal
		if totalShare.IsZero() {
			cut = models.RoundMoney(pool.Div(count))
		} else {
			cut = models.RoundMoney(pool.Mul(decimal.NewFromInt(int64(m.Share))).Div(totalShare))
		}
		out[i] = models.MemberAllocation{UserID: m.UserID, Amount: cut}
		remaining = remaining.Sub(cut)
	}

	return out
}
