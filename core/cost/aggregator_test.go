package cost

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"usage-report/core/backend"
	"usage-report/core/types"
	"usage-report/internal/errors"
)

var fixedNow = time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestSumTreatsAbsentAsZero(t *testing.T) {
	daily := []types.DailyCost{
		{Date: "2026-10-15", Amount: amount("1.2345")},
		{Date: "2026-10-16", Amount: amount("0")},
		{Date: "2026-10-17", Amount: amount("3.0")},
		{Date: "2026-10-18", Amount: nil},
	}

	got := Sum(daily).Round(4)
	if !got.Equal(decimal.RequireFromString("4.2345")) {
		t.Errorf("expected 4.2345, got %s", got)
	}
}

func TestSumEmpty(t *testing.T) {
	if !Sum(nil).IsZero() {
		t.Error("expected zero sum for no days")
	}
}

func TestTotal(t *testing.T) {
	var got types.CostQuery
	fake := backend.CostBackendFunc(func(ctx context.Context, q types.CostQuery) ([]types.DailyCost, error) {
		got = q
		return []types.DailyCost{
			{Date: "2026-10-12", Amount: amount("0.123456"), Currency: types.CurrencyUSD},
			{Date: "2026-10-13", Amount: amount("0.000044")},
			{Date: "2026-10-14"},
		}, nil
	})

	a := NewAggregator(fake, nil).WithClock(func() time.Time { return fixedNow })
	total, err := a.Total(context.Background(), 7, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Granularity != types.GranularityDaily || got.Metric != "UnblendedCost" {
		t.Errorf("unexpected query shape %+v", got)
	}
	if got.DimensionKey != "SERVICE" || len(got.DimensionValues) != 1 || got.DimensionValues[0] != DefaultService {
		t.Errorf("unexpected filter %s=%v", got.DimensionKey, got.DimensionValues)
	}
	if got.End.Format("2006-01-02") != "2026-10-19" || got.Start.Format("2006-01-02") != "2026-10-12" {
		t.Errorf("unexpected window %s - %s", got.Start, got.End)
	}

	if total.Amount.String() != "0.1235" {
		t.Errorf("expected rounded total 0.1235, got %s", total.Amount)
	}
	if total.WindowDays != 7 || total.Start != "2026-10-12" || total.End != "2026-10-19" {
		t.Errorf("unexpected total metadata %+v", total)
	}
	if total.Currency != types.CurrencyUSD {
		t.Errorf("expected USD, got %s", total.Currency)
	}
}

func TestTotalRoundsAfterSummation(t *testing.T) {
	fake := backend.CostBackendFunc(func(ctx context.Context, q types.CostQuery) ([]types.DailyCost, error) {
		return []types.DailyCost{
			{Amount: amount("0.00004")},
			{Amount: amount("0.00004")},
		}, nil
	})

	total, err := NewAggregator(fake, nil).Total(context.Background(), 2, "svc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total.Amount.String() != "0.0001" {
		t.Errorf("expected 0.0001 (rounded once), got %s", total.Amount)
	}
}

func TestTotalBackendFailure(t *testing.T) {
	calls := 0
	fake := backend.CostBackendFunc(func(ctx context.Context, q types.CostQuery) ([]types.DailyCost, error) {
		calls++
		return nil, stderrors.New("ThrottlingException")
	})

	total, err := NewAggregator(fake, nil).Total(context.Background(), 7, "svc")
	if !errors.IsType(err, errors.TypeBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if !total.Amount.IsZero() || total.WindowDays != 0 {
		t.Errorf("expected no total, got %+v", total)
	}
	if calls != 1 {
		t.Errorf("expected a single attempt, got %d", calls)
	}
}

func TestTotalRejectsNonPositiveWindow(t *testing.T) {
	fake := backend.CostBackendFunc(func(ctx context.Context, q types.CostQuery) ([]types.DailyCost, error) {
		t.Fatal("backend must not be called")
		return nil, nil
	})
	if _, err := NewAggregator(fake, nil).Total(context.Background(), 0, "svc"); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("expected input error, got %v", err)
	}
}
