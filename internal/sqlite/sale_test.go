package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/jobtrack/internal/domain/sale"
	"github.com/rpggio/jobtrack/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSaleRepository_CreateList(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSaleRepository(db)
	ctx := context.Background()

	first := &sale.Sale{Date: date(2024, time.February, 2), ProjectIDFK: 1, ProjectAddress: "123 Main St",
		ContractAmount: decimal.NewFromInt(10000), OwnerName: "Dana"}
	require.NoError(t, repo.Create(ctx, first))
	require.Equal(t, 1, first.SalesID)

	explicit := &sale.Sale{SalesID: 9, Date: date(2024, time.March, 5), ProjectIDFK: 2}
	require.NoError(t, repo.Create(ctx, explicit))

	dup := &sale.Sale{Date: date(2024, time.March, 6), ProjectIDFK: 1}
	require.ErrorIs(t, repo.Create(ctx, dup), repository.ErrDuplicate)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, first.Date, list[0].Date)
	require.True(t, list[0].ContractAmount.Equal(decimal.NewFromInt(10000)))
	require.Equal(t, "Dana", list[0].OwnerName)
	require.Equal(t, 9, list[1].SalesID)
}
