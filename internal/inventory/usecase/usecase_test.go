package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/postgres/txtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu         sync.Mutex
	variations map[string]model.ProductVariation
	logs       []model.StockLog
	processed  map[string]bool
	failLog    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		variations: make(map[string]model.ProductVariation),
		processed:  make(map[string]bool),
	}
}

// snapshot copies the store and returns a func that puts the copy back.
func (f *fakeRepo) snapshot() func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	vars := make(map[string]model.ProductVariation, len(f.variations))
	for k, v := range f.variations {
		vars[k] = v
	}
	logs := append([]model.StockLog(nil), f.logs...)
	processed := make(map[string]bool, len(f.processed))
	for k, v := range f.processed {
		processed[k] = v
	}
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.variations = vars
		f.logs = logs
		f.processed = processed
	}
}

func (f *fakeRepo) CreateVariation(_ context.Context, v *model.ProductVariation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.variations[v.ID] = *v
	return nil
}

func (f *fakeRepo) FindVariationByID(_ context.Context, id string) (*model.ProductVariation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.variations[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (f *fakeRepo) FindVariationForUpdate(ctx context.Context, id string) (*model.ProductVariation, error) {
	if !txtest.InTx(ctx) {
		return nil, errors.New("row lock outside transaction")
	}
	return f.FindVariationByID(ctx, id)
}

func (f *fakeRepo) ListVariations(_ context.Context, productID string) ([]model.ProductVariation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ProductVariation
	for _, v := range f.variations {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (f *fakeRepo) UpdateVariation(_ context.Context, v *model.ProductVariation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := f.variations[v.ID]
	stock := stored.StockQuantity
	stored = *v
	stored.StockQuantity = stock
	f.variations[v.ID] = stored
	return nil
}

func (f *fakeRepo) DeleteVariation(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.variations, id)
	return nil
}

func (f *fakeRepo) SKUExists(_ context.Context, sku, excludeID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, v := range f.variations {
		if v.SKU == sku && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) UpdateStock(_ context.Context, id string, quantity int, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.variations[id]
	v.StockQuantity = quantity
	v.UpdatedAt = updatedAt
	f.variations[id] = v
	return nil
}

func (f *fakeRepo) InsertStockLog(_ context.Context, entry *model.StockLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLog != nil {
		return f.failLog
	}
	f.logs = append(f.logs, *entry)
	return nil
}

func (f *fakeRepo) MarkEventProcessed(_ context.Context, eventID string, _ time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.processed[eventID] {
		return false, nil
	}
	f.processed[eventID] = true
	return true, nil
}

func (f *fakeRepo) ListStockLogs(_ context.Context, filters *dto.StockLogFilters) ([]model.StockLog, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.StockLog
	for i := len(f.logs) - 1; i >= 0; i-- {
		if filters.VariationID == "" || f.logs[i].VariationID == filters.VariationID {
			out = append(out, f.logs[i])
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) ListLowStock(_ context.Context) ([]model.LowStockItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.LowStockItem
	for _, v := range f.variations {
		if v.IsActive && v.StockQuantity <= v.LowStockThreshold {
			out = append(out, model.LowStockItem{
				VariationID:       v.ID,
				ProductID:         v.ProductID,
				SKU:               v.SKU,
				StockQuantity:     v.StockQuantity,
				LowStockThreshold: v.LowStockThreshold,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StockQuantity != out[j].StockQuantity {
			return out[i].StockQuantity < out[j].StockQuantity
		}
		return out[i].SKU < out[j].SKU
	})
	return out, nil
}

func (f *fakeRepo) sumDeltas(variationID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, l := range f.logs {
		if l.VariationID == variationID {
			total += l.ChangeAmount
		}
	}
	return total
}

type productLookup map[string]bool

func (p productLookup) FindByID(_ context.Context, id string) (*model.Product, error) {
	if !p[id] {
		return nil, nil
	}
	return &model.Product{BaseModel: model.BaseModel{ID: id}, Name: "Air Max"}, nil
}

func newUseCase(repo *fakeRepo) (*inventoryUseCase, *txtest.Serial) {
	tx := &txtest.Serial{Snapshot: repo.snapshot}
	uc := NewInventoryUseCase(repo, productLookup{"p-1": true}, tx, logger.NewNop()).(*inventoryUseCase)
	return uc, tx
}

func createVariation(t *testing.T, uc *inventoryUseCase, sku string, stock int) *model.ProductVariation {
	t.Helper()
	v, err := uc.CreateVariation(context.Background(), &dto.CreateVariationInput{
		ProductID:     "p-1",
		SKU:           sku,
		ColorCode:     "#112233",
		StockQuantity: stock,
	})
	require.NoError(t, err)
	return v
}

func TestCreateVariation(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	uc, _ := newUseCase(repo)

	v := createVariation(t, uc, "NK-90-42", 10)
	assert.Equal(t, 5, v.LowStockThreshold)
	assert.Equal(t, 10, v.StockQuantity)
	assert.Empty(t, repo.logs)

	cases := []struct {
		name  string
		input dto.CreateVariationInput
		want  error
	}{
		{"duplicate sku", dto.CreateVariationInput{ProductID: "p-1", SKU: "NK-90-42"}, apperr.ErrUniqueness},
		{"unknown product", dto.CreateVariationInput{ProductID: "p-9", SKU: "X-1"}, apperr.ErrReferential},
		{"bad color", dto.CreateVariationInput{ProductID: "p-1", SKU: "X-2", ColorCode: "#12345"}, apperr.ErrConstraint},
		{"negative stock", dto.CreateVariationInput{ProductID: "p-1", SKU: "X-3", StockQuantity: -1}, apperr.ErrConstraint},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreateVariation(ctx, &tc.input)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSetStock_AppendsOneEntry(t *testing.T) {
	ctx := auth.WithActor(context.Background(), "user-7")
	repo := newFakeRepo()
	uc, tx := newUseCase(repo)
	v := createVariation(t, uc, "NK-90-42", 10)

	entry, err := uc.SetStock(ctx, &dto.SetStockInput{VariationID: v.ID, NewQuantity: 4})
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 10, entry.PreviousQuantity)
	assert.Equal(t, 4, entry.NewQuantity)
	assert.Equal(t, -6, entry.ChangeAmount)
	assert.Equal(t, model.ChangeAdjustment, entry.ChangeType)
	assert.Equal(t, "user-7", entry.CreatedBy)
	assert.Equal(t, 1, tx.Committed)

	got, err := uc.GetVariation(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.StockQuantity)
	assert.Len(t, repo.logs, 1)
}

func TestSetStock_Unchanged(t *testing.T) {
	repo := newFakeRepo()
	uc, _ := newUseCase(repo)
	v := createVariation(t, uc, "NK-90-42", 10)

	entry, err := uc.SetStock(context.Background(), &dto.SetStockInput{VariationID: v.ID, NewQuantity: 10})
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.Empty(t, repo.logs)

	entry, err = uc.AdjustStock(context.Background(), &dto.AdjustStockInput{VariationID: v.ID})
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.Empty(t, repo.logs)
}

func TestAdjustStock_Rejections(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	uc, tx := newUseCase(repo)
	v := createVariation(t, uc, "NK-90-42", 3)

	_, err := uc.AdjustStock(ctx, &dto.AdjustStockInput{VariationID: v.ID, Delta: -4})
	assert.ErrorIs(t, err, apperr.ErrConstraint)

	_, err = uc.AdjustStock(ctx, &dto.AdjustStockInput{VariationID: "missing", Delta: 1})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = uc.AdjustStock(ctx, &dto.AdjustStockInput{
		VariationID: v.ID,
		Delta:       1,
		StockChange: dto.StockChange{ChangeType: "stolen"},
	})
	assert.ErrorIs(t, err, apperr.ErrConstraint)

	got, _ := uc.GetVariation(ctx, v.ID)
	assert.Equal(t, 3, got.StockQuantity)
	assert.Empty(t, repo.logs)
	assert.Equal(t, 2, tx.RolledBack)
}

func TestAdjustStock_FailedLogRollsBackStock(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	uc, tx := newUseCase(repo)
	v := createVariation(t, uc, "NK-90-42", 10)

	repo.failLog = errors.New("disk full")
	_, err := uc.AdjustStock(ctx, &dto.AdjustStockInput{VariationID: v.ID, Delta: 5})
	require.Error(t, err)
	assert.Equal(t, 1, tx.RolledBack)

	got, _ := uc.GetVariation(ctx, v.ID)
	assert.Equal(t, 10, got.StockQuantity)
	assert.Empty(t, repo.logs)
}

func saleEvent(id string, items ...dto.AdjustStockInput) *dto.StockEventInput {
	for i := range items {
		items[i].ChangeType = string(model.ChangeSale)
		items[i].Actor = "order-service"
	}
	return &dto.StockEventInput{EventID: id, Items: items}
}

func TestApplyStockEvent_AppliesOnce(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	uc, _ := newUseCase(repo)
	a := createVariation(t, uc, "NK-90-41", 10)
	b := createVariation(t, uc, "NK-90-42", 1)

	event := saleEvent("evt-1",
		dto.AdjustStockInput{VariationID: a.ID, Delta: -2},
		dto.AdjustStockInput{VariationID: b.ID, Delta: -3},
		dto.AdjustStockInput{VariationID: "missing", Delta: -1},
	)

	applied, err := uc.ApplyStockEvent(ctx, event)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = uc.ApplyStockEvent(ctx, event)
	require.NoError(t, err)
	assert.False(t, applied)

	gotA, _ := uc.GetVariation(ctx, a.ID)
	gotB, _ := uc.GetVariation(ctx, b.ID)
	assert.Equal(t, 8, gotA.StockQuantity)
	assert.Equal(t, 1, gotB.StockQuantity, "an oversold item is skipped")
	require.Len(t, repo.logs, 1)
	assert.Equal(t, model.ChangeSale, repo.logs[0].ChangeType)
	assert.Equal(t, "order-service", repo.logs[0].CreatedBy)
}

func TestApplyStockEvent_FailureAllowsRetry(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	uc, tx := newUseCase(repo)
	v := createVariation(t, uc, "NK-90-42", 10)

	event := saleEvent("evt-2", dto.AdjustStockInput{VariationID: v.ID, Delta: -1})

	repo.failLog = errors.New("disk full")
	_, err := uc.ApplyStockEvent(ctx, event)
	require.Error(t, err)
	assert.Equal(t, 1, tx.RolledBack)

	repo.failLog = nil
	applied, err := uc.ApplyStockEvent(ctx, event)
	require.NoError(t, err)
	assert.True(t, applied)

	got, _ := uc.GetVariation(ctx, v.ID)
	assert.Equal(t, 9, got.StockQuantity)
	assert.Len(t, repo.logs, 1)
}

func TestApplyStockEvent_RequiresEventID(t *testing.T) {
	uc, _ := newUseCase(newFakeRepo())
	_, err := uc.ApplyStockEvent(context.Background(), &dto.StockEventInput{})
	assert.ErrorIs(t, err, apperr.ErrConstraint)
}

func TestLedgerSumsToStock(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	uc, _ := newUseCase(repo)
	v := createVariation(t, uc, "NK-90-42", 7)

	ops := []func() error{
		func() error {
			_, err := uc.AdjustStock(ctx, &dto.AdjustStockInput{VariationID: v.ID, Delta: 12, StockChange: dto.StockChange{ChangeType: "purchase"}})
			return err
		},
		func() error {
			_, err := uc.AdjustStock(ctx, &dto.AdjustStockInput{VariationID: v.ID, Delta: -3, StockChange: dto.StockChange{ChangeType: "sale"}})
			return err
		},
		func() error {
			_, err := uc.SetStock(ctx, &dto.SetStockInput{VariationID: v.ID, NewQuantity: 20})
			return err
		},
		func() error {
			_, err := uc.AdjustStock(ctx, &dto.AdjustStockInput{VariationID: v.ID, Delta: -50})
			return err
		},
		func() error {
			qty := 2
			_, err := uc.UpdateVariation(ctx, &dto.UpdateVariationInput{ID: v.ID, LowStockThreshold: 5, IsActive: true, StockQuantity: &qty})
			return err
		},
	}

	var wg sync.WaitGroup
	for _, op := range ops {
		wg.Add(1)
		go func(op func() error) {
			defer wg.Done()
			_ = op()
		}(op)
	}
	wg.Wait()

	got, err := uc.GetVariation(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, got.StockQuantity, 7+repo.sumDeltas(v.ID))
	assert.GreaterOrEqual(t, got.StockQuantity, 0)

	logs, count, err := uc.ListStockLogs(ctx, &dto.StockLogFilters{VariationID: v.ID})
	require.NoError(t, err)
	assert.Equal(t, len(logs), count)
	for _, l := range logs {
		assert.Equal(t, l.NewQuantity-l.PreviousQuantity, l.ChangeAmount)
		assert.Equal(t, auth.SystemActor, l.CreatedBy)
	}
}

func TestUpdateVariation_StockThroughLedger(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	uc, _ := newUseCase(repo)
	v := createVariation(t, uc, "NK-90-42", 10)

	qty := 0
	updated, err := uc.UpdateVariation(ctx, &dto.UpdateVariationInput{
		ID:                v.ID,
		ColorName:         "Black",
		LowStockThreshold: 2,
		IsActive:          true,
		StockQuantity:     &qty,
		StockChange:       dto.StockChange{ChangeType: "damaged", Actor: "warehouse", Notes: "water damage"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.StockQuantity)
	assert.Equal(t, "Black", *updated.ColorName)

	require.Len(t, repo.logs, 1)
	assert.Equal(t, model.ChangeDamaged, repo.logs[0].ChangeType)
	assert.Equal(t, "warehouse", repo.logs[0].CreatedBy)
	assert.Equal(t, "water damage", repo.logs[0].Notes)

	t.Run("without stock leaves ledger alone", func(t *testing.T) {
		_, err := uc.UpdateVariation(ctx, &dto.UpdateVariationInput{ID: v.ID, LowStockThreshold: 3, IsActive: true})
		require.NoError(t, err)
		assert.Len(t, repo.logs, 1)
	})
}

func TestDeleteVariation_KeepsLedger(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	uc, _ := newUseCase(repo)
	v := createVariation(t, uc, "NK-90-42", 10)

	_, err := uc.AdjustStock(ctx, &dto.AdjustStockInput{VariationID: v.ID, Delta: -1})
	require.NoError(t, err)
	require.NoError(t, uc.DeleteVariation(ctx, v.ID))

	logs, _, err := uc.ListStockLogs(ctx, &dto.StockLogFilters{VariationID: v.ID})
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	assert.ErrorIs(t, uc.DeleteVariation(ctx, v.ID), apperr.ErrNotFound)
}

func TestListLowStock_Order(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	uc, _ := newUseCase(repo)

	createVariation(t, uc, "A-3", 3)
	createVariation(t, uc, "B-0", 0)
	createVariation(t, uc, "C-9", 9)
	inactive := createVariation(t, uc, "D-1", 1)
	_, err := uc.UpdateVariation(ctx, &dto.UpdateVariationInput{ID: inactive.ID, LowStockThreshold: 5, IsActive: false})
	require.NoError(t, err)

	items, err := uc.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "B-0", items[0].SKU)
	assert.Equal(t, "A-3", items[1].SKU)
	assert.Len(t, repo.logs, 0)
}
