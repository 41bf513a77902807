package app

import (
	"context"
	"testing"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/models"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/ports/primary"
)

func TestReconcileWritesAllDerivedCells(t *testing.T) {
	collection := newMockCollectionService()
	collection.balances["SKU-A"] = 12
	svc := NewReconciliationService(collection, discardLogger())

	row := models.NewSKURow([]string{"SKU-A"})
	purchases := map[int64]models.OrderRecord{
		10: {
			ID:         10,
			IssueDate:  mustDay("2024-01-10"),
			DueDates:   []models.Day{mustDay("2024-02-10"), mustDay("2024-03-10")},
			CategoryID: testCategoryID,
			Items:      []models.LineItem{{SKU: "SKU-A", Quantity: 5}},
		},
	}
	sales := map[int64]models.OrderRecord{
		20: {
			ID:        20,
			IssueDate: mustDay("2024-01-30"),
			ExitDate:  mustDay("2024-02-01"),
			Items:     []models.LineItem{{SKU: "SKU-A", Quantity: 2}},
		},
	}

	resp, err := svc.Reconcile(context.Background(), primary.ReconcileRequest{
		Rows:       []*models.SKURow{row},
		Purchases:  purchases,
		Sales:      sales,
		Checkpoint: mustDay("2024-01-01"),
	})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	checks := []struct {
		col  int
		want string
	}{
		{models.ColLastPurchaseDate, "2024-01-10"},
		{models.ColLastPurchaseDue, "2024-03-10"},
		{models.ColLastPurchaseQty, "5"},
		{models.ColLastSaleDate, "2024-02-01"},
		{models.ColQtySold, "2"},
		{models.ColStockBalance, "12"},
	}
	for _, c := range checks {
		if got := row.Get(c.col); got != c.want {
			t.Errorf("column %d = %q, want %q", c.col, got, c.want)
		}
	}
	if resp.RowsTotal != 1 || resp.RowsPurchased != 1 || resp.RowsSold != 1 {
		t.Errorf("response = %+v, want 1/1/1", resp)
	}
}

func TestReconcilePicksLatestPurchase(t *testing.T) {
	collection := newMockCollectionService()
	svc := NewReconciliationService(collection, discardLogger())

	row := models.NewSKURow([]string{"SKU-A"})
	purchases := map[int64]models.OrderRecord{
		1: {ID: 1, IssueDate: mustDay("2024-01-05"), Items: []models.LineItem{{SKU: "SKU-A", Quantity: 9}}},
		2: {ID: 2, IssueDate: mustDay("2024-02-05"), Items: []models.LineItem{{SKU: "SKU-A", Quantity: 4}}},
		3: {ID: 3, IssueDate: mustDay("2024-03-05"), Items: []models.LineItem{{SKU: "SKU-B", Quantity: 7}}},
	}

	_, err := svc.Reconcile(context.Background(), primary.ReconcileRequest{
		Rows:       []*models.SKURow{row},
		Purchases:  purchases,
		Sales:      map[int64]models.OrderRecord{},
		Checkpoint: mustDay("2024-01-01"),
	})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	// Record 3 is newer but references another SKU; record 2 wins.
	if got := row.Get(models.ColLastPurchaseDate); got != "2024-02-05" {
		t.Errorf("last purchase date = %q, want 2024-02-05", got)
	}
	if got := row.Get(models.ColLastPurchaseQty); got != "4" {
		t.Errorf("last purchase qty = %q, want 4", got)
	}
}

func TestReconcileAbsencePreservesPriorCells(t *testing.T) {
	collection := newMockCollectionService()
	collection.balances["SKU-A"] = 3
	svc := NewReconciliationService(collection, discardLogger())

	prior := []string{"SKU-A", "2023-11-20", "2023-12-01", "2023-12-20", "8", "99", "6"}
	row := models.NewSKURow(prior)

	_, err := svc.Reconcile(context.Background(), primary.ReconcileRequest{
		Rows:       []*models.SKURow{row},
		Purchases:  map[int64]models.OrderRecord{},
		Sales:      map[int64]models.OrderRecord{},
		Checkpoint: mustDay("2024-01-01"),
	})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	// With no matching records only the live balance cell changes.
	want := []string{"SKU-A", "2023-11-20", "2023-12-01", "2023-12-20", "8", "3", "6"}
	got := row.Cells()
	for col := range want {
		if got[col] != want[col] {
			t.Errorf("column %d = %q, want %q", col, got[col], want[col])
		}
	}
}

func TestReconcileSalesWindowStartsAtLastPurchase(t *testing.T) {
	collection := newMockCollectionService()
	svc := NewReconciliationService(collection, discardLogger())

	row := models.NewSKURow([]string{"SKU-A"})
	purchases := map[int64]models.OrderRecord{
		1: {ID: 1, IssueDate: mustDay("2024-02-01"), Items: []models.LineItem{{SKU: "SKU-A", Quantity: 10}}},
	}
	sales := map[int64]models.OrderRecord{
		// Before the purchase: excluded even though after the checkpoint.
		2: {ID: 2, IssueDate: mustDay("2024-01-15"), ExitDate: mustDay("2024-01-16"), Items: []models.LineItem{{SKU: "SKU-A", Quantity: 4}}},
		3: {ID: 3, IssueDate: mustDay("2024-02-10"), ExitDate: mustDay("2024-02-11"), Items: []models.LineItem{{SKU: "SKU-A", Quantity: 2}}},
		4: {ID: 4, IssueDate: mustDay("2024-02-20"), ExitDate: mustDay("2024-02-21"), Items: []models.LineItem{{SKU: "SKU-A", Quantity: 3}}},
	}

	_, err := svc.Reconcile(context.Background(), primary.ReconcileRequest{
		Rows:       []*models.SKURow{row},
		Purchases:  purchases,
		Sales:      sales,
		Checkpoint: mustDay("2024-01-01"),
	})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if got := row.Get(models.ColQtySold); got != "5" {
		t.Errorf("quantity sold = %q, want 5 (sales before the purchase excluded)", got)
	}
	if got := row.Get(models.ColLastSaleDate); got != "2024-02-21" {
		t.Errorf("last sale date = %q, want 2024-02-21", got)
	}
}

func TestReconcileSaleWithoutExitDateCountsByIssueDate(t *testing.T) {
	collection := newMockCollectionService()
	svc := NewReconciliationService(collection, discardLogger())

	row := models.NewSKURow([]string{"SKU-A", "", "2023-12-01"})
	sales := map[int64]models.OrderRecord{
		1: {ID: 1, IssueDate: mustDay("2024-02-10"), Items: []models.LineItem{{SKU: "SKU-A", Quantity: 2}}},
	}

	_, err := svc.Reconcile(context.Background(), primary.ReconcileRequest{
		Rows:       []*models.SKURow{row},
		Purchases:  map[int64]models.OrderRecord{},
		Sales:      sales,
		Checkpoint: mustDay("2024-01-01"),
	})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	// The sale counts into quantity sold via its issue date, but with no
	// physical-exit date the last-sale cell keeps its prior value.
	if got := row.Get(models.ColQtySold); got != "2" {
		t.Errorf("quantity sold = %q, want 2", got)
	}
	if got := row.Get(models.ColLastSaleDate); got != "2023-12-01" {
		t.Errorf("last sale date = %q, want the prior cell preserved", got)
	}
}

func TestReconcileSumsWholeFilteredSet(t *testing.T) {
	collection := newMockCollectionService()
	svc := NewReconciliationService(collection, discardLogger())

	row := models.NewSKURow([]string{"SKU-A"})
	sales := map[int64]models.OrderRecord{
		1: {ID: 1, IssueDate: mustDay("2024-01-10"), ExitDate: mustDay("2024-01-11"), Items: []models.LineItem{{SKU: "SKU-A", Quantity: 1.5}}},
		2: {ID: 2, IssueDate: mustDay("2024-01-20"), ExitDate: mustDay("2024-01-21"), Items: []models.LineItem{{SKU: "SKU-A", Quantity: 2}}},
		3: {ID: 3, IssueDate: mustDay("2024-01-30"), ExitDate: mustDay("2024-01-31"), Items: []models.LineItem{{SKU: "SKU-A", Quantity: 0.5}}},
	}

	_, err := svc.Reconcile(context.Background(), primary.ReconcileRequest{
		Rows:       []*models.SKURow{row},
		Purchases:  map[int64]models.OrderRecord{},
		Sales:      sales,
		Checkpoint: mustDay("2024-01-01"),
	})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if got := row.Get(models.ColQtySold); got != "4" {
		t.Errorf("quantity sold = %q, want 4", got)
	}
}

func TestReconcileSkipsBlankSKURows(t *testing.T) {
	collection := newMockCollectionService()
	svc := NewReconciliationService(collection, discardLogger())

	resp, err := svc.Reconcile(context.Background(), primary.ReconcileRequest{
		Rows:       []*models.SKURow{models.NewSKURow(nil), models.NewSKURow([]string{""})},
		Purchases:  map[int64]models.OrderRecord{},
		Sales:      map[int64]models.OrderRecord{},
		Checkpoint: mustDay("2024-01-01"),
	})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(collection.balanceSKUs) != 0 {
		t.Errorf("balance looked up for blank rows: %v", collection.balanceSKUs)
	}
	if resp.RowsTotal != 2 {
		t.Errorf("rows total = %d, want 2", resp.RowsTotal)
	}
}

func TestReconcilePropagatesBalanceErrors(t *testing.T) {
	collection := newMockCollectionService()
	collection.balanceErr = &QuotaExceededError{Day: mustDay("2024-03-01"), Count: 120001, Limit: 120000}
	svc := NewReconciliationService(collection, discardLogger())

	_, err := svc.Reconcile(context.Background(), primary.ReconcileRequest{
		Rows:       []*models.SKURow{models.NewSKURow([]string{"SKU-A"})},
		Purchases:  map[int64]models.OrderRecord{},
		Sales:      map[int64]models.OrderRecord{},
		Checkpoint: mustDay("2024-01-01"),
	})
	if !IsQuotaExceeded(err) {
		t.Errorf("Reconcile returned %v, want the quota error", err)
	}
}
