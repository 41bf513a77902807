package models

// Column indexes of a tracked SKU row in the spreadsheet. Column A holds the
// SKU code and is never written; columns B..G are overwritten in place only
// when the reconciliation pass finds new evidence.
const (
	ColSKU = iota
	ColLastPurchaseDate
	ColLastSaleDate
	ColLastPurchaseDue
	ColLastPurchaseQty
	ColStockBalance
	ColQtySold

	// RowWidth is the number of tracked columns (A..G).
	RowWidth
)

// SKURow is one tracked SKU row as read from the tabular store. Cells keep
// their raw string form; a cell is only replaced when a reconciliation step
// produces a value for it, so prior content survives the absence of evidence.
type SKURow struct {
	cells []string
}

// NewSKURow wraps a raw sheet row, padding it to the full column width.
func NewSKURow(cells []string) *SKURow {
	padded := make([]string, RowWidth)
	copy(padded, cells)
	return &SKURow{cells: padded}
}

// SKU returns the immutable SKU code of the row.
func (r *SKURow) SKU() string {
	return r.cells[ColSKU]
}

// Get returns the raw cell at the given column.
func (r *SKURow) Get(col int) string {
	return r.cells[col]
}

// Set overwrites the cell at the given column.
func (r *SKURow) Set(col int, value string) {
	r.cells[col] = value
}

// Cells returns the row in sheet order for write-back.
func (r *SKURow) Cells() []string {
	out := make([]string, RowWidth)
	copy(out, r.cells)
	return out
}
