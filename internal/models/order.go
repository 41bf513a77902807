package models

// OrderKind distinguishes the two harvested record sets.
type OrderKind string

const (
	// KindPurchase covers purchase orders (entradas).
	KindPurchase OrderKind = "purchase"
	// KindSale covers sale orders (saídas).
	KindSale OrderKind = "sale"
)

// LineItem is one line of an order, referencing a SKU and a quantity.
type LineItem struct {
	SKU      string  `json:"sku"`
	Quantity float64 `json:"quantity"`
}

// OrderRecord is a normalized purchase or sale order as kept in the record
// cache. A record only enters the cache after passing its kind's acceptance
// predicate, so cached purchases always carry the accepted category id.
type OrderRecord struct {
	ID        int64 `json:"id"`
	IssueDate Day   `json:"issueDate"`
	// ExitDate is the physical-exit date; sales only, may be unset.
	ExitDate Day `json:"exitDate,omitempty"`
	// DueDates is the installment due-date list; purchases only. The last
	// entry is the one reconciliation uses.
	DueDates []Day `json:"dueDates,omitempty"`
	// CategoryID is the purchase category used as the acceptance filter.
	CategoryID int64      `json:"categoryId,omitempty"`
	Items      []LineItem `json:"items"`
}

// EffectiveDate is the date a sale counts at: the physical-exit date when
// present, otherwise the issue date.
func (r OrderRecord) EffectiveDate() Day {
	if !r.ExitDate.IsZero() {
		return r.ExitDate
	}
	return r.IssueDate
}

// ItemFor returns the line item referencing the given SKU, if any.
func (r OrderRecord) ItemFor(sku string) (LineItem, bool) {
	for _, it := range r.Items {
		if it.SKU == sku {
			return it, true
		}
	}
	return LineItem{}, false
}

// HasSKU reports whether any line item references the given SKU.
func (r OrderRecord) HasSKU(sku string) bool {
	_, ok := r.ItemFor(sku)
	return ok
}

// LastDueDate returns the final entry of the due-date list, or the zero Day
// when the record has none.
func (r OrderRecord) LastDueDate() Day {
	if len(r.DueDates) == 0 {
		return Day{}
	}
	return r.DueDates[len(r.DueDates)-1]
}
