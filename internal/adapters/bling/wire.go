package bling

import (
	"fmt"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/models"
)

// Wire shapes of the Bling v3 API. Only the fields the collector depends on
// are decoded; everything else in the payload is dropped at the boundary.

type listResponse struct {
	Data []listEntry `json:"data"`
}

type listEntry struct {
	ID int64 `json:"id"`
}

type detailResponse struct {
	Data *detailPayload `json:"data"`
}

type detailPayload struct {
	ID        int64        `json:"id"`
	IssueDate string       `json:"data"`
	ExitDate  string       `json:"dataSaida"`
	Category  *category    `json:"categoria"`
	Parcels   []parcel     `json:"parcelas"`
	Items     []detailItem `json:"itens"`
}

type category struct {
	ID int64 `json:"id"`
}

type parcel struct {
	DueDate string `json:"dataVencimento"`
}

// detailItem carries the SKU reference in two shapes: purchases nest it under
// produto.codigo, sales carry codigo directly.
type detailItem struct {
	Code     string      `json:"codigo"`
	Quantity float64     `json:"quantidade"`
	Product  *productRef `json:"produto"`
}

type productRef struct {
	Code string `json:"codigo"`
}

func (it detailItem) sku() string {
	if it.Product != nil && it.Product.Code != "" {
		return it.Product.Code
	}
	return it.Code
}

type balanceResponse struct {
	Data []balanceEntry `json:"data"`
}

type balanceEntry struct {
	PhysicalTotal float64 `json:"saldoFisicoTotal"`
}

// toRecord normalizes a detail payload into the cached record shape.
func (p *detailPayload) toRecord() (*models.OrderRecord, error) {
	issue, err := models.ParseDay(p.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", p.ID, err)
	}
	exit, err := models.ParseDay(p.ExitDate)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", p.ID, err)
	}

	rec := &models.OrderRecord{
		ID:        p.ID,
		IssueDate: issue,
		ExitDate:  exit,
	}
	if p.Category != nil {
		rec.CategoryID = p.Category.ID
	}
	for _, par := range p.Parcels {
		due, err := models.ParseDay(par.DueDate)
		if err != nil || due.IsZero() {
			// A malformed installment date is missing evidence, not
			// a fatal record.
			continue
		}
		rec.DueDates = append(rec.DueDates, due)
	}
	for _, it := range p.Items {
		if it.sku() == "" {
			continue
		}
		rec.Items = append(rec.Items, models.LineItem{
			SKU:      it.sku(),
			Quantity: it.Quantity,
		})
	}
	return rec, nil
}
