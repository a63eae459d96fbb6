package services

import (
	"fmt"

	"hotel-billing/models"
	"hotel-billing/money"
)

// GSTOptions control the tax surcharge on a settlement subtotal. A nil
// GSTPercent means the hotel's default rate.
type GSTOptions struct {
	ShowGST    bool        `json:"showGst"`
	GSTPercent *money.Rate `json:"gstPercent"`
	RoundOff   bool        `json:"roundOff"`
}

// Charges are the inputs of one settlement.
type Charges struct {
	Room             money.Money
	AdditionalGuests money.Money
	Food             money.Money
}

// Totals is the computed snapshot written to an invoice.
type Totals struct {
	Charges
	Subtotal   money.Money
	GSTEnabled bool
	GSTRate    money.Rate
	GSTAmount  money.Money
	RoundOff   money.Money
	Total      money.Money
}

// ComputeTotals is a pure function of its inputs:
//
//	subtotal = room + additional guests + food
//	gst      = showGST && rate > 0 ? subtotal * rate : 0
//	total    = subtotal + gst - roundOff
//
// roundOff is only non-zero when requested and brings total to whole units.
func ComputeTotals(c Charges, showGST bool, rate money.Rate, roundOff bool) Totals {
	t := Totals{
		Charges:    c,
		Subtotal:   money.Sum(c.Room, c.AdditionalGuests, c.Food),
		GSTEnabled: showGST,
	}
	if showGST {
		t.GSTRate = rate
		if rate > 0 {
			t.GSTAmount = t.Subtotal.Apply(rate)
		}
	}
	gross := t.Subtotal.Add(t.GSTAmount)
	if roundOff {
		t.RoundOff = gross.RoundOff()
	}
	t.Total = gross.Sub(t.RoundOff)
	return t
}

// foodLines sums orders at live menu prices; item-level GST is ignored.
func foodLines(orders []models.FoodOrder) (money.Money, []models.InvoiceLine, error) {
	var total money.Money
	lines := make([]models.InvoiceLine, 0, len(orders))
	for _, o := range orders {
		amount, err := o.Amount()
		if err == nil {
			total, err = total.AddChecked(amount)
		}
		if err != nil {
			return 0, nil, Validation("settlement.amountOutOfRange", "order %d pushes the bill out of range", o.ID)
		}
		orderID, itemID := o.ID, o.FoodItemID
		lines = append(lines, models.InvoiceLine{
			Description: o.FoodItem.Name,
			OrderID:     &orderID,
			FoodItemID:  &itemID,
			Quantity:    o.Quantity,
			UnitPrice:   o.FoodItem.Price,
			Amount:      amount,
		})
	}
	return total, lines, nil
}

func roomLines(b *models.Booking, roomNumber string) []models.InvoiceLine {
	lines := []models.InvoiceLine{{
		Description: fmt.Sprintf("Room %s tariff", roomNumber),
		Quantity:    1,
		UnitPrice:   b.Tariff,
		Amount:      b.Tariff,
	}}
	if b.AdditionalGuests > 0 || !b.AdditionalGuestCharges.IsZero() {
		lines = append(lines, models.InvoiceLine{
			Description: fmt.Sprintf("Additional guests (%d)", b.AdditionalGuests),
			Quantity:    1,
			UnitPrice:   b.AdditionalGuestCharges,
			Amount:      b.AdditionalGuestCharges,
		})
	}
	return lines
}

func orderIDs(orders []models.FoodOrder) []uint {
	ids := make([]uint, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	return ids
}

func validateRate(r money.Rate) error {
	if r < 0 || r > money.BasisPoints {
		return Validation("settlement.invalidGst", "gstPercent must be between 0 and 100")
	}
	return nil
}
