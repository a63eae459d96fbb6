package services

import (
	"regexp"
	"testing"
	"time"

	"hotel-billing/models"
	"hotel-billing/money"
)

func TestComputeTotals(t *testing.T) {
	cases := []struct {
		name     string
		charges  Charges
		showGST  bool
		rate     money.Rate
		roundOff bool
		wantGST  money.Money
		wantRO   money.Money
		want     money.Money
	}{
		{
			name:    "gst disabled ignores rate",
			charges: Charges{Room: money.FromMajor(2000), AdditionalGuests: money.FromMajor(300), Food: money.FromMajor(300)},
			rate:    1800,
			want:    money.FromMajor(2600),
		},
		{
			name:    "five percent on food",
			charges: Charges{Food: money.FromMajor(300)},
			showGST: true,
			rate:    500,
			wantGST: money.FromMajor(15),
			want:    money.FromMajor(315),
		},
		{
			name:    "gst enabled with zero rate",
			charges: Charges{Room: money.FromMajor(1000)},
			showGST: true,
			want:    money.FromMajor(1000),
		},
		{
			name:    "gst rounds half away from zero",
			charges: Charges{Food: 1010},
			showGST: true,
			rate:    500,
			wantGST: 51,
			want:    1061,
		},
		{
			name:     "round off down",
			charges:  Charges{Room: 123440},
			roundOff: true,
			wantRO:   40,
			want:     123400,
		},
		{
			name:     "round off up",
			charges:  Charges{Room: 123460},
			roundOff: true,
			wantRO:   -40,
			want:     123500,
		},
		{
			name:     "round off after gst",
			charges:  Charges{Room: money.FromMajor(2000), Food: money.FromMajor(630)},
			showGST:  true,
			rate:     1200,
			roundOff: true,
			wantGST:  money.FromMajor(2630).Apply(1200),
			wantRO:   -40,
			want:     money.FromMajor(2946),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeTotals(tc.charges, tc.showGST, tc.rate, tc.roundOff)
			if got.GSTAmount != tc.wantGST {
				t.Errorf("gst = %s, want %s", got.GSTAmount, tc.wantGST)
			}
			if got.RoundOff != tc.wantRO {
				t.Errorf("round off = %s, want %s", got.RoundOff, tc.wantRO)
			}
			if got.Total != tc.want {
				t.Errorf("total = %s, want %s", got.Total, tc.want)
			}
			if got.Total != got.Subtotal.Add(got.GSTAmount).Sub(got.RoundOff) {
				t.Errorf("total %s does not add up", got.Total)
			}
			if got.GSTEnabled != tc.showGST {
				t.Errorf("gst enabled = %v", got.GSTEnabled)
			}
		})
	}
}

func TestNewInvoiceNumber(t *testing.T) {
	now := time.UnixMilli(1767225600123)
	cases := map[string]string{
		PrefixKitchen: `^KITCHEN-1767225600123-[A-Z0-9]{9}$`,
		PrefixFood:    `^FOOD-INV-1767225600123-[A-Z0-9]{9}$`,
		PrefixRoom:    `^INV-1767225600123-[A-Z0-9]{9}$`,
		PrefixManual:  `^MANUAL-1767225600123-[A-Z0-9]{9}$`,
	}
	for prefix, pattern := range cases {
		got, err := NewInvoiceNumber(prefix, now)
		if err != nil {
			t.Fatalf("%s: %v", prefix, err)
		}
		if !regexp.MustCompile(pattern).MatchString(got) {
			t.Errorf("%s: %q does not match %s", prefix, got, pattern)
		}
	}

	a, _ := NewInvoiceNumber(PrefixRoom, now)
	b, _ := NewInvoiceNumber(PrefixRoom, now)
	if a == b {
		t.Errorf("two numbers in the same millisecond collided: %s", a)
	}
}

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1", 1, true},
		{" 3 ", 3, true},
		{"0", 0, false},
		{"-2", 0, false},
		{"2.5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"1000", 1000, true},
		{"1001", 0, false},
		{"9223372036854775807", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseQuantity(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Errorf("ParseQuantity(%q) = %d, %v; want %d", tc.in, got, err, tc.want)
			}
			continue
		}
		if KindOf(err) != KindValidation {
			t.Errorf("ParseQuantity(%q) error = %v, want validation error", tc.in, err)
		}
	}
}

func TestFoodLinesOutOfRange(t *testing.T) {
	order := func(id uint, price money.Money, qty int) models.FoodOrder {
		return models.FoodOrder{ID: id, Quantity: qty, FoodItem: models.FoodItem{Name: "Banquet", Price: price}}
	}

	total, lines, err := foodLines([]models.FoodOrder{order(1, money.FromMajor(20), 3), order(2, 50, 1)})
	if err != nil || total != 6050 || len(lines) != 2 {
		t.Fatalf("total %s lines %d err %v", total, len(lines), err)
	}

	_, _, err = foodLines([]models.FoodOrder{order(1, money.MaxAmount, 2)})
	if KindOf(err) != KindValidation {
		t.Fatalf("product past bound: %v", err)
	}
	_, _, err = foodLines([]models.FoodOrder{order(1, money.MaxAmount, 1), order(2, money.MaxAmount, 1)})
	if KindOf(err) != KindValidation {
		t.Fatalf("sum past bound: %v", err)
	}
}
