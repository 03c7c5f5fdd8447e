package importer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/fincoach/internal/model"
)

var mapping = Mapping{Amount: "Amount", Category: "Category", Date: "Date"}

func TestImportDropsBadAmounts(t *testing.T) {
	data := `Date,Category,Amount
2026-01-03,Food,450
2026-01-04,Transport,abc
2026-01-05,Food,"1,200.50"
2026-01-06,Rent,-10
`
	res, err := Import(strings.NewReader(data), mapping)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(res.Rows))
	}
	if res.Dropped() != 2 {
		t.Errorf("Dropped = %d, want 2", res.Dropped())
	}
	if res.Skipped[0].Line != 3 {
		t.Errorf("first skipped line = %d, want 3", res.Skipped[0].Line)
	}
	if res.Rows[1].Amount != 1200.50 {
		t.Errorf("amount = %v, want 1200.50", res.Rows[1].Amount)
	}
}

func TestImportAllInvalid(t *testing.T) {
	data := "Category,Amount\nFood,n/a\nRent,\n"
	res, err := Import(strings.NewReader(data), Mapping{Amount: "amount", Category: "category"})
	if !errors.Is(err, ErrNoValidData) {
		t.Fatalf("err = %v, want ErrNoValidData", err)
	}
	if res.Dropped() != 2 {
		t.Errorf("Dropped = %d, want 2", res.Dropped())
	}
}

func TestImportEmptyFile(t *testing.T) {
	if _, err := Import(strings.NewReader(""), mapping); !errors.Is(err, ErrNoValidData) {
		t.Errorf("err = %v, want ErrNoValidData", err)
	}
	if _, err := Import(strings.NewReader("Date,Category,Amount\n"), mapping); !errors.Is(err, ErrNoValidData) {
		t.Errorf("header-only err = %v, want ErrNoValidData", err)
	}
}

func TestImportKeepsUnparsedDates(t *testing.T) {
	data := "Date,Category,Amount\nsometime last week,Food,100\n03/01/2026,Food,50\n"
	res, err := Import(strings.NewReader(data), mapping)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Rows[0].RawDate != "sometime last week" || !res.Rows[0].Date.IsZero() {
		t.Errorf("row 0 = %+v, want raw date kept", res.Rows[0])
	}
	want := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)
	if !res.Rows[1].Date.Equal(want) {
		t.Errorf("row 1 date = %v, want %v", res.Rows[1].Date, want)
	}
}

func TestImportMissingColumn(t *testing.T) {
	_, err := Import(strings.NewReader("Category,Cost\nFood,1\n"), mapping)
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestBreakdownAggregates(t *testing.T) {
	data := "Category,Amount\nFood,100\nRent,4000\nfood,50\n,25\n"
	res, err := Import(strings.NewReader(data), Mapping{Amount: "Amount", Category: "Category"})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	b := res.Breakdown()
	items := b.Items()
	if len(items) != 3 {
		t.Fatalf("items = %+v", items)
	}
	if items[0].Category != "Food" || items[0].Amount != 150 {
		t.Errorf("food = %+v, want 150", items[0])
	}
	if items[2].Category != DefaultCategory || items[2].Amount != 25 {
		t.Errorf("blank category = %+v", items[2])
	}
}

func TestParseAmountSymbols(t *testing.T) {
	cases := map[string]float64{
		"₹1,234":   1234,
		" $ 12.5 ": 12.5,
		"Rs. 300":  300,
	}
	for in, want := range cases {
		got, err := ParseAmount(in)
		if err != nil || got != want {
			t.Errorf("ParseAmount(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
}

func TestColumns(t *testing.T) {
	cols, err := Columns(strings.NewReader("\ufeffDate, Category ,Amount\n1,2,3\n"))
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	if len(cols) != 3 || cols[0] != "Date" || cols[1] != "Category" {
		t.Errorf("Columns = %q", cols)
	}
}
