package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseMonthVocabularies(t *testing.T) {
	for i, m := range Months() {
		short, err := ParseMonth(m.String())
		if err != nil || short.Index() != i {
			t.Fatalf("short label %q: got %v err=%v", m.String(), short, err)
		}
		full, err := ParseMonth(m.FullName())
		if err != nil || full != short {
			t.Fatalf("full label %q: got %v, want %v (err=%v)", m.FullName(), full, short, err)
		}
	}
}

func TestParseMonthLenient(t *testing.T) {
	cases := map[string]Month{
		" Yan ":  Yan,
		"yanvar": Yan,
		"DEK":    Dek,
		"iyn":    Iyn,
		"İyul":   Iyl,
		"iyul":   Iyl,
		"Avqust": Avq,
	}
	for in, want := range cases {
		got, err := ParseMonth(in)
		if err != nil || got != want {
			t.Errorf("ParseMonth(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}

func TestParseMonthInvalid(t *testing.T) {
	for _, in := range []string{"Smarch", "", "January", "Ya"} {
		_, err := ParseMonth(in)
		if !errors.Is(err, ErrInvalidMonth) {
			t.Fatalf("ParseMonth(%q) expected ErrInvalidMonth, got %v", in, err)
		}
		var ime *InvalidMonthError
		if !errors.As(err, &ime) || ime.Label != in {
			t.Fatalf("ParseMonth(%q) expected InvalidMonthError with label, got %v", in, err)
		}
	}
}

func TestMonthTextRoundTrip(t *testing.T) {
	b, err := json.Marshal(map[string]Month{"m": Iyn})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"m":"İyn"}` {
		t.Fatalf("unexpected encoding %s", b)
	}
	var out map[string]Month
	if err := json.Unmarshal([]byte(`{"m":"Sentyabr"}`), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["m"] != Sen {
		t.Fatalf("expected Sen, got %v", out["m"])
	}
}

func TestPeriod(t *testing.T) {
	p, err := ParsePeriod("2024-03")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Year != 2024 || p.Month != Mar || p.String() != "2024-03" {
		t.Fatalf("unexpected period %+v", p)
	}
	if !p.Before(Period{Year: 2024, Month: Apr}) || p.Before(Period{Year: 2023, Month: Dek}) {
		t.Fatalf("unexpected ordering")
	}
	if _, err := ParsePeriod("2024-13"); err == nil {
		t.Fatalf("expected error for month 13")
	}
}

func TestParseKind(t *testing.T) {
	cases := map[string]PaymentKind{
		"tax":          KindTax,
		" Insurance ":  KindInsurance,
		"subscription": KindSubscription,
		"kommunal":     KindOther,
		"":             KindOther,
	}
	for in, want := range cases {
		if got := ParseKind(in); got != want {
			t.Errorf("ParseKind(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPaymentValidate(t *testing.T) {
	good := UpcomingPayment{Title: "Rent", DueDate: NewDate(2025, 12, 1), Kind: KindExpense}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (UpcomingPayment{DueDate: NewDate(2025, 12, 1)}).Validate(); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if err := (UpcomingPayment{Title: "x"}).Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestSnapshotCloneIsIndependent(t *testing.T) {
	s := Snapshot{Entries: []LedgerEntry{{Year: 2024, Month: Yan}}}
	c := s.Clone()
	c.Entries[0].Year = 1999
	if s.Entries[0].Year != 2024 {
		t.Fatalf("clone shares backing array")
	}
}
