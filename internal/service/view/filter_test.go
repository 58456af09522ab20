package view_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/omd/internal/domain"
	"github.com/vladislavdragonenkov/omd/internal/service/view"
)

var baseTime = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func sampleOrders() []domain.Order {
	return []domain.Order{
		{
			Kind:         domain.OrderKindBranch,
			Tag:          "ord-001",
			CustomerName: "Maria Lopez",
			TotalMinor:   4500,
			CreatedAt:    baseTime,
			TableName:    "Table 3",
			Notes:        "no onions",
			Status:       domain.OrderStatusConfirmed,
		},
		{
			Kind:          domain.OrderKindBranch,
			Tag:           "ord-002",
			CustomerName:  "Ivan Petrov",
			TotalMinor:    1200,
			CreatedAt:     baseTime.Add(-48 * time.Hour),
			TableName:     "Table 7",
			Status:        domain.OrderStatusPreparing,
			OrderTypeName: "Takeaway",
			OrderTypeCode: "TA",
		},
		{
			Kind:         domain.OrderKindBranch,
			Tag:          "ord-003",
			CustomerName: "Anna Schmidt",
			TotalMinor:   9900,
			CreatedAt:    baseTime.Add(-2 * time.Hour),
			Notes:        "ask for Maria at the counter",
			Status:       domain.OrderStatusReady,
		},
	}
}

func TestFilter_DefaultsKeepEverything(t *testing.T) {
	orders := sampleOrders()

	got := view.Filter(orders, domain.ViewModeBranch, domain.DefaultFilters(), domain.SortSpec{})
	if len(got) != len(orders) {
		t.Fatalf("expected all %d orders, got %d", len(orders), len(got))
	}
}

func TestFilter_DefaultsOnlyReorder(t *testing.T) {
	orders := sampleOrders()
	spec := domain.SortSpec{Field: domain.SortFieldTotalPrice, Direction: domain.SortAsc}

	got := view.Filter(orders, domain.ViewModeBranch, domain.DefaultFilters(), spec)
	if len(got) != len(orders) {
		t.Fatalf("expected all orders, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].TotalMinor > got[i].TotalMinor {
			t.Fatalf("expected ascending price order, got %d before %d", got[i-1].TotalMinor, got[i].TotalMinor)
		}
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	orders := sampleOrders()
	firstTag := orders[0].Tag

	view.Filter(orders, domain.ViewModeBranch, domain.DefaultFilters(),
		domain.SortSpec{Field: domain.SortFieldCustomerName, Direction: domain.SortAsc})

	if orders[0].Tag != firstTag {
		t.Fatal("input slice order must stay untouched")
	}
}

func TestFilter_SearchIsDisjunctionAcrossFields(t *testing.T) {
	criteria := domain.DefaultFilters()
	criteria.Search = "maria"

	// "maria" встречается в имени первого заказа и в заметках третьего.
	got := view.Filter(sampleOrders(), domain.ViewModeBranch, criteria, domain.SortSpec{})
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
}

func TestFilter_SearchMatchesTagAndTable(t *testing.T) {
	criteria := domain.DefaultFilters()
	criteria.Search = "ORD-002"

	got := view.Filter(sampleOrders(), domain.ViewModeBranch, criteria, domain.SortSpec{})
	if len(got) != 1 || got[0].Tag != "ord-002" {
		t.Fatalf("expected tag match for ord-002, got %v", got)
	}

	criteria.Search = "table 7"
	got = view.Filter(sampleOrders(), domain.ViewModeBranch, criteria, domain.SortSpec{})
	if len(got) != 1 || got[0].Tag != "ord-002" {
		t.Fatalf("expected table match for ord-002, got %v", got)
	}
}

func TestFilter_StatusAppliesOnlyToBranchMode(t *testing.T) {
	criteria := domain.DefaultFilters()
	criteria.Status = domain.StatusFilter(domain.OrderStatusReady)

	branch := view.Filter(sampleOrders(), domain.ViewModeBranch, criteria, domain.SortSpec{})
	if len(branch) != 1 || branch[0].Tag != "ord-003" {
		t.Fatalf("expected single ready order, got %v", branch)
	}

	// В pending-режиме статус фильтровать не по чему: ограничение игнорируется.
	pending := view.Filter(sampleOrders(), domain.ViewModePending, criteria, domain.SortSpec{})
	if len(pending) != 3 {
		t.Fatalf("expected status filter to be ignored in pending mode, got %d", len(pending))
	}
}

func TestFilter_DateRangeEndIsInclusiveWholeDay(t *testing.T) {
	day := baseTime.Truncate(24 * time.Hour)
	orders := []domain.Order{
		{Tag: "early", CreatedAt: day.Add(1 * time.Minute)},
		{Tag: "late", CreatedAt: day.Add(23*time.Hour + 59*time.Minute)},
		{Tag: "next-day", CreatedAt: day.Add(24*time.Hour + time.Minute)},
	}

	criteria := domain.DefaultFilters()
	criteria.DateFrom = &day
	criteria.DateTo = &day

	got := view.Filter(orders, domain.ViewModePending, criteria, domain.SortSpec{})
	if len(got) != 2 {
		t.Fatalf("expected both same-day orders, got %d", len(got))
	}
	for _, order := range got {
		if order.Tag == "next-day" {
			t.Fatal("order from the next day must be excluded")
		}
	}
}

func TestFilter_PriceBoundsAreIndependent(t *testing.T) {
	min := int64(2000)
	criteria := domain.DefaultFilters()
	criteria.PriceMin = &min

	got := view.Filter(sampleOrders(), domain.ViewModeBranch, criteria, domain.SortSpec{})
	for _, order := range got {
		if order.TotalMinor < min {
			t.Fatalf("order %s below price minimum slipped through", order.Tag)
		}
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 orders above minimum, got %d", len(got))
	}

	max := int64(5000)
	criteria = domain.DefaultFilters()
	criteria.PriceMax = &max
	got = view.Filter(sampleOrders(), domain.ViewModeBranch, criteria, domain.SortSpec{})
	if len(got) != 2 {
		t.Fatalf("expected 2 orders below maximum, got %d", len(got))
	}
}

func TestFilter_OrderTypeMatchesNameOrCode(t *testing.T) {
	criteria := domain.DefaultFilters()
	criteria.OrderType = "takeaway"

	got := view.Filter(sampleOrders(), domain.ViewModeBranch, criteria, domain.SortSpec{})
	if len(got) != 1 || got[0].Tag != "ord-002" {
		t.Fatalf("expected type-name match, got %v", got)
	}

	criteria.OrderType = "ta"
	got = view.Filter(sampleOrders(), domain.ViewModeBranch, criteria, domain.SortSpec{})
	if len(got) != 1 || got[0].Tag != "ord-002" {
		t.Fatalf("expected type-code match, got %v", got)
	}
}

func TestFilter_ConjunctionOfPredicates(t *testing.T) {
	min := int64(5000)
	criteria := domain.DefaultFilters()
	criteria.Search = "maria"
	criteria.PriceMin = &min

	// По search проходят два заказа, но ценовой порог оставляет один.
	got := view.Filter(sampleOrders(), domain.ViewModeBranch, criteria, domain.SortSpec{})
	if len(got) != 1 || got[0].Tag != "ord-003" {
		t.Fatalf("expected only ord-003, got %v", got)
	}
}

func TestFilter_SortByCustomerNameIsCaseInsensitive(t *testing.T) {
	orders := []domain.Order{
		{Tag: "b", CustomerName: "zoe"},
		{Tag: "a", CustomerName: "Adam"},
		{Tag: "c", CustomerName: "maria"},
	}
	spec := domain.SortSpec{Field: domain.SortFieldCustomerName, Direction: domain.SortAsc}

	got := view.Filter(orders, domain.ViewModePending, domain.DefaultFilters(), spec)
	want := []string{"Adam", "maria", "zoe"}
	for i, name := range want {
		if got[i].CustomerName != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, got[i].CustomerName)
		}
	}
}

func TestFilter_SortByCreatedAtDesc(t *testing.T) {
	spec := domain.SortSpec{Field: domain.SortFieldCreatedAt, Direction: domain.SortDesc}

	got := view.Filter(sampleOrders(), domain.ViewModeBranch, domain.DefaultFilters(), spec)
	for i := 1; i < len(got); i++ {
		if got[i-1].CreatedAt.Before(got[i].CreatedAt) {
			t.Fatal("expected newest orders first")
		}
	}
}

func TestFilter_UnknownSortFieldKeepsOrder(t *testing.T) {
	orders := sampleOrders()
	spec := domain.SortSpec{Field: domain.SortField("priority"), Direction: domain.SortAsc}

	got := view.Filter(orders, domain.ViewModeBranch, domain.DefaultFilters(), spec)
	for i := range orders {
		if got[i].Tag != orders[i].Tag {
			t.Fatal("unknown sort field must not reorder the result")
		}
	}
}
