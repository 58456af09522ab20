package view_test

import (
	"fmt"
	"testing"

	"github.com/vladislavdragonenkov/omd/internal/domain"
	"github.com/vladislavdragonenkov/omd/internal/service/view"
)

func numberedOrders(n int) []domain.Order {
	orders := make([]domain.Order, 0, n)
	for i := 0; i < n; i++ {
		orders = append(orders, domain.Order{Tag: fmt.Sprintf("ord-%03d", i)})
	}
	return orders
}

func TestPaginate_SlicesCurrentPage(t *testing.T) {
	orders := numberedOrders(25)
	p := domain.NewPagination(10)
	p.Recalculate(len(orders))
	p.SetPage(2)

	page := view.Paginate(orders, p)
	if len(page) != 10 {
		t.Fatalf("expected 10 items, got %d", len(page))
	}
	if page[0].Tag != "ord-010" {
		t.Fatalf("expected page to start at ord-010, got %s", page[0].Tag)
	}
}

func TestPaginate_LastPageIsShort(t *testing.T) {
	orders := numberedOrders(25)
	p := domain.NewPagination(10)
	p.Recalculate(len(orders))
	p.SetPage(3)

	page := view.Paginate(orders, p)
	if len(page) != 5 {
		t.Fatalf("expected 5 items on the last page, got %d", len(page))
	}
}

func TestPaginate_EmptyInput(t *testing.T) {
	p := domain.NewPagination(10)
	p.Recalculate(0)

	page := view.Paginate(nil, p)
	if len(page) != 0 {
		t.Fatalf("expected empty page, got %d items", len(page))
	}
}

func TestPaginate_Idempotent(t *testing.T) {
	orders := numberedOrders(25)
	p := domain.NewPagination(10)
	p.Recalculate(len(orders))
	p.SetPage(2)

	first := view.Paginate(orders, p)
	second := view.Paginate(orders, p)

	if len(first) != len(second) {
		t.Fatalf("expected identical output lengths, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Tag != second[i].Tag {
			t.Fatalf("position %d differs between calls", i)
		}
	}
}

func TestPaginate_ReturnsCopy(t *testing.T) {
	orders := numberedOrders(5)
	p := domain.NewPagination(10)
	p.Recalculate(len(orders))

	page := view.Paginate(orders, p)
	page[0].Tag = "mutated"

	if orders[0].Tag == "mutated" {
		t.Fatal("paginate must not alias the source slice")
	}
}
