package domain

// Pagination хранит счётчики постраничного отображения.
// Инвариант: CurrentPage всегда лежит в [1, TotalPages], TotalPages >= 1.
type Pagination struct {
	CurrentPage  int
	ItemsPerPage int
	TotalItems   int
	TotalPages   int
}

const defaultItemsPerPage = 10

// NewPagination возвращает состояние первой страницы с заданным размером.
func NewPagination(itemsPerPage int) Pagination {
	if itemsPerPage <= 0 {
		itemsPerPage = defaultItemsPerPage
	}
	return Pagination{
		CurrentPage:  1,
		ItemsPerPage: itemsPerPage,
		TotalItems:   0,
		TotalPages:   1,
	}
}

// Recalculate пересчитывает TotalPages под новое количество элементов
// и прижимает CurrentPage к допустимому диапазону.
func (p *Pagination) Recalculate(totalItems int) {
	if totalItems < 0 {
		totalItems = 0
	}
	if p.ItemsPerPage <= 0 {
		p.ItemsPerPage = defaultItemsPerPage
	}

	p.TotalItems = totalItems
	p.TotalPages = (totalItems + p.ItemsPerPage - 1) / p.ItemsPerPage
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
	if p.CurrentPage > p.TotalPages {
		p.CurrentPage = p.TotalPages
	}
	if p.CurrentPage < 1 {
		p.CurrentPage = 1
	}
}

// SetPage переходит на страницу n, предварительно прижав её к [1, TotalPages].
func (p *Pagination) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	if n > p.TotalPages {
		n = p.TotalPages
	}
	p.CurrentPage = n
}

// SetItemsPerPage меняет размер страницы и сбрасывает позицию на первую страницу:
// прежний номер страницы при другом размере теряет смысл.
func (p *Pagination) SetItemsPerPage(n int) {
	if n <= 0 {
		n = defaultItemsPerPage
	}
	p.ItemsPerPage = n
	p.CurrentPage = 1
	p.Recalculate(p.TotalItems)
}
