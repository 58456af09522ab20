package view

import "github.com/vladislavdragonenkov/omd/internal/domain"

// Paginate возвращает срез filtered, соответствующий текущей странице.
// Используется только для pending-режима: филиальный список уже приходит
// постранично с сервера, и для него slice-операция не нужна.
func Paginate(filtered []domain.Order, p domain.Pagination) []domain.Order {
	if p.ItemsPerPage <= 0 {
		return nil
	}

	start := (p.CurrentPage - 1) * p.ItemsPerPage
	if start < 0 || start >= len(filtered) {
		return []domain.Order{}
	}
	end := start + p.ItemsPerPage
	if end > len(filtered) {
		end = len(filtered)
	}

	page := make([]domain.Order, end-start)
	copy(page, filtered[start:end])
	return page
}
