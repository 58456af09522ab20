package view

import (
	"sort"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/omd/internal/domain"
)

// Filter возвращает новый срез заказов, прошедших все активные предикаты,
// отсортированный по spec. Чистая функция: входной срез не изменяется.
//
// Предикаты объединяются по AND; текстовые сравнения — подстрока без учёта
// регистра. Фильтр по статусу применяется только к филиальному списку:
// у pending-заказов поля статуса нет.
func Filter(orders []domain.Order, mode domain.ViewMode, criteria domain.FilterOptions, spec domain.SortSpec) []domain.Order {
	result := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		if matches(order, mode, criteria) {
			result = append(result, order)
		}
	}
	sortOrders(result, spec)
	return result
}

func matches(order domain.Order, mode domain.ViewMode, criteria domain.FilterOptions) bool {
	if !matchesSearch(order, criteria.Search) {
		return false
	}
	if !containsFold(order.CustomerName, criteria.CustomerName) {
		return false
	}
	if !containsFold(order.TableName, criteria.TableName) {
		return false
	}
	if criteria.OrderType != "" &&
		!containsFold(order.OrderTypeName, criteria.OrderType) &&
		!containsFold(order.OrderTypeCode, criteria.OrderType) {
		return false
	}
	if mode == domain.ViewModeBranch && !matchesStatus(order, criteria.Status) {
		return false
	}
	if !matchesDateRange(order.CreatedAt, criteria.DateFrom, criteria.DateTo) {
		return false
	}
	if criteria.PriceMin != nil && order.TotalMinor < *criteria.PriceMin {
		return false
	}
	if criteria.PriceMax != nil && order.TotalMinor > *criteria.PriceMax {
		return false
	}
	return true
}

// matchesSearch — дизъюнкция: достаточно совпадения по любому из четырёх полей.
func matchesSearch(order domain.Order, search string) bool {
	if search == "" {
		return true
	}
	return containsFold(order.CustomerName, search) ||
		containsFold(order.Tag, search) ||
		containsFold(order.TableName, search) ||
		containsFold(order.Notes, search)
}

func matchesStatus(order domain.Order, filter domain.StatusFilter) bool {
	if filter == "" || filter == domain.StatusFilterAll {
		return true
	}
	return string(order.Status) == string(filter)
}

// matchesDateRange проверяет включительный диапазон: начало приводится к началу
// суток, конец — к 23:59:59.999999999 того же календарного дня.
func matchesDateRange(createdAt time.Time, from, to *time.Time) bool {
	if from != nil {
		start := startOfDay(*from)
		if createdAt.Before(start) {
			return false
		}
	}
	if to != nil {
		end := startOfDay(*to).AddDate(0, 0, 1).Add(-time.Nanosecond)
		if createdAt.After(end) {
			return false
		}
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// sortOrders сортирует срез на месте стабильно; неизвестное поле — no-op.
func sortOrders(orders []domain.Order, spec domain.SortSpec) {
	var less func(a, b domain.Order) bool

	switch spec.Field {
	case domain.SortFieldCustomerName:
		less = func(a, b domain.Order) bool {
			return strings.ToLower(a.CustomerName) < strings.ToLower(b.CustomerName)
		}
	case domain.SortFieldTotalPrice:
		less = func(a, b domain.Order) bool {
			return a.TotalMinor < b.TotalMinor
		}
	case domain.SortFieldCreatedAt:
		less = func(a, b domain.Order) bool {
			return a.CreatedAt.Before(b.CreatedAt)
		}
	default:
		return
	}

	sort.SliceStable(orders, func(i, j int) bool {
		if spec.Direction == domain.SortDesc {
			return less(orders[j], orders[i])
		}
		return less(orders[i], orders[j])
	})
}
