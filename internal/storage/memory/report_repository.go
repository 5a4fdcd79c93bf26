package memory

import (
	"sort"

	"github.com/vladislavdragonenkov/furniture-store/internal/domain"
)

// reportView — отчётные выборки над in-memory состоянием.
// Семантика согласована с SQL-агрегатами PostgreSQL-реализации.
type reportView struct {
	store *Store
}

func (v *reportView) SalesByCategory() ([]domain.CategorySales, error) {
	s := v.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	type bucket struct {
		orders   map[int64]struct{}
		quantity int64
		revenue  int64
		priceSum int64
		rows     int64
	}
	buckets := make(map[string]*bucket)

	for orderID, items := range s.items {
		order, ok := s.orders[orderID]
		if !ok || order.Status == domain.OrderStatusCancelled {
			continue
		}
		for _, item := range items {
			product, ok := s.products[item.ProductID]
			if !ok {
				continue
			}
			category := s.categories[product.CategoryID].Name
			b, ok := buckets[category]
			if !ok {
				b = &bucket{orders: make(map[int64]struct{})}
				buckets[category] = b
			}
			b.orders[orderID] = struct{}{}
			b.quantity += int64(item.Quantity)
			b.revenue += item.SubtotalMinor
			b.priceSum += item.UnitPriceMinor
			b.rows++
		}
	}

	result := make([]domain.CategorySales, 0, len(buckets))
	for category, b := range buckets {
		// Категории без выручки исключаются, как HAVING SUM(...) > 0.
		if b.revenue <= 0 {
			continue
		}
		result = append(result, domain.CategorySales{
			Category:          category,
			OrderCount:        len(b.orders),
			QuantitySold:      b.quantity,
			RevenueMinor:      b.revenue,
			AvgUnitPriceMinor: float64(b.priceSum) / float64(b.rows),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].RevenueMinor != result[j].RevenueMinor {
			return result[i].RevenueMinor > result[j].RevenueMinor
		}
		return result[i].Category < result[j].Category
	})

	return result, nil
}

func (v *reportView) TopClients(limit int) ([]domain.CustomerSpending, error) {
	s := v.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		return nil, domain.ErrLimitInvalid
	}

	result := make([]domain.CustomerSpending, 0, len(s.customers))
	for _, customer := range s.customers {
		row := domain.CustomerSpending{Customer: customer}
		for _, order := range s.orders {
			if order.CustomerID != customer.ID || order.Status == domain.OrderStatusCancelled {
				continue
			}
			row.OrderCount++
			row.SpentMinor += order.TotalMinor
		}
		result = append(result, row)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].SpentMinor != result[j].SpentMinor {
			return result[i].SpentMinor > result[j].SpentMinor
		}
		return result[i].Customer.ID < result[j].Customer.ID
	})

	if len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func (v *reportView) OrderDetails(orderID int64) (domain.OrderDetails, error) {
	s := v.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[orderID]
	if !ok {
		return domain.OrderDetails{}, domain.ErrOrderNotFound
	}

	items := make([]domain.OrderItem, 0, len(s.items[orderID]))
	items = append(items, s.items[orderID]...)

	return domain.OrderDetails{Order: order, Items: items}, nil
}

func (v *reportView) ProductsByCategory(categoryID int64) ([]domain.Product, error) {
	s := v.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Product, 0)
	for _, product := range s.products {
		if product.CategoryID != categoryID || product.Stock <= 0 {
			continue
		}
		result = append(result, product)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].PriceMinor != result[j].PriceMinor {
			return result[i].PriceMinor < result[j].PriceMinor
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (v *reportView) DuplicateEmails() ([]domain.DuplicateEmail, error) {
	s := v.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, customer := range s.customers {
		counts[customer.Email]++
	}

	result := make([]domain.DuplicateEmail, 0)
	for email, count := range counts {
		if count >= 2 {
			result = append(result, domain.DuplicateEmail{Email: email, Count: count})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Email < result[j].Email
	})

	return result, nil
}

var _ domain.ReportRepository = (*reportView)(nil)
