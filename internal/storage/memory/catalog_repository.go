package memory

import (
	"sort"

	"github.com/vladislavdragonenkov/furniture-store/internal/domain"
)

// categoryView — in-memory реализация CategoryRepository.
type categoryView struct {
	store *Store
}

func (v *categoryView) Create(category domain.Category) (domain.Category, error) {
	s := v.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categorySeq++
	category.ID = s.categorySeq
	s.categories[category.ID] = category
	return category, nil
}

func (v *categoryView) List() ([]domain.Category, error) {
	s := v.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Category, 0, len(s.categories))
	for _, category := range s.categories {
		result = append(result, category)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// productView — in-memory реализация ProductRepository.
type productView struct {
	store *Store
}

func (v *productView) Create(product domain.Product) (domain.Product, error) {
	s := v.store
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories[product.CategoryID]
	if !ok {
		return domain.Product{}, domain.ErrCategoryNotFound
	}

	s.productSeq++
	product.ID = s.productSeq
	product.CategoryName = category.Name
	s.products[product.ID] = product
	return product, nil
}

func (v *productView) Get(id int64) (domain.Product, error) {
	s := v.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

func (v *productView) List() ([]domain.Product, error) {
	s := v.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Product, 0, len(s.products))
	for _, product := range s.products {
		result = append(result, product)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

var (
	_ domain.CategoryRepository = (*categoryView)(nil)
	_ domain.ProductRepository  = (*productView)(nil)
)
