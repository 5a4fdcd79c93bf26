package memory

import (
	"sort"

	"github.com/vladislavdragonenkov/furniture-store/internal/domain"
)

// customerView — in-memory реализация CustomerRepository.
// Повторяющиеся email допускаются, как и в реляционной схеме.
type customerView struct {
	store *Store
}

func (v *customerView) Create(customer domain.Customer) (domain.Customer, error) {
	s := v.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.customerSeq++
	customer.ID = s.customerSeq
	s.customers[customer.ID] = customer
	return customer, nil
}

func (v *customerView) Get(id int64) (domain.Customer, error) {
	s := v.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	customer, ok := s.customers[id]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return customer, nil
}

func (v *customerView) List() ([]domain.Customer, error) {
	s := v.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Customer, 0, len(s.customers))
	for _, customer := range s.customers {
		result = append(result, customer)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

var _ domain.CustomerRepository = (*customerView)(nil)
