package memory

import (
	"sync"
	"time"

	"github.com/vladislavdragonenkov/furniture-store/internal/domain"
)

// outboxRecord хранит сообщение и служебные поля для in-memory реализации.
type outboxRecord struct {
	msg        domain.OutboxMessage
	status     string
	attemptCnt int
	createdAt  time.Time
	updatedAt  time.Time
	seq        int64
}

// Store — in-memory аналог реляционной базы для локальной разработки
// и тестов. Все таблицы живут за одним мьютексом: это одновременно
// и сериализация конкурентных AddItem (аналог блокировки строки товара),
// и гарантия атомарности многошаговых мутаций.
type Store struct {
	mu sync.RWMutex

	categories map[int64]domain.Category
	products   map[int64]domain.Product
	customers  map[int64]domain.Customer
	orders     map[int64]domain.Order
	items      map[int64][]domain.OrderItem
	outbox     map[string]*outboxRecord

	categorySeq int64
	productSeq  int64
	customerSeq int64
	orderSeq    int64
	itemSeq     int64
	outboxSeq   int64
}

// NewStore создаёт пустое in-memory хранилище.
func NewStore() *Store {
	return &Store{
		categories: make(map[int64]domain.Category),
		products:   make(map[int64]domain.Product),
		customers:  make(map[int64]domain.Customer),
		orders:     make(map[int64]domain.Order),
		items:      make(map[int64][]domain.OrderItem),
		outbox:     make(map[string]*outboxRecord),
	}
}

// Categories возвращает представление хранилища категорий.
func (s *Store) Categories() domain.CategoryRepository { return &categoryView{store: s} }

// Products возвращает представление хранилища товаров.
func (s *Store) Products() domain.ProductRepository { return &productView{store: s} }

// Customers возвращает представление хранилища клиентов.
func (s *Store) Customers() domain.CustomerRepository { return &customerView{store: s} }

// Orders возвращает представление хранилища заказов.
func (s *Store) Orders() domain.OrderRepository { return &orderView{store: s} }

// Reports возвращает отчётные выборки поверх того же состояния.
func (s *Store) Reports() domain.ReportRepository { return &reportView{store: s} }

// Outbox возвращает представление transactional outbox.
func (s *Store) Outbox() domain.OutboxRepository { return &outboxView{store: s} }
