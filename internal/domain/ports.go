package domain

import "time"

// CategoryRepository описывает требования к хранилищу категорий.
type CategoryRepository interface {
	// Create сохраняет категорию и возвращает её с присвоенным ID.
	Create(category Category) (Category, error)
	// List возвращает все категории по возрастанию ID.
	List() ([]Category, error)
}

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	// Create сохраняет товар и возвращает его с присвоенным ID.
	// Возвращает ErrCategoryNotFound при ссылке на несуществующую категорию.
	Create(product Product) (Product, error)
	// Get возвращает товар по идентификатору или ErrProductNotFound.
	Get(id int64) (Product, error)
	// List возвращает каталог с именем категории и остатком.
	List() ([]Product, error)
}

// CustomerRepository описывает требования к хранилищу клиентов.
type CustomerRepository interface {
	// Create сохраняет клиента и возвращает его с присвоенным ID.
	// Дубликаты email допускаются сознательно.
	Create(customer Customer) (Customer, error)
	// Get возвращает клиента по идентификатору или ErrCustomerNotFound.
	Get(id int64) (Customer, error)
	// List возвращает всех клиентов по возрастанию ID.
	List() ([]Customer, error)
}

// OrderRepository описывает требования к хранилищу заказов.
// Мутации атомарны: позиция, пересчёт суммы и списание остатка
// либо применяются вместе, либо не применяются вовсе.
type OrderRepository interface {
	// Create открывает заказ со статусом pending и нулевой суммой.
	// Возвращает ErrCustomerNotFound, если клиента не существует.
	Create(customerID int64, shippingAddress string) (Order, error)
	// Get возвращает заголовок заказа или ErrOrderNotFound.
	Get(id int64) (Order, error)
	// AddItem добавляет позицию с фиксацией текущей цены товара:
	// проверка остатка, вставка позиции, пересчёт суммы заказа и
	// списание остатка выполняются в одной транзакции.
	// Возвращает ErrInsufficientStock без каких-либо побочных эффектов,
	// если остатка не хватает.
	AddItem(orderID, productID int64, quantity int32) (OrderItem, error)
	// UpdateStatus выставляет новый статус или возвращает ErrOrderNotFound.
	UpdateStatus(orderID int64, status OrderStatus) error
	// ListByCustomer возвращает заказы клиента, новые первыми.
	ListByCustomer(customerID int64, limit int) ([]Order, error)
}

// ReportRepository описывает отчётные выборки. Только чтение:
// реализации не имеют права открывать пишущую транзакцию.
type ReportRepository interface {
	// SalesByCategory возвращает продажи по категориям, убывание по выручке.
	// Категории без выручки (в том числе только с отменёнными заказами)
	// исключаются.
	SalesByCategory() ([]CategorySales, error)
	// TopClients возвращает не более limit клиентов, убывание по сумме
	// покупок; порядок при равных суммах не специфицирован.
	TopClients(limit int) ([]CustomerSpending, error)
	// OrderDetails возвращает заказ с позициями или ErrOrderNotFound.
	OrderDetails(orderID int64) (OrderDetails, error)
	// ProductsByCategory возвращает товары категории с положительным
	// остатком, по возрастанию цены.
	ProductsByCategory(categoryID int64) ([]Product, error)
	// DuplicateEmails возвращает email, встречающиеся у >= 2 клиентов.
	DuplicateEmails() ([]DuplicateEmail, error)
}

// OutboxMessage хранит данные события для публикации.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}

// OutboxRepository читает события, записанные мутациями заказов.
// Запись в outbox выполняет OrderRepository внутри своих транзакций.
type OutboxRepository interface {
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}
