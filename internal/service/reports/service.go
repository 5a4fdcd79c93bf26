package reports

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/furniture-store/internal/domain"
	"github.com/vladislavdragonenkov/furniture-store/internal/metrics"
)

// Имена отчётов для лейбла метрики report.
const (
	reportSalesByCategory    = "sales_by_category"
	reportTopClients         = "top_clients"
	reportOrderDetails       = "order_details"
	reportProductsByCategory = "products_by_category"
	reportDuplicateEmails    = "duplicate_emails"
)

// Service выполняет отчётные выборки. Только чтение: ни одна операция
// не меняет состояние и не держит пишущих блокировок.
type Service struct {
	repo    domain.ReportRepository
	logger  *log.Entry
	metrics *metrics.StoreMetrics
}

// NewService создаёт отчётный сервис.
func NewService(repo domain.ReportRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "reports")
	}
	return &Service{
		repo:    repo,
		logger:  logger,
		metrics: metrics.NewStoreMetrics(),
	}
}

// NewServiceWithoutMetrics создаёт отчётный сервис без метрик (для тестов).
func NewServiceWithoutMetrics(repo domain.ReportRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "reports")
	}
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// SalesByCategory — продажи по категориям, убывание по выручке.
func (s *Service) SalesByCategory() ([]domain.CategorySales, error) {
	defer s.observe(reportSalesByCategory, time.Now())

	rows, err := s.repo.SalesByCategory()
	if err != nil {
		s.logger.WithError(err).Warn("sales by category report failed")
		return nil, err
	}
	return rows, nil
}

// TopClients — рейтинг клиентов по сумме покупок, не более limit строк.
func (s *Service) TopClients(limit int) ([]domain.CustomerSpending, error) {
	if limit <= 0 {
		return nil, domain.ErrLimitInvalid
	}
	defer s.observe(reportTopClients, time.Now())

	rows, err := s.repo.TopClients(limit)
	if err != nil {
		s.logger.WithError(err).WithField("limit", limit).Warn("top clients report failed")
		return nil, err
	}
	return rows, nil
}

// OrderDetails — заголовок заказа вместе с позициями.
func (s *Service) OrderDetails(orderID int64) (domain.OrderDetails, error) {
	defer s.observe(reportOrderDetails, time.Now())

	details, err := s.repo.OrderDetails(orderID)
	if err != nil {
		if !domain.IsNotFound(err) {
			s.logger.WithError(err).WithField("order_id", orderID).Warn("order details report failed")
		}
		return domain.OrderDetails{}, err
	}
	return details, nil
}

// ProductsByCategory — товары категории в наличии, по возрастанию цены.
func (s *Service) ProductsByCategory(categoryID int64) ([]domain.Product, error) {
	defer s.observe(reportProductsByCategory, time.Now())

	products, err := s.repo.ProductsByCategory(categoryID)
	if err != nil {
		s.logger.WithError(err).WithField("category_id", categoryID).Warn("products by category report failed")
		return nil, err
	}
	return products, nil
}

// DuplicateEmails — email, встречающиеся у двух и более клиентов.
func (s *Service) DuplicateEmails() ([]domain.DuplicateEmail, error) {
	defer s.observe(reportDuplicateEmails, time.Now())

	rows, err := s.repo.DuplicateEmails()
	if err != nil {
		s.logger.WithError(err).Warn("duplicate emails report failed")
		return nil, err
	}
	return rows, nil
}

func (s *Service) observe(report string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordReportDuration(report, time.Since(start))
	}
}
