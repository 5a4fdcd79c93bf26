package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/furniture-store/internal/domain"
	"github.com/vladislavdragonenkov/furniture-store/internal/storage/postgres"
)

// Тестовые данные магазина: категории, товары и клиенты для локальной
// разработки и демонстрации отчётов.
var (
	seedCategories = []domain.Category{
		{Name: "Диваны"},
		{Name: "Столы"},
		{Name: "Кресла"},
		{Name: "Шкафы"},
	}

	// CategoryID — индекс в seedCategories, подменяется на реальный ID.
	seedProducts = []domain.Product{
		{Name: "Диван Лофт", CategoryID: 0, PriceMinor: 2500000, Stock: 5, Material: "рогожка"},
		{Name: "Диван Скандинавия", CategoryID: 0, PriceMinor: 3200000, Stock: 3, Material: "велюр"},
		{Name: "Стол обеденный Дуб", CategoryID: 1, PriceMinor: 1200000, Stock: 7, Material: "дуб"},
		{Name: "Стол журнальный", CategoryID: 1, PriceMinor: 450000, Stock: 12, Material: "стекло"},
		{Name: "Кресло Комфорт", CategoryID: 2, PriceMinor: 1500000, Stock: 4, Material: "экокожа"},
		{Name: "Шкаф-купе Классик", CategoryID: 3, PriceMinor: 4100000, Stock: 2, Material: "ЛДСП"},
	}

	seedCustomers = []domain.Customer{
		{FirstName: "Анна", LastName: "Смирнова", Email: "anna@example.com", Phone: "+7 901 111-22-33", Address: "Москва, Тверская 1"},
		{FirstName: "Борис", LastName: "Ковалёв", Email: "boris@example.com", Phone: "+7 902 222-33-44", Address: "Казань, Баумана 10"},
		{FirstName: "Вера", LastName: "Лебедева", Email: "vera@example.com", Phone: "+7 903 333-44-55", Address: "Новосибирск, Ленина 5"},
	}
)

func main() {
	_ = godotenv.Load()
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	dsn := os.Getenv("FURNSTORE_DATABASE_DSN")
	if dsn == "" {
		log.Fatal("FURNSTORE_DATABASE_DSN обязателен для наполнения базы")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		log.WithError(err).Fatal("не удалось подключиться к базе данных")
	}
	defer func() { _ = store.Close() }()

	if err := store.EnsureSchema(ctx); err != nil {
		log.WithError(err).Fatal("не удалось применить схему")
	}

	categories := postgres.NewCategoryRepository(store)
	products := postgres.NewProductRepository(store)
	customers := postgres.NewCustomerRepository(store)

	categoryIDs := make([]int64, 0, len(seedCategories))
	for _, category := range seedCategories {
		created, err := categories.Create(category)
		if err != nil {
			log.WithError(err).WithField("category", category.Name).Fatal("не удалось создать категорию")
		}
		categoryIDs = append(categoryIDs, created.ID)
	}

	for _, product := range seedProducts {
		product.CategoryID = categoryIDs[product.CategoryID]
		if _, err := products.Create(product); err != nil {
			log.WithError(err).WithField("product", product.Name).Fatal("не удалось создать товар")
		}
	}

	for _, customer := range seedCustomers {
		if _, err := customers.Create(customer); err != nil {
			log.WithError(err).WithField("email", customer.Email).Fatal("не удалось создать клиента")
		}
	}

	log.WithFields(log.Fields{
		"categories": len(seedCategories),
		"products":   len(seedProducts),
		"customers":  len(seedCustomers),
	}).Info("база наполнена тестовыми данными")
}
