package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/furniture-store/internal/domain"
	"github.com/vladislavdragonenkov/furniture-store/internal/service/orders"
	"github.com/vladislavdragonenkov/furniture-store/internal/service/reports"
)

// Deps — сервисы и справочники, которыми управляет консоль.
type Deps struct {
	Orders     *orders.Service
	Reports    *reports.Service
	Products   domain.ProductRepository
	Customers  domain.CustomerRepository
	Categories domain.CategoryRepository
}

// Shell — консольное меню магазина поверх сервисного слоя.
type Shell struct {
	in     *bufio.Scanner
	out    io.Writer
	logger *log.Entry
	deps   Deps
}

// NewShell создаёт консоль поверх произвольных reader/writer,
// чтобы тесты могли скриптовать ввод.
func NewShell(in io.Reader, out io.Writer, deps Deps) *Shell {
	return &Shell{
		in:     bufio.NewScanner(in),
		out:    out,
		logger: log.WithField("component", "shell"),
		deps:   deps,
	}
}

// Run запускает цикл меню до выбора «Выход», конца ввода или отмены ctx.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "========================================")
	fmt.Fprintln(s.out, "    СИСТЕМА УПРАВЛЕНИЯ МАГАЗИНОМ МЕБЕЛИ")
	fmt.Fprintln(s.out, "========================================")

	for {
		if ctx.Err() != nil {
			return nil
		}

		s.printMenu()
		choice, ok := s.readLine("Выберите действие: ")
		if !ok {
			return nil
		}

		switch strings.TrimSpace(choice) {
		case "1":
			s.showProducts()
		case "2":
			s.showCustomers()
		case "3":
			s.createOrder()
		case "4":
			s.addLineItem()
		case "5":
			s.updateStatus()
		case "6":
			s.customerOrders()
		case "7":
			s.salesByCategory()
		case "8":
			s.topClients()
		case "9":
			s.orderDetails()
		case "10":
			s.productsByCategory()
		case "11":
			s.duplicateEmails()
		case "0":
			fmt.Fprintln(s.out, "Выход из программы. До свидания!")
			return nil
		default:
			fmt.Fprintln(s.out, "Неверный выбор. Попробуйте снова.")
		}
	}
}

func (s *Shell) printMenu() {
	fmt.Fprintln(s.out, "\n========== МЕНЮ ==========")
	fmt.Fprintln(s.out, " 1. Показать все товары")
	fmt.Fprintln(s.out, " 2. Показать всех клиентов")
	fmt.Fprintln(s.out, " 3. Открыть заказ")
	fmt.Fprintln(s.out, " 4. Добавить позицию в заказ")
	fmt.Fprintln(s.out, " 5. Изменить статус заказа")
	fmt.Fprintln(s.out, " 6. Заказы клиента")
	fmt.Fprintln(s.out, " 7. Отчёт: продажи по категориям")
	fmt.Fprintln(s.out, " 8. Отчёт: лучшие клиенты")
	fmt.Fprintln(s.out, " 9. Отчёт: состав заказа")
	fmt.Fprintln(s.out, "10. Товары категории в наличии")
	fmt.Fprintln(s.out, "11. Повторяющиеся email клиентов")
	fmt.Fprintln(s.out, " 0. Выход")
}

func (s *Shell) showProducts() {
	products, err := s.deps.Products.List()
	if err != nil {
		s.printError(err)
		return
	}

	fmt.Fprintln(s.out, "\n--- СПИСОК ТОВАРОВ ---")
	w := s.table()
	fmt.Fprintln(w, "ID\tНазвание\tКатегория\tЦена\tОстаток")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n",
			p.ID, p.Name, p.CategoryName, FormatMoney(p.PriceMinor), p.Stock)
	}
	_ = w.Flush()
}

func (s *Shell) showCustomers() {
	customers, err := s.deps.Customers.List()
	if err != nil {
		s.printError(err)
		return
	}

	fmt.Fprintln(s.out, "\n--- СПИСОК КЛИЕНТОВ ---")
	w := s.table()
	fmt.Fprintln(w, "ID\tИмя\tEmail\tТелефон")
	for _, c := range customers {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.ID, c.FullName(), c.Email, c.Phone)
	}
	_ = w.Flush()
}

func (s *Shell) createOrder() {
	customerID, ok := s.readInt64("ID клиента: ")
	if !ok {
		return
	}
	address, ok := s.readLine("Адрес доставки: ")
	if !ok {
		return
	}

	order, err := s.deps.Orders.CreateOrder(customerID, strings.TrimSpace(address))
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.out, "Заказ №%d открыт (статус %s).\n", order.ID, order.Status)
}

func (s *Shell) addLineItem() {
	orderID, ok := s.readInt64("ID заказа: ")
	if !ok {
		return
	}
	productID, ok := s.readInt64("ID товара: ")
	if !ok {
		return
	}
	quantity, ok := s.readInt32("Количество: ")
	if !ok {
		return
	}

	item, err := s.deps.Orders.AddLineItem(orderID, productID, quantity)
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.out, "Позиция добавлена: %s × %d по %s, сумма %s.\n",
		item.ProductName, item.Quantity, FormatMoney(item.UnitPriceMinor), FormatMoney(item.SubtotalMinor))
}

func (s *Shell) updateStatus() {
	orderID, ok := s.readInt64("ID заказа: ")
	if !ok {
		return
	}
	status, ok := s.readLine("Новый статус (pending/processing/shipped/delivered/cancelled): ")
	if !ok {
		return
	}

	if err := s.deps.Orders.UpdateStatus(orderID, strings.TrimSpace(status)); err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintln(s.out, "Статус обновлён.")
}

func (s *Shell) customerOrders() {
	customerID, ok := s.readInt64("ID клиента: ")
	if !ok {
		return
	}

	list, err := s.deps.Orders.ListByCustomer(customerID, 50)
	if err != nil {
		s.printError(err)
		return
	}

	fmt.Fprintln(s.out, "\n--- ЗАКАЗЫ КЛИЕНТА ---")
	w := s.table()
	fmt.Fprintln(w, "ID\tСтатус\tСумма\tСоздан")
	for _, o := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			o.ID, o.Status, FormatMoney(o.TotalMinor), o.CreatedAt.Format("2006-01-02 15:04"))
	}
	_ = w.Flush()
}

func (s *Shell) salesByCategory() {
	rows, err := s.deps.Reports.SalesByCategory()
	if err != nil {
		s.printError(err)
		return
	}

	fmt.Fprintln(s.out, "\n--- ПРОДАЖИ ПО КАТЕГОРИЯМ ---")
	w := s.table()
	fmt.Fprintln(w, "Категория\tЗаказов\tПродано\tВыручка\tСредняя цена")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%.2f\n",
			r.Category, r.OrderCount, r.QuantitySold, FormatMoney(r.RevenueMinor), r.AvgUnitPriceMinor/100)
	}
	_ = w.Flush()
}

func (s *Shell) topClients() {
	limit, ok := s.readInt64("Сколько клиентов показать: ")
	if !ok {
		return
	}

	rows, err := s.deps.Reports.TopClients(int(limit))
	if err != nil {
		s.printError(err)
		return
	}

	fmt.Fprintln(s.out, "\n--- ЛУЧШИЕ КЛИЕНТЫ ---")
	w := s.table()
	fmt.Fprintln(w, "Клиент\tEmail\tЗаказов\tПотрачено")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			r.Customer.FullName(), r.Customer.Email, r.OrderCount, FormatMoney(r.SpentMinor))
	}
	_ = w.Flush()
}

func (s *Shell) orderDetails() {
	orderID, ok := s.readInt64("ID заказа: ")
	if !ok {
		return
	}

	details, err := s.deps.Reports.OrderDetails(orderID)
	if err != nil {
		s.printError(err)
		return
	}

	fmt.Fprintf(s.out, "\n--- ЗАКАЗ №%d ---\n", details.Order.ID)
	fmt.Fprintf(s.out, "Статус: %s, сумма: %s\n", details.Order.Status, FormatMoney(details.Order.TotalMinor))
	if details.Order.ShippingAddress != "" {
		fmt.Fprintf(s.out, "Доставка: %s\n", details.Order.ShippingAddress)
	}
	if len(details.Items) == 0 {
		fmt.Fprintln(s.out, "Заказ пока пуст.")
		return
	}

	w := s.table()
	fmt.Fprintln(w, "Товар\tКол-во\tЦена\tСумма")
	for _, item := range details.Items {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			item.ProductName, item.Quantity, FormatMoney(item.UnitPriceMinor), FormatMoney(item.SubtotalMinor))
	}
	_ = w.Flush()
}

func (s *Shell) productsByCategory() {
	categories, err := s.deps.Categories.List()
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintln(s.out, "\nКатегории:")
	for _, c := range categories {
		fmt.Fprintf(s.out, "  %d. %s\n", c.ID, c.Name)
	}

	categoryID, ok := s.readInt64("ID категории: ")
	if !ok {
		return
	}

	products, err := s.deps.Reports.ProductsByCategory(categoryID)
	if err != nil {
		s.printError(err)
		return
	}

	fmt.Fprintln(s.out, "\n--- ТОВАРЫ В НАЛИЧИИ ---")
	w := s.table()
	fmt.Fprintln(w, "ID\tНазвание\tЦена\tОстаток")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", p.ID, p.Name, FormatMoney(p.PriceMinor), p.Stock)
	}
	_ = w.Flush()
}

func (s *Shell) duplicateEmails() {
	rows, err := s.deps.Reports.DuplicateEmails()
	if err != nil {
		s.printError(err)
		return
	}

	if len(rows) == 0 {
		fmt.Fprintln(s.out, "Повторяющихся email не найдено.")
		return
	}

	fmt.Fprintln(s.out, "\n--- ПОВТОРЯЮЩИЕСЯ EMAIL ---")
	w := s.table()
	fmt.Fprintln(w, "Email\tКлиентов")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\n", r.Email, r.Count)
	}
	_ = w.Flush()
}

func (s *Shell) table() *tabwriter.Writer {
	return tabwriter.NewWriter(s.out, 2, 4, 2, ' ', 0)
}

func (s *Shell) readLine(prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

func (s *Shell) readInt64(prompt string) (int64, bool) {
	raw, ok := s.readLine(prompt)
	if !ok {
		return 0, false
	}
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		fmt.Fprintln(s.out, "Нужно целое число.")
		return 0, false
	}
	return value, true
}

func (s *Shell) readInt32(prompt string) (int32, bool) {
	value, ok := s.readInt64(prompt)
	if !ok {
		return 0, false
	}
	return int32(value), true
}

// printError переводит ошибку домена в сообщение для оператора.
func (s *Shell) printError(err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		fmt.Fprintln(s.out, "Недостаточно товара на складе.")
	case domain.IsNotFound(err):
		fmt.Fprintln(s.out, "Запись не найдена:", err)
	case domain.IsValidation(err):
		fmt.Fprintln(s.out, "Некорректный ввод:", err)
	case errors.Is(err, domain.ErrTimeout):
		fmt.Fprintln(s.out, "Операция не успела выполниться, попробуйте ещё раз.")
	default:
		s.logger.WithError(err).Error("shell operation failed")
		fmt.Fprintln(s.out, "Ошибка:", err)
	}
}

// FormatMoney печатает сумму в минорных единицах как рубли с копейками.
func FormatMoney(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
