package domain

// CategorySales — строка отчёта по продажам в разрезе категорий.
// Отчёт вычисляется агрегированием и нигде не хранится.
type CategorySales struct {
	Category string
	// OrderCount — число различных неотменённых заказов с товарами категории.
	OrderCount int
	// QuantitySold — суммарное проданное количество.
	QuantitySold int64
	RevenueMinor int64
	// AvgUnitPriceMinor — средняя цена позиции; дробное значение,
	// поскольку AVG не обязан попадать в целые копейки.
	AvgUnitPriceMinor float64
}

// CustomerSpending — строка рейтинга клиентов по сумме покупок.
// Отменённые заказы не учитываются; клиенты без заказов входят с нулями.
type CustomerSpending struct {
	Customer   Customer
	OrderCount int
	SpentMinor int64
}

// OrderDetails — заголовок заказа вместе с его позициями.
// Заказ без позиций — корректный результат, а не ошибка.
type OrderDetails struct {
	Order Order
	Items []OrderItem
}

// DuplicateEmail — email, встречающийся у двух и более клиентов.
type DuplicateEmail struct {
	Email string
	Count int
}
