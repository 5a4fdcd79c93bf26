package domain

// Category описывает категорию мебели из каталога.
type Category struct {
	ID   int64
	Name string
}

// Product представляет товар каталога.
// Цена хранится в минимальных денежных единицах (копейках),
// чтобы избежать ошибок округления при агрегировании.
type Product struct {
	ID         int64
	Name       string
	CategoryID int64
	// CategoryName денормализована для вывода списков.
	CategoryName string
	Description  string
	PriceMinor   int64
	Dimensions   string
	Material     string
	// Stock — доступный остаток; инвариант: Stock >= 0.
	Stock int32
}
