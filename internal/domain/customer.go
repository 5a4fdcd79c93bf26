package domain

// Customer представляет клиента магазина.
// Уникальность email на уровне приложения не контролируется:
// дубликаты выявляет отчёт DuplicateEmails.
type Customer struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
}

// FullName возвращает имя и фамилию для отображения.
func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
