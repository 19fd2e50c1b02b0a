package repository

import (
	"easystock-service/internal/model"
	"easystock-service/internal/policy"
)

var customerColumns = map[string]bool{
	"name":    true,
	"phone":   true,
	"shop_id": true,
}

var billColumns = map[string]bool{
	"customer_id": true,
	"total":       true,
	"paid":        true,
	"shop_id":     true,
}

var paymentColumns = map[string]bool{
	"bill_id":         true,
	"amount":          true,
	"payment_mode_id": true,
	"shop_id":         true,
}

var paymentModeColumns = map[string]bool{
	"name": true,
}

var expenseColumns = map[string]bool{
	"date":    true,
	"name":    true,
	"amount":  true,
	"shop_id": true,
}

var cashboxColumns = map[string]bool{
	"date":    true,
	"cash":    true,
	"mpesa":   true,
	"shop_id": true,
}

// ListCustomers returns the customers of the scoped shop.
func (r *Repository) ListCustomers(sc policy.Scope) ([]model.Customer, error) {
	var customers []model.Customer
	q := shopLocal(r.db.Model(&model.Customer{}), "customers", sc)
	if err := q.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// GetCustomer returns one customer of the scoped shop.
func (r *Repository) GetCustomer(sc policy.Scope, id uint) (*model.Customer, error) {
	var customer model.Customer
	q := shopLocal(r.db.Model(&model.Customer{}), "customers", sc)
	if err := q.Where("customers.id = ?", id).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCustomer inserts a new customer with server-stamped audit fields.
func (r *Repository) CreateCustomer(customer *model.Customer, actorID uint) error {
	customer.ID = 0
	stampCreate(&customer.Audit, actorID)
	return r.db.Create(customer).Error
}

// UpdateCustomer applies a partial update inside the shop scope.
func (r *Repository) UpdateCustomer(sc policy.Scope, id uint, updates map[string]interface{}, actorID uint) (*model.Customer, error) {
	customer, err := r.GetCustomer(sc, id)
	if err != nil {
		return nil, err
	}
	if err := r.patch(customer, updates, customerColumns, actorID); err != nil {
		return nil, err
	}
	if err := r.db.First(customer, customer.ID).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// ListBills returns the bills of the scoped shop.
func (r *Repository) ListBills(sc policy.Scope) ([]model.Bill, error) {
	var bills []model.Bill
	q := shopLocal(r.db.Model(&model.Bill{}), "bills", sc)
	if err := q.Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

// GetBill returns one bill of the scoped shop.
func (r *Repository) GetBill(sc policy.Scope, id uint) (*model.Bill, error) {
	var bill model.Bill
	q := shopLocal(r.db.Model(&model.Bill{}), "bills", sc)
	if err := q.Where("bills.id = ?", id).First(&bill).Error; err != nil {
		return nil, err
	}
	return &bill, nil
}

// CreateBill inserts a new bill with server-stamped audit fields.
func (r *Repository) CreateBill(bill *model.Bill, actorID uint) error {
	bill.ID = 0
	stampCreate(&bill.Audit, actorID)
	return r.db.Create(bill).Error
}

// UpdateBill applies a partial update inside the shop scope.
func (r *Repository) UpdateBill(sc policy.Scope, id uint, updates map[string]interface{}, actorID uint) (*model.Bill, error) {
	bill, err := r.GetBill(sc, id)
	if err != nil {
		return nil, err
	}
	if err := r.patch(bill, updates, billColumns, actorID); err != nil {
		return nil, err
	}
	if err := r.db.First(bill, bill.ID).Error; err != nil {
		return nil, err
	}
	return bill, nil
}

// ListPayments returns the payments of the scoped shop.
func (r *Repository) ListPayments(sc policy.Scope) ([]model.Payment, error) {
	var payments []model.Payment
	q := shopLocal(r.db.Model(&model.Payment{}), "payments", sc)
	if err := q.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// GetPayment returns one payment of the scoped shop.
func (r *Repository) GetPayment(sc policy.Scope, id uint) (*model.Payment, error) {
	var payment model.Payment
	q := shopLocal(r.db.Model(&model.Payment{}), "payments", sc)
	if err := q.Where("payments.id = ?", id).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// CreatePayment inserts a new payment with server-stamped audit fields.
func (r *Repository) CreatePayment(payment *model.Payment, actorID uint) error {
	payment.ID = 0
	stampCreate(&payment.Audit, actorID)
	return r.db.Create(payment).Error
}

// UpdatePayment applies a partial update inside the shop scope.
func (r *Repository) UpdatePayment(sc policy.Scope, id uint, updates map[string]interface{}, actorID uint) (*model.Payment, error) {
	payment, err := r.GetPayment(sc, id)
	if err != nil {
		return nil, err
	}
	if err := r.patch(payment, updates, paymentColumns, actorID); err != nil {
		return nil, err
	}
	if err := r.db.First(payment, payment.ID).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

// ListPaymentModes returns every payment mode; the lookup is global.
func (r *Repository) ListPaymentModes() ([]model.PaymentMode, error) {
	var modes []model.PaymentMode
	if err := r.db.Find(&modes).Error; err != nil {
		return nil, err
	}
	return modes, nil
}

// GetPaymentMode returns one payment mode by id.
func (r *Repository) GetPaymentMode(id uint) (*model.PaymentMode, error) {
	var mode model.PaymentMode
	if err := r.db.First(&mode, id).Error; err != nil {
		return nil, err
	}
	return &mode, nil
}

// CreatePaymentMode inserts a new payment mode.
func (r *Repository) CreatePaymentMode(mode *model.PaymentMode, actorID uint) error {
	mode.ID = 0
	stampCreate(&mode.Audit, actorID)
	return r.db.Create(mode).Error
}

// UpdatePaymentMode applies a partial update to a payment mode.
func (r *Repository) UpdatePaymentMode(id uint, updates map[string]interface{}, actorID uint) (*model.PaymentMode, error) {
	var mode model.PaymentMode
	if err := r.db.First(&mode, id).Error; err != nil {
		return nil, err
	}
	if err := r.patch(&mode, updates, paymentModeColumns, actorID); err != nil {
		return nil, err
	}
	if err := r.db.First(&mode, id).Error; err != nil {
		return nil, err
	}
	return &mode, nil
}

// ListExpenses returns the expenses of the scoped shop.
func (r *Repository) ListExpenses(sc policy.Scope) ([]model.Expense, error) {
	var expenses []model.Expense
	q := shopLocal(r.db.Model(&model.Expense{}), "expenses", sc)
	if err := q.Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// GetExpense returns one expense of the scoped shop.
func (r *Repository) GetExpense(sc policy.Scope, id uint) (*model.Expense, error) {
	var expense model.Expense
	q := shopLocal(r.db.Model(&model.Expense{}), "expenses", sc)
	if err := q.Where("expenses.id = ?", id).First(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

// CreateExpense inserts a new expense with server-stamped audit fields.
func (r *Repository) CreateExpense(expense *model.Expense, actorID uint) error {
	expense.ID = 0
	stampCreate(&expense.Audit, actorID)
	return r.db.Create(expense).Error
}

// UpdateExpense applies a partial update inside the shop scope.
func (r *Repository) UpdateExpense(sc policy.Scope, id uint, updates map[string]interface{}, actorID uint) (*model.Expense, error) {
	expense, err := r.GetExpense(sc, id)
	if err != nil {
		return nil, err
	}
	if err := r.patch(expense, updates, expenseColumns, actorID); err != nil {
		return nil, err
	}
	if err := r.db.First(expense, expense.ID).Error; err != nil {
		return nil, err
	}
	return expense, nil
}

// ListCashbox returns the cashbox rows of the scoped shop.
func (r *Repository) ListCashbox(sc policy.Scope) ([]model.Cashbox, error) {
	var rows []model.Cashbox
	q := shopLocal(r.db.Model(&model.Cashbox{}), "cashboxes", sc)
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetCashbox returns one cashbox row of the scoped shop.
func (r *Repository) GetCashbox(sc policy.Scope, id uint) (*model.Cashbox, error) {
	var row model.Cashbox
	q := shopLocal(r.db.Model(&model.Cashbox{}), "cashboxes", sc)
	if err := q.Where("cashboxes.id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateCashbox inserts a new cashbox row with server-stamped audit fields.
func (r *Repository) CreateCashbox(row *model.Cashbox, actorID uint) error {
	row.ID = 0
	stampCreate(&row.Audit, actorID)
	return r.db.Create(row).Error
}

// UpdateCashbox applies a partial update inside the shop scope.
func (r *Repository) UpdateCashbox(sc policy.Scope, id uint, updates map[string]interface{}, actorID uint) (*model.Cashbox, error) {
	row, err := r.GetCashbox(sc, id)
	if err != nil {
		return nil, err
	}
	if err := r.patch(row, updates, cashboxColumns, actorID); err != nil {
		return nil, err
	}
	if err := r.db.First(row, row.ID).Error; err != nil {
		return nil, err
	}
	return row, nil
}
