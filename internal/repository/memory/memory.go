// internal/repository/memory/memory.go
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bodegapos/backend/internal/domain"
	"github.com/bodegapos/backend/internal/repository"
)

// Store is an in-memory repository.Store used by the test suite and by the
// server's dev mode (DB_DRIVER=memory). Transactions take a snapshot of the
// whole dataset and restore it when the callback fails, so the all-or-nothing
// contract matches the SQL implementation.
type Store struct {
	mu   sync.Mutex
	data *dataset
}

type dataset struct {
	stocks      map[string]domain.BranchStock // keyed by productID + "|" + branchID
	adjustments []domain.InventoryAdjustment
	sales       map[string]domain.SaleHeader
	transfers   map[string]domain.StockTransfer
	customers   map[string]domain.Customer
	shifts      map[string]domain.EmployeeShift
	movements   []domain.CashMovement
	expenses    []domain.Expense
	payments    []domain.CreditPayment
	logs        []domain.SystemLog
}

func New() *Store {
	return &Store{data: &dataset{
		stocks:    map[string]domain.BranchStock{},
		sales:     map[string]domain.SaleHeader{},
		transfers: map[string]domain.StockTransfer{},
		customers: map[string]domain.Customer{},
		shifts:    map[string]domain.EmployeeShift{},
	}}
}

func stockKey(productID, branchID string) string { return productID + "|" + branchID }

func (d *dataset) clone() *dataset {
	c := &dataset{
		stocks:      make(map[string]domain.BranchStock, len(d.stocks)),
		adjustments: append([]domain.InventoryAdjustment(nil), d.adjustments...),
		sales:       make(map[string]domain.SaleHeader, len(d.sales)),
		transfers:   make(map[string]domain.StockTransfer, len(d.transfers)),
		customers:   make(map[string]domain.Customer, len(d.customers)),
		shifts:      make(map[string]domain.EmployeeShift, len(d.shifts)),
		movements:   append([]domain.CashMovement(nil), d.movements...),
		expenses:    append([]domain.Expense(nil), d.expenses...),
		payments:    append([]domain.CreditPayment(nil), d.payments...),
		logs:        append([]domain.SystemLog(nil), d.logs...),
	}
	for k, v := range d.stocks {
		c.stocks[k] = v
	}
	for k, v := range d.sales {
		v.Details = append([]domain.SaleDetail(nil), v.Details...)
		c.sales[k] = v
	}
	for k, v := range d.transfers {
		v.Details = append([]domain.TransferDetail(nil), v.Details...)
		c.transfers[k] = v
	}
	for k, v := range d.customers {
		c.customers[k] = v
	}
	for k, v := range d.shifts {
		c.shifts[k] = v
	}
	return c
}

// AddCustomer seeds a customer. Customer CRUD belongs to the external
// reference-data collaborator, so the core store only exposes this for
// seeding and tests.
func (s *Store) AddCustomer(c domain.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	s.data.customers[c.ID] = c
}

func (s *Store) WithTx(ctx context.Context, fn func(repository.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(&memTx{data: s.data}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (s *Store) GetStock(ctx context.Context, productID, branchID string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.data.stocks[stockKey(productID, branchID)]; ok {
		return row.Quantity, nil
	}
	return decimal.Zero, nil
}

func (s *Store) ListBranchInventory(ctx context.Context, branchID string) ([]domain.BranchStock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []domain.BranchStock
	for _, row := range s.data.stocks {
		if row.BranchID == branchID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].UpdatedAt.After(rows[j].UpdatedAt) })
	return rows, nil
}

func (s *Store) ListAdjustments(ctx context.Context, limit int) ([]domain.InventoryAdjustment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = 50
	}
	rows := append([]domain.InventoryAdjustment(nil), s.data.adjustments...)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.After(rows[j].Date) })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *Store) GetSale(ctx context.Context, id string) (*domain.SaleHeader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale, ok := s.data.sales[id]
	if !ok {
		return nil, fmt.Errorf("sale %s: %w", id, domain.ErrNotFound)
	}
	sale.Details = append([]domain.SaleDetail(nil), sale.Details...)
	return &sale, nil
}

func (s *Store) ListSales(ctx context.Context) ([]domain.SaleHeader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sales []domain.SaleHeader
	for _, sale := range s.data.sales {
		sale.Details = append([]domain.SaleDetail(nil), sale.Details...)
		sales = append(sales, sale)
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].Date.After(sales[j].Date) })
	return sales, nil
}

func (s *Store) GetTransfer(ctx context.Context, id string) (*domain.StockTransfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	transfer, ok := s.data.transfers[id]
	if !ok {
		return nil, fmt.Errorf("transfer %s: %w", id, domain.ErrNotFound)
	}
	transfer.Details = append([]domain.TransferDetail(nil), transfer.Details...)
	return &transfer, nil
}

func (s *Store) ListTransfers(ctx context.Context) ([]domain.StockTransfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var transfers []domain.StockTransfer
	for _, transfer := range s.data.transfers {
		transfer.Details = append([]domain.TransferDetail(nil), transfer.Details...)
		transfers = append(transfers, transfer)
	}
	sort.Slice(transfers, func(i, j int) bool { return transfers[i].Date.After(transfers[j].Date) })
	return transfers, nil
}

func (s *Store) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	customer, ok := s.data.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer %s: %w", id, domain.ErrNotFound)
	}
	return &customer, nil
}

func (s *Store) ListCustomers(ctx context.Context, branchID string) ([]domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var customers []domain.Customer
	for _, c := range s.data.customers {
		if branchID == "" || (c.BranchID != nil && *c.BranchID == branchID) {
			customers = append(customers, c)
		}
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].Name < customers[j].Name })
	return customers, nil
}

func (s *Store) GetShift(ctx context.Context, id string) (*domain.EmployeeShift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shift, ok := s.data.shifts[id]
	if !ok {
		return nil, fmt.Errorf("shift %s: %w", id, domain.ErrNotFound)
	}
	return &shift, nil
}

func (s *Store) ListShifts(ctx context.Context) ([]domain.EmployeeShift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var shifts []domain.EmployeeShift
	for _, shift := range s.data.shifts {
		shifts = append(shifts, shift)
	}
	sort.Slice(shifts, func(i, j int) bool { return shifts[i].StartTime.After(shifts[j].StartTime) })
	return shifts, nil
}

func (s *Store) SumCashSales(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, sale := range s.data.sales {
		if sale.UserID != userID || sale.PaymentMethod != domain.PaymentCash || sale.Status != domain.SaleCompleted {
			continue
		}
		if sale.Date.Before(from) || sale.Date.After(to) {
			continue
		}
		total = total.Add(sale.Total)
	}
	return total, nil
}

func (s *Store) SumCashMovements(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, m := range s.data.movements {
		if m.UserID != userID || m.Date.Before(from) || m.Date.After(to) {
			continue
		}
		total = total.Add(m.SignedAmount())
	}
	return total, nil
}

func (s *Store) ListCashMovements(ctx context.Context, branchID string) ([]domain.CashMovement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var movements []domain.CashMovement
	for _, m := range s.data.movements {
		if branchID == "" || m.BranchID == branchID {
			movements = append(movements, m)
		}
	}
	sort.Slice(movements, func(i, j int) bool { return movements[i].Date.After(movements[j].Date) })
	return movements, nil
}

func (s *Store) ListExpenses(ctx context.Context, branchID string) ([]domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expenses []domain.Expense
	for _, e := range s.data.expenses {
		if branchID == "" || e.BranchID == branchID {
			expenses = append(expenses, e)
		}
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].Date.After(expenses[j].Date) })
	return expenses, nil
}

func (s *Store) InsertSystemLog(ctx context.Context, entry *domain.SystemLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.logs = append(s.data.logs, *entry)
	return nil
}

func (s *Store) ListSystemLogs(ctx context.Context, limit int) ([]domain.SystemLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	logs := append([]domain.SystemLog(nil), s.data.logs...)
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date.After(logs[j].Date) })
	if len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

// ListCreditPayments is a test hook; payments have no read endpoint of
// their own in the HTTP surface.
func (s *Store) ListCreditPayments() []domain.CreditPayment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CreditPayment(nil), s.data.payments...)
}
