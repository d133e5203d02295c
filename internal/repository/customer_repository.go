package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/partyloft/booking/internal/model"
)

// CustomerRepo persists booking customers.  Customers are keyed by
// email within a tenant so repeat bookers reuse their existing row.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a new CustomerRepo bound to the provided
// database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// GetOrCreateTx finds the tenant's customer by email or inserts a new
// row, within the caller's transaction.  An existing customer's name
// and phone are refreshed from the latest booking form.
func (r *CustomerRepo) GetOrCreateTx(ctx context.Context, tx *sql.Tx, c *model.Customer) error {
	const sel = `SELECT id, created_at FROM customers WHERE tenant_id = ? AND email = ?`
	err := tx.QueryRowContext(ctx, sel, c.TenantID, c.Email).Scan(&c.ID, &c.CreatedAt)
	switch {
	case err == nil:
		const upd = `UPDATE customers SET name = ?, phone = ? WHERE id = ?`
		_, err = tx.ExecContext(ctx, upd, c.Name, c.Phone, c.ID)
		return err
	case errors.Is(err, sql.ErrNoRows):
		const ins = `INSERT INTO customers (tenant_id, name, email, phone) VALUES (?, ?, ?, ?)`
		res, err := tx.ExecContext(ctx, ins, c.TenantID, c.Name, c.Email, c.Phone)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		c.ID = uint64(id)
		return nil
	default:
		return err
	}
}
