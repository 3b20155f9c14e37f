package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/billed-app/billed/internal/storage"
)

const billColumns = `id, email, type, name, amount, date, vat, pct, commentary, status, file_url, file_name, comment_admin, created_at`

// CreateBill persists a new bill, generating an ID and creation time when
// unset. New bills default to pending.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *storage.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	if bill.Status == "" {
		bill.Status = "pending"
	}

	query := `
		INSERT INTO bills (` + billColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		bill.ID,
		bill.Email,
		bill.Type,
		bill.Name,
		bill.Amount,
		bill.Date,
		bill.VAT,
		bill.PCT,
		bill.Commentary,
		bill.Status,
		bill.FileURL,
		bill.FileName,
		bill.CommentAdmin,
		bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	return nil
}

// GetBill retrieves a bill by ID.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*storage.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE id = ?`

	bill := &storage.Bill{}
	err := s.db.QueryRowContext(ctx, query, billID).Scan(
		&bill.ID,
		&bill.Email,
		&bill.Type,
		&bill.Name,
		&bill.Amount,
		&bill.Date,
		&bill.VAT,
		&bill.PCT,
		&bill.Commentary,
		&bill.Status,
		&bill.FileURL,
		&bill.FileName,
		&bill.CommentAdmin,
		&bill.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, storage.ErrBillNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	return bill, nil
}

// ListBills retrieves all bills ordered by date ascending.
func (s *SQLiteStore) ListBills(ctx context.Context) ([]storage.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills ORDER BY date, created_at`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []storage.Bill
	for rows.Next() {
		var bill storage.Bill
		if err := rows.Scan(
			&bill.ID,
			&bill.Email,
			&bill.Type,
			&bill.Name,
			&bill.Amount,
			&bill.Date,
			&bill.VAT,
			&bill.PCT,
			&bill.Commentary,
			&bill.Status,
			&bill.FileURL,
			&bill.FileName,
			&bill.CommentAdmin,
			&bill.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	return bills, nil
}

// UpdateBill replaces an existing bill's fields.
func (s *SQLiteStore) UpdateBill(ctx context.Context, bill *storage.Bill) error {
	query := `
		UPDATE bills
		SET email = ?, type = ?, name = ?, amount = ?, date = ?, vat = ?, pct = ?,
		    commentary = ?, status = ?, file_url = ?, file_name = ?, comment_admin = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		bill.Email,
		bill.Type,
		bill.Name,
		bill.Amount,
		bill.Date,
		bill.VAT,
		bill.PCT,
		bill.Commentary,
		bill.Status,
		bill.FileURL,
		bill.FileName,
		bill.CommentAdmin,
		bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	if affected == 0 {
		return storage.ErrBillNotFound
	}

	return nil
}
