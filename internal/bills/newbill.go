package bills

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/billed-app/billed/internal/auth"
	"github.com/billed-app/billed/internal/kvstore"
	"github.com/billed-app/billed/internal/models"
	"github.com/billed-app/billed/internal/store"
	"github.com/billed-app/billed/internal/ui"
)

// MsgInvalidFileExtension is shown when a selected receipt is not an allowed
// image type. Downstream tooling asserts on the exact string, typos included.
const MsgInvalidFileExtension = "Seule les fichiers .jpg, .png .jepg sont autorisées"

// allowedExtensions is the receipt allow-list, matched case-insensitively.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// AllowedExtension reports whether fileName carries one of the allowed
// receipt extensions.
func AllowedExtension(fileName string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(fileName))]
}

// Form carries the new-bill form fields plus the selected receipt file.
type Form struct {
	Type       string
	Name       string
	Date       string
	Amount     float64
	VAT        string
	PCT        int
	Commentary string

	FileName string
	File     io.Reader
}

// NewBill handles bill submission: receipt upload with extension validation,
// record assembly, and the update call that finalizes the bill.
type NewBill struct {
	store  store.Store // nil when no backend is configured
	kv     kvstore.Store
	nav    ui.Navigator
	alerts ui.Alerter
	logger *slog.Logger

	// State carried between the receipt upload and the final update, the
	// client-side mirror of the file input.
	billID   string
	fileURL  string
	fileName string
}

// NewNewBill wires a NewBill handler. A nil logger falls back to
// slog.Default.
func NewNewBill(st store.Store, kv kvstore.Store, nav ui.Navigator, alerts ui.Alerter, logger *slog.Logger) *NewBill {
	if logger == nil {
		logger = slog.Default()
	}
	return &NewBill{store: st, kv: kv, nav: nav, alerts: alerts, logger: logger}
}

// FileReference returns the uploaded receipt's location and name, or empty
// strings when no valid receipt has been uploaded.
func (n *NewBill) FileReference() (fileURL, fileName string) {
	return n.fileURL, n.fileName
}

// SubmitNewBill validates the selected receipt, uploads it, and finalizes
// the bill record.
//
// A disallowed extension clears the file selection, alerts the user with the
// fixed message, and stops before any upload. With no remote store
// configured the submission is a defined no-op. Remote failures propagate.
func (n *NewBill) SubmitNewBill(ctx context.Context, form Form) error {
	if !AllowedExtension(form.FileName) {
		n.billID, n.fileURL, n.fileName = "", "", ""
		n.alerts.Alert(MsgInvalidFileExtension)
		return nil
	}
	if n.store == nil {
		return nil
	}

	email := n.sessionEmail()
	result, err := n.store.Bills().Create(ctx, store.CreateBillPayload{
		FileName: form.FileName,
		File:     form.File,
		Email:    email,
	})
	if err != nil {
		return err
	}
	n.billID = result.Key
	n.fileURL = result.FileURL
	n.fileName = form.FileName
	n.logger.Info("receipt uploaded", "bill_id", n.billID, "file_url", n.fileURL)

	record, err := n.buildRecord(form, email)
	if err != nil {
		return err
	}
	return n.UpdateBill(ctx, n.billID, record)
}

// UpdateBill serializes record and sends it to the remote update capability
// keyed by billID, then navigates to the Bills view on success. With no
// remote store configured it is a defined no-op.
func (n *NewBill) UpdateBill(ctx context.Context, billID string, record models.Bill) error {
	if n.store == nil {
		return nil
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode bill: %w", err)
	}
	if _, err := n.store.Bills().Update(ctx, store.UpdateBillPayload{
		Data:     string(data),
		Selector: billID,
	}); err != nil {
		return err
	}

	n.nav.OnNavigate(ui.RouteBills)
	return nil
}

// buildRecord assembles the bill record sent on submission. New bills always
// start out pending.
func (n *NewBill) buildRecord(form Form, email string) (models.Bill, error) {
	record := models.Bill{Date: form.Date, Status: "pending"}
	for key, value := range map[string]any{
		"email":      email,
		"type":       form.Type,
		"name":       form.Name,
		"amount":     form.Amount,
		"vat":        form.VAT,
		"pct":        form.PCT,
		"commentary": form.Commentary,
		"fileUrl":    n.fileURL,
		"fileName":   n.fileName,
	} {
		if err := record.SetExtra(key, value); err != nil {
			return models.Bill{}, err
		}
	}
	return record, nil
}

// sessionEmail reads the persisted session's email, or "" when no session is
// stored.
func (n *NewBill) sessionEmail() string {
	raw, ok := n.kv.GetItem(auth.SessionKey)
	if !ok {
		return ""
	}
	var sess models.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return ""
	}
	return sess.Email
}
