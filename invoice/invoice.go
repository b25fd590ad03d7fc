// Package invoice turns a paid order snapshot into a stored document and
// an email to the customer. Rendering and storage sit behind interfaces;
// the defaults render HTML and store on local disk.
package invoice

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abanoubmamdouhhanna/cfc/apperr"
	"github.com/abanoubmamdouhhanna/cfc/models"
)

// Renderer produces the invoice document for an order snapshot.
type Renderer interface {
	Render(order models.Order, customerName string, location models.Location) ([]byte, error)
}

// Storage persists rendered invoices. Upload returns a public URL and an
// opaque handle usable for deletion.
type Storage interface {
	Upload(name string, data []byte) (url, handle string, err error)
	Delete(handle string) error
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head><title>Invoice {{.Order.Order_id}}</title></head>
<body>
<h1>{{.LocationTitle}} — Invoice</h1>
<p>{{.CustomerName}}<br>{{.Order.Address}}, {{.Order.City}}, {{.Order.State}}<br>{{.Order.Phone}}</p>
<p>Order {{.Order.Order_id}} — {{.Date}}</p>
<table border="1" cellpadding="4">
<tr><th>Item</th><th>Qty</th><th>Unit</th><th>Total</th></tr>
{{range .Order.Meals}}
<tr><td>{{.Title}}{{if .Is_combo}} [Combo]{{end}}</td><td>{{.Quantity}}</td><td>${{printf "%.2f" .Unit_price}}</td><td>${{printf "%.2f" .Item_total}}</td></tr>
{{end}}
</table>
<p>Discount: ${{printf "%.2f" .Order.Discount}}<br>
Subtotal after discount: ${{printf "%.2f" .Order.Final_price}}<br>
Tax ({{printf "%.2f" .TaxRate}}%): ${{printf "%.2f" .Order.Tax}}<br>
<b>Total: ${{printf "%.2f" .Order.Total_price}}</b></p>
</body>
</html>`

// HTMLRenderer renders invoices with the built-in template.
type HTMLRenderer struct{}

func (HTMLRenderer) Render(order models.Order, customerName string, location models.Location) ([]byte, error) {
	tmpl, err := template.New("invoice").Parse(invoiceTemplate)
	if err != nil {
		return nil, err
	}
	title := ""
	if location.Title != nil {
		title = *location.Title
	}
	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct {
		Order         models.Order
		CustomerName  string
		LocationTitle string
		TaxRate       float64
		Date          string
	}{order, customerName, title, location.Tax_rate, order.Created_at.Format("Jan 2, 2006")})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DiskStorage writes invoices under Dir and serves them from BaseURL.
type DiskStorage struct {
	Dir     string
	BaseURL string
}

func DiskStorageFromEnv() DiskStorage {
	dir := os.Getenv("INVOICE_DIR")
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "cfc-invoices")
	}
	return DiskStorage{Dir: dir, BaseURL: strings.TrimRight(os.Getenv("INVOICE_BASE_URL"), "/")}
}

func (s DiskStorage) Upload(name string, data []byte) (string, string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", "", apperr.Wrap(apperr.External, "Failed to store invoice", err)
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", apperr.Wrap(apperr.External, "Failed to store invoice", err)
	}
	return fmt.Sprintf("%s/%s", s.BaseURL, name), path, nil
}

func (s DiskStorage) Delete(handle string) error {
	if handle == "" {
		return nil
	}
	if err := os.Remove(handle); err != nil && !os.IsNotExist(err) {
		return apperr.Wrap(apperr.External, "Failed to delete invoice", err)
	}
	return nil
}

// FileName is the stored name for an order's invoice document.
func FileName(order models.Order) string {
	return fmt.Sprintf("invoice_%s_%d.html", order.Order_id, time.Now().Unix())
}
