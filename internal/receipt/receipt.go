package receipt

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/the3rafas/cr7system/internal/domain/models"
)

// receiptTemplate reproduces the printable receipt layout the registry desk
// already prints: header with entry id, date and client, an item table and a
// bold total row.
var receiptTemplate = template.Must(template.New("receipt").Parse(`<html>
  <head>
    <title>Receipt #{{.ID}}</title>
    <style>
      body { font-family: sans-serif; padding: 20px; }
      h1 { text-align: center; }
      table { width: 100%; border-collapse: collapse; margin-top: 1em; }
      th, td { border: 1px solid #333; padding: 8px; text-align: left; }
      th { background: #f0f0f0; }
      tfoot td { font-weight: bold; }
    </style>
  </head>
  <body>
    <h1>Receipt #{{.ID}}</h1>
    <p><strong>Date:</strong> {{.Date}}</p>
    <p><strong>Client:</strong> {{.Name}}</p>
    <table>
      <thead>
        <tr>
          <th>Product</th>
          <th>Qty</th>
          <th>Unit Price</th>
          <th>Subtotal</th>
        </tr>
      </thead>
      <tbody>
{{- range .BillItems}}
        <tr>
          <td>{{.ProductName}}</td>
          <td>{{.Quantity}}</td>
          <td>${{printf "%.2f" .UnitPrice}}</td>
          <td>${{printf "%.2f" .SubTotal}}</td>
        </tr>
{{- end}}
      </tbody>
      <tfoot>
        <tr>
          <td colspan="3" style="text-align: right;">Total:</td>
          <td>${{printf "%.2f" .TotalPrice}}</td>
        </tr>
      </tfoot>
    </table>
  </body>
</html>
`))

// Render produces the printable HTML receipt for a billed entry. Entries that
// are not done yet have no bill to print.
func Render(entry models.Entry) (string, error) {
	if entry.Status != models.StatusDone {
		return "", fmt.Errorf("%w: entry id=%d on date=%s is not billed yet", models.ErrInvalidState, entry.ID, entry.Date)
	}

	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, entry); err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return buf.String(), nil
}
