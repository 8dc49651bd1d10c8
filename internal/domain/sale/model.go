package sale

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a ledger entry marking when a project first received payment.
// Address, amount and owner are a snapshot taken at sync time.
type Sale struct {
	SalesID        int             `json:"sales_id"`
	Date           time.Time       `json:"date"`
	ProjectIDFK    int             `json:"project_id_fk"`
	ProjectAddress string          `json:"project_address"`
	ContractAmount decimal.Decimal `json:"contract_amount"`
	OwnerName      string          `json:"owner"`
}
