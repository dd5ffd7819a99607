package migration

import (
	billdomain "github.com/smallbiznis/gridbill/internal/bill/domain"
	customerdomain "github.com/smallbiznis/gridbill/internal/customer/domain"
	extrachargedomain "github.com/smallbiznis/gridbill/internal/extracharge/domain"
	finedomain "github.com/smallbiznis/gridbill/internal/fineslab/domain"
	paymentdomain "github.com/smallbiznis/gridbill/internal/payment/domain"
	readingdomain "github.com/smallbiznis/gridbill/internal/reading/domain"
	staffdomain "github.com/smallbiznis/gridbill/internal/staff/domain"
	tariffdomain "github.com/smallbiznis/gridbill/internal/tariff/domain"
)

// Models lists every persisted type, for dialects migrated with AutoMigrate.
func Models() []any {
	return []any{
		&customerdomain.Customer{},
		&staffdomain.Staff{},
		&tariffdomain.TariffSlab{},
		&extrachargedomain.ExtraCharge{},
		&finedomain.FineSlab{},
		&readingdomain.Reading{},
		&billdomain.Bill{},
		&billdomain.BillNumberSequence{},
		&paymentdomain.PaymentRecord{},
	}
}
