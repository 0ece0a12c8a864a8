package models

import "time"

type AccountType string

const (
	AccountTypeBank       AccountType = "bank"        // banka hesabı
	AccountTypeCreditCard AccountType = "credit_card" // kredi kartı
)

// BankAccount: Banka hesabı veya kredi kartı (şube bazlı).
type BankAccount struct {
	ID            uint        `gorm:"primaryKey"`
	BranchID      uint        `gorm:"index;not null"`
	Branch        Branch
	Type          AccountType `gorm:"size:20;not null"`
	Name          string      `gorm:"size:100;not null"`
	AccountNumber string      `gorm:"size:50"`
	Balance       float64     `gorm:"default:0"`
	IsActive      bool        `gorm:"default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type TransactionCategory string

const (
	TxnCategorySupplier TransactionCategory = "tedarikci" // tedarikçi ödemesi
	TxnCategoryRevenue  TransactionCategory = "ciro"      // POS/ciro girişi
	TxnCategorySalary   TransactionCategory = "maas"      // maaş ödemesi
	TxnCategoryOther    TransactionCategory = "diger"
)

// BankTransaction: Ekstreden içeri alınan işlem. Category, açıklama metnine
// bakan basit kural tabanlı sınıflandırma ile atanır; mutabakat motorundan
// tamamen bağımsız bir alt sistemdir.
type BankTransaction struct {
	ID            uint `gorm:"primaryKey"`
	BankAccountID uint `gorm:"index;not null"`
	BankAccount   BankAccount
	Amount        float64             `gorm:"not null"` // pozitif giriş, negatif çıkış
	Date          time.Time           `gorm:"index;not null"`
	Description   string              `gorm:"size:255"`
	Category      TransactionCategory `gorm:"size:20;not null;default:'diger'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
