package database

import (
	"log"

	"mutabakat-backend/internal/config"
	"mutabakat-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	// DishSale migration: satış kanalı unique key'e ekleniyor (AutoMigrate'ten ÖNCE).
	// Eski şemada unique index kanalı içermiyordu ve ikinci kanalın insert'i
	// ilk kanalın satırını eziyordu; eski index'i kaldırıp AutoMigrate'in
	// kanal dahil composite index'i kurmasına izin veriyoruz.
	if DB.Migrator().HasTable(&models.DishSale{}) {
		if DB.Migrator().HasIndex(&models.DishSale{}, "uq_sale_dish_month") {
			log.Println("DishSale eski unique index (kanal hariç) kaldırılıyor...")
			if err := DB.Exec("DROP INDEX IF EXISTS uq_sale_dish_month").Error; err != nil {
				log.Printf("Eski index kaldırılırken hata (devam ediliyor): %v", err)
			}
		}
	}

	err = DB.AutoMigrate(
		&models.Branch{},
		&models.User{},
		&models.Material{},
		&models.DishVariant{},
		&models.RecipeLink{},
		&models.DishSale{},
		&models.ComboPackage{},
		&models.ComboComponent{},
		&models.ComboSale{},
		&models.SystemUsage{},
		&models.StockCount{},
		&models.MaterialPrice{},
		&models.VarianceRecord{},
		&models.AuditLog{},
		&models.BankAccount{},
		&models.BankTransaction{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
