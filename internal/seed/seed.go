package seed

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/Jaber-riyan/Mamar-Bank/internal/logger"
	"github.com/Jaber-riyan/Mamar-Bank/internal/models"
	"github.com/Jaber-riyan/Mamar-Bank/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	seedPassword   = "password123"
	openingBalance = "1000.00"
	adminEmail     = "admin@bank.local"
)

var testUsers = []struct {
	Name  string
	Email string
}{
	{"Test User 1", "user1@test.com"},
	{"Test User 2", "user2@test.com"},
	{"Test User 3", "user3@test.com"},
}

func Run() {
	db := store.DB
	var count int64
	if err := db.Model(&models.User{}).Where("email IN ?", []string{"user1@test.com", "user2@test.com", "user3@test.com"}).Count(&count).Error; err != nil {
		logger.Log.Fatal("seed check failed", zap.Error(err))
	}
	if count >= 3 {
		logger.Log.Info("seed already applied, skipping")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Fatal("failed to hash seed password", zap.Error(err))
	}
	hashed := string(hash)

	err = db.Transaction(func(tx *gorm.DB) error {
		admin := models.User{Name: "Bank Admin", Email: adminEmail, Password: hashed, Admin: true}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}

		opening := decimal.RequireFromString(openingBalance)

		for _, u := range testUsers {
			user := models.User{Name: u.Name, Email: u.Email, Password: hashed}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			acc := models.Account{UserID: uint64(user.ID), Balance: opening}
			if err := tx.Create(&acc).Error; err != nil {
				return err
			}

			// Opening balance enters through the ledger like any other
			// deposit, so balance always equals the sum of entries.
			entry := models.Transaction{
				AccountID:    uint64(acc.ID),
				Amount:       opening,
				BalanceAfter: opening,
				Type:         models.TypeDeposit,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Log.Fatal("seed failed", zap.Error(err))
	}
	logger.Log.Info("seeded admin and 3 test users", zap.String("password", seedPassword))
}
