package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/Jaber-riyan/Mamar-Bank/configs"
	"github.com/Jaber-riyan/Mamar-Bank/internal/handlers"
	"github.com/Jaber-riyan/Mamar-Bank/internal/ledger"
	"github.com/Jaber-riyan/Mamar-Bank/internal/logger"
	"github.com/Jaber-riyan/Mamar-Bank/internal/models"
	"github.com/Jaber-riyan/Mamar-Bank/internal/routes"
	"github.com/Jaber-riyan/Mamar-Bank/internal/store"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "password123"

type txResp struct {
	ID           uint
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	Type         models.TransactionType
	LoanApprove  bool
}

type accountResp struct {
	ID      uint
	UserID  uint64
	Balance decimal.Decimal
}

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger.Log = zap.NewNop()
	configs.AppConfig.JWT.SECRET = "test-secret"

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Account{}, &models.Transaction{}, &models.BankStatus{}))
	store.DB = db

	svc := ledger.New(db, nil)
	ts := httptest.NewServer(routes.NewRoutes(handlers.New(svc)))
	t.Cleanup(ts.Close)
	return ts
}

func createUser(t *testing.T, email string, admin bool, balance string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Name: email, Email: email, Password: string(hash), Admin: admin}
	require.NoError(t, store.DB.Create(&user).Error)
	if balance == "" {
		return
	}
	opening := decimal.RequireFromString(balance)
	acc := models.Account{UserID: uint64(user.ID), Balance: opening}
	require.NoError(t, store.DB.Create(&acc).Error)
	if opening.Sign() > 0 {
		entry := models.Transaction{AccountID: uint64(acc.ID), Amount: opening, BalanceAfter: opening, Type: models.TypeDeposit}
		require.NoError(t, store.DB.Create(&entry).Error)
	}
}

func doJSON(t *testing.T, method, url, token string, body any, wantCode int, out any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, wantCode, resp.StatusCode)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
}

func login(t *testing.T, ts *httptest.Server, email string) string {
	t.Helper()
	var resp handlers.LoginResponse
	doJSON(t, "POST", ts.URL+"/auth/login", "", map[string]string{"email": email, "password": testPassword}, 200, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func timeNowDate() string {
	return time.Now().Format("2006-01-02")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ts := setupServer(t)
	createUser(t, "alice@test.com", false, "100")

	doJSON(t, "POST", ts.URL+"/auth/login", "", map[string]string{"email": "alice@test.com", "password": "wrong"}, 401, nil)
	doJSON(t, "POST", ts.URL+"/auth/login", "", map[string]string{"email": "alice@test.com"}, 400, nil)
	login(t, ts, "alice@test.com")
}

func TestRoutesRequireAuth(t *testing.T) {
	ts := setupServer(t)
	doJSON(t, "GET", ts.URL+"/accounts", "", nil, 401, nil)
	doJSON(t, "POST", ts.URL+"/transactions/deposit", "", map[string]string{"amount": "10"}, 401, nil)
}

func TestDepositWithdrawTransferFlow(t *testing.T) {
	ts := setupServer(t)
	createUser(t, "alice@test.com", false, "100")
	createUser(t, "bob@test.com", false, "20")
	alice := login(t, ts, "alice@test.com")
	bob := login(t, ts, "bob@test.com")

	var rec txResp
	doJSON(t, "POST", ts.URL+"/transactions/deposit", alice, map[string]string{"amount": "50"}, 200, &rec)
	require.Equal(t, models.TypeDeposit, rec.Type)
	require.True(t, rec.BalanceAfter.Equal(decimal.RequireFromString("150")))

	// Find bob's account number to transfer to.
	var bobAccounts []accountResp
	doJSON(t, "GET", ts.URL+"/accounts", bob, nil, 200, &bobAccounts)
	require.Len(t, bobAccounts, 1)
	bobAcc := uint64(bobAccounts[0].ID)

	doJSON(t, "POST", ts.URL+"/transactions/transfer", alice,
		map[string]any{"account_no": bobAcc, "amount": "30"}, 200, nil)

	doJSON(t, "GET", ts.URL+"/accounts", bob, nil, 200, &bobAccounts)
	require.True(t, bobAccounts[0].Balance.Equal(decimal.RequireFromString("50")))

	// More than the remaining balance cannot be transferred.
	doJSON(t, "POST", ts.URL+"/transactions/transfer", alice,
		map[string]any{"account_no": bobAcc, "amount": "1000"}, 409, nil)
	// Unknown receiver.
	doJSON(t, "POST", ts.URL+"/transactions/transfer", alice,
		map[string]any{"account_no": 9999, "amount": "5"}, 404, nil)

	// Withdrawals are permissive: the balance may go negative.
	doJSON(t, "POST", ts.URL+"/transactions/withdraw", alice, map[string]string{"amount": "200"}, 200, &rec)
	require.True(t, rec.BalanceAfter.Equal(decimal.RequireFromString("-80")))

	doJSON(t, "POST", ts.URL+"/transactions/deposit", alice, map[string]string{"amount": "-1"}, 400, nil)
}

func TestLoanEndpoints(t *testing.T) {
	ts := setupServer(t)
	createUser(t, "alice@test.com", false, "1000")
	createUser(t, "admin@test.com", true, "")
	alice := login(t, ts, "alice@test.com")
	admin := login(t, ts, "admin@test.com")

	var loan txResp
	doJSON(t, "POST", ts.URL+"/loans", alice, map[string]string{"amount": "500"}, 201, &loan)
	require.False(t, loan.LoanApprove)

	var loans []txResp
	doJSON(t, "GET", ts.URL+"/loans", alice, nil, 200, &loans)
	require.Len(t, loans, 1)

	loanURL := ts.URL + "/admin/loans/" + itoa(loan.ID) + "/approve"
	// Customers cannot approve loans.
	doJSON(t, "POST", loanURL, alice, nil, 403, nil)
	doJSON(t, "POST", loanURL, admin, nil, 200, &loan)
	require.True(t, loan.LoanApprove)
	require.True(t, loan.BalanceAfter.Equal(decimal.RequireFromString("1500")))
	// Second approval would credit twice.
	doJSON(t, "POST", loanURL, admin, nil, 409, nil)

	var paid txResp
	doJSON(t, "POST", ts.URL+"/loans/"+itoa(loan.ID)+"/pay", alice, nil, 200, &paid)
	require.Equal(t, models.TypeLoanPaid, paid.Type)
	require.True(t, paid.BalanceAfter.Equal(decimal.RequireFromString("1000")))

	doJSON(t, "POST", ts.URL+"/loans/"+itoa(loan.ID)+"/pay", alice, nil, 409, nil)
	doJSON(t, "POST", ts.URL+"/loans/9999/pay", alice, nil, 404, nil)
}

func TestSuspendBlocksWithdrawals(t *testing.T) {
	ts := setupServer(t)
	createUser(t, "alice@test.com", false, "100")
	createUser(t, "admin@test.com", true, "")
	alice := login(t, ts, "alice@test.com")
	admin := login(t, ts, "admin@test.com")

	doJSON(t, "POST", ts.URL+"/admin/suspend", admin, nil, 200, nil)
	doJSON(t, "POST", ts.URL+"/transactions/withdraw", alice, map[string]string{"amount": "10"}, 403, nil)
	// Deposits keep working.
	doJSON(t, "POST", ts.URL+"/transactions/deposit", alice, map[string]string{"amount": "10"}, 200, nil)

	doJSON(t, "POST", ts.URL+"/admin/resume", admin, nil, 200, nil)
	doJSON(t, "POST", ts.URL+"/transactions/withdraw", alice, map[string]string{"amount": "10"}, 200, nil)

	// Gate lifecycle is admin-only.
	doJSON(t, "POST", ts.URL+"/admin/suspend", alice, nil, 403, nil)
}

func TestTransactionReport(t *testing.T) {
	ts := setupServer(t)
	createUser(t, "alice@test.com", false, "100")
	alice := login(t, ts, "alice@test.com")

	doJSON(t, "POST", ts.URL+"/transactions/deposit", alice, map[string]string{"amount": "50"}, 200, nil)

	var report struct {
		Transactions []txResp        `json:"transactions"`
		Balance      decimal.Decimal `json:"balance"`
	}
	doJSON(t, "GET", ts.URL+"/transactions", alice, nil, 200, &report)
	require.Len(t, report.Transactions, 2)
	require.True(t, report.Balance.Equal(decimal.RequireFromString("150")))

	today := timeNowDate()
	var ranged struct {
		Transactions []txResp        `json:"transactions"`
		Sum          decimal.Decimal `json:"sum"`
	}
	doJSON(t, "GET", ts.URL+"/transactions?start_date="+today+"&end_date="+today, alice, nil, 200, &ranged)
	require.Len(t, ranged.Transactions, 2)
	require.True(t, ranged.Sum.Equal(decimal.RequireFromString("150")))

	doJSON(t, "GET", ts.URL+"/transactions?start_date=bogus&end_date="+today, alice, nil, 400, nil)
}
