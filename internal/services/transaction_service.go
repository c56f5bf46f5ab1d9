package services

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/walletly/backend/internal/models"
)

// TransactionService owns transaction CRUD and the aggregate summary.
// Transactions are immutable once created: the only mutations are insert and
// delete, each a single statement.
type TransactionService struct {
	db        *sql.DB
	validator *ValidationHelper
}

func NewTransactionService(db *sql.DB) *TransactionService {
	return &TransactionService{
		db:        db,
		validator: NewValidationHelper(),
	}
}

// CreateTransaction creates a new transaction
// @Summary Create a transaction
// @Description Record a money movement. Negative amounts are expenses, positive amounts income.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body models.CreateTransactionRequest true "Transaction data"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /transaction [post]
func (ts *TransactionService) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTransactionRequest

	if err := DecodeJSONBody(w, r, &req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := ts.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "All fields are required", http.StatusBadRequest, err)
		return
	}

	transaction, err := ts.insertTransaction(&req)
	if err != nil {
		log.Printf("[TRANSACTION] Failed to create transaction: %v", err)
		SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(transaction)
}

// ListTransactions lists a user's transactions
// @Summary List transactions
// @Description Get all transactions owned by a user, newest first
// @Tags transactions
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {array} models.Transaction
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /transaction/{user_id} [get]
func (ts *TransactionService) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		SendErrorResponse(w, "User ID is required", http.StatusBadRequest, nil)
		return
	}

	transactions, err := ts.fetchTransactionsByUser(userID)
	if err != nil {
		log.Printf("[TRANSACTION] Failed to fetch transactions: %v", err)
		SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transactions)
}

// DeleteTransaction deletes a transaction
// @Summary Delete a transaction
// @Description Delete a transaction by id
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} object{message=string,transaction=models.Transaction}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /transaction/{id} [delete]
func (ts *TransactionService) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		SendErrorResponse(w, "Transaction ID must be a number", http.StatusBadRequest, nil)
		return
	}

	transaction, err := ts.deleteTransaction(id)
	if err != nil {
		if err == sql.ErrNoRows {
			SendErrorResponse(w, "Transaction not found", http.StatusNotFound, nil)
			return
		}
		log.Printf("[TRANSACTION] Failed to delete transaction: %v", err)
		SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message":     "Transaction deleted",
		"transaction": transaction,
	})
}

// GetSummary returns a user's balance, income and expense aggregates
// @Summary Get transaction summary
// @Description Get balance, income and expense for a user. Expense keeps its negative sign.
// @Tags transactions
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} models.Summary
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /transaction/summary/{user_id} [get]
func (ts *TransactionService) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		SendErrorResponse(w, "User ID is required", http.StatusBadRequest, nil)
		return
	}

	summary, err := ts.fetchSummary(userID)
	if err != nil {
		log.Printf("[TRANSACTION] Failed to fetch summary: %v", err)
		SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// Store access

func (ts *TransactionService) insertTransaction(req *models.CreateTransactionRequest) (*models.Transaction, error) {
	transaction := &models.Transaction{
		UserID:     req.UserID,
		Title:      req.Title,
		Amount:     *req.Amount,
		CategoryID: req.Category,
	}

	err := ts.db.QueryRow(`
        INSERT INTO transactions (user_id, title, amount, category_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `, req.UserID, req.Title, req.Amount, req.Category).Scan(&transaction.ID, &transaction.CreatedAt)

	if err != nil {
		return nil, err
	}

	return transaction, nil
}

func (ts *TransactionService) fetchTransactionsByUser(userID string) ([]models.Transaction, error) {
	// id ASC breaks created_at ties deterministically
	rows, err := ts.db.Query(`
        SELECT id, user_id, title, amount, category_id, created_at
        FROM transactions
        WHERE user_id = $1
        ORDER BY created_at DESC, id ASC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var transaction models.Transaction
		err := rows.Scan(
			&transaction.ID, &transaction.UserID, &transaction.Title,
			&transaction.Amount, &transaction.CategoryID, &transaction.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}

	return transactions, rows.Err()
}

func (ts *TransactionService) deleteTransaction(id int64) (*models.Transaction, error) {
	transaction := &models.Transaction{}

	err := ts.db.QueryRow(`
        DELETE FROM transactions
        WHERE id = $1
        RETURNING id, user_id, title, amount, category_id, created_at
    `, id).Scan(
		&transaction.ID, &transaction.UserID, &transaction.Title,
		&transaction.Amount, &transaction.CategoryID, &transaction.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// fetchSummary computes all three aggregates in one statement so they always
// reflect the same snapshot of the transaction set. Zero-amount rows count
// toward balance but toward neither income nor expense.
func (ts *TransactionService) fetchSummary(userID string) (*models.Summary, error) {
	summary := &models.Summary{}

	err := ts.db.QueryRow(`
        SELECT
            COALESCE(SUM(amount), 0) AS balance,
            COALESCE(SUM(amount) FILTER (WHERE amount > 0), 0) AS income,
            COALESCE(SUM(amount) FILTER (WHERE amount < 0), 0) AS expense
        FROM transactions
        WHERE user_id = $1
    `, userID).Scan(&summary.Balance, &summary.Income, &summary.Expense)

	if err != nil {
		return nil, err
	}

	return summary, nil
}
