package services

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testTime() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newCategoryRouter(service *CategoryService) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/transaction/category", service.CreateCategory)
	r.Get("/transaction/category/{userID}", service.ListCategories)
	r.Put("/transaction/category/{id}", service.UpdateCategory)
	r.Delete("/transaction/category/{id}", service.DeleteCategory)
	return r
}

func TestCategoryService_CreateCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewCategoryService(db)
	r := newCategoryRouter(service)

	t.Run("successful creation returns the persisted row", func(t *testing.T) {
		userID := uuid.NewString()

		mock.ExpectQuery("INSERT INTO categories \\(name, icon, user_id\\)").
			WithArgs("Groceries", "cart", userID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).
				AddRow(int64(3), testTime()))

		body := fmt.Sprintf(`{"name":"Groceries","icon":"cart","user_id":"%s"}`, userID)
		req := httptest.NewRequest("POST", "/transaction/category", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, float64(3), response["id"])
		assert.Equal(t, "Groceries", response["name"])
		assert.Equal(t, "cart", response["icon"])
		assert.Equal(t, userID, response["user_id"])
		assert.NotEmpty(t, response["created_at"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty name fails before store access", func(t *testing.T) {
		body := `{"name":"","icon":"cart","user_id":"u1"}`
		req := httptest.NewRequest("POST", "/transaction/category", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var response ErrorResponse
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Contains(t, response.Details, "Name")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing user_id fails before store access", func(t *testing.T) {
		body := `{"name":"Groceries","icon":"cart"}`
		req := httptest.NewRequest("POST", "/transaction/category", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid request body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/transaction/category", bytes.NewBufferString("not json"))
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCategoryService_ListCategories(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewCategoryService(db)
	r := newCategoryRouter(service)

	t.Run("returns owner's categories sorted by name", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, icon, user_id, created_at FROM categories WHERE user_id = \\$1 ORDER BY name ASC").
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "icon", "user_id", "created_at"}).
				AddRow(int64(2), "Groceries", "cart", "u1", testTime()).
				AddRow(int64(1), "Rent", "home", "u1", testTime()))

		req := httptest.NewRequest("GET", "/transaction/category/u1", nil)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response []map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Len(t, response, 2)
		assert.Equal(t, "Groceries", response[0]["name"])
		assert.Equal(t, "Rent", response[1]["name"])
		for _, category := range response {
			assert.Equal(t, "u1", category["user_id"])
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no categories yields empty array", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, icon, user_id, created_at FROM categories").
			WithArgs("u2").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "icon", "user_id", "created_at"}))

		req := httptest.NewRequest("GET", "/transaction/category/u2", nil)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCategoryService_UpdateCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewCategoryService(db)
	r := newCategoryRouter(service)

	t.Run("updates icon while id and created_at stay put", func(t *testing.T) {
		createdAt := testTime()
		mock.ExpectQuery("UPDATE categories SET name = \\$1, icon = \\$2 WHERE id = \\$3 RETURNING").
			WithArgs("Groceries", "basket", int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"name", "icon", "user_id", "created_at"}).
				AddRow("Groceries", "basket", "u1", createdAt))

		body := `{"name":"Groceries","icon":"basket"}`
		req := httptest.NewRequest("PUT", "/transaction/category/3", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, float64(3), response["id"])
		assert.Equal(t, "Groceries", response["name"])
		assert.Equal(t, "basket", response["icon"])
		assert.Equal(t, createdAt.Format(time.RFC3339), response["created_at"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing icon fails before store access", func(t *testing.T) {
		body := `{"name":"Groceries"}`
		req := httptest.NewRequest("PUT", "/transaction/category/3", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nonexistent id returns not found", func(t *testing.T) {
		mock.ExpectQuery("UPDATE categories SET name = \\$1, icon = \\$2 WHERE id = \\$3 RETURNING").
			WithArgs("Groceries", "basket", int64(99)).
			WillReturnError(sql.ErrNoRows)

		body := `{"name":"Groceries","icon":"basket"}`
		req := httptest.NewRequest("PUT", "/transaction/category/99", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-numeric id is rejected", func(t *testing.T) {
		body := `{"name":"Groceries","icon":"basket"}`
		req := httptest.NewRequest("PUT", "/transaction/category/abc", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewCategoryService(db)
	r := newCategoryRouter(service)

	t.Run("successful deletion returns the removed row", func(t *testing.T) {
		mock.ExpectQuery("DELETE FROM categories WHERE id = \\$1 RETURNING").
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "icon", "user_id", "created_at"}).
				AddRow(int64(3), "Groceries", "cart", "u1", testTime()))

		req := httptest.NewRequest("DELETE", "/transaction/category/3", nil)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, "Category deleted", response["message"])
		category := response["category"].(map[string]interface{})
		assert.Equal(t, "Groceries", category["name"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nonexistent id returns not found", func(t *testing.T) {
		mock.ExpectQuery("DELETE FROM categories WHERE id = \\$1 RETURNING").
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		req := httptest.NewRequest("DELETE", "/transaction/category/99", nil)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
