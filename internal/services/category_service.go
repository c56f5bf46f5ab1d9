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

// CategoryService owns the category CRUD operations. All queries are single
// parameterized statements; there is no cross-statement atomicity to manage.
type CategoryService struct {
	db        *sql.DB
	validator *ValidationHelper
}

func NewCategoryService(db *sql.DB) *CategoryService {
	return &CategoryService{
		db:        db,
		validator: NewValidationHelper(),
	}
}

// CreateCategory creates a new category
// @Summary Create a category
// @Description Create a new category for a user
// @Tags categories
// @Accept json
// @Produce json
// @Param category body models.CreateCategoryRequest true "Category data"
// @Success 201 {object} models.Category
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /transaction/category [post]
func (cs *CategoryService) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCategoryRequest

	if err := DecodeJSONBody(w, r, &req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := cs.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "All fields are required", http.StatusBadRequest, err)
		return
	}

	category, err := cs.insertCategory(&req)
	if err != nil {
		log.Printf("[CATEGORY] Failed to create category: %v", err)
		SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(category)
}

// ListCategories lists a user's categories
// @Summary List categories
// @Description Get all categories owned by a user, sorted by name
// @Tags categories
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {array} models.Category
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /transaction/category/{user_id} [get]
func (cs *CategoryService) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		SendErrorResponse(w, "User ID is required", http.StatusBadRequest, nil)
		return
	}

	categories, err := cs.fetchCategoriesByUser(userID)
	if err != nil {
		log.Printf("[CATEGORY] Failed to fetch categories: %v", err)
		SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(categories)
}

// UpdateCategory updates a category's name and icon
// @Summary Update a category
// @Description Update the name and icon of an existing category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param category body models.UpdateCategoryRequest true "Category data"
// @Success 200 {object} models.Category
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /transaction/category/{id} [put]
func (cs *CategoryService) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		SendErrorResponse(w, "Category ID must be a number", http.StatusBadRequest, nil)
		return
	}

	var req models.UpdateCategoryRequest
	if err := DecodeJSONBody(w, r, &req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := cs.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Name and icon are required", http.StatusBadRequest, err)
		return
	}

	category, err := cs.updateCategory(id, &req)
	if err != nil {
		if err == sql.ErrNoRows {
			SendErrorResponse(w, "Category not found", http.StatusNotFound, nil)
			return
		}
		log.Printf("[CATEGORY] Failed to update category: %v", err)
		SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(category)
}

// DeleteCategory deletes a category
// @Summary Delete a category
// @Description Delete a category by id
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} object{message=string,category=models.Category}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /transaction/category/{id} [delete]
func (cs *CategoryService) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		SendErrorResponse(w, "Category ID must be a number", http.StatusBadRequest, nil)
		return
	}

	category, err := cs.deleteCategory(id)
	if err != nil {
		if err == sql.ErrNoRows {
			SendErrorResponse(w, "Category not found", http.StatusNotFound, nil)
			return
		}
		log.Printf("[CATEGORY] Failed to delete category: %v", err)
		SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message":  "Category deleted",
		"category": category,
	})
}

// Store access

func (cs *CategoryService) insertCategory(req *models.CreateCategoryRequest) (*models.Category, error) {
	category := &models.Category{
		Name:   req.Name,
		Icon:   req.Icon,
		UserID: req.UserID,
	}

	err := cs.db.QueryRow(`
        INSERT INTO categories (name, icon, user_id)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `, req.Name, req.Icon, req.UserID).Scan(&category.ID, &category.CreatedAt)

	if err != nil {
		return nil, err
	}

	return category, nil
}

func (cs *CategoryService) fetchCategoriesByUser(userID string) ([]models.Category, error) {
	rows, err := cs.db.Query(`
        SELECT id, name, icon, user_id, created_at
        FROM categories
        WHERE user_id = $1
        ORDER BY name ASC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Icon, &category.UserID, &category.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

func (cs *CategoryService) updateCategory(id int64, req *models.UpdateCategoryRequest) (*models.Category, error) {
	category := &models.Category{ID: id}

	err := cs.db.QueryRow(`
        UPDATE categories
        SET name = $1, icon = $2
        WHERE id = $3
        RETURNING name, icon, user_id, created_at
    `, req.Name, req.Icon, id).Scan(&category.Name, &category.Icon, &category.UserID, &category.CreatedAt)

	if err != nil {
		return nil, err
	}

	return category, nil
}

func (cs *CategoryService) deleteCategory(id int64) (*models.Category, error) {
	category := &models.Category{}

	err := cs.db.QueryRow(`
        DELETE FROM categories
        WHERE id = $1
        RETURNING id, name, icon, user_id, created_at
    `, id).Scan(&category.ID, &category.Name, &category.Icon, &category.UserID, &category.CreatedAt)

	if err != nil {
		return nil, err
	}

	return category, nil
}
