package api

import (
	"strconv"

	"budgetbuddy/database"
	"budgetbuddy/middleware"
	"budgetbuddy/models"

	"github.com/gin-gonic/gin"
)

// CategoryHandler serves category endpoints. Users see the global seed
// categories plus their own; they can only modify their own.
type CategoryHandler struct{}

// NewCategoryHandler creates a category handler.
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// CategoryRequest is the create/update payload.
type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=50" example:"Pets"`
	Type string `json:"type" binding:"required,oneof=income expense" example:"expense"`
}

// Create adds a user-owned category.
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryRequest true "category info"
// @Success 200 {object} Response{data=models.Category} "created"
// @Failure 400 {object} Response "invalid request"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	var existing models.Category
	if err := database.DB.
		Where("name = ? AND (user_id = ? OR user_id IS NULL)", req.Name, userID).
		First(&existing).Error; err == nil {
		BadRequest(c, "category already exists")
		return
	}

	category := models.Category{
		UserID: &userID,
		Name:   req.Name,
		Type:   req.Type,
	}
	if err := database.DB.Create(&category).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create category failed"))
		return
	}

	SuccessWithMessage(c, "category created", category)
}

// List returns the global categories plus the current user's own.
// @Summary List categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Category} "categories"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var categories []models.Category
	if err := database.DB.
		Where("user_id = ? OR user_id IS NULL", userID).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "list categories failed"))
		return
	}

	Success(c, categories)
}

// Update renames or retypes a user-owned category. Global categories are
// read-only.
// @Summary Update category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Param request body CategoryRequest true "new category fields"
// @Success 200 {object} Response{data=models.Category} "updated"
// @Failure 404 {object} Response "category not found"
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid category id")
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	var category models.Category
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).
		First(&category).Error; err != nil {
		NotFound(c, "category not found or unauthorized")
		return
	}

	category.Name = req.Name
	category.Type = req.Type
	if err := database.DB.Model(&category).Updates(map[string]interface{}{
		"name": req.Name,
		"type": req.Type,
	}).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "update category failed"))
		return
	}

	SuccessWithMessage(c, "category updated", category)
}

// Delete removes a user-owned category.
// @Summary Delete category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Success 200 {object} Response "deleted"
// @Failure 404 {object} Response "category not found"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid category id")
		return
	}

	result := database.DB.Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Category{})
	if result.Error != nil {
		InternalError(c, SafeErrorMessage(result.Error, "delete category failed"))
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, "category not found or unauthorized")
		return
	}

	SuccessWithMessage(c, "category deleted", nil)
}
