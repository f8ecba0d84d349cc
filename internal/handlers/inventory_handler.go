package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-desk/internal/audit"
	"github.com/BruksfildServices01/barber-desk/internal/domain/inventory"
	"github.com/BruksfildServices01/barber-desk/internal/httperr"
	"github.com/BruksfildServices01/barber-desk/internal/httpresp"
	"github.com/BruksfildServices01/barber-desk/internal/models"
)

type InventoryHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewInventoryHandler(db *gorm.DB, audit *audit.Dispatcher) *InventoryHandler {
	return &InventoryHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateInventoryItemRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Quantity    int      `json:"quantity" binding:"min=0"`
	MinQuantity int      `json:"min_quantity" binding:"min=0"`
	Unit        string   `json:"unit"`
	UnitPrice   *float64 `json:"unit_price"`
	Supplier    string   `json:"supplier"`
	ExpiresAt   string   `json:"expires_at"` // YYYY-MM-DD
	Sellable    bool     `json:"sellable"`
}

type UpdateInventoryItemRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	MinQuantity *int     `json:"min_quantity,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
	UnitPrice   *float64 `json:"unit_price,omitempty"`
	Supplier    *string  `json:"supplier,omitempty"`
	ExpiresAt   *string  `json:"expires_at,omitempty"`
	Sellable    *bool    `json:"sellable,omitempty"`
}

type StockMovementRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// --------- Handlers ---------

func (h *InventoryHandler) List(c *gin.Context) {
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))

	q := h.db.WithContext(c.Request.Context()).Where("barbershop_id = ?", shopID(c))
	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	var items []models.InventoryItem
	if err := q.Order("name ASC").Find(&items).Error; err != nil {
		httperr.Internal(c, "failed_to_list_inventory", "Erro ao listar estoque.")
		return
	}

	if items == nil {
		items = []models.InventoryItem{}
	}
	httpresp.OK(c, items)
}

// Sellable lists the items that can be attached at checkout right now.
func (h *InventoryHandler) Sellable(c *gin.Context) {
	var items []models.InventoryItem
	if err := h.db.WithContext(c.Request.Context()).
		Where("barbershop_id = ? AND sellable = ?", shopID(c), true).
		Order("id ASC").
		Find(&items).Error; err != nil {
		httperr.Internal(c, "failed_to_list_inventory", "Erro ao listar estoque.")
		return
	}

	out := []models.InventoryItem{}
	for _, it := range items {
		if inventory.Sellable(it) {
			out = append(out, it)
		}
	}
	httpresp.OK(c, out)
}

// Notifications lists items at or below their minimum quantity.
func (h *InventoryHandler) Notifications(c *gin.Context) {
	var items []models.InventoryItem
	if err := h.db.WithContext(c.Request.Context()).
		Where("barbershop_id = ?", shopID(c)).
		Order("quantity ASC, id ASC").
		Find(&items).Error; err != nil {
		httperr.Internal(c, "failed_to_list_inventory", "Erro ao listar estoque.")
		return
	}

	httpresp.List(c, inventory.Notifications(items))
}

func (h *InventoryHandler) Create(c *gin.Context) {
	var req CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	expires, ok := parseOptionalDate(c, req.ExpiresAt)
	if !ok {
		return
	}
	if req.UnitPrice != nil && *req.UnitPrice < 0 {
		httperr.BadRequest(c, "invalid_price", "Preço inválido.")
		return
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = "unidade"
	}

	item := models.InventoryItem{
		BarbershopID: shopID(c),
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Category:     strings.ToLower(req.Category),
		Quantity:     req.Quantity,
		MinQuantity:  req.MinQuantity,
		Unit:         unit,
		UnitPrice:    req.UnitPrice,
		Supplier:     req.Supplier,
		ExpiresAt:    expires,
		Sellable:     req.Sellable,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&item).Error; err != nil {
		httperr.Internal(c, "failed_to_create_item", "Erro ao criar item de estoque.")
		return
	}

	h.dispatch(c, "inventory_item_created", &item, nil)
	httpresp.Created(c, item)
}

func (h *InventoryHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req UpdateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	item, ok := h.load(c, h.db, id)
	if !ok {
		return
	}

	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Category != nil {
		item.Category = strings.ToLower(*req.Category)
	}
	if req.MinQuantity != nil {
		if *req.MinQuantity < 0 {
			httperr.BadRequest(c, "invalid_quantity", "Quantidade inválida.")
			return
		}
		item.MinQuantity = *req.MinQuantity
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.UnitPrice != nil {
		if *req.UnitPrice < 0 {
			httperr.BadRequest(c, "invalid_price", "Preço inválido.")
			return
		}
		item.UnitPrice = req.UnitPrice
	}
	if req.Supplier != nil {
		item.Supplier = *req.Supplier
	}
	if req.ExpiresAt != nil {
		expires, ok := parseOptionalDate(c, *req.ExpiresAt)
		if !ok {
			return
		}
		item.ExpiresAt = expires
	}
	if req.Sellable != nil {
		item.Sellable = *req.Sellable
	}

	if err := h.db.WithContext(c.Request.Context()).Save(item).Error; err != nil {
		httperr.Internal(c, "failed_to_update_item", "Erro ao atualizar item de estoque.")
		return
	}

	httpresp.OK(c, item)
}

func (h *InventoryHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	item, ok := h.load(c, h.db, id)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(item).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_item", "Erro ao remover item de estoque.")
		return
	}

	h.dispatch(c, "inventory_item_deleted", item, nil)
	httpresp.OK(c, item)
}

// POST /me/inventory/:id/add
func (h *InventoryHandler) Add(c *gin.Context) {
	h.move(c, "inventory_stock_added", inventory.Add)
}

// POST /me/inventory/:id/remove
func (h *InventoryHandler) Remove(c *gin.Context) {
	h.move(c, "inventory_stock_removed", inventory.Remove)
}

func (h *InventoryHandler) move(
	c *gin.Context,
	action string,
	apply func(*models.InventoryItem, int) bool,
) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req StockMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_quantity", "Quantidade inválida.")
		return
	}

	var updated *models.InventoryItem
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		item, err := h.find(tx.Clauses(clause.Locking{Strength: "UPDATE"}), shopID(c), id)
		if err != nil {
			return err
		}
		if !apply(item, req.Quantity) {
			return httperr.ErrBusiness("insufficient_stock")
		}
		if err := tx.Model(item).Update("quantity", item.Quantity).Error; err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		respondError(c, err, "failed_to_move_stock")
		return
	}

	h.dispatch(c, action, updated, map[string]any{"quantity": req.Quantity})
	httpresp.OK(c, updated)
}

// --------- helpers ---------

func (h *InventoryHandler) find(db *gorm.DB, barbershopID, id uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := db.
		Where("id = ? AND barbershop_id = ?", id, barbershopID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("item_not_found")
		}
		return nil, err
	}
	return &item, nil
}

func (h *InventoryHandler) load(c *gin.Context, db *gorm.DB, id uint) (*models.InventoryItem, bool) {
	item, err := h.find(db.WithContext(c.Request.Context()), shopID(c), id)
	if err != nil {
		respondError(c, err, "failed_to_get_item")
		return nil, false
	}
	return item, true
}

func (h *InventoryHandler) dispatch(c *gin.Context, action string, item *models.InventoryItem, meta any) {
	uid := userID(c)
	h.audit.Dispatch(audit.Event{
		BarbershopID: item.BarbershopID,
		UserID:       &uid,
		Action:       action,
		Entity:       "inventory_item",
		EntityID:     &item.ID,
		Metadata:     meta,
	})
}

func parseOptionalDate(c *gin.Context, raw string) (*time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return nil, false
	}
	return &t, true
}
