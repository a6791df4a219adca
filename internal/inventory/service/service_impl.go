package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/brewhaus/internal/inventory/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultUnit = "unit"

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("inventory.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) ListIngredients(ctx context.Context, req domain.ListRequest) ([]domain.IngredientResponse, error) {
	items, err := s.repo.ListIngredients(ctx, s.db, domain.ListFilter{
		Query:  strings.TrimSpace(req.Query),
		Active: req.Active,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]domain.IngredientResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toIngredientResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) CreateIngredient(ctx context.Context, req domain.CreateIngredientRequest) (*domain.IngredientResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = defaultUnit
	}

	minLevel := decimal.Zero
	if req.MinLevel != nil {
		minLevel = *req.MinLevel
	}
	qtyOnHand := decimal.Zero
	if req.QtyOnHand != nil {
		qtyOnHand = *req.QtyOnHand
	}
	if qtyOnHand.IsNegative() || minLevel.IsNegative() {
		return nil, domain.ErrNegativeQuantity
	}

	now := time.Now().UTC()
	ing := &domain.Ingredient{
		ID:        s.genID.Generate().Int64(),
		Name:      name,
		Unit:      unit,
		QtyOnHand: qtyOnHand,
		MinLevel:  minLevel,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateIngredient(ctx, s.db, ing); err != nil {
		return nil, err
	}

	resp := toIngredientResponse(ing)
	return &resp, nil
}

func (s *Service) UpdateIngredient(ctx context.Context, req domain.UpdateIngredientRequest) (*domain.IngredientResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	if req.Name == nil && req.Unit == nil && req.MinLevel == nil && req.QtyOnHand == nil && req.Active == nil {
		return nil, domain.ErrNothingToSet
	}

	ing, err := s.repo.FindIngredientByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		ing.Name = name
	}
	if req.Unit != nil {
		unit := strings.TrimSpace(*req.Unit)
		if unit == "" {
			return nil, domain.ErrInvalidUnit
		}
		ing.Unit = unit
	}
	if req.MinLevel != nil {
		if req.MinLevel.IsNegative() {
			return nil, domain.ErrNegativeQuantity
		}
		ing.MinLevel = *req.MinLevel
	}
	if req.QtyOnHand != nil {
		if req.QtyOnHand.IsNegative() {
			return nil, domain.ErrNegativeQuantity
		}
		ing.QtyOnHand = *req.QtyOnHand
	}
	if req.Active != nil {
		ing.Active = *req.Active
	}

	ing.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateIngredient(ctx, s.db, ing); err != nil {
		return nil, err
	}

	resp := toIngredientResponse(ing)
	return &resp, nil
}

func (s *Service) DeactivateIngredient(ctx context.Context, id string) (*domain.IngredientResponse, error) {
	ingredientID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	ing, err := s.repo.FindIngredientByID(ctx, s.db, ingredientID)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, domain.ErrNotFound
	}

	ing.Active = false
	ing.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateIngredient(ctx, s.db, ing); err != nil {
		return nil, err
	}

	resp := toIngredientResponse(ing)
	return &resp, nil
}

// Move applies a manual stock movement. The ledger append and the on-hand
// update commit together or not at all.
func (s *Service) Move(ctx context.Context, req domain.MoveRequest) (*domain.MoveResponse, error) {
	ingredientID, err := parseID(req.IngredientID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	direction := domain.MoveDirection(strings.TrimSpace(req.Direction))
	if direction != domain.MoveIn && direction != domain.MoveOut {
		return nil, domain.ErrInvalidMove
	}
	if req.Qty == nil || !req.Qty.IsPositive() {
		return nil, domain.ErrInvalidMove
	}
	qty := *req.Qty

	var resp domain.MoveResponse
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ing, err := s.repo.FindIngredientByID(ctx, tx, ingredientID)
		if err != nil {
			return err
		}
		if ing == nil {
			return domain.ErrNotFound
		}

		next := ing.QtyOnHand.Add(qty)
		if direction == domain.MoveOut {
			next = ing.QtyOnHand.Sub(qty)
		}
		if next.IsNegative() {
			return domain.ErrNegativeQuantity
		}

		move := &domain.StockMove{
			ID:           s.genID.Generate().Int64(),
			IngredientID: ing.ID,
			Direction:    direction,
			Qty:          qty,
			Note:         req.Note,
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.repo.CreateMove(ctx, tx, move); err != nil {
			return err
		}

		ing.QtyOnHand = next
		ing.UpdatedAt = time.Now().UTC()
		if err := s.repo.UpdateIngredient(ctx, tx, ing); err != nil {
			return err
		}

		resp = domain.MoveResponse{
			Ingredient: toIngredientResponse(ing),
			QtyAfter:   next,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Service) ListMoves(ctx context.Context, req domain.ListMovesRequest) ([]domain.StockMoveResponse, error) {
	filter := domain.MovesFilter{Limit: req.Limit}
	if raw := strings.TrimSpace(req.IngredientID); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		filter.IngredientID = id
	}

	moves, err := s.repo.ListMoves(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.StockMoveResponse, 0, len(moves))
	for i := range moves {
		resp = append(resp, toMoveResponse(&moves[i]))
	}
	return resp, nil
}

func (s *Service) GetRecipe(ctx context.Context, productID string) ([]domain.RecipeLine, error) {
	id, err := parseID(productID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	rows, err := s.repo.FindRecipe(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.RecipeLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, domain.RecipeLine{
			IngredientID: strconv.FormatInt(row.IngredientID, 10),
			QtyPerUnit:   row.QtyPerUnit,
		})
	}
	return lines, nil
}

func (s *Service) ReplaceRecipe(ctx context.Context, productID string, lines []domain.RecipeLine) ([]domain.RecipeLine, error) {
	id, err := parseID(productID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	rows := make([]domain.Recipe, 0, len(lines))
	seen := make(map[int64]bool, len(lines))
	for _, line := range lines {
		ingredientID, err := parseID(line.IngredientID)
		if err != nil {
			return nil, domain.ErrInvalidRecipe
		}
		if !line.QtyPerUnit.IsPositive() || seen[ingredientID] {
			return nil, domain.ErrInvalidRecipe
		}
		seen[ingredientID] = true
		rows = append(rows, domain.Recipe{
			ProductID:    id,
			IngredientID: ingredientID,
			QtyPerUnit:   line.QtyPerUnit,
		})
	}

	if err := s.repo.ReplaceRecipe(ctx, s.db, id, rows); err != nil {
		return nil, err
	}
	return lines, nil
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}

func toIngredientResponse(ing *domain.Ingredient) domain.IngredientResponse {
	return domain.IngredientResponse{
		ID:        strconv.FormatInt(ing.ID, 10),
		Name:      ing.Name,
		Unit:      ing.Unit,
		QtyOnHand: ing.QtyOnHand,
		MinLevel:  ing.MinLevel,
		Active:    ing.Active,
		CreatedAt: ing.CreatedAt,
		UpdatedAt: ing.UpdatedAt,
	}
}

func toMoveResponse(move *domain.StockMove) domain.StockMoveResponse {
	return domain.StockMoveResponse{
		ID:           strconv.FormatInt(move.ID, 10),
		IngredientID: strconv.FormatInt(move.IngredientID, 10),
		Direction:    string(move.Direction),
		Qty:          move.Qty,
		Note:         move.Note,
		CreatedAt:    move.CreatedAt,
	}
}
