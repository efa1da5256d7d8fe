package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/felps-dev/i-revenue-api/internal/apperr"
	"github.com/felps-dev/i-revenue-api/internal/httpx"
	"github.com/felps-dev/i-revenue-api/internal/middleware"
	"github.com/felps-dev/i-revenue-api/internal/model"
	"github.com/felps-dev/i-revenue-api/internal/repository"
)

// RevenueHandler bundles dependencies for the revenue CRUD endpoints.  Every
// operation is scoped to the authenticated user injected by BearerAuth.
type RevenueHandler struct {
	Revenues *repository.RevenueRepo
}

func NewRevenueHandler(revenues *repository.RevenueRepo) *RevenueHandler {
	return &RevenueHandler{Revenues: revenues}
}

// ----- DTOs -----

type benefitInput struct {
	Type  string `json:"type" validate:"required"`
	Value int64  `json:"value" validate:"gte=0"`
}

type revenueReq struct {
	Name           string         `json:"name" validate:"required"`
	Type           string         `json:"type" validate:"required,oneof=clt pj freelance donation other"`
	RevenueAsRange bool           `json:"revenueAsRange"`
	MinRevenue     float64        `json:"min_revenue" validate:"gte=0"`
	MaxRevenue     *float64       `json:"max_revenue" validate:"omitempty,gte=0"`
	Cycle          string         `json:"cycle" validate:"required,oneof=monthly yearly"`
	Benefits       []benefitInput `json:"benefits" validate:"dive"`
}

type benefitResp struct {
	ID        string `json:"id"`
	RevenueID string `json:"revenue_id"`
	Type      string `json:"type"`
	Value     int64  `json:"value"`
}

type benefitListResp struct {
	Type  string `json:"type"`
	Value int64  `json:"value"`
}

// revenueResp is the full record returned by create and update.
type revenueResp struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Type           string        `json:"type"`
	RevenueAsRange bool          `json:"revenueAsRange"`
	MinRevenue     float64       `json:"min_revenue"`
	MaxRevenue     *float64      `json:"max_revenue"`
	Cycle          string        `json:"cycle"`
	Benefits       []benefitResp `json:"benefits"`
	CreatedAt      string        `json:"createdAt"`
	UpdatedAt      string        `json:"updatedAt"`
}

// revenueListResp is the trimmed shape used by the list endpoint; its
// benefits omit id and revenue_id.
type revenueListResp struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Type       string            `json:"type"`
	MinRevenue float64           `json:"min_revenue"`
	MaxRevenue *float64          `json:"max_revenue"`
	Cycle      string            `json:"cycle"`
	Benefits   []benefitListResp `json:"benefits"`
}

// revenueDetailResp is the shape used by the detail endpoint; benefits keep
// their full rows here.
type revenueDetailResp struct {
	Name       string        `json:"name"`
	Type       string        `json:"type"`
	MinRevenue float64       `json:"min_revenue"`
	MaxRevenue *float64      `json:"max_revenue"`
	Cycle      string        `json:"cycle"`
	Benefits   []benefitResp `json:"benefits"`
}

// normalize validates the range invariant and forces max_revenue to null for
// non-range records before anything is written.
func (req revenueReq) normalize() (repository.RevenueParams, error) {
	if req.RevenueAsRange && req.MaxRevenue == nil {
		return repository.RevenueParams{}, apperr.New(
			http.StatusBadRequest, apperr.CodeValidationError, "Dados inválidos").
			WithDetails(apperr.Detail{
				Code:    "required",
				Message: "O campo de receita máxima é obrigatório.",
				Path:    "max_revenue",
			})
	}
	if req.RevenueAsRange && *req.MaxRevenue < req.MinRevenue {
		return repository.RevenueParams{}, apperr.New(
			http.StatusBadRequest, apperr.CodeInvalidRevenueRange, "Faixa de renda inválida").
			WithDetails(apperr.Detail{
				Code:    apperr.CodeInvalidRevenueRange,
				Message: "A receita máxima deve ser maior ou igual à receita mínima.",
				Path:    "max_revenue",
			})
	}

	max := req.MaxRevenue
	if !req.RevenueAsRange {
		max = nil // whatever the client sent, a non-range record stores null
	}

	benefits := make([]repository.BenefitParams, 0, len(req.Benefits))
	for _, b := range req.Benefits {
		benefits = append(benefits, repository.BenefitParams{Type: b.Type, Value: b.Value})
	}
	return repository.RevenueParams{
		Name:           req.Name,
		Type:           req.Type,
		RevenueAsRange: req.RevenueAsRange,
		MinRevenue:     req.MinRevenue,
		MaxRevenue:     max,
		Cycle:          req.Cycle,
		Benefits:       benefits,
	}, nil
}

func errRevenueNotFound() *apperr.Error {
	msg := "Renda não encontrada"
	return apperr.New(http.StatusNotFound, apperr.CodeRevenueNotFound, msg).
		WithDetails(apperr.Detail{Code: apperr.CodeRevenueNotFound, Message: msg})
}

// Create stores a new revenue with its benefits.
func (h *RevenueHandler) Create(c echo.Context) error {
	user, _ := middleware.AuthUserFrom(c)

	var req revenueReq
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	params, err := req.normalize()
	if err != nil {
		return err
	}

	rev, err := h.Revenues.Create(c.Request().Context(), user.ID, params)
	if err != nil {
		return apperr.New(http.StatusInternalServerError, apperr.CodeRevenueCreateFailed, "Erro interno ao criar renda")
	}
	return httpx.OK(c, http.StatusCreated, toRevenueResp(rev))
}

// List returns every revenue owned by the caller, newest first.
func (h *RevenueHandler) List(c echo.Context) error {
	user, _ := middleware.AuthUserFrom(c)

	revenues, err := h.Revenues.ListByUser(c.Request().Context(), user.ID)
	if err != nil {
		return apperr.New(http.StatusInternalServerError, apperr.CodeInternalError, "Erro interno ao listar rendas")
	}

	out := make([]revenueListResp, 0, len(revenues))
	for _, rev := range revenues {
		out = append(out, toRevenueListResp(rev))
	}
	return httpx.OK(c, http.StatusOK, out)
}

// Get returns a single revenue by id.
func (h *RevenueHandler) Get(c echo.Context) error {
	user, _ := middleware.AuthUserFrom(c)

	rev, err := h.Revenues.GetByID(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errRevenueNotFound()
		}
		return apperr.New(http.StatusInternalServerError, apperr.CodeInternalError, "Erro interno ao buscar renda")
	}
	return httpx.OK(c, http.StatusOK, toRevenueDetailResp(rev))
}

// Update rewrites a revenue; benefits are replaced wholesale.
func (h *RevenueHandler) Update(c echo.Context) error {
	user, _ := middleware.AuthUserFrom(c)

	var req revenueReq
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	params, err := req.normalize()
	if err != nil {
		return err
	}

	rev, err := h.Revenues.Update(c.Request().Context(), user.ID, c.Param("id"), params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errRevenueNotFound()
		}
		return apperr.New(http.StatusInternalServerError, apperr.CodeRevenueUpdateFailed, "Erro interno ao atualizar renda")
	}
	return httpx.OK(c, http.StatusOK, toRevenueResp(rev))
}

// Delete removes a revenue and its benefits.
func (h *RevenueHandler) Delete(c echo.Context) error {
	user, _ := middleware.AuthUserFrom(c)

	id := c.Param("id")
	if err := h.Revenues.Delete(c.Request().Context(), user.ID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errRevenueNotFound()
		}
		return apperr.New(http.StatusInternalServerError, apperr.CodeRevenueDeleteFailed, "Erro interno ao remover renda")
	}
	return httpx.OK(c, http.StatusOK, echo.Map{"id": id})
}

// ----- mapping -----

func toBenefitResp(list []model.Benefit) []benefitResp {
	out := make([]benefitResp, 0, len(list))
	for _, b := range list {
		out = append(out, benefitResp{ID: b.ID, RevenueID: b.RevenueID, Type: b.Type, Value: b.Value})
	}
	return out
}

func toRevenueResp(rev model.Revenue) revenueResp {
	return revenueResp{
		ID:             rev.ID,
		Name:           rev.Name,
		Type:           rev.Type,
		RevenueAsRange: rev.RevenueAsRange,
		MinRevenue:     rev.MinRevenue,
		MaxRevenue:     rev.MaxRevenue,
		Cycle:          rev.Cycle,
		Benefits:       toBenefitResp(rev.Benefits),
		CreatedAt:      rev.CreatedAt,
		UpdatedAt:      rev.UpdatedAt,
	}
}

func toRevenueListResp(rev model.Revenue) revenueListResp {
	benefits := make([]benefitListResp, 0, len(rev.Benefits))
	for _, b := range rev.Benefits {
		benefits = append(benefits, benefitListResp{Type: b.Type, Value: b.Value})
	}
	return revenueListResp{
		ID:         rev.ID,
		Name:       rev.Name,
		Type:       rev.Type,
		MinRevenue: rev.MinRevenue,
		MaxRevenue: rev.MaxRevenue,
		Cycle:      rev.Cycle,
		Benefits:   benefits,
	}
}

func toRevenueDetailResp(rev model.Revenue) revenueDetailResp {
	return revenueDetailResp{
		Name:       rev.Name,
		Type:       rev.Type,
		MinRevenue: rev.MinRevenue,
		MaxRevenue: rev.MaxRevenue,
		Cycle:      rev.Cycle,
		Benefits:   toBenefitResp(rev.Benefits),
	}
}
