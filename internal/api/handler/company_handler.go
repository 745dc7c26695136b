package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"

	"github.com/labstack/echo/v4"

	"github.com/companyhub/companies-api/internal/api/metrics"
	"github.com/companyhub/companies-api/internal/core/domain"
	"github.com/companyhub/companies-api/internal/core/ports"
)

// CompanyHandler handles HTTP requests for company operations. Errors are
// returned to the central error handler, which maps them to status codes.
type CompanyHandler struct {
	service ports.CompanyService
}

func NewCompanyHandler(service ports.CompanyService) *CompanyHandler {
	return &CompanyHandler{service: service}
}

// List handles GET /companies.
//
// @Summary      List the caller's companies
// @Description  Returns every company owned by the caller, most recently created first.
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   companyResponse
// @Failure      401  {object}  errorResponse
// @Router       /companies [get]
func (h *CompanyHandler) List(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	companies, err := h.service.ListCompanies(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCompanyListResponse(companies))
}

// Create handles POST /companies.
//
// @Summary      Create a company
// @Description  The caller becomes the owner; any owner in the body is ignored.
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      companyRequest  true  "Company fields"
// @Success      201   {object}  companyResponse
// @Failure      400   {object}  validationErrorResponse
// @Failure      401   {object}  errorResponse
// @Router       /companies [post]
func (h *CompanyHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var input ports.CompanyInput
	if err := bindCompany(c, &input); err != nil {
		return err
	}

	company, err := h.service.CreateCompany(c.Request().Context(), identity.UserID, input)
	if err != nil {
		return err
	}

	metrics.CompaniesCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toCompanyResponse(company))
}

// Get handles GET /companies/:id.
//
// @Summary      Get a company
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Company ID"
// @Success      200  {object}  companyResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  "Company not found"
// @Router       /companies/{id} [get]
func (h *CompanyHandler) Get(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	company, err := h.service.GetCompany(c.Request().Context(), c.Param("id"), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCompanyResponse(company))
}

// Update handles PUT /companies/:id.
//
// @Summary      Replace a company
// @Description  Full replacement of the writable fields. The owner never changes.
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Company ID"
// @Param        body  body      companyRequest  true  "Company fields"
// @Success      200   {object}  companyResponse
// @Failure      400   {object}  validationErrorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   "Company not found"
// @Router       /companies/{id} [put]
func (h *CompanyHandler) Update(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	// The body is read only after the company has been found and the caller
	// confirmed as its owner.
	decode := func(input *ports.CompanyInput) error {
		return bindCompany(c, input)
	}

	company, err := h.service.UpdateCompany(c.Request().Context(), c.Param("id"), identity.UserID, decode)
	if err != nil {
		return err
	}

	metrics.CompaniesUpdatedTotal.Inc()
	return c.JSON(http.StatusOK, toCompanyResponse(company))
}

// Delete handles DELETE /companies/:id.
//
// @Summary      Delete a company
// @Tags         companies
// @Security     BearerAuth
// @Param        id   path  string  true  "Company ID"
// @Success      204  "Deleted"
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  "Company not found"
// @Router       /companies/{id} [delete]
func (h *CompanyHandler) Delete(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteCompany(c.Request().Context(), c.Param("id"), identity.UserID); err != nil {
		return err
	}

	metrics.CompaniesDeletedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

// bindCompany decodes the request body into input. A value of the wrong JSON
// type is reported against its field like any other validation failure;
// anything else that cannot be decoded is an invalid payload.
func bindCompany(c echo.Context, input *ports.CompanyInput) error {
	var req companyRequest
	if err := c.Bind(&req); err != nil {
		var ute *json.UnmarshalTypeError
		if errors.As(err, &ute) && ute.Field != "" {
			verr := domain.ValidationErrors{}
			verr.Add(ute.Field, typeMismatch(ute))
			return verr
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	*input = toCompanyInput(req)
	return nil
}

func typeMismatch(ute *json.UnmarshalTypeError) string {
	if ute.Type != nil && ute.Type.Kind() == reflect.String {
		return ute.Field + " must be a string"
	}
	return ute.Field + " has an invalid type"
}
