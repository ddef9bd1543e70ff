package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"little-lemon/order-svc/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type menuItemRequest struct {
	Title      string           `json:"title" validate:"required,max=255"`
	Price      *decimal.Decimal `json:"price" validate:"required"`
	Featured   bool             `json:"featured"`
	CategoryID *int64           `json:"category_id" validate:"required"`
}

func (req menuItemRequest) toMenuItem(id int64) domain.MenuItem {
	return domain.MenuItem{
		ID:       id,
		Title:    req.Title,
		Price:    *req.Price,
		Featured: req.Featured,
		Category: domain.Category{ID: *req.CategoryID},
	}
}

type menuItemPatchRequest struct {
	Title      *string          `json:"title" validate:"omitempty,min=1,max=255"`
	Price      *decimal.Decimal `json:"price"`
	Featured   *bool            `json:"featured"`
	CategoryID *int64           `json:"category_id"`
}

type categoryRequest struct {
	Slug  string `json:"slug" validate:"required,max=50"`
	Title string `json:"title" validate:"required,max=255"`
}

type usernameRequest struct {
	Username string `json:"username" validate:"required"`
}

type cartRequest struct {
	MenuItem *int64 `json:"menuitem" validate:"required"`
	Quantity *int   `json:"quantity" validate:"required"`
}

type statusRequest struct {
	Status *bool `json:"status" validate:"required"`
}

type assignRequest struct {
	DeliveryCrew *int64 `json:"delivery_crew" validate:"required"`
	Status       *bool  `json:"status" validate:"required"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// errBadJSON marks a body that could not be decoded.
type errBadJSON struct{ err error }

func (e errBadJSON) Error() string { return "JSON parse error - " + e.err.Error() }

// decode reads a JSON body into dst and runs struct validation. Field errors
// come back as a map keyed by json field name.
func (h *Handler) decode(r *http.Request, dst any) (map[string][]string, error) {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return nil, errBadJSON{err}
	}

	err := h.validate.Struct(dst)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
	}
	return fields, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		return "This field may not be blank."
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}
