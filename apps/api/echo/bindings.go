package echoapi

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/calendar"
)

var (
	yearParam  = "year"
	monthParam = "month"
)

// MonthQuery selects a month; missing values default to the current month.
type MonthQuery struct {
	Year  int `json:"year" validate:"omitempty,min=1,max=9999"`
	Month int `json:"month" validate:"omitempty,min=1,max=12"`
}

func (mq *MonthQuery) Bind(ctx echo.Context, validate *validator.Validate) error {
	var flds []core.FieldError
	for param, dest := range map[string]*int{yearParam: &mq.Year, monthParam: &mq.Month} {
		val := ctx.QueryParam(param)
		if val == "" {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			flds = append(flds, core.FieldError{Field: param, Error: param + " must be a number"})
			continue
		}
		*dest = n
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return validate.Struct(mq)
}

func (mq MonthQuery) Cursor() calendar.MonthCursor {
	cursor := calendar.CursorOf(calendar.Today())
	if mq.Year != 0 {
		cursor.Year = mq.Year
	}
	if mq.Month != 0 {
		cursor.Month = time.Month(mq.Month)
	}
	return cursor
}
