package echoapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core/calendar"
	"github.com/trezcool/ratiba/services/icalendar"
)

const icsContentType = "text/calendar; charset=utf-8"

type calendarApi struct {
	svc      *calendar.Service
	validate *validator.Validate
	appName  string
}

func registerCalendarAPI(api, v1 *echo.Group, svc *calendar.Service, validate *validator.Validate, appName string) {
	cal := calendarApi{
		svc:      svc,
		validate: validate,
		appName:  appName,
	}

	api.GET("/calendar/events", cal.listMonth)

	v1.GET("/events.ics", cal.exportMonth)
	v1.POST("/events", cal.create)
	v1.GET("/events/:id", cal.retrieve)
	v1.PUT("/events/:id", cal.update)
	v1.DELETE("/events/:id", cal.destroy)
}

// Handlers

func (cal *calendarApi) listMonth(ctx echo.Context) error {
	owner, err := getContextOwner(ctx)
	if err != nil {
		return err
	}
	var mq MonthQuery
	if err = mq.Bind(ctx, cal.validate); err != nil {
		return err
	}

	events, err := cal.svc.ListMonth(ctx.Request().Context(), owner, mq.Cursor())
	if err != nil {
		return errors.Wrap(err, "listing month events")
	}
	if events == nil {
		events = []calendar.Event{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "data": events})
}

func (cal *calendarApi) exportMonth(ctx echo.Context) error {
	owner, err := getContextOwner(ctx)
	if err != nil {
		return err
	}
	var mq MonthQuery
	if err = mq.Bind(ctx, cal.validate); err != nil {
		return err
	}
	cursor := mq.Cursor()

	events, err := cal.svc.ListMonth(ctx.Request().Context(), owner, cursor)
	if err != nil {
		return errors.Wrap(err, "listing month events")
	}
	var buf bytes.Buffer
	name := fmt.Sprintf("%s %s", cal.appName, cursor)
	if err = icalendar.Encode(&buf, name, events, time.Local); err != nil {
		return errors.Wrap(err, "encoding calendar")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "ratiba-"+cursor.String()+".ics"))
	return ctx.Blob(http.StatusOK, icsContentType, buf.Bytes())
}

func (cal *calendarApi) create(ctx echo.Context) error {
	owner, err := getContextOwner(ctx)
	if err != nil {
		return err
	}
	var data calendar.NewEvent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	if err = data.Validate(cal.validate); err != nil {
		return err
	}

	ev, err := cal.svc.Create(ctx.Request().Context(), owner, data)
	if err != nil {
		return errors.Wrap(err, "creating event")
	}
	return ctx.JSON(http.StatusCreated, ev)
}

func (cal *calendarApi) retrieve(ctx echo.Context) error {
	ev, err := cal.getEvent(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ev)
}

func (cal *calendarApi) update(ctx echo.Context) error {
	orig, err := cal.getEvent(ctx)
	if err != nil {
		return err
	}
	var data calendar.UpdateEvent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEvent")
	}
	if err = data.Validate(orig, cal.validate); err != nil {
		return err
	}

	ev, err := cal.svc.Update(ctx.Request().Context(), orig, data)
	if err != nil {
		return errors.Wrap(err, "updating event")
	}
	return ctx.JSON(http.StatusOK, ev)
}

func (cal *calendarApi) destroy(ctx echo.Context) error {
	owner, err := getContextOwner(ctx)
	if err != nil {
		return err
	}
	if err = cal.svc.Delete(ctx.Request().Context(), owner, calendar.EventID(ctx.Param("id"))); err != nil {
		return errors.Wrap(err, "deleting event")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (cal *calendarApi) getEvent(ctx echo.Context) (calendar.Event, error) {
	owner, err := getContextOwner(ctx)
	if err != nil {
		return calendar.Event{}, err
	}
	ev, err := cal.svc.Get(ctx.Request().Context(), owner, calendar.EventID(ctx.Param("id")))
	if err != nil {
		return calendar.Event{}, errors.Wrap(err, "getting event")
	}
	return ev, nil
}
