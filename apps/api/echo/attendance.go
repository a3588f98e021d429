package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jbmukiza/mahudhurio/core"
	"github.com/jbmukiza/mahudhurio/core/attendance"
)

type attendanceApi struct {
	gateway *attendance.Gateway
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, gateway *attendance.Gateway) {
	api := attendanceApi{gateway: gateway}

	ag := g.Group("/attendance", jwt)
	ag.GET("", api.classAttendance)
	ag.POST("", api.saveAttendance)
	ag.GET("/classes/:id/summary", api.classSummary)
	ag.GET("/students/:id", api.studentAttendance)
	ag.GET("/students/:id/summary", api.studentSummary)
}

// Bindings

// SaveAttendanceRequest is the POST /attendance payload. Records maps
// studentID to status; an explicitly empty object clears the whole day,
// whereas omitting the key is a validation error. MarkedBy is never taken
// from the payload: records are stamped with the authenticated caller.
type SaveAttendanceRequest struct {
	ClassID string                       `json:"class_id" validate:"required"`
	Date    string                       `json:"date" validate:"required"`
	Records map[string]attendance.Status `json:"records"`
}

func (r *SaveAttendanceRequest) Validate() error {
	r.ClassID = core.CleanString(r.ClassID)
	r.Date = core.CleanString(r.Date)
	if err := core.Validate.Struct(r); err != nil {
		return err
	}
	if r.Records == nil {
		return core.NewValidationError(nil, core.FieldError{Field: "records", Error: "this field is required"})
	}
	return nil
}

type classDateQuery struct {
	ClassID string
	Date    time.Time
}

func bindClassDateQuery(ctx echo.Context) (classDateQuery, error) {
	classID := core.CleanString(ctx.QueryParam("class_id"))
	if classID == "" {
		classID = core.CleanString(ctx.Param("id"))
	}
	if classID == "" {
		return classDateQuery{}, core.NewValidationError(nil, core.FieldError{Field: "class_id", Error: "this field is required"})
	}
	date, err := attendance.ParseDate(core.CleanString(ctx.QueryParam("date")))
	if err != nil {
		return classDateQuery{}, err
	}
	return classDateQuery{ClassID: classID, Date: date}, nil
}

// Handlers

// classAttendance returns the recorded statuses for one class and date as a
// studentID -> status object; students without a record are simply absent
// from the object ("not recorded").
func (api *attendanceApi) classAttendance(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	q, err := bindClassDateQuery(ctx)
	if err != nil {
		return err
	}

	statuses, err := api.gateway.GetClassAttendance(ctx.Request().Context(), ident, q.ClassID, q.Date)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, statuses)
}

func (api *attendanceApi) saveAttendance(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}

	data := new(SaveAttendanceRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}
	date, err := attendance.ParseDate(data.Date)
	if err != nil {
		return err
	}

	result, err := api.gateway.SaveAttendance(ctx.Request().Context(), ident, data.ClassID, date, data.Records)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, result)
}

func (api *attendanceApi) studentAttendance(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}

	records, err := api.gateway.GetStudentAttendance(ctx.Request().Context(), ident, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *attendanceApi) studentSummary(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}

	summary, err := api.gateway.GetStudentSummary(ctx.Request().Context(), ident, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, summary)
}

func (api *attendanceApi) classSummary(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	q, err := bindClassDateQuery(ctx)
	if err != nil {
		return err
	}

	totals, err := api.gateway.GetClassSummary(ctx.Request().Context(), ident, q.ClassID, q.Date)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, totals)
}
