package controller

import (
	"fmt"
	"net/http"
	"time"

	"meetup_bot/internal/service"
	"meetup_bot/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportController struct {
	Reports *service.ReportService
}

func NewReportController(reports *service.ReportService) *ReportController {
	return &ReportController{Reports: reports}
}

func (c *ReportController) UsersReport(ctx *gin.Context) {
	report, err := c.Reports.UsersReport()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	c.send(ctx, report, "users")
}

func (c *ReportController) EventsReport(ctx *gin.Context) {
	report, err := c.Reports.EventsReport()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	c.send(ctx, report, "events")
}

func (c *ReportController) send(ctx *gin.Context, report *excelize.File, name string) {
	buf, err := report.WriteToBuffer()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	filename := fmt.Sprintf("%s_%s.xlsx", name, time.Now().Format("2006-01-02"))
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
