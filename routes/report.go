package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/seafarer/shipboard-be/db"
	"github.com/seafarer/shipboard-be/middleware"
	"github.com/seafarer/shipboard-be/model"
	"github.com/seafarer/shipboard-be/services"
	"github.com/seafarer/shipboard-be/util"
)

type fileReportReq struct {
	Message string `json:"message"`
}

// fileReport is shared by every content route that exposes a report
// endpoint. The auto-quarantine threshold is resolved from live settings
// here, at the start of the operation, and passed down by value so the
// whole transaction sees one consistent threshold.
func fileReport(c *gin.Context, database db.Database, settings *services.Settings, kind model.ContentKind, contentId string) (interface{}, *util.HTTPError) {
	var req fileReportReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	modSettings, err := settings.Resolve(c)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	report, err := database.FileReport(c, &db.FileReport{
		ContentKind: kind,
		ContentId:   contentId,
		SubmitterId: middleware.MustGetUser(c).Id,
		Message:     util.XSSSanitize(req.Message),
		Threshold:   modSettings.ThresholdFor(kind),
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return report, nil
}
