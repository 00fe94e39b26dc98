package routes

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/seafarer/shipboard-be/db"
	"github.com/seafarer/shipboard-be/middleware"
	"github.com/seafarer/shipboard-be/model"
	"github.com/seafarer/shipboard-be/services"
	"github.com/seafarer/shipboard-be/util"
)

type modRoutes struct {
	db       db.Database
	settings *services.Settings
}

func AddModerationRoutes(group *gin.RouterGroup, database db.Database, settings *services.Settings, authClient *auth.Client) {
	routes := modRoutes{db: database, settings: settings}
	mod := group.Group("/moderation",
		middleware.GenAuth(database, authClient, &middleware.AuthConfig{}),
		middleware.RequireAccount(),
		middleware.RequireModerator())
	mod.POST("/content/:kind/:id/status", util.HandlerWrapper(routes.setStatus, &util.HandlerOpts{}))
	mod.GET("/reports", util.HandlerWrapper(routes.getReports, &util.HandlerOpts{}))
	mod.POST("/reports/:id/close", util.HandlerWrapper(routes.closeReport, &util.HandlerOpts{}))
	mod.POST("/report-claims", util.HandlerWrapper(routes.claimReports, &util.HandlerOpts{}))
	mod.DELETE("/report-claims/:actionGroupId", util.HandlerWrapper(routes.releaseReports, &util.HandlerOpts{}))
	mod.GET("/actions", util.HandlerWrapper(routes.getActions, &util.HandlerOpts{}))
	mod.GET("/settings", util.HandlerWrapper(routes.getSettings, &util.HandlerOpts{}))
	mod.PUT("/settings", util.HandlerWrapper(routes.setSetting, &util.HandlerOpts{}))
}

type setStatusReq struct {
	Status        model.ModerationStatus `json:"status" binding:"required"`
	ActionGroupId string                 `json:"actionGroupId"`
}

func (mr *modRoutes) setStatus(c *gin.Context) (interface{}, *util.HTTPError) {
	kind := model.ContentKind(c.Param("kind"))
	if !kind.IsValid() {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "unknown content kind",
		}
	}
	var req setStatusReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	err := mr.db.SetModerationStatus(c, kind, c.Param("id"), req.Status,
		middleware.MustGetUser(c).Actor(), req.ActionGroupId)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}

func (mr *modRoutes) getReports(c *gin.Context) (interface{}, *util.HTTPError) {
	var reports []*model.Report
	var err error
	if actionGroupId := c.Query("actionGroupId"); actionGroupId != "" {
		reports, err = mr.db.GetReportsByActionGroup(c, actionGroupId)
	} else {
		reports, err = mr.db.GetOpenReports(c)
	}
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return reports, nil
}

func (mr *modRoutes) closeReport(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	if err := mr.db.CloseReport(c, id, middleware.MustGetUser(c).Id); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}

type claimReportsReq struct {
	ReportIds []int64 `json:"reportIds" binding:"required"`
}

func (mr *modRoutes) claimReports(c *gin.Context) (interface{}, *util.HTTPError) {
	var req claimReportsReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	actionGroupId, err := mr.db.ClaimReports(c, req.ReportIds, middleware.MustGetUser(c).Id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{
		"actionGroupId": actionGroupId,
	}, nil
}

func (mr *modRoutes) releaseReports(c *gin.Context) (interface{}, *util.HTTPError) {
	err := mr.db.ReleaseReports(c, c.Param("actionGroupId"), middleware.MustGetUser(c).Id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}

func (mr *modRoutes) getActions(c *gin.Context) (interface{}, *util.HTTPError) {
	var actions []*model.ModeratorAction
	var err error
	switch {
	case c.Query("actorId") != "":
		actions, err = mr.db.GetModeratorActionsByActor(c, c.Query("actorId"))
	case c.Query("targetUserId") != "":
		actions, err = mr.db.GetModeratorActionsByTarget(c, c.Query("targetUserId"))
	case c.Query("actionGroupId") != "":
		actions, err = mr.db.GetModeratorActionsByActionGroup(c, c.Query("actionGroupId"))
	default:
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "one of actorId, targetUserId, actionGroupId is required",
		}
	}
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return actions, nil
}

func (mr *modRoutes) getSettings(c *gin.Context) (interface{}, *util.HTTPError) {
	modSettings, err := mr.settings.Resolve(c)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	thresholds := make(map[model.ContentKind]int64, len(model.ContentKinds))
	for _, kind := range model.ContentKinds {
		thresholds[kind] = modSettings.ThresholdFor(kind)
	}
	return gin.H{
		"reportThresholds": thresholds,
	}, nil
}

type setSettingReq struct {
	Kind      model.ContentKind `json:"kind" binding:"required"`
	Threshold int64             `json:"threshold" binding:"required"`
}

func (mr *modRoutes) setSetting(c *gin.Context) (interface{}, *util.HTTPError) {
	var req setSettingReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	if !req.Kind.IsValid() {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "unknown content kind",
		}
	}
	if req.Threshold < 0 {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "threshold must be non-negative",
		}
	}
	if err := mr.settings.SetReportThreshold(c, req.Kind, req.Threshold); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}
