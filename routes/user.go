package routes

import (
	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/seafarer/shipboard-be/db"
	"github.com/seafarer/shipboard-be/middleware"
	"github.com/seafarer/shipboard-be/model"
	"github.com/seafarer/shipboard-be/services"
	"github.com/seafarer/shipboard-be/util"
)

type userRoutes struct {
	db       db.Database
	settings *services.Settings
}

func AddUserRoutes(group *gin.RouterGroup, database db.Database, settings *services.Settings, authClient *auth.Client) {
	routes := userRoutes{db: database, settings: settings}

	// creation runs before the local profile exists
	creation := group.Group("/users", middleware.GenAuth(database, authClient, &middleware.AuthConfig{
		AccountNotRequired: true,
	}))
	creation.PUT("", util.HandlerWrapper(routes.createUser, &util.HandlerOpts{}))

	users := group.Group("/users",
		middleware.GenAuth(database, authClient, &middleware.AuthConfig{}),
		middleware.RequireAccount())
	users.GET("/:id", util.HandlerWrapper(routes.getUser, &util.HandlerOpts{}))
	users.PUT("/:id", util.HandlerWrapper(routes.updateProfile, &util.HandlerOpts{}))
	users.PUT("/:id/reports", util.HandlerWrapper(routes.reportProfile, &util.HandlerOpts{}))
	users.GET("/:id/edits", middleware.RequireModerator(),
		util.HandlerWrapper(routes.getProfileEdits, &util.HandlerOpts{}))
}

type createUserReq struct {
	Username    string `json:"username" binding:"required"`
	DisplayName string `json:"displayName" binding:"required"`
	About       string `json:"about"`
}

func (ur *userRoutes) createUser(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createUserReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	if err := ur.db.CreateUser(c, &model.User{
		Id:          middleware.MustGetToken(c).UID,
		Username:    util.XSSSanitize(req.Username),
		DisplayName: util.XSSSanitize(req.DisplayName),
		About:       util.XSSSanitize(req.About),
	}); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}

func (ur *userRoutes) getUser(c *gin.Context) (interface{}, *util.HTTPError) {
	user, err := ur.db.GetUser(c, c.Param("id"))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if user == nil {
		return nil, &util.NotFoundHTTPErr
	}
	return user.MakeDisplayableFor(middleware.MustGetUser(c).IsModerator), nil
}

type updateProfileReq struct {
	DisplayName   string `json:"displayName" binding:"required"`
	About         string `json:"about"`
	ActionGroupId string `json:"actionGroupId"`
}

func (ur *userRoutes) updateProfile(c *gin.Context) (interface{}, *util.HTTPError) {
	var req updateProfileReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	editor := middleware.MustGetUser(c)
	user, err := ur.db.GetUser(c, c.Param("id"))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if user == nil {
		return nil, &util.NotFoundHTTPErr
	}
	if !model.CanEdit(user.Id, user.ModerationStatus, editor.Actor()) {
		return nil, &util.ForbiddenHTTPErr
	}
	if err := ur.db.UpdateProfile(c, user.Id, &db.UpdateProfile{
		Editor:        editor.Actor(),
		ActionGroupId: req.ActionGroupId,
		DisplayName:   util.XSSSanitize(req.DisplayName),
		About:         util.XSSSanitize(req.About),
	}); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}

func (ur *userRoutes) reportProfile(c *gin.Context) (interface{}, *util.HTTPError) {
	return fileReport(c, ur.db, ur.settings, model.KindProfile, c.Param("id"))
}

func (ur *userRoutes) getProfileEdits(c *gin.Context) (interface{}, *util.HTTPError) {
	edits, err := ur.db.GetProfileEdits(c, c.Param("id"))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return edits, nil
}
