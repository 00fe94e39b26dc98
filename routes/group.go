package routes

import (
	"net/http"
	"strconv"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/seafarer/shipboard-be/db"
	"github.com/seafarer/shipboard-be/middleware"
	"github.com/seafarer/shipboard-be/model"
	"github.com/seafarer/shipboard-be/services"
	"github.com/seafarer/shipboard-be/util"
)

type groupRoutes struct {
	db       db.Database
	settings *services.Settings
}

func AddGroupRoutes(group *gin.RouterGroup, database db.Database, settings *services.Settings, authClient *auth.Client) {
	routes := groupRoutes{db: database, settings: settings}
	authed := []gin.HandlerFunc{
		middleware.GenAuth(database, authClient, &middleware.AuthConfig{}),
		middleware.RequireAccount(),
	}

	groups := group.Group("/groups", authed...)
	groups.PUT("", util.HandlerWrapper(routes.createGroup, &util.HandlerOpts{}))
	groups.GET("", util.HandlerWrapper(routes.getGroups, &util.HandlerOpts{}))
	groups.GET("/:id", util.HandlerWrapper(routes.getGroupById, &util.HandlerOpts{}))
	groups.PUT("/:id", util.HandlerWrapper(routes.updateGroup, &util.HandlerOpts{}))
	groups.POST("/:id/join", util.HandlerWrapper(routes.joinGroup, &util.HandlerOpts{}))
	groups.POST("/:id/leave", util.HandlerWrapper(routes.leaveGroup, &util.HandlerOpts{}))
	groups.POST("/:id/capacity", util.HandlerWrapper(routes.setCapacity, &util.HandlerOpts{}))
	groups.POST("/:id/cancel", util.HandlerWrapper(routes.cancelGroup, &util.HandlerOpts{}))
	groups.POST("/:id/read", util.HandlerWrapper(routes.markRead, &util.HandlerOpts{}))
	groups.GET("/:id/posts", util.HandlerWrapper(routes.getPosts, &util.HandlerOpts{}))
	groups.PUT("/:id/posts", util.HandlerWrapper(routes.createPost, &util.HandlerOpts{}))
	groups.PUT("/:id/reports", util.HandlerWrapper(routes.reportGroup, &util.HandlerOpts{}))
	groups.GET("/:id/edits", middleware.RequireModerator(),
		util.HandlerWrapper(routes.getGroupEdits, &util.HandlerOpts{}))

	posts := group.Group("/group-posts", authed...)
	posts.GET("/:id", util.HandlerWrapper(routes.getPostById, &util.HandlerOpts{}))
	posts.DELETE("/:id", util.HandlerWrapper(routes.deletePost, &util.HandlerOpts{}))
	posts.PUT("/:id/reports", util.HandlerWrapper(routes.reportPost, &util.HandlerOpts{}))
}

type createGroupReq struct {
	Kind         model.GroupKind `json:"kind" binding:"required"`
	Title        string          `json:"title" binding:"required"`
	Info         string          `json:"info"`
	Location     string          `json:"location"`
	StartTime    string          `json:"startTime"`
	EndTime      string          `json:"endTime"`
	MinCapacity  int             `json:"minCapacity"`
	MaxCapacity  int             `json:"maxCapacity"`
	InitialUsers []string        `json:"initialUsers"`
}

func (gr *groupRoutes) createGroup(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createGroupReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	if req.MinCapacity < 0 || req.MaxCapacity < 0 ||
		(req.MaxCapacity > 0 && req.MinCapacity > req.MaxCapacity) {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "invalid capacity bounds",
		}
	}
	createGroup := db.CreateGroup{
		OwnerId:      middleware.MustGetUser(c).Id,
		Kind:         req.Kind,
		Title:        util.XSSSanitize(req.Title),
		Info:         util.XSSSanitize(req.Info),
		Location:     util.XSSSanitize(req.Location),
		MinCapacity:  req.MinCapacity,
		MaxCapacity:  req.MaxCapacity,
		InitialUsers: req.InitialUsers,
	}
	if req.StartTime != "" {
		startTime, err := util.ParseTime(req.StartTime)
		if err != nil {
			return nil, util.BuildJSONBindHTTPErr(err)
		}
		createGroup.StartTime = &startTime
	}
	if req.EndTime != "" {
		endTime, err := util.ParseTime(req.EndTime)
		if err != nil {
			return nil, util.BuildJSONBindHTTPErr(err)
		}
		createGroup.EndTime = &endTime
	}
	id, err := gr.db.CreateGroup(c, &createGroup)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{
		"id": id,
	}, nil
}

func (gr *groupRoutes) getGroups(c *gin.Context) (interface{}, *util.HTTPError) {
	user := middleware.MustGetUser(c)
	if c.Query("mine") == "true" {
		groups, err := gr.db.GetGroupsForUser(c, user.Id)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return makeGroupsDisplayable(groups, user.IsModerator), nil
	}
	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			return nil, &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "limit malformed",
			}
		}
		limit = parsed
	}
	groups, err := gr.db.GetGroups(c, model.GroupKind(c.DefaultQuery("kind", string(model.GroupKindOpen))), limit)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return makeGroupsDisplayable(groups, user.IsModerator), nil
}

func makeGroupsDisplayable(groups []*model.Group, viewerIsModerator bool) []*model.Group {
	for _, group := range groups {
		group.MakeDisplayableFor(viewerIsModerator)
	}
	return groups
}

func (gr *groupRoutes) getGroupById(c *gin.Context) (interface{}, *util.HTTPError) {
	group, err := gr.db.GetGroupById(c, c.Param("id"))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if group == nil {
		return nil, &util.NotFoundHTTPErr
	}
	return group.MakeDisplayableFor(middleware.MustGetUser(c).IsModerator), nil
}

type updateGroupReq struct {
	Title         string `json:"title" binding:"required"`
	Info          string `json:"info"`
	Location      string `json:"location"`
	ActionGroupId string `json:"actionGroupId"`
}

func (gr *groupRoutes) updateGroup(c *gin.Context) (interface{}, *util.HTTPError) {
	var req updateGroupReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	user := middleware.MustGetUser(c)
	group, err := gr.db.GetGroupById(c, c.Param("id"))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if group == nil {
		return nil, &util.NotFoundHTTPErr
	}
	if group.OwnerId != user.Id && !user.IsModerator {
		return nil, &util.ForbiddenHTTPErr
	}
	if !model.CanEdit(group.OwnerId, group.ModerationStatus, user.Actor()) {
		return nil, &util.ForbiddenHTTPErr
	}
	if err := gr.db.UpdateGroup(c, group.Id, &db.UpdateGroup{
		Editor:        user.Actor(),
		ActionGroupId: req.ActionGroupId,
		Title:         util.XSSSanitize(req.Title),
		Info:          util.XSSSanitize(req.Info),
		Location:      util.XSSSanitize(req.Location),
	}); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}

func (gr *groupRoutes) joinGroup(c *gin.Context) (interface{}, *util.HTTPError) {
	status, err := gr.db.JoinGroup(c, c.Param("id"), middleware.MustGetUser(c).Id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{
		"status": status,
	}, nil
}

func (gr *groupRoutes) leaveGroup(c *gin.Context) (interface{}, *util.HTTPError) {
	promotion, err := gr.db.LeaveGroup(c, c.Param("id"), middleware.MustGetUser(c).Id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{
		"promoted": promotion,
	}, nil
}

type setCapacityReq struct {
	MinCapacity int `json:"minCapacity"`
	MaxCapacity int `json:"maxCapacity"`
}

func (gr *groupRoutes) setCapacity(c *gin.Context) (interface{}, *util.HTTPError) {
	var req setCapacityReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	promotions, err := gr.db.SetGroupCapacity(c, c.Param("id"), middleware.MustGetUser(c).Id,
		req.MinCapacity, req.MaxCapacity)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{
		"promoted": promotions,
	}, nil
}

func (gr *groupRoutes) cancelGroup(c *gin.Context) (interface{}, *util.HTTPError) {
	if err := gr.db.CancelGroup(c, c.Param("id"), middleware.MustGetUser(c).Id); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}

type markReadReq struct {
	UpToPostCount int64 `json:"upToPostCount"`
}

func (gr *groupRoutes) markRead(c *gin.Context) (interface{}, *util.HTTPError) {
	var req markReadReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	if err := gr.db.MarkGroupRead(c, c.Param("id"), middleware.MustGetUser(c).Id, req.UpToPostCount); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}

func (gr *groupRoutes) getPosts(c *gin.Context) (interface{}, *util.HTTPError) {
	user := middleware.MustGetUser(c)
	if httpErr := gr.requireMember(c, c.Param("id"), user); httpErr != nil {
		return nil, httpErr
	}
	posts, err := gr.db.GetGroupPosts(c, c.Param("id"))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	for _, post := range posts {
		post.MakeDisplayableFor(user.IsModerator)
	}
	return posts, nil
}

type createGroupPostReq struct {
	Text  string `json:"text" binding:"required"`
	Image string `json:"image"`
}

func (gr *groupRoutes) createPost(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createGroupPostReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	id, err := gr.db.CreateGroupPost(c, &db.CreateGroupPost{
		GroupId:  c.Param("id"),
		AuthorId: middleware.MustGetUser(c).Id,
		Text:     util.XSSSanitize(req.Text),
		Image:    req.Image,
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{
		"id": id,
	}, nil
}

func (gr *groupRoutes) reportGroup(c *gin.Context) (interface{}, *util.HTTPError) {
	return fileReport(c, gr.db, gr.settings, model.KindGroup, c.Param("id"))
}

func (gr *groupRoutes) getGroupEdits(c *gin.Context) (interface{}, *util.HTTPError) {
	edits, err := gr.db.GetGroupEdits(c, c.Param("id"))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return edits, nil
}

func (gr *groupRoutes) getPostById(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	user := middleware.MustGetUser(c)
	post, err := gr.db.GetGroupPostById(c, id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if post == nil || post.Deleted {
		return nil, &util.NotFoundHTTPErr
	}
	if httpErr := gr.requireMember(c, post.GroupId, user); httpErr != nil {
		return nil, httpErr
	}
	return post.MakeDisplayableFor(user.IsModerator), nil
}

func (gr *groupRoutes) deletePost(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	user := middleware.MustGetUser(c)
	post, err := gr.db.GetGroupPostById(c, id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if post == nil || post.Deleted {
		return nil, &util.NotFoundHTTPErr
	}
	if !model.CanEdit(post.AuthorId, post.ModerationStatus, user.Actor()) {
		return nil, &util.ForbiddenHTTPErr
	}
	if err := gr.db.MarkGroupPostDeleted(c, id, user.Actor(), c.Query("actionGroupId")); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}

func (gr *groupRoutes) reportPost(c *gin.Context) (interface{}, *util.HTTPError) {
	if _, httpErr := util.ParseId(c.Param("id")); httpErr != nil {
		return nil, httpErr
	}
	return fileReport(c, gr.db, gr.settings, model.KindGroupPost, c.Param("id"))
}

// requireMember gates group content behind membership. Moderators bypass
// the check for review purposes.
func (gr *groupRoutes) requireMember(c *gin.Context, groupId string, user *model.User) *util.HTTPError {
	if user.IsModerator {
		return nil
	}
	membership, err := gr.db.GetMembership(c, groupId, user.Id)
	if err != nil {
		return util.BuildDbHTTPErr(err)
	}
	if membership == nil {
		return &util.ForbiddenHTTPErr
	}
	return nil
}
