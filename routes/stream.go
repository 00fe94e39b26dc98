package routes

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/seafarer/shipboard-be/app"
	"github.com/seafarer/shipboard-be/db"
	"github.com/seafarer/shipboard-be/middleware"
	"github.com/seafarer/shipboard-be/model"
	"github.com/seafarer/shipboard-be/services"
	"github.com/seafarer/shipboard-be/util"
)

type streamRoutes struct {
	db       db.Database
	settings *services.Settings
}

func AddStreamRoutes(group *gin.RouterGroup, database db.Database, settings *services.Settings, authClient *auth.Client) {
	routes := streamRoutes{db: database, settings: settings}
	stream := group.Group("/stream",
		middleware.GenAuth(database, authClient, &middleware.AuthConfig{}),
		middleware.RequireAccount())
	stream.POST("", util.HandlerWrapper(routes.getStream, &util.HandlerOpts{}))
	stream.PUT("/posts", util.HandlerWrapper(routes.createPost, &util.HandlerOpts{}))
	stream.GET("/posts/:id", util.HandlerWrapper(routes.getPostById, &util.HandlerOpts{}))
	stream.PUT("/posts/:id", util.HandlerWrapper(routes.updatePost, &util.HandlerOpts{}))
	stream.DELETE("/posts/:id", util.HandlerWrapper(routes.deletePost, &util.HandlerOpts{}))
	stream.PUT("/posts/:id/reports", util.HandlerWrapper(routes.reportPost, &util.HandlerOpts{}))
	stream.GET("/posts/:id/edits", middleware.RequireModerator(),
		util.HandlerWrapper(routes.getPostEdits, &util.HandlerOpts{}))
}

type getStreamReq struct {
	ReplyGroup int64         `json:"replyGroup"`
	Cursor     app.RawCursor `json:"cursor"`
}

func (sr *streamRoutes) getStream(c *gin.Context) (interface{}, *util.HTTPError) {
	var req getStreamReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	page, err := app.GetStream(sr.db, req.ReplyGroup, req.Cursor)
	if err != nil {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		}
	}
	posts, cursor, err := page.Posts(c, &app.StreamCursorOpts{Limit: 20})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	viewerIsModerator := middleware.MustGetUser(c).IsModerator
	for _, post := range posts {
		post.MakeDisplayableFor(viewerIsModerator)
	}
	return &gin.H{
		"posts":  posts,
		"cursor": cursor,
	}, nil
}

type createStreamPostReq struct {
	Text    string   `json:"text" binding:"required"`
	Images  []string `json:"images"`
	ReplyTo int64    `json:"replyTo"`
}

func (sr *streamRoutes) createPost(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createStreamPostReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	id, err := sr.db.CreateStreamPost(c, &db.CreateStreamPost{
		AuthorId: middleware.MustGetUser(c).Id,
		Text:     util.XSSSanitize(req.Text),
		Images:   req.Images,
		ReplyTo:  req.ReplyTo,
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{
		"id": id,
	}, nil
}

func (sr *streamRoutes) getPostById(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	post, err := sr.db.GetStreamPostById(c, id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if post == nil {
		return nil, &util.NotFoundHTTPErr
	}
	return post.MakeDisplayableFor(middleware.MustGetUser(c).IsModerator), nil
}

type updateStreamPostReq struct {
	Text          string   `json:"text" binding:"required"`
	Images        []string `json:"images"`
	ActionGroupId string   `json:"actionGroupId"`
}

func (sr *streamRoutes) updatePost(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	var req updateStreamPostReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	user := middleware.MustGetUser(c)
	post, err := sr.db.GetStreamPostById(c, id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if post == nil {
		return nil, &util.NotFoundHTTPErr
	}
	if !model.CanEdit(post.AuthorId, post.ModerationStatus, user.Actor()) {
		return nil, &util.ForbiddenHTTPErr
	}
	if err := sr.db.UpdateStreamPost(c, id, &db.UpdateStreamPost{
		Editor:        user.Actor(),
		ActionGroupId: req.ActionGroupId,
		Text:          util.XSSSanitize(req.Text),
		Images:        req.Images,
	}); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}

func (sr *streamRoutes) deletePost(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	user := middleware.MustGetUser(c)
	post, err := sr.db.GetStreamPostById(c, id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if post == nil {
		return nil, &util.NotFoundHTTPErr
	}
	if !model.CanEdit(post.AuthorId, post.ModerationStatus, user.Actor()) {
		return nil, &util.ForbiddenHTTPErr
	}
	if err := sr.db.MarkStreamPostDeleted(c, id, user.Actor(), c.Query("actionGroupId")); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}

func (sr *streamRoutes) reportPost(c *gin.Context) (interface{}, *util.HTTPError) {
	if _, httpErr := util.ParseId(c.Param("id")); httpErr != nil {
		return nil, httpErr
	}
	return fileReport(c, sr.db, sr.settings, model.KindStreamPost, c.Param("id"))
}

func (sr *streamRoutes) getPostEdits(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	edits, err := sr.db.GetStreamPostEdits(c, id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return edits, nil
}
