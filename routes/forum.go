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

type forumRoutes struct {
	db       db.Database
	settings *services.Settings
}

func AddForumRoutes(group *gin.RouterGroup, database db.Database, settings *services.Settings, authClient *auth.Client) {
	routes := forumRoutes{db: database, settings: settings}
	authed := []gin.HandlerFunc{
		middleware.GenAuth(database, authClient, &middleware.AuthConfig{}),
		middleware.RequireAccount(),
	}

	categories := group.Group("/forum-categories", authed...)
	categories.GET("", util.HandlerWrapper(routes.getCategories, &util.HandlerOpts{}))

	forums := group.Group("/forums", authed...)
	forums.PUT("", util.HandlerWrapper(routes.createForum, &util.HandlerOpts{}))
	forums.GET("", util.HandlerWrapper(routes.getForums, &util.HandlerOpts{}))
	forums.GET("/:id", util.HandlerWrapper(routes.getForumById, &util.HandlerOpts{}))
	forums.PUT("/:id/title", util.HandlerWrapper(routes.renameForum, &util.HandlerOpts{}))
	forums.GET("/:id/posts", util.HandlerWrapper(routes.getForumPosts, &util.HandlerOpts{}))
	forums.PUT("/:id/posts", util.HandlerWrapper(routes.createForumPost, &util.HandlerOpts{}))
	forums.PUT("/:id/reports", util.HandlerWrapper(routes.reportForum, &util.HandlerOpts{}))
	forums.GET("/:id/edits", middleware.RequireModerator(),
		util.HandlerWrapper(routes.getForumEdits, &util.HandlerOpts{}))

	posts := group.Group("/forum-posts", authed...)
	posts.GET("/:id", util.HandlerWrapper(routes.getPostById, &util.HandlerOpts{}))
	posts.PUT("/:id", util.HandlerWrapper(routes.updatePost, &util.HandlerOpts{}))
	posts.DELETE("/:id", util.HandlerWrapper(routes.deletePost, &util.HandlerOpts{}))
	posts.PUT("/:id/reports", util.HandlerWrapper(routes.reportPost, &util.HandlerOpts{}))
	posts.GET("/:id/edits", middleware.RequireModerator(),
		util.HandlerWrapper(routes.getPostEdits, &util.HandlerOpts{}))
}

func (fr *forumRoutes) getCategories(c *gin.Context) (interface{}, *util.HTTPError) {
	categories, err := fr.db.GetForumCategories(c)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return categories, nil
}

type createForumReq struct {
	CategoryId string   `json:"categoryId" binding:"required"`
	Title      string   `json:"title" binding:"required"`
	Text       string   `json:"text" binding:"required"`
	Images     []string `json:"images"`
}

func (fr *forumRoutes) createForum(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createForumReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	userId := middleware.MustGetUser(c).Id
	id, err := fr.db.CreateForum(c, &db.CreateForum{
		CategoryId: req.CategoryId,
		CreatorId:  userId,
		Title:      util.XSSSanitize(req.Title),
		FirstPost: &db.CreateForumPost{
			AuthorId: userId,
			Text:     util.XSSSanitize(req.Text),
			Images:   req.Images,
		},
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{
		"id": id,
	}, nil
}

func (fr *forumRoutes) getForums(c *gin.Context) (interface{}, *util.HTTPError) {
	forums, err := fr.db.GetForums(c, c.Query("categoryId"))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	viewerIsModerator := middleware.MustGetUser(c).IsModerator
	for _, forum := range forums {
		forum.MakeDisplayableFor(viewerIsModerator)
	}
	return forums, nil
}

func (fr *forumRoutes) getForumById(c *gin.Context) (interface{}, *util.HTTPError) {
	forum, err := fr.db.GetForumById(c, c.Param("id"))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if forum == nil {
		return nil, &util.NotFoundHTTPErr
	}
	return forum.MakeDisplayableFor(middleware.MustGetUser(c).IsModerator), nil
}

type renameForumReq struct {
	Title         string `json:"title" binding:"required"`
	ActionGroupId string `json:"actionGroupId"`
}

func (fr *forumRoutes) renameForum(c *gin.Context) (interface{}, *util.HTTPError) {
	var req renameForumReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	user := middleware.MustGetUser(c)
	forum, err := fr.db.GetForumById(c, c.Param("id"))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if forum == nil {
		return nil, &util.NotFoundHTTPErr
	}
	if !model.CanEdit(forum.CreatorId, forum.ModerationStatus, user.Actor()) {
		return nil, &util.ForbiddenHTTPErr
	}
	if err := fr.db.RenameForum(c, forum.Id, user.Actor(), req.ActionGroupId, util.XSSSanitize(req.Title)); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}

func (fr *forumRoutes) getForumPosts(c *gin.Context) (interface{}, *util.HTTPError) {
	posts, err := fr.db.GetForumPosts(c, c.Param("id"))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	viewerIsModerator := middleware.MustGetUser(c).IsModerator
	for _, post := range posts {
		post.MakeDisplayableFor(viewerIsModerator)
	}
	return posts, nil
}

type createForumPostReq struct {
	Text   string   `json:"text" binding:"required"`
	Images []string `json:"images"`
}

func (fr *forumRoutes) createForumPost(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createForumPostReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	id, err := fr.db.CreateForumPost(c, &db.CreateForumPost{
		ForumId:  c.Param("id"),
		AuthorId: middleware.MustGetUser(c).Id,
		Text:     util.XSSSanitize(req.Text),
		Images:   req.Images,
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{
		"id": id,
	}, nil
}

func (fr *forumRoutes) reportForum(c *gin.Context) (interface{}, *util.HTTPError) {
	return fileReport(c, fr.db, fr.settings, model.KindForum, c.Param("id"))
}

func (fr *forumRoutes) getForumEdits(c *gin.Context) (interface{}, *util.HTTPError) {
	edits, err := fr.db.GetForumEdits(c, c.Param("id"))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return edits, nil
}

func (fr *forumRoutes) getPostById(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	post, err := fr.db.GetForumPostById(c, id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if post == nil {
		return nil, &util.NotFoundHTTPErr
	}
	return post.MakeDisplayableFor(middleware.MustGetUser(c).IsModerator), nil
}

type updateForumPostReq struct {
	Text          string   `json:"text" binding:"required"`
	Images        []string `json:"images"`
	ActionGroupId string   `json:"actionGroupId"`
}

func (fr *forumRoutes) updatePost(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	var req updateForumPostReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	user := middleware.MustGetUser(c)
	post, err := fr.db.GetForumPostById(c, id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if post == nil {
		return nil, &util.NotFoundHTTPErr
	}
	if !model.CanEdit(post.AuthorId, post.ModerationStatus, user.Actor()) {
		return nil, &util.ForbiddenHTTPErr
	}
	if err := fr.db.UpdateForumPost(c, id, &db.UpdateForumPost{
		Editor:        user.Actor(),
		ActionGroupId: req.ActionGroupId,
		Text:          util.XSSSanitize(req.Text),
		Images:        req.Images,
	}); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}

func (fr *forumRoutes) deletePost(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	user := middleware.MustGetUser(c)
	post, err := fr.db.GetForumPostById(c, id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if post == nil {
		return nil, &util.NotFoundHTTPErr
	}
	if !model.CanEdit(post.AuthorId, post.ModerationStatus, user.Actor()) {
		return nil, &util.ForbiddenHTTPErr
	}
	if err := fr.db.MarkForumPostDeleted(c, id, user.Actor(), c.Query("actionGroupId")); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}

func (fr *forumRoutes) reportPost(c *gin.Context) (interface{}, *util.HTTPError) {
	if _, httpErr := util.ParseId(c.Param("id")); httpErr != nil {
		return nil, httpErr
	}
	return fileReport(c, fr.db, fr.settings, model.KindForumPost, c.Param("id"))
}

func (fr *forumRoutes) getPostEdits(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	edits, err := fr.db.GetForumPostEdits(c, id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return edits, nil
}
