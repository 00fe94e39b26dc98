package main

import (
	"context"
	"log"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/seafarer/shipboard-be/config"
	"github.com/seafarer/shipboard-be/db/mysqldb"
	"github.com/seafarer/shipboard-be/routes"
	"github.com/seafarer/shipboard-be/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("error loading configuration", err)
	}

	database, err := mysqldb.GetDatabase(&mysqldb.Config{
		User:     cfg.DBUser,
		Password: cfg.DBPass,
		Host:     cfg.DBHost,
		Name:     cfg.DBName,
		MaxConns: cfg.DBConns,
	})
	if err != nil {
		log.Fatal("error connecting to the database", err)
	}
	defer database.Close()

	app, err := firebase.NewApp(context.Background(), nil)
	if err != nil {
		log.Fatalf("error initializing firebase: %v\n", err)
	}
	authClient, err := app.Auth(context.Background())
	if err != nil {
		log.Fatal("error initializing auth client", err)
	}

	settings := services.NewSettings(database)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Split(cfg.Origins, ","),
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	routes.AddHealthCheckRoutes(&r.RouterGroup)
	routes.AddStreamRoutes(&r.RouterGroup, database, settings, authClient)
	routes.AddForumRoutes(&r.RouterGroup, database, settings, authClient)
	routes.AddGroupRoutes(&r.RouterGroup, database, settings, authClient)
	routes.AddUserRoutes(&r.RouterGroup, database, settings, authClient)
	routes.AddModerationRoutes(&r.RouterGroup, database, settings, authClient)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("error when attempting to run web server", err)
	}
}
