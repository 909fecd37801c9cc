package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"CollabProject/data/database/mgo/mongoutil"
	"CollabProject/global"
	"CollabProject/logger"
	"CollabProject/middleware"
	"CollabProject/module/comment"
	cstore "CollabProject/module/comment/store"
	"CollabProject/module/doc"
	dstore "CollabProject/module/doc/store"
	"CollabProject/service/collab"
	redisSrv "CollabProject/service/storage/redis"
)

func main() {
	global.LoadEnv()
	global.ConfigIds()

	// redis is optional; the presence mirror degrades to a no-op without it
	if err := redisSrv.InitRedis(redisSrv.Config{
		Addr:     global.Global.RedisAddr,
		Password: global.Global.RedisPassword,
		DB:       global.Global.RedisDB,
	}); err != nil {
		logger.Warnf("[redis] init failed, presence mirror disabled: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	mongoCli, err := mongoutil.NewMongoDB(ctx, &mongoutil.Config{
		Uri:         global.Global.MongoURI,
		Database:    global.Global.MongoDB,
		MaxPoolSize: 20,
	})
	if err != nil {
		log.Fatalf("mongo init failed: %v", err)
	}

	docStore := dstore.NewDocumentStore(mongoCli.GetDB())
	commentStore := cstore.NewCommentStore(mongoCli.GetDB())

	// realtime engine wiring
	registry := collab.NewRegistry()
	presence := collab.NewPresenceTracker()
	router := collab.NewRouter(registry)
	resolver := collab.NewResolver(global.GetJwtSecret())
	debounce := collab.NewDebouncer(global.Global.DebounceWindow, nil, docStore, docStore)
	coordinator := collab.NewCoordinator(registry, presence, router, resolver, debounce)
	wsServer := collab.NewServer(coordinator)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/collab", wsServer.HandleWS) // e.g. ws://localhost:8080/collab?token=...

	api := r.Group("/api", middleware.Auth())
	doc.NewHandler(docStore).Register(api.Group("/documents"))
	comment.NewHandler(commentStore, docStore).Register(api.Group("/comments"))

	addr := fmt.Sprintf(":%d", global.Global.Port)
	logger.Infof("[HTTP] Listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("HTTP server failed: %v", err)
	}
}
