package global

import (
	"os"
	"strconv"
	"time"

	"CollabProject/logger"
	"CollabProject/tools/ids"
)

type AppConfig struct {
	NodeID   string
	Port     int
	MongoURI string
	MongoDB  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret      string
	DebounceWindow time.Duration
}

var Global = AppConfig{
	NodeID:         "collab_1",
	Port:           8080,
	MongoURI:       "mongodb://localhost:27017",
	MongoDB:        "collabDocs",
	RedisAddr:      "127.0.0.1:6379",
	JWTSecret:      "mN9b1f8zPq+W2xjX/45sKcVd0TfyoG+3Hp5Z8q9Rj1o=",
	DebounceWindow: 500 * time.Millisecond,
}

// LoadEnv applies environment overrides onto the defaults above.
func LoadEnv() {
	if v := os.Getenv("NODE_ID"); v != "" {
		Global.NodeID = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			Global.Port = p
		}
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		Global.MongoURI = v
	}
	if v := os.Getenv("MONGO_DB"); v != "" {
		Global.MongoDB = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		Global.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		Global.RedisPassword = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		Global.JWTSecret = v
	}
	if v := os.Getenv("DEBOUNCE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			Global.DebounceWindow = time.Duration(ms) * time.Millisecond
		}
	}
}

func GetJwtSecret() []byte {
	return []byte(Global.JWTSecret)
}

func ConfigIds() {
	logger.Infof("configuring id generator node=%s", Global.NodeID)
	ids.SetNodeID(1)
}
