package main

import (
	"log"

	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/config"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/db"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/encryption"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/handlers/auth"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/handlers/ping"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/handlers/privateMessages"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/handlers/users"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/repository"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/routes"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/services/messaging"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/storage"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/utils"

	"github.com/gin-gonic/gin"
)

// @title Direct Messaging API
// @version 1.0
// @description Encrypted one-to-one messaging
// @host localhost:8080
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Entrez le JWT avec le préfixe Bearer: Bearer <JWT>
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	gin.SetMode(cfg.Server.GinMode)
	utils.InitFileLogging("logs")

	conn, err := db.Open(cfg.Database.URL)
	if err != nil {
		log.Fatal("Database initialisation failed: ", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		log.Fatal("Database handle unavailable: ", err)
	}
	defer sqlDB.Close()

	codec, err := encryption.NewCodec(cfg.Messaging.EncryptionKey)
	if err != nil {
		log.Fatal(err)
	}

	store, err := newAttachmentStore(cfg)
	if err != nil {
		log.Fatal("Attachment storage initialisation failed: ", err)
	}

	userRepo := repository.NewUserRepository(conn)
	svc, err := messaging.NewService(
		repository.NewMessageRepository(conn),
		repository.NewConversationRepository(conn),
		userRepo,
		codec,
		storage.NewJanitor(store),
		messaging.Options{
			EncryptMessages: cfg.Messaging.EncryptionEnabled,
			EditWindow:      cfg.Messaging.EditWindow,
		},
	)
	if err != nil {
		log.Fatal(err)
	}

	deps := routes.Deps{
		JWTSecret:       cfg.JWT.Secret,
		Ping:            ping.New(sqlDB),
		Auth:            auth.New(userRepo, cfg.JWT.Secret),
		Users:           users.New(userRepo),
		PrivateMessages: privateMessages.New(svc),
	}
	if cfg.Media.Storage == "local" {
		deps.UploadDir = cfg.Media.UploadDir
		deps.UploadURLPrefix = cfg.Media.URLPrefix
	}

	r := routes.SetupRouter(deps)

	utils.LogInfo("Server listening on :" + cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Server failed to start: ", err)
	}
}

func newAttachmentStore(cfg *config.Config) (storage.AttachmentStore, error) {
	if cfg.Media.Storage == "cloudinary" {
		cld, err := storage.NewCloudinaryStore(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			return nil, err
		}
		return cld, nil
	}
	return storage.NewLocalStore(cfg.Media.UploadDir, cfg.Media.URLPrefix), nil
}
